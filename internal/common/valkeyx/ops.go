package valkeyx

import (
	"context"
	"strings"

	"github.com/valkey-io/valkey-go"

	cerrors "github.com/park285/healthquest-go/internal/common/errors"
)

// Key 는 prefix 뒤에 parts 를 ':' 로 이어 붙인다. 각 part 의 앞뒤 공백은 제거한다.
// 예: Key("hq:local", "kiosk-1", "points") == "hq:local:kiosk-1:points"
func Key(prefix string, parts ...string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, part := range parts {
		b.WriteByte(':')
		b.WriteString(strings.TrimSpace(part))
	}
	return b.String()
}

// WrapRedisError 는 명령 실패를 RedisError 로 감싼다. nil 응답은 호출부가 IsNil 로 판별하도록 그대로 둔다.
func WrapRedisError(operation string, err error) error {
	if err == nil || IsNil(err) {
		return err
	}
	return cerrors.RedisError{Operation: operation, Err: err}
}

// GetBytes: 키의 값을 읽는다. 키가 없으면 ok=false, err=nil 을 반환한다.
func GetBytes(ctx context.Context, client valkey.Client, key string) ([]byte, bool, error) {
	raw, err := client.Do(ctx, client.B().Get().Key(key).Build()).AsBytes()
	if err != nil {
		if IsNil(err) {
			return nil, false, nil
		}
		return nil, false, WrapRedisError("get", err)
	}
	return raw, true, nil
}

// SetString: 키에 값을 만료 없이 저장한다.
func SetString(ctx context.Context, client valkey.Client, key string, value string) error {
	if err := client.Do(ctx, client.B().Set().Key(key).Value(value).Build()).Error(); err != nil {
		return WrapRedisError("set", err)
	}
	return nil
}
