// Package testhelper 는 패키지 테스트에서 공유하는 인프라 픽스처를 제공한다.
package testhelper

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"
)

// NewMiniredisClient: 테스트 전용 miniredis 서버와 여기에 연결된 Valkey 클라이언트를 만든다.
// 둘 다 t.Cleanup 으로 정리된다.
func NewMiniredisClient(t *testing.T) (*miniredis.Miniredis, valkey.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mr.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		t.Fatalf("create valkey client failed: %v", err)
	}
	t.Cleanup(client.Close)

	return mr, client
}
