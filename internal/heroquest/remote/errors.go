package remote

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Kind 는 원격 호출 실패 분류다.
type Kind string

// 원격 에러 분류
const (
	KindNotFound      Kind = "not_found"
	KindUnreachable   Kind = "unreachable"
	KindNotConfigured Kind = "not_configured"
	KindRejected      Kind = "rejected"
)

// Error 는 원격 저장소 호출 결과 에러다. 호출자는 Kind 로 분기한다.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("remote %s failed: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("remote %s failed: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound 는 레코드 없음 에러를 만든다. 삽입 분기의 신호이지 장애가 아니다.
func NotFound(op string) error {
	return &Error{Kind: KindNotFound, Op: op}
}

// KindOf 는 err 를 분류한다. nil 이면 빈 Kind 를 반환한다.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return classifyKind(err)
}

// IsNotFound 는 err 가 레코드 없음인지 확인한다.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func classifyKind(err error) Kind {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindUnreachable
	case errors.Is(err, gorm.ErrDuplicatedKey),
		errors.Is(err, gorm.ErrForeignKeyViolated),
		errors.Is(err, gorm.ErrCheckConstraintViolated),
		errors.Is(err, gorm.ErrInvalidData):
		return KindRejected
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "constraint") || strings.Contains(msg, "violates") {
		return KindRejected
	}
	return KindUnreachable
}

// wrap 은 드라이버 에러를 분류해 *Error 로 감싼다.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return err
	}
	return &Error{Kind: classifyKind(err), Op: op, Err: err}
}
