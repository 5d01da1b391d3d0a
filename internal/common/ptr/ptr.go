// Package ptr 는 부분 갱신 필드용 포인터 헬퍼를 제공한다.
package ptr

// Int: int 포인터를 만든다.
func Int(v int) *int { return &v }

// Of: 임의 값의 포인터를 만든다.
func Of[T any](v T) *T { return &v }
