// Package health: 서비스 상태 정보
package health

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"
)

// 상태 값
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Check: 구성 요소 상태를 보고하는 함수. 빈 문자열이면 정상이다.
type Check func(ctx context.Context) string

var (
	startTime time.Time
	version   = "dev"
	initOnce  sync.Once

	checksMu sync.RWMutex
	checks   = map[string]Check{}
)

// Init: 서비스 시작 시 호출 (버전 정보 설정)
func Init(v string) {
	initOnce.Do(func() {
		startTime = time.Now()
		if v != "" {
			version = v
		}
	})
}

// Register: 구성 요소 상태 검사를 등록한다. 같은 이름은 덮어쓴다.
func Register(name string, check Check) {
	checksMu.Lock()
	defer checksMu.Unlock()
	checks[name] = check
}

// Response: /health 엔드포인트 표준 응답
type Response struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	Uptime     string            `json:"uptime"`
	Goroutines int               `json:"goroutines"`
	Components map[string]string `json:"components,omitempty"`
}

// Get: 현재 상태 반환. 구성 요소 하나라도 이상을 보고하면 degraded 다.
func Get(ctx context.Context) Response {
	checksMu.RLock()
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := StatusOK
	var components map[string]string
	for _, name := range names {
		detail := checks[name](ctx)
		if detail == "" {
			detail = StatusOK
		} else {
			status = StatusDegraded
		}
		if components == nil {
			components = make(map[string]string, len(names))
		}
		components[name] = detail
	}
	checksMu.RUnlock()

	return Response{
		Status:     status,
		Version:    version,
		Uptime:     formatDuration(time.Since(startTime)),
		Goroutines: runtime.NumGoroutine(),
		Components: components,
	}
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}
