package httpserver

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ServerOptions 는 http.Server 생성 옵션이다.
type ServerOptions struct {
	UseH2C            bool
	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// TraceOperation 이 비어있지 않으면 otelhttp 로 핸들러를 감싼다.
	TraceOperation string
}

// NewServer 는 옵션이 적용된 http.Server 를 생성한다.
func NewServer(addr string, handler http.Handler, opts ServerOptions) *http.Server {
	if handler == nil {
		handler = http.NewServeMux()
	}

	finalHandler := handler
	if opts.TraceOperation != "" {
		finalHandler = otelhttp.NewHandler(finalHandler, opts.TraceOperation)
	}
	if opts.UseH2C {
		// 평문 HTTP/2: 게임 UI 가 같은 호스트에서 연결을 재사용한다.
		finalHandler = h2c.NewHandler(finalHandler, &http2.Server{IdleTimeout: opts.IdleTimeout})
	}

	readHeaderTimeout := opts.ReadHeaderTimeout
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 5 * time.Second
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           finalHandler,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	if opts.IdleTimeout > 0 {
		server.IdleTimeout = opts.IdleTimeout
	}
	if opts.MaxHeaderBytes > 0 {
		server.MaxHeaderBytes = opts.MaxHeaderBytes
	}
	return server
}
