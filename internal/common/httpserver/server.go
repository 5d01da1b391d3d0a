package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

func isClosed(err error) bool {
	return err == nil || errors.Is(err, http.ErrServerClosed)
}

// Serve: HTTP 서버를 시작하고 ctx 가 끝나면 shutdownTimeout 안에 우아하게 종료합니다.
func Serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if isClosed(err) {
			return nil
		}
		return fmt.Errorf("http server listen failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	if err := <-errCh; !isClosed(err) {
		return fmt.Errorf("http server stopped with error: %w", err)
	}
	return nil
}
