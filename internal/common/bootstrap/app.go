package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/park285/healthquest-go/internal/common/httpserver"
)

// BackgroundTask 는 HTTP 서버와 함께 수명 주기를 공유하는 작업이다. (예: 미션 결과 스트림 소비자)
type BackgroundTask struct {
	Name        string
	ErrorLogKey string
	Run         func(ctx context.Context) error
}

// ServerApp 는 실행 준비가 끝난 서비스 구성 요소 묶음이다.
type ServerApp struct {
	Service         string
	Logger          *slog.Logger
	Server          *http.Server
	ShutdownTimeout time.Duration
	BackgroundTasks []BackgroundTask
}

// NewServerApp 는 ServerApp 을 생성한다. shutdownTimeout 이 0 이하면 10초다.
func NewServerApp(
	service string,
	logger *slog.Logger,
	server *http.Server,
	shutdownTimeout time.Duration,
	backgroundTasks ...BackgroundTask,
) *ServerApp {
	if logger == nil {
		logger = slog.Default()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &ServerApp{
		Service:         service,
		Logger:          logger,
		Server:          server,
		ShutdownTimeout: shutdownTimeout,
		BackgroundTasks: backgroundTasks,
	}
}

// Run 은 HTTP 서버와 백그라운드 작업을 errgroup 으로 함께 실행하고 모두 끝날 때까지 블로킹한다.
// SIGINT/SIGTERM, ctx 취소, 또는 어느 한쪽의 실패로 전체가 종료된다.
func (a *ServerApp) Run(ctx context.Context) error {
	if a == nil {
		return nil
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(signalCtx)
	for _, task := range a.BackgroundTasks {
		if task.Run != nil {
			g.Go(func() error { return a.runTask(gctx, task) })
		}
	}

	a.Logger.Info("server_start", "service", a.Service, "addr", a.Server.Addr, "background_tasks", len(a.BackgroundTasks))
	g.Go(func() error {
		if err := httpserver.Serve(gctx, a.Server, a.ShutdownTimeout); err != nil {
			return fmt.Errorf("http server serve failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run %s failed: %w", a.Service, err)
	}
	a.Logger.Info("server_stopped", "service", a.Service)
	return nil
}

func (a *ServerApp) runTask(ctx context.Context, task BackgroundTask) error {
	a.Logger.Info("background_task_start", "task", task.Name)
	if err := task.Run(ctx); err != nil {
		logKey := task.ErrorLogKey
		if logKey == "" {
			logKey = "background_task_failed"
		}
		a.Logger.Error(logKey, "task", task.Name, "err", err)
		return fmt.Errorf("%s failed: %w", task.Name, err)
	}
	return nil
}
