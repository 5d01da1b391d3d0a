package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/valkey-io/valkey-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/park285/healthquest-go/internal/common/bootstrap"
	"github.com/park285/healthquest-go/internal/common/dbutil"
	"github.com/park285/healthquest-go/internal/common/health"
	"github.com/park285/healthquest-go/internal/common/httpserver"
	"github.com/park285/healthquest-go/internal/common/telemetry"
	"github.com/park285/healthquest-go/internal/common/valkeyx"
	"github.com/park285/healthquest-go/internal/heroquest/config"
	"github.com/park285/healthquest-go/internal/heroquest/httpapi"
	"github.com/park285/healthquest-go/internal/heroquest/localstore"
	hqmq "github.com/park285/healthquest-go/internal/heroquest/mq"
	"github.com/park285/healthquest-go/internal/heroquest/narration"
	"github.com/park285/healthquest-go/internal/heroquest/progress"
	"github.com/park285/healthquest-go/internal/heroquest/remote"
)

func noop() {}

func newTelemetry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (func(), error) {
	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry failed: %w", err)
	}
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerTuning.ShutdownTimeout)
		defer cancel()
		if shutdownErr := provider.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("telemetry_shutdown_failed", "err", shutdownErr)
		}
	}
	return cleanup, nil
}

// newValkey: 로컬 저장소나 스트림이 Valkey 를 쓸 때만 연결한다.
func newValkey(ctx context.Context, cfg *config.Config, logger *slog.Logger) (valkey.Client, func(), error) {
	if !cfg.NeedsValkey() {
		return nil, noop, nil
	}
	client, closeFn, err := bootstrap.NewAndPingValkeyClient(ctx, cfg.Redis, "heroquest", logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init valkey failed: %w", err)
	}
	health.Register("valkey", func(ctx context.Context) string {
		if pingErr := valkeyx.Ping(ctx, client); pingErr != nil {
			return pingErr.Error()
		}
		return ""
	})
	return client, closeFn, nil
}

func newLocalBackend(cfg *config.Config, client valkey.Client, logger *slog.Logger) (localstore.Backend, func(), error) {
	switch cfg.Local.Driver {
	case localstore.DriverValkey:
		if client == nil {
			return nil, nil, errors.New("valkey local store requires a valkey client")
		}
		return localstore.NewValkeyBackend(client, cfg.Local.KeyPrefix, cfg.Redis.Timeout), noop, nil
	case localstore.DriverSQLite:
		backend, err := localstore.OpenSQLiteBackend(cfg.Local.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open local sqlite failed: %w", err)
		}
		closeFn := func() {
			if closeErr := backend.Close(); closeErr != nil {
				logger.Warn("local_sqlite_close_failed", "err", closeErr)
			}
		}
		return backend, closeFn, nil
	default:
		return localstore.NewMemoryBackend(), noop, nil
	}
}

// newRemoteRepository: 원격이 꺼져 있거나 시작 시 연결에 실패하면 Disabled 로 동작한다.
// 진행도 연산은 원격 없이도 로컬 상태를 유지한다.
func newRemoteRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (progress.ProfileRepository, func(), error) {
	if !cfg.Remote.Enabled {
		logger.Info("remote_sync_disabled")
		health.Register("remote", func(context.Context) string { return "" })
		return remote.Disabled{}, noop, nil
	}

	db, err := dbutil.OpenWithRetry(ctx, func(context.Context) (*gorm.DB, error) {
		return openPostgres(cfg.Postgres)
	}, dbutil.DefaultRetryConfig(), logger)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, fmt.Errorf("open postgres failed: %w", err)
		}
		logger.Warn("remote_unavailable_at_startup", "host", cfg.Postgres.Host, "err", err)
		health.Register("remote", func(context.Context) string { return "unavailable at startup" })
		return remote.Disabled{}, noop, nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db failed: %w", err)
	}
	closeFn := func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			logger.Warn("postgres_close_failed", "err", closeErr)
		}
	}

	repo, cleanup := adoptRemote(ctx, remote.NewGormRepository(db, remote.WithTimeout(cfg.Remote.Timeout)), closeFn, logger)
	return repo, cleanup, nil
}

// remoteStore: 스키마 준비와 헬스 체크가 가능한 원격 저장소
type remoteStore interface {
	progress.ProfileRepository
	AutoMigrate(ctx context.Context) error
	Ping(ctx context.Context) error
}

// adoptRemote: 스키마 준비에 실패하면 연결을 닫고 Disabled 로 동작한다.
func adoptRemote(ctx context.Context, repo remoteStore, closeFn func(), logger *slog.Logger) (progress.ProfileRepository, func()) {
	if err := repo.AutoMigrate(ctx); err != nil {
		logger.Warn("remote_migrate_failed", "err", err)
		closeFn()
		health.Register("remote", func(context.Context) string { return "schema migration failed at startup" })
		return remote.Disabled{}, noop
	}
	health.Register("remote", func(ctx context.Context) string {
		if pingErr := repo.Ping(ctx); pingErr != nil {
			return pingErr.Error()
		}
		return ""
	})
	return repo, closeFn
}

func openPostgres(cfg config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("gorm open failed: %w", err)
	}
	return db, nil
}

func newHub(cfg *config.Config, backend localstore.Backend, repo progress.ProfileRepository, logger *slog.Logger) *progress.Hub {
	stores := localstore.NewRegistry(backend, logger)
	logger.Info("local_store_ready", "driver", stores.Driver(), "default_device", cfg.Local.DeviceID)
	return progress.NewHub(stores, repo, logger, progress.WithLocation(cfg.Clock.Location))
}

func newNarrator(cfg *config.Config, logger *slog.Logger) (*narration.Narrator, error) {
	var generator narration.TextGenerator
	if cfg.Narration.APIKey != "" {
		anthropicGen, err := narration.NewAnthropicGenerator(cfg.Narration.APIKey, cfg.Narration.Model, cfg.Narration.MaxTokens)
		if err != nil {
			return nil, fmt.Errorf("create narration generator failed: %w", err)
		}
		generator = anthropicGen
	} else {
		logger.Info("narration_generator_disabled")
	}

	narrator, err := narration.NewNarrator(generator, cfg.Narration.Timeout, logger)
	if err != nil {
		return nil, fmt.Errorf("create narrator failed: %w", err)
	}
	return narrator, nil
}

func newHTTPMux(cfg *config.Config, hub *progress.Hub, narrator *narration.Narrator, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	httpapi.Register(mux, hub, narrator, cfg.Local.DeviceID, logger)
	return mux
}

func newHTTPServer(cfg *config.Config, mux *http.ServeMux) *http.Server {
	traceOperation := ""
	if cfg.Telemetry.Enabled {
		traceOperation = config.ServiceName
	}
	return httpserver.NewServer(cfg.Server.Addr(), mux, httpserver.ServerOptions{
		UseH2C:            true,
		ReadHeaderTimeout: cfg.ServerTuning.ReadHeaderTimeout,
		IdleTimeout:       cfg.ServerTuning.IdleTimeout,
		MaxHeaderBytes:    cfg.ServerTuning.MaxHeaderBytes,
		TraceOperation:    traceOperation,
	})
}

func newServerApp(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	client valkey.Client,
	hub *progress.Hub,
) *bootstrap.ServerApp {
	var tasks []bootstrap.BackgroundTask
	if cfg.Stream.Enabled {
		consumer := hqmq.NewConsumer(client, cfg.Stream, logger)
		handler := hqmq.NewMissionResultHandler(hub, logger)
		tasks = append(tasks, bootstrap.BackgroundTask{
			Name:        "mission_result_consumer",
			ErrorLogKey: "mission_result_consumer_failed",
			Run: func(ctx context.Context) error {
				return consumer.Run(ctx, handler.Handle)
			},
		})
	}

	return bootstrap.NewServerApp(config.ServiceName, logger, server, cfg.ServerTuning.ShutdownTimeout, tasks...)
}
