package app

import (
	"context"
	"log/slog"

	"github.com/park285/healthquest-go/internal/common/bootstrap"
	"github.com/park285/healthquest-go/internal/heroquest/config"
)

// Initialize 는 HeroQuest 애플리케이션 의존성을 초기화하고 ServerApp을 반환한다.
func Initialize(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*bootstrap.ServerApp, func(), error) {
	cleanupTelemetry, err := newTelemetry(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	client, cleanupValkey, err := newValkey(ctx, cfg, logger)
	if err != nil {
		cleanupTelemetry()
		return nil, nil, err
	}

	backend, cleanupBackend, err := newLocalBackend(cfg, client, logger)
	if err != nil {
		cleanupValkey()
		cleanupTelemetry()
		return nil, nil, err
	}

	repo, cleanupRemote, err := newRemoteRepository(ctx, cfg, logger)
	if err != nil {
		cleanupBackend()
		cleanupValkey()
		cleanupTelemetry()
		return nil, nil, err
	}

	narrator, err := newNarrator(cfg, logger)
	if err != nil {
		cleanupRemote()
		cleanupBackend()
		cleanupValkey()
		cleanupTelemetry()
		return nil, nil, err
	}

	hub := newHub(cfg, backend, repo, logger)
	httpServer := newHTTPServer(cfg, newHTTPMux(cfg, hub, narrator, logger))
	serverApp := newServerApp(cfg, logger, httpServer, client, hub)

	cleanup := func() {
		cleanupRemote()
		cleanupBackend()
		cleanupValkey()
		cleanupTelemetry()
	}
	return serverApp, cleanup, nil
}
