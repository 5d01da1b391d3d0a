package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/park285/healthquest-go/internal/common/bootstrap"
	"github.com/park285/healthquest-go/internal/common/health"
	hqapp "github.com/park285/healthquest-go/internal/heroquest/app"
	hqconfig "github.com/park285/healthquest-go/internal/heroquest/config"
)

// Version: 빌드 시 ldflags로 주입됨 (예: -ldflags="-X main.Version=1.0.0")
var Version = "dev"

func main() {
	health.Init(Version)

	logger := bootstrap.NewLogger()
	slog.SetDefault(logger)

	finalLogger, err := bootstrap.RunServiceEntrypoint(
		context.Background(),
		logger,
		"heroquest.log",
		hqconfig.LoadFromEnv,
		func(cfg *hqconfig.Config) bootstrap.LoggingOptions {
			return bootstrap.LoggingOptions{Log: cfg.Log, EnableOTel: cfg.Telemetry.Enabled}
		},
		hqapp.Initialize,
	)
	if err != nil {
		logger = finalLogger
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}
