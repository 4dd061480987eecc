package main

import (
	"context"
	"internal-angle-service/internal/config"
	"internal-angle-service/internal/platform/obs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found (using environment variables)")
	}

	cfg := config.Load()
	obs.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		logrus.WithError(err).Error("anglectl failed")
		stop()
		os.Exit(1)
	}
}
