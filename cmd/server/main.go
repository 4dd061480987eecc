package main

import (
	"context"
	"internal-angle-service/internal/adapters/cache"
	"internal-angle-service/internal/adapters/crs"
	"internal-angle-service/internal/adapters/geodesic"
	"internal-angle-service/internal/adapters/wkt"
	"internal-angle-service/internal/api"
	"internal-angle-service/internal/config"
	"internal-angle-service/internal/platform/metrics"
	"internal-angle-service/internal/platform/obs"
	"internal-angle-service/internal/services"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires concrete adapters (WKT, CRS table, WGS84, Redis) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found (using environment variables)")
	}

	cfg := config.Load()
	obs.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	proc := &services.PairProcessor{
		Parser:     wkt.NewParser(),
		Classifier: crs.NewClassifier(),
		Model:      geodesic.WGS84(),
		Metrics:    metrics.New(reg),
		DefaultCRS: cfg.DefaultCRS,
	}

	// The result cache is optional; without REDIS_ADDR every request computes.
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logrus.WithError(err).WithField("addr", cfg.RedisAddr).Warn("redis unreachable, result cache disabled")
		} else {
			proc.Cache = cache.NewRedisAngleCache(client, cfg.CacheTTL)
			logrus.WithField("addr", cfg.RedisAddr).Info("result cache enabled")
		}
	}

	router := api.NewRouter(proc, reg, api.Options{
		BatchConcurrency: cfg.BatchConcurrency,
		MaxBatch:         cfg.BatchSize,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Warn("graceful shutdown failed")
		}
	}()

	logrus.WithFields(logrus.Fields{"addr": srv.Addr, "default_crs": cfg.DefaultCRS}).Info("Server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("server failed")
	}
}
