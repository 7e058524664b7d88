package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"nutrilog/internal/cli"
	apphttp "nutrilog/internal/http"
	nlog "nutrilog/internal/log"
	"nutrilog/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), nlog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel, nlog.ComponentApp)

	repo := cli.InitStore(context.Background(), logger, cfg)
	amqpClient := cli.InitAMQP(logger, cfg)

	svc := services.NewNutritionService(repo, cli.Publisher(amqpClient))

	srv := apphttp.NewServer(":"+cfg.Port, svc, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(context.Background(), logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := svc.Close(); err != nil {
			logger.Error("Service close error", "error", err)
		}
	})

	logger.Info("Starting nutrilog server",
		"port", cfg.Port,
		"amqp_enabled", cfg.AMQPEnabled(),
		"seed_catalog", cfg.SeedCatalog)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	<-done
	logger.Info("Server stopped gracefully")
}
