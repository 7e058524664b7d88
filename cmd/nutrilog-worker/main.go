package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"nutrilog/internal/cli"
	nlog "nutrilog/internal/log"
	"nutrilog/internal/services"
	"nutrilog/internal/storage"
	"nutrilog/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), nlog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel, nlog.ComponentWorker)

	logger.Info("Starting nutrilog-worker")

	// The worker only reads the store; seeding is left to the server.
	repo := cli.InitStore(context.Background(), logger, cfg, storage.WithSeedCatalog(false))
	svc := services.NewNutritionService(repo, nil)
	defer svc.Close()

	writer := cli.InitTotalsWriter(context.Background(), logger, cfg)
	reportWorker := worker.NewReportWorker(svc, writer)

	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx, done := cli.GracefulShutdown(rootCtx, logger, 30*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)

	if amqpClient != nil {
		g.Go(func() error {
			return amqpClient.ConsumeDayChanged(gctx, reportWorker.HandleDayChanged)
		})
	} else {
		logger.Info("Skipping AMQP message consumption - AMQP disabled")
	}

	g.Go(func() error {
		return reportWorker.RunPeriodic(gctx, cfg.ReportInterval)
	})

	err := g.Wait()
	cancel()
	<-done

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
