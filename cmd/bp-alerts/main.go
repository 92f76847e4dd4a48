package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budgetplanner/internal/amqp"
	"budgetplanner/internal/cli"
	"budgetplanner/internal/log"
	"budgetplanner/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig(os.Getenv("BP_CONFIG"))
	if err != nil {
		log.New(log.DefaultConfig()).ErrorContext(context.Background(), "Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	logger, err := cli.SetupLogger(cfg.LogLevel)
	if err != nil {
		log.New(log.DefaultConfig()).ErrorContext(context.Background(), "Invalid log level", log.FieldError, err)
		os.Exit(1)
	}
	logger = logger.WithComponent(log.ComponentWorker)

	if cfg.AMQPURL == "" {
		logger.ErrorContext(context.Background(), "AMQP_URL is required for the alert worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.ErrorContext(context.Background(), "Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func() {
		_ = client.Close()
	})

	logger.InfoContext(ctx, "Starting budget alert worker", log.FieldOperation, log.OpStartup, "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	w := worker.NewAlertWorker(client, logger)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.ErrorContext(ctx, "Alert consumption failed", log.FieldError, err)
		_ = client.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.InfoContext(context.Background(), "Budget alert worker stopped", log.FieldOperation, log.OpShutdown)
}
