package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/config"
	"github.com/example/delicias-storefront/internal/email"
	"github.com/example/delicias-storefront/internal/infrastructure/kinesis"
	"github.com/example/delicias-storefront/internal/logger"
	"github.com/example/delicias-storefront/internal/notification"
)

// Lambda entrypoint for order confirmations: reads OrderPlaced events from a
// Kinesis stream and mails the customer.

var (
	notificationHandler *notification.Handler
	log                 *zap.Logger
)

func init() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err = logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	log = log.Named("lambda-notifier")

	mailer := email.NewService(cfg.Sandbox.SMTPHost, cfg.Sandbox.SMTPPort, cfg.Sandbox.SMTPFrom, log)
	notificationHandler = notification.NewHandler(mailer, log)

	log.Info("initialized", zap.String("smtp_host", cfg.Sandbox.SMTPHost), zap.String("smtp_port", cfg.Sandbox.SMTPPort))
}

func handler(ctx context.Context, batch events.KinesisEvent) (events.KinesisEventResponse, error) {
	return kinesis.ProcessBatch(ctx, batch, notificationHandler.HandleEvent, log), nil
}

func main() {
	lambda.Start(handler)
}
