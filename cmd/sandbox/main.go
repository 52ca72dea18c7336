package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/config"
	"github.com/example/delicias-storefront/internal/email"
	"github.com/example/delicias-storefront/internal/infrastructure/kafka"
	"github.com/example/delicias-storefront/internal/logger"
	"github.com/example/delicias-storefront/internal/notification"
	"github.com/example/delicias-storefront/internal/sandbox"
)

const consumerGroup = "sandbox-mailer"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("sandbox stopped", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Sandbox.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, using an insecure development secret")
	}

	mailer := email.NewService(cfg.Sandbox.SMTPHost, cfg.Sandbox.SMTPPort, cfg.Sandbox.SMTPFrom, log)
	orders := notification.NewHandler(mailer, log)

	var wg sync.WaitGroup
	if len(cfg.KafkaBrokers) > 0 {
		consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaOrderTopic, consumerGroup, log)
		defer consumer.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info("consuming order events",
				zap.Strings("brokers", cfg.KafkaBrokers),
				zap.String("topic", cfg.KafkaOrderTopic),
				zap.String("group", consumerGroup),
			)
			if err := consumer.Consume(ctx, orders.HandleEvent); err != nil && ctx.Err() == nil {
				log.Error("order consumer stopped", zap.Error(err))
			}
		}()
	}

	server := &http.Server{
		Addr: cfg.Sandbox.Addr,
		Handler: sandbox.NewRouter(sandbox.Options{
			Fixtures:  sandbox.DefaultFixtures(),
			JWTSecret: cfg.Sandbox.JWTSecret,
			Orders:    orders,
			Logger:    log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("sandbox listening", zap.String("addr", cfg.Sandbox.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case err := <-errCh:
		return err
	}

	log.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("server shutdown", zap.Error(err))
	}

	wg.Wait()
	return nil
}
