package main

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/catalog"
	"github.com/example/delicias-storefront/internal/checkout"
	"github.com/example/delicias-storefront/internal/config"
	"github.com/example/delicias-storefront/internal/domain/cart"
	"github.com/example/delicias-storefront/internal/domain/session"
	"github.com/example/delicias-storefront/internal/infrastructure/backend"
	"github.com/example/delicias-storefront/internal/infrastructure/kafka"
	"github.com/example/delicias-storefront/internal/infrastructure/store"
)

// app holds the stores and clients one CLI invocation works with.
type app struct {
	out      io.Writer
	logger   *zap.Logger
	catalog  *catalog.Client
	page     *catalog.Page
	cart     *cart.Store
	session  *session.Store
	checkout *checkout.Service
	closers  []func() error
}

// newApp opens the configured storage and wires the stores over it.
func newApp(ctx context.Context, cfg config.Config, out io.Writer, logger *zap.Logger) (*app, error) {
	kv, closeKV, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	a := wire(ctx, cfg, kv, out, logger)
	a.closers = append(a.closers, closeKV)
	return a, nil
}

func wire(ctx context.Context, cfg config.Config, kv store.KeyValueStore, out io.Writer, logger *zap.Logger) *app {
	api := backend.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	catalogClient := catalog.NewClient(api, logger)

	a := &app{
		out:     out,
		logger:  logger,
		catalog: catalogClient,
		page:    catalog.NewPage(catalogClient),
		cart:    cart.NewStore(ctx, kv, logger),
		session: session.NewStore(ctx, api, kv, logger),
	}

	notifier := checkout.Notifier(checkout.NewHTTPNotifier(api, checkout.PathSendEmail))
	switch {
	case len(cfg.KafkaBrokers) > 0:
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
		a.closers = append(a.closers, producer.Close)
		notifier = checkout.NewKafkaNotifier(producer)
	case cfg.OrderNotifyURL != "":
		notifier = checkout.NewHTTPNotifier(backend.NewClient(cfg.OrderNotifyURL, cfg.APITimeout), "")
	}
	a.checkout = checkout.NewService(a.cart, a.session, notifier, logger)
	return a
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
}
