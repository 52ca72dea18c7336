package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap/zapcore"

	"github.com/example/delicias-storefront/internal/config"
	"github.com/example/delicias-storefront/internal/logger"
)

func main() {
	registry := NewCommandRegistry()
	registerCommands(registry)

	cmd, err := registry.Lookup(os.Args[1:])
	if err != nil {
		registry.PrintHelp(os.Stderr)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if cmd == nil {
		registry.PrintHelp(os.Stdout)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	level := zapcore.WarnLevel
	if cfg.Env == "development" {
		level = zapcore.InfoLevel
	}
	log := logger.NewWithWriter(os.Stderr, level)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, cfg, os.Stdout, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	err = cmd.Run(ctx, a, os.Args[2:])
	a.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
