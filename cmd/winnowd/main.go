// Command winnowd runs the winnow daemon: an HTTP API for triggering
// duplicate cleanup cycles and browsing run history.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"winnow/internal/cleanuprun"
	"winnow/internal/config"
	"winnow/internal/daemon"
	"winnow/internal/history"
	"winnow/internal/logging"
	"winnow/internal/notifications"
	"winnow/internal/services/jellyfin"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := history.Open(cfg)
	if err != nil {
		logger.Error("open history store", logging.Error(err))
		return
	}

	client := jellyfin.NewConfiguredClient(cfg)
	notifier := notifications.NewService(cfg)
	runner := cleanuprun.New(cfg, client, store, notifier, logger)

	d, err := daemon.New(cfg, runner, store, logger)
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		_ = store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		return
	}

	<-ctx.Done()
	logger.Info("winnowd shutting down")
}
