package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/convite-api/internal/app"
	"github.com/gravadigital/convite-api/internal/config"
	"github.com/gravadigital/convite-api/internal/logger"
	"github.com/gravadigital/convite-api/internal/server"
)

func main() {
	cfg := config.Load()
	var logOpts []logger.Option
	if cfg.IsProduction() {
		logOpts = append(logOpts, logger.JSON())
	}
	logger.Initialize(cfg.Server.LogLevel, logOpts...)
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("Failed to close storage", "error", err)
		}
	}()

	go a.Sweep(ctx, 5*time.Minute)

	srv := server.New(cfg, server.Dependencies{
		Services:      a.Services,
		Storage:       a.Storage,
		Issuer:        a.Issuer,
		Hub:           a.Hub,
		Metrics:       a.Metrics,
		PublicLimiter: a.PublicLimiter,
		UnlockLimiter: a.UnlockLimiter,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server stopped", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", "error", err)
		}
	}

	log.Info("Server exited")
}
