package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"feedpipe/internal/config"
	"feedpipe/internal/logger"
	"feedpipe/internal/pipeline"
)

func main() {
	cfg := config.LoadOrDefault()
	logger.Init(cfg.Logging.Level, cfg.Logging.Console)
	log := logger.WithComponent("main")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := pipeline.New(cfg)

	// run pipeline in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- p.Run(ctx)
	}()

	// wait for termination signals or pipeline completion
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	var err error
	select {
	case sig := <-sigs:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
		err = <-errCh
	case err = <-errCh:
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("pipeline failed")
		os.Exit(1)
	}
	log.Info().Msg("exited")
}
