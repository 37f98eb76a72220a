// Package main renders the demo scene headlessly into PNG frames.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-shade/internal/config"
	"github.com/Faultbox/midgard-shade/internal/logger"
	"github.com/Faultbox/midgard-shade/internal/offline"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Midgard Shade Render ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r, err := offline.New(cfg)
	if err != nil {
		logger.Error("failed to create renderer", zap.Error(err))
		os.Exit(1)
	}

	sum, err := r.Run(ctx)
	if err != nil {
		logger.Error("render failed", zap.Error(err), zap.Int("frames_written", sum.Frames))
		os.Exit(1)
	}

	for _, f := range sum.Files {
		fmt.Println(f)
	}
}
