// Package main is the entry point for the headless planet generator.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/planetgen/internal/camera"
	"github.com/Faultbox/planetgen/internal/config"
	"github.com/Faultbox/planetgen/internal/logger"
	"github.com/Faultbox/planetgen/internal/runner"
	"github.com/Faultbox/planetgen/internal/scene"
	"github.com/Faultbox/planetgen/internal/streaming"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileConfig(cfg.Logging), true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Planetgen ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path := config.DumpPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Error("failed to dump config", zap.String("path", path), zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config written", zap.String("path", path))
	}

	if err := run(cfg); err != nil {
		logger.Error("planetgen failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func fileConfig(l config.LoggingConfig) logger.FileConfig {
	if l.LogFile == "" {
		return logger.FileConfig{}
	}
	fc := logger.DefaultFileConfig(l.LogFile)
	if l.MaxSizeMB > 0 {
		fc.MaxSizeMB = l.MaxSizeMB
	}
	if l.MaxBackups > 0 {
		fc.MaxBackups = l.MaxBackups
	}
	if l.MaxAgeDays > 0 {
		fc.MaxAgeDays = l.MaxAgeDays
	}
	fc.Compress = l.Compress
	return fc
}

func run(cfg *config.Config) error {
	if len(cfg.Planets) == 0 {
		return errors.New("no planets configured")
	}

	sc := scene.New(nil)
	session := streaming.New(sc, streaming.Options{
		ViewDistance:          cfg.Streaming.ViewDistance,
		MaxInstantiatePerTick: cfg.Streaming.MaxInstantiatePerTick,
	})
	if err := session.SubmitAll(cfg.Planets); err != nil {
		return fmt.Errorf("submit planets: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := session.StartGeneration(ctx); err != nil {
		return fmt.Errorf("start generation: %w", err)
	}
	defer func() {
		session.Shutdown()
		session.Wait()
	}()

	first := session.Planets()[0]
	cam := camera.NewOrbit(first.Center, first.Radius, cfg.Viewer.OrbitDistance, cfg.Viewer.OrbitSpeed)
	r, err := runner.New(session, cam, float64(cfg.Streaming.TickRateHz))
	if err != nil {
		return err
	}

	sum, err := r.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted", zap.Int("tracked", sum.Stats.Tracked))
		return nil
	}
	if err != nil {
		return err
	}

	st := sc.Stats()
	fmt.Printf("planets:    %d\n", len(session.Planets()))
	fmt.Printf("chunks:     %d (%d shown)\n", sum.Stats.Tracked, sum.Shown)
	fmt.Printf("triangles:  %d visible\n", st.Triangles)
	fmt.Printf("instances:  %d visible\n", st.Instances)
	fmt.Printf("materials:  %d\n", st.Materials)
	fmt.Printf("elapsed:    %s over %d ticks\n", sum.Elapsed.Round(time.Millisecond), sum.Ticks)
	return nil
}
