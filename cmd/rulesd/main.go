// Package main runs the rules daemon: the derivation pass, upgrade engine,
// and prestige checks served over gRPC.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"time"

	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/cory-johannsen/swse/internal/config"
	"github.com/cory-johannsen/swse/internal/observability"
	"github.com/cory-johannsen/swse/internal/server"
)

func main() {
	start := time.Now()
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	healthInterval := flag.Duration("health-interval", 30*time.Second, "database health check interval")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.Logging, "rulesd")
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	app, cleanup, err := initializeApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("initializing rules daemon", zap.Error(err))
	}
	defer cleanup()

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", cfg.RPC.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", cfg.RPC.Addr(), err)
			}
			logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
			return app.Server.Serve(lis)
		},
		StopFn: func() {
			app.Health.Shutdown()
			app.Server.GracefulStop()
		},
	})
	if app.Pool != nil {
		lifecycle.Add("postgres-health", server.NewPeriodic(*healthInterval, func(ctx context.Context) {
			stats, err := app.Pool.Probe(ctx, 5*time.Second)
			if err != nil {
				logger.Warn("database health check failed", zap.Error(err))
				app.Health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
				return
			}
			logger.Debug("database healthy",
				zap.Duration("latency", stats.Latency),
				zap.Int32("conns", stats.Total),
				zap.Int32("idle", stats.Idle),
				zap.Int32("acquired", stats.Acquired),
			)
			app.Health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		}))
	}

	logger.Info("rules daemon initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("grpc_addr", cfg.RPC.Addr()),
		zap.String("storage", cfg.RPC.Storage),
		zap.String("slot_policy", cfg.Rules.SlotPolicy),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		cleanup()
		os.Exit(1)
	}
}
