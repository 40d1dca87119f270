package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pravado/citemind/internal/cache"
	"github.com/pravado/citemind/internal/config"
	"github.com/pravado/citemind/internal/kpi"
	"github.com/pravado/citemind/internal/logging"
	"github.com/pravado/citemind/internal/publisher"
	"github.com/pravado/citemind/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	once := flag.Bool("once", false, "Run a single refresh cycle, print snapshots as JSON and exit")
	metric := flag.String("metric", "", "With -once, refresh only this metric")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("KPI service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	if err := checkMetricFlag(cfg.KPI, *once, *metric); err != nil {
		logger.Fatal("Invalid flags", "error", err)
	}

	snapshotCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to initialize cache", "error", err)
	}
	defer func() { _ = snapshotCache.Close() }()
	logger.Info("Snapshot cache ready", "type", cfg.Cache.Type, "ttl", cfg.Cache.TTL)

	pub, err := publisher.New(cfg.Publisher)
	if err != nil {
		logger.Fatal("Failed to connect publisher", "error", err)
	}
	defer func() { _ = pub.Close() }()
	logger.Info("Publisher ready", "type", cfg.Publisher.Type)

	service, err := kpi.NewServiceFromConfig(cfg.KPI, cfg.Source, snapshotCache, pub, logger)
	if err != nil {
		logger.Fatal("Failed to create KPI service", "error", err)
	}

	if *once {
		if err := runOnce(service, *metric, os.Stdout); err != nil {
			logger.Error("Refresh failed", "error", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	poller := kpi.NewPoller(logger, service, cfg.KPI.PollInterval)
	poller.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down KPI service...")
	cancel()
	poller.Stop()
	logger.Info("KPI service exited")
}

// checkMetricFlag rejects a -metric that is unused or not configured
func checkMetricFlag(cfg config.KPIConfig, once bool, metric string) error {
	if metric == "" {
		return nil
	}
	if !once {
		return fmt.Errorf("-metric requires -once")
	}
	if _, ok := cfg.Metric(metric); !ok {
		return fmt.Errorf("unknown metric %q", metric)
	}
	return nil
}

// runOnce refreshes every metric (or just one) and writes the snapshots as indented JSON
func runOnce(service *kpi.Service, metric string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), utils.DefaultRefreshTimeout)
	defer cancel()

	var (
		snapshots []*kpi.Snapshot
		err       error
	)
	if metric != "" {
		var snap *kpi.Snapshot
		snap, err = service.RefreshMetric(ctx, metric)
		if snap != nil {
			snapshots = append(snapshots, snap)
		}
	} else {
		snapshots, err = service.RefreshAll(ctx)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(snapshots); encErr != nil {
		return fmt.Errorf("failed to encode snapshots: %w", encErr)
	}
	return err
}
