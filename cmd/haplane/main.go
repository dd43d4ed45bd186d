// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command haplane runs the HA control-plane daemon: it reconciles cluster
// address topology and resource descriptors from configuration and relation
// documents, submits resources to the cluster manager, and serves the
// status API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"grimm.is/haplane/internal/api"
	"grimm.is/haplane/internal/config"
	"grimm.is/haplane/internal/logging"
	"grimm.is/haplane/internal/metrics"
	"grimm.is/haplane/internal/netaddr"
	"grimm.is/haplane/internal/reconciler"
	"grimm.is/haplane/internal/relations"
	"grimm.is/haplane/internal/sink"
	"grimm.is/haplane/internal/state"
)

const (
	defaultConfigFile  = "/etc/haplane/haplane.hcl"
	defaultBindingPath = "/etc/haplane/binding.yaml"
	watchDebounce      = 500 * time.Millisecond
	shutdownTimeout    = 10 * time.Second
)

func main() {
	configFile := flag.String("config", defaultConfigFile, "Path to HCL config file")
	oneshot := flag.Bool("oneshot", false, "Run a single reconciliation pass and exit")
	flag.Parse()

	if err := run(*configFile, *oneshot); err != nil {
		fmt.Fprintf(os.Stderr, "haplane: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile string, oneshot bool) error {
	cfg, err := config.LoadFile(configFile)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	logging.SetDefault(logger)

	mets := metrics.NewMetrics()
	registry := prometheus.NewRegistry()
	if err := mets.Register(registry); err != nil {
		return err
	}

	rec := reconciler.New(reconciler.Options{
		Config:     cfg,
		Classifier: netaddr.NewClassifier(netaddr.NetlinkInterfaces{}),
		Source:     relations.NewFileStore(cfg.Relations.Dir),
		Sink:       sink.NewCRMSink(defaultBindingPath, logger),
		Store:      state.NewFileStore(cfg.StateFile),
		Metrics:    mets,
		Logger:     logger,
	})

	if oneshot {
		return rec.Reconcile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// First pass before serving: a failure here is not fatal, relation
	// documents may simply not have arrived yet.
	if err := rec.Reconcile(); err != nil {
		logger.Warn("initial reconciliation failed", "error", err)
	}

	if err := os.MkdirAll(cfg.Relations.Dir, 0o755); err != nil {
		return fmt.Errorf("creating relations directory: %w", err)
	}
	watcher, err := relations.NewWatcher(cfg.Relations.Dir, watchDebounce, logger, func() {
		if err := rec.Reconcile(); err != nil {
			logger.Warn("reconciliation failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	go watcher.Run(ctx)

	srv := api.NewServer(cfg.API.Listen, rec, registry, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logger.Info("haplane started",
		"service", cfg.ServiceName,
		"node", cfg.NodeID,
		"relations_dir", cfg.Relations.Dir,
		"api", cfg.API.Listen)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
