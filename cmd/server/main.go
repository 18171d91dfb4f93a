// Wayfare - Hybrid Travel Recommendation Engine
// Copyright 2026 Wayfare Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wayfare-io/wayfare

// Command server runs the Wayfare recommendation API: it loads the
// precomputed artifacts, builds the hybrid engine, and serves HTTP
// under a supervision tree until SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/wayfare-io/wayfare/internal/api"
	"github.com/wayfare-io/wayfare/internal/artifact"
	"github.com/wayfare-io/wayfare/internal/config"
	"github.com/wayfare-io/wayfare/internal/encode"
	"github.com/wayfare-io/wayfare/internal/kg"
	"github.com/wayfare-io/wayfare/internal/logging"
	"github.com/wayfare-io/wayfare/internal/recommend"
	"github.com/wayfare-io/wayfare/internal/supervisor"
	"github.com/wayfare-io/wayfare/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "wayfare: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("artifacts_dir", cfg.Artifacts.Dir).
		Str("encoder_url", cfg.Encoder.URL).
		Msg("starting wayfare")

	store, err := artifact.Load(cfg.Artifacts.Paths())
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}

	graph, err := kg.Load(cfg.Artifacts.GraphPath())
	if err != nil {
		return fmt.Errorf("load knowledge graph: %w", err)
	}

	logger.Info().
		Int("items", store.Len()).
		Int("combined_dim", store.Dim()).
		Int("graph_nodes", graph.NodeCount()).
		Int("graph_edges", graph.EdgeCount()).
		Msg("artifacts loaded")

	encoder, err := encode.NewHTTPEncoder(encode.HTTPEncoderConfig{
		BaseURL:          cfg.Encoder.URL,
		Timeout:          cfg.Encoder.Timeout,
		FailureThreshold: cfg.Encoder.FailureThreshold,
		BreakerTimeout:   cfg.Encoder.BreakerTimeout,
	}, nil)
	if err != nil {
		return fmt.Errorf("build encoder: %w", err)
	}

	engine, err := recommend.NewEngine(store, graph, encoder, &cfg.Recommend, logger)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	router := api.NewRouter(engine, cfg.Server, func() api.HealthInfo {
		return api.HealthInfo{
			Items:      store.Len(),
			GraphNodes: graph.NodeCount(),
			GraphEdges: graph.EdgeCount(),
			Encoder:    encoder.BreakerState(),
		}
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(slog.Default(), treeCfg)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", cfg.Server.Addr()).Msg("listening")

	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor: %w", err)
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("service did not stop in time")
		}
	}

	logger.Info().Msg("shutdown complete")
	return nil
}
