// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

// Package main is the entry point for the signalcast server.
//
// Signalcast simulates a marketing campaign recommendation pipeline: it
// aggregates behavioral signals from configurable data sources, runs them
// through a rule-based decision engine, validates every produced document
// against the recommendation schema, and streams the results to websocket
// clients in real time.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered load from defaults, config file, and env (Koanf v2)
//  2. Sources: static catalog plus the mutable per-source registry
//  3. Gateway: upstream fetches with retries, failure tracking, circuit breaker
//  4. Engine: signal aggregation, segment selection, channel ranking
//  5. Validator: schema validation, sanitization, running statistics
//  6. Hub and Streamer: websocket connections and recommendation delivery
//  7. Supervisor tree: messaging and API layers under suture/v4
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (HTTP_PORT, LOG_LEVEL, GATEWAY_TIMEOUT, ...)
//   - Config file (config.yaml, or CONFIG_PATH)
//   - Built-in defaults
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP server
// stops accepting connections and drains in-flight requests, the hub closes
// every websocket with a shutdown notice, and the streamer cancels all
// simulation tasks.
//
// # Example Usage
//
//	export HTTP_PORT=8080
//	export LOG_LEVEL=debug
//	./signalcast
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/signalcast/signalcast/internal/api"
	"github.com/signalcast/signalcast/internal/config"
	"github.com/signalcast/signalcast/internal/engine"
	"github.com/signalcast/signalcast/internal/gateway"
	"github.com/signalcast/signalcast/internal/hub"
	"github.com/signalcast/signalcast/internal/logging"
	"github.com/signalcast/signalcast/internal/metrics"
	"github.com/signalcast/signalcast/internal/schema"
	"github.com/signalcast/signalcast/internal/sources"
	"github.com/signalcast/signalcast/internal/stream"
	"github.com/signalcast/signalcast/internal/supervisor"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Int("port", cfg.Server.Port).
		Msg("Starting signalcast")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	startedAt := time.Now()

	// Wire the pipeline: registry -> gateway -> engine -> validator.
	registry := sources.NewRegistry()
	mock := sources.NewMockGenerator()
	gw := gateway.New(registry, mock, gateway.Options{
		Timeout:          cfg.Gateway.Timeout,
		RetryAttempts:    cfg.Gateway.RetryAttempts,
		RetryDelay:       cfg.Gateway.RetryDelay,
		MaxFailures:      cfg.Gateway.MaxFailures,
		FailureResetTime: cfg.Gateway.FailureResetTime,
	})
	eng := engine.New(gw)
	validator := schema.NewValidator()

	// Hub and streamer reference each other; the listener is set after both
	// exist.
	wsHub := hub.NewHub(hub.Options{
		HeartbeatInterval: cfg.Hub.HeartbeatInterval,
		IdleTimeout:       cfg.Hub.IdleTimeout,
	}, nil)
	streamer := stream.NewStreamer(wsHub, eng, validator, stream.Options{
		GlobalInterval:  cfg.Stream.GlobalInterval,
		DefaultInterval: cfg.Stream.DefaultInterval,
		DefaultDuration: cfg.Stream.DefaultDuration,
	})
	wsHub.SetListener(streamer)

	handler := api.NewHandler(registry, gw, eng, validator, wsHub, streamer)
	router := api.NewRouter(handler, api.DefaultMiddlewareConfig())

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(supervisor.NewHubService(wsHub))
	tree.AddMessagingService(streamer)
	tree.AddAPIService(supervisor.NewHTTPServerService(httpServer, 10*time.Second))

	// Uptime gauge ticks once a second until shutdown.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.AppUptime.Set(time.Since(startedAt).Seconds())
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Signalcast stopped gracefully")
}
