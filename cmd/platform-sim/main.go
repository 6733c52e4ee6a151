package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opstack-labs/platform-sim/internal/agent"
	"github.com/opstack-labs/platform-sim/internal/alerts"
	"github.com/opstack-labs/platform-sim/internal/api"
	"github.com/opstack-labs/platform-sim/internal/cache"
	"github.com/opstack-labs/platform-sim/internal/config"
	"github.com/opstack-labs/platform-sim/internal/engine"
	"github.com/opstack-labs/platform-sim/internal/exporter"
	"github.com/opstack-labs/platform-sim/internal/history"
	"github.com/opstack-labs/platform-sim/internal/metrics"
	"github.com/opstack-labs/platform-sim/internal/simulator"
	"github.com/opstack-labs/platform-sim/internal/tools"
	"github.com/opstack-labs/platform-sim/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting platform-sim", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	store := alerts.NewStore(cfg.Telemetry.AlertRetention)
	ring := history.NewRing(cfg.Telemetry.HistoryLimit)
	generator := simulator.NewGenerator(store, cfg.Telemetry.LogTail, logger)

	var diagnoser engine.Diagnoser
	if cfg.OpenAI.APIKey != "" {
		diagnoser = engine.NewOpenAIDiagnoser(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Timeout)
		logger.Info("llm diagnosis enabled", slog.String("model", cfg.OpenAI.Model))
	} else {
		logger.Info("llm diagnosis disabled, using deterministic diagnoser")
	}
	pipeline := engine.NewPipeline(logger, generator, diagnoser)
	executor := engine.NewSimulatedExecutor(logger)

	var cacheProvider cache.Provider = cache.NoopProvider{}
	if cfg.Cache.Enabled {
		cacheProvider = cache.NewMemoryProvider()
	}
	defer cacheProvider.Close()

	registry := tools.NewRegistry(logger, generator, store, ring, pipeline, executor, cacheProvider, cfg.Cache.AnalysisTTL)

	server, err := api.NewServer(cfg.Server, registry, logger)
	if err != nil {
		logger.Error("failed to create HTTP server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Exporter.Enabled {
		gaugeExporter, err := exporter.New(logger, generator, store, prometheus.DefaultRegisterer)
		if err != nil {
			logger.Error("failed to create exporter", slog.Any("error", err))
			os.Exit(1)
		}
		gaugeExporter.Refresh()
		stopExporter, err := gaugeExporter.Start(cfg.Exporter.Schedule)
		if err != nil {
			logger.Error("failed to start exporter", slog.Any("error", err))
			os.Exit(1)
		}
		defer stopExporter()
	}

	if cfg.Agent.Enabled {
		go agent.New(logger, registry, cfg.Agent.PollInterval).Run(ctx)
	}

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("platform-sim stopped")
}
