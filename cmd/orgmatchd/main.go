// Orgmatchd is the company resolution daemon.
//
// It exposes the matching cascade over HTTP, backed by an embedded
// Badger document store.
//
// Usage:
//
//	# Start with defaults
//	orgmatchd
//
//	# Point at a config file
//	orgmatchd -config /etc/orgmatchd/config.yaml
//
//	# Configure via environment
//	ORGMATCH_SERVER_HTTP_PORT=8080 orgmatchd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/fernwerk/orgmatch/internal/config"
	"github.com/fernwerk/orgmatch/internal/docstore"
	httpserver "github.com/fernwerk/orgmatch/internal/http"
	"github.com/fernwerk/orgmatch/internal/logging"
	"github.com/fernwerk/orgmatch/internal/matching"
	"github.com/fernwerk/orgmatch/internal/services"
	"github.com/fernwerk/orgmatch/internal/similarity"
	"github.com/fernwerk/orgmatch/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: ~/.config/orgmatchd/config.yaml)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  orgmatchd           Start the orgmatchd daemon\n")
			fmt.Fprintf(os.Stderr, "  orgmatchd version   Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("orgmatchd\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the orgmatchd server and blocks until the context is
// cancelled.
//
//  1. Loads and validates configuration
//  2. Initializes telemetry and the logger
//  3. Opens the document store
//  4. Wires the resolver cascade
//  5. Starts the HTTP server
//  6. Performs graceful shutdown on context cancellation
func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	tel, err := telemetry.New(ctx, telemetryConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		_ = tel.Shutdown(context.Background())
	}()

	logger, err := logging.NewLogger(&cfg.Logging, tel.LoggerProvider())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting orgmatchd",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	store, err := openStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open document store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("store close failed", zap.Error(err))
		}
	}()

	scorer := similarity.NewScorer()
	resolver, err := matching.NewResolver(store, scorer, cfg.Matching, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize resolver: %w", err)
	}

	registry := services.NewRegistry(services.Options{
		Resolver:  resolver,
		Telemetry: tel,
	})

	metrics := httpserver.NewHTTPMetrics(logger)
	srv, err := httpserver.NewServer(registry.Resolver(), logger, metrics, &httpserver.Config{
		Host:      "0.0.0.0",
		Port:      cfg.Server.Port,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	logger.Info("Server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port)),
		zap.String("resolve_endpoint", "/api/v1/resolve"),
		zap.String("metrics_endpoint", "/metrics"),
		zap.Bool("telemetry_enabled", registry.Telemetry().IsEnabled()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStore opens the configured document store backend.
func openStore(cfg *config.Config, logger *zap.Logger) (docstore.Store, error) {
	if cfg.Store.InMemory {
		logger.Warn("using in-memory store, data will not survive restarts")
		return docstore.NewMemoryStore(), nil
	}
	return docstore.NewBadgerStore(cfg.Store.Path, logger)
}

// telemetryConfig maps daemon observability settings onto the
// telemetry package config.
func telemetryConfig(cfg *config.Config) *telemetry.Config {
	tc := telemetry.NewDefaultConfig()
	tc.Enabled = cfg.Observability.EnableTelemetry && cfg.Observability.Endpoint != ""
	tc.ServiceName = cfg.Observability.ServiceName
	tc.ServiceVersion = version
	if cfg.Observability.Endpoint != "" {
		tc.Endpoint = cfg.Observability.Endpoint
	}
	tc.Protocol = cfg.Observability.Protocol
	return tc
}
