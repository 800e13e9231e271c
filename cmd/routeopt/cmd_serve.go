package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lianstemp/aws-serverless-comparison/internal/api"
	"github.com/lianstemp/aws-serverless-comparison/internal/config"
	"github.com/lianstemp/aws-serverless-comparison/internal/experiment"
	"github.com/lianstemp/aws-serverless-comparison/internal/logging"
	"github.com/lianstemp/aws-serverless-comparison/internal/metrics"
	"github.com/lianstemp/aws-serverless-comparison/internal/quantum"
	"github.com/lianstemp/aws-serverless-comparison/internal/service"
)

// purgeInterval is how often expired experiments and their results are
// deleted from the store.
const purgeInterval = time.Hour

// expiringStore is an experiment store that can sweep expired records.
type expiringStore interface {
	experiment.Store
	DeleteExpired(ctx context.Context) (int64, error)
}

var serveFlags struct {
	port int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP optimization server",
	Long: `Starts the HTTP server (POST /optimize, GET /results/{id},
GET /experiments/{id}, GET /healthz, GET /metrics). Configuration is read
from the environment and an optional .env file. DATABASE_URL selects the
PostgreSQL experiment store; without it experiments are kept in memory.

SIGINT and SIGTERM trigger a graceful shutdown.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&serveFlags.port, "port", 0, "Listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if serveFlags.port != 0 {
		cfg.Server.Port = serveFlags.port
	}

	logger, err := logging.New(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var (
		recorder metrics.Recorder = metrics.Nop{}
		metricsH http.Handler
	)
	if cfg.Observability.MetricsEnabled {
		m := metrics.New()
		recorder, metricsH = m, m.Handler()
	}

	optimizer := service.NewOptimizer(service.Config{
		Options: cfg.Solver.Options(),
		Seed:    cfg.Solver.Seed,
		TTL:     cfg.Experiments.TTL,
		Store:   store,
		Decorator: quantum.NewDecorator(quantum.Device{
			ARN:       cfg.Quantum.DeviceARN,
			Region:    cfg.Quantum.Region,
			AccountID: cfg.Quantum.AccountID,
		}, logger),
		Metrics: recorder,
		Logger:  logger,
	})

	srv := &http.Server{
		Addr: cfg.Server.Address(),
		Handler: api.NewRouter(api.NewHandler(optimizer, logger), api.RouterConfig{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			Metrics:        metricsH,
			Timeout:        cfg.Server.WriteTimeout,
			Logger:         logger,
		}),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Environment),
			zap.String("database", cfg.Database.LogString()),
			zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		purgeExpired(gctx, store, purgeInterval, logger)
		return nil
	})

	return g.Wait()
}

// openStore returns the PostgreSQL store when DATABASE_URL is set and the
// in-memory store otherwise.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (expiringStore, error) {
	if !cfg.Database.UsesPostgres() {
		if cfg.IsProduction() {
			logger.Warn("using in-memory experiment store in production; records are lost on restart")
		} else {
			logger.Info("using in-memory experiment store")
		}
		return experiment.NewMemoryStore(), nil
	}

	pg, err := experiment.OpenPostgres(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		_ = pg.Close()
		return nil, err
	}
	return pg, nil
}

// purgeExpired sweeps expired records every interval until ctx ends.
func purgeExpired(ctx context.Context, store expiringStore, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.DeleteExpired(ctx)
			if err != nil {
				logger.Warn("failed to purge expired experiments", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("purged expired experiments", zap.Int64("count", n))
			}
		}
	}
}
