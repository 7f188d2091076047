package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matka/platform/internal/app"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/guard"
	"github.com/matka/platform/internal/handler"
	"github.com/matka/platform/internal/infra"
	"github.com/matka/platform/internal/market"
	"github.com/matka/platform/internal/provider"
	"github.com/matka/platform/internal/service"
	"github.com/matka/platform/internal/session"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("bettor gateway failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	catalog, err := market.LoadCatalog(cfg.MarketsFile)
	if err != nil {
		return fmt.Errorf("load markets: %w", err)
	}
	logger.Info("market catalog loaded", "file", cfg.MarketsFile, "markets", len(catalog.List()))

	store, ping, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	// Events
	hub := infra.NewHub(logger)
	defer hub.Shutdown(context.Background())

	producer := infra.NewKafkaProducer(cfg.KafkaBrokers, cfg.KafkaEnabled, logger)
	defer producer.Close()
	if producer.Enabled() {
		relay := infra.NewEventRelay(hub, producer, cfg.KafkaTopic, logger,
			domain.EventUserLogin, domain.EventBetsPlaced, domain.EventDayRolledOver)
		relay.Start(ctx)
	}

	// Remote API + service
	api := provider.NewMatkaClient(cfg.APIBaseURL, cfg.APIToken, cfg.APITimeout, logger)
	api.SetBreaker(guard.NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerReset))
	svc := service.NewBettingService(catalog, api, store, hub, logger)

	// Day rollover
	watcher := market.NewDayWatcher(cfg.RolloverInterval, svc.OnDayRollover, logger)
	go watcher.Run(ctx)
	session.PruneSelectedDate(ctx, store, watcher.LastDay())

	r := app.NewRouter(app.RouterDeps{
		Betting:     svc,
		Waker:       watcher,
		Ping:        ping,
		Logger:      logger,
		CORSOrigins: cfg.CORSAllowedOrigins,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.GatewayPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.APITimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("bettor gateway starting", "addr", addr, "api", cfg.APIBaseURL, "store", cfg.SessionStore)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}

// openStore connects the configured session backend and returns its health check
// and a cleanup function.
func openStore(ctx context.Context, cfg *infra.Config, logger *slog.Logger) (session.Store, handler.PingFunc, func(), error) {
	switch cfg.SessionStore {
	case infra.StoreRedis:
		rs, err := session.NewRedisStore(ctx, cfg.RedisURL, "matka:"+cfg.SessionScope+":")
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("session store: redis", "scope", cfg.SessionScope)
		return rs, rs.Ping, func() { rs.Close() }, nil

	case infra.StorePostgres:
		if cfg.RunMigrations {
			if err := infra.RunMigrations(cfg.DSN(), logger); err != nil {
				return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		pool, err := infra.NewPostgresPool(ctx, cfg)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("session store: postgres", "scope", cfg.SessionScope)
		ping := func(ctx context.Context) error { return infra.HealthCheck(ctx, pool) }
		return session.NewPostgresStore(pool, cfg.SessionScope), ping, pool.Close, nil
	}

	logger.Info("session store: memory")
	return session.NewInMemoryStore(), nil, func() {}, nil
}
