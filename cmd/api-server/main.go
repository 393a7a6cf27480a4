package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bookgraph/database"
	"bookgraph/internal/config"
	"bookgraph/internal/logging"
	"bookgraph/internal/metrics"
	"bookgraph/internal/microservices/graphql-api/handler"
	"bookgraph/internal/microservices/graphql-api/middleware"
	"bookgraph/internal/microservices/graphql-api/repository"
	"bookgraph/internal/microservices/graphql-api/schema"
	"bookgraph/internal/microservices/graphql-api/service"
	"bookgraph/internal/scalar"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("could not open store: %v", err)
	}
	defer closeStore()

	// 3. GraphQL schema
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("could not resolve time zone: %v", err)
	}

	var m *metrics.Metrics
	if cfg.PrometheusEnabled {
		m = metrics.New()
	}

	svc := service.NewBookService(store, logger)
	s, err := schema.New(svc, schema.Options{
		Coercer:     scalar.NewDateTime(loc),
		Metrics:     m,
		Logger:      logger,
		RequireAuth: cfg.AuthEnabled(),
	})
	if err != nil {
		log.Fatalf("could not build schema: %v", err)
	}

	// 4. HTTP
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx)

	r := handler.NewRouter(handler.RouterConfig{
		Schema:         s,
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        m,
		RateLimiter:    limiter,
		JWTSecret:      cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server_started",
			"addr", srv.Addr,
			"store", cfg.StoreDriver,
			"cache", cfg.CacheEnabled,
			"auth", cfg.AuthEnabled(),
			"time_zone", loc.String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown_started")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
		return
	}
	logger.Info("shutdown_complete")
}

// openStore picks the backend named by STORE_DRIVER and wraps it with the
// Redis list cache when enabled. The returned func releases every handle.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.BookStore, func(), error) {
	var (
		store   repository.BookStore
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.StoreDriver {
	case config.StoreGorm:
		db, err := database.OpenGorm(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			closers = append(closers, func() { sqlDB.Close() })
		}
		store = repository.NewBookRepo(db)
	case config.StorePgx:
		pool, err := database.OpenPool(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		pgx := repository.NewPgxBookRepo(pool)
		if err := pgx.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, err
		}
		store = pgx
	default:
		logger.Warn("using in-memory store, books are lost on restart")
		store = repository.NewMemoryBookRepo()
	}

	if cfg.CacheEnabled {
		rdb, err := database.OpenRedis(ctx, cfg, logger)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, func() { rdb.Close() })
		ttl := time.Duration(cfg.CacheTTL) * time.Second
		store = repository.NewCachedBookStore(store, rdb, ttl).WithLogger(logger)
	}

	return store, closeAll, nil
}
