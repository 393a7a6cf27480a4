package handler

import (
	"log/slog"
	"net/http"
	"time"

	"bookgraph/internal/metrics"
	"bookgraph/internal/microservices/graphql-api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
)

type RouterConfig struct {
	Schema         graphql.Schema
	Logger         *slog.Logger
	RequestTimeout time.Duration

	// Optional pieces; zero values switch them off.
	Metrics     *metrics.Metrics
	RateLimiter *middleware.RateLimiter
	JWTSecret   string
}

// NewRouter assembles the gin engine: middleware chain, /health, /graphql and /metrics.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(logger), middleware.Recovery(logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/graphql")
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.Middleware())
	}
	if cfg.JWTSecret != "" {
		api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	}
	NewGraphQLHandler(cfg.Schema, cfg.RequestTimeout, logger).RegisterRoutes(api)

	return r
}
