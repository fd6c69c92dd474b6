package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/coin-change/internal/api"
	"github.com/eugenenazirov/coin-change/internal/cache"
	"github.com/eugenenazirov/coin-change/internal/change"
	"github.com/eugenenazirov/coin-change/internal/compare"
	"github.com/eugenenazirov/coin-change/internal/config"
	"github.com/eugenenazirov/coin-change/internal/storage"
)

const redisPingTimeout = 2 * time.Second

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage    storage.Storage
	greedy     change.Solver
	minCoins   change.Solver
	comparator *compare.Comparator
	cache      cache.Cache
	handler    *api.Handler
	router     http.Handler
	logger     *zap.Logger
	server     *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if err := store.SetDenominations(cfg.Denominations); err != nil {
		return nil, fmt.Errorf("failed to apply initial denominations: %w", err)
	}

	greedy, minCoins, comparator := NewComparator(cfg, logger)
	reportCache := NewCache(cfg, logger)

	handler := api.NewHandler(greedy, minCoins, comparator, store,
		api.WithCache(reportCache),
		api.WithHandlerLogger(logger),
		api.WithMaxAmount(cfg.MaxAmount),
		api.WithCanonicalWorkers(cfg.CanonicalWorkers),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	server := NewServer(cfg, BuildRootHandler(apiRouter))

	return &App{
		storage:    store,
		greedy:     greedy,
		minCoins:   minCoins,
		comparator: comparator,
		cache:      reportCache,
		handler:    handler,
		router:     apiRouter,
		logger:     logger,
		server:     server,
	}, nil
}

// NewComparator builds both solvers and a comparator around them.
func NewComparator(cfg config.Config, logger *zap.Logger) (change.Solver, change.Solver, *compare.Comparator) {
	greedy := change.NewGreedySolver()
	minCoins := change.NewMinCoinSolver(change.WithMaxAmount(cfg.MaxAmount))
	return greedy, minCoins, compare.New(greedy, minCoins, compare.WithLogger(logger))
}

// NewCache returns a Redis-backed cache when an address is configured and
// reachable, falling back to an in-memory cache otherwise.
func NewCache(cfg config.Config, logger *zap.Logger) cache.Cache {
	if cfg.RedisAddr == "" {
		return cache.NewMemoryCache()
	}

	redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, using in-memory cache", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = redisCache.Close()
		return cache.NewMemoryCache()
	}

	logger.Info("using redis report cache", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.CacheTTL))
	return redisCache
}

// BuildRootHandler mounts the API under /api/ and answers everything else with 404.
func BuildRootHandler(apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/", http.NotFoundHandler())
	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Close releases resources held by the application, such as the Redis pool.
func (a *App) Close() error {
	if closer, ok := a.cache.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
