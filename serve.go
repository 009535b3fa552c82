package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finmarket/config"
	httpLayer "finmarket/http"
	"finmarket/logging"
	"finmarket/repository"
	"finmarket/service"
)

func serveCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := config.New(*cfgFile)
			if err != nil {
				return err
			}
			flags := cmd.Root().PersistentFlags()
			if err := v.BindPFlag("logging.level", flags.Lookup("log-level")); err != nil {
				return err
			}
			if err := v.BindPFlag("logging.format", flags.Lookup("log-format")); err != nil {
				return err
			}
			cfg, err := config.Load(v)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return serve(cmd.Context(), cfg, logger)
		},
	}
}

type app struct {
	handler      http.Handler
	applications *service.ApplicationService
	limiter      *httpLayer.RateLimiter
	closers      []io.Closer
}

func (a *app) Close(logger *zap.Logger) {
	a.applications.Close()
	a.limiter.Stop()
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			logger.Warn("close failed", zap.Error(err))
		}
	}
}

// buildApp wires storage, cache, services and handlers from cfg.
func buildApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}
	fail := func(err error) (*app, error) {
		for _, c := range a.closers {
			_ = c.Close()
		}
		return nil, err
	}

	catalogData, err := repository.LoadCatalog(cfg.Catalog.Fixtures)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var (
		catalog      repository.CatalogRepository
		applications repository.ApplicationRepository
	)
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		store, err := repository.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return fail(err)
		}
		a.closers = append(a.closers, store)
		if err := store.Seed(ctx, catalogData); err != nil {
			return fail(fmt.Errorf("seed catalog: %w", err))
		}
		catalog, applications = store, store
	default:
		catalog = repository.NewCatalogRepositoryMemory(catalogData)
		applications = repository.NewApplicationRepositoryMemory()
	}

	var cache repository.CacheRepository
	if cfg.Cache.RedisAddr != "" {
		redisCache := repository.NewRedisCache(cfg.Cache.RedisAddr)
		a.closers = append(a.closers, redisCache)
		if err := redisCache.Ping(ctx); err != nil {
			return fail(fmt.Errorf("connect redis %s: %w", cfg.Cache.RedisAddr, err))
		}
		cache = redisCache
	} else {
		memoryCache := repository.NewMemoryCache()
		a.closers = append(a.closers, memoryCache)
		cache = memoryCache
	}

	loanService := service.NewLoanService(cache, cfg.Cache.TTL, logger)
	reviewService := service.NewReviewService(catalog, logger)
	a.applications = service.NewApplicationService(
		service.NewStubSubmissionService(applications, logger),
		cfg.Application.RedirectDelay,
		cfg.Application.DraftTTL,
		logger,
	)

	handlers := httpLayer.Handlers{
		Products: httpLayer.NewProductHandler(
			service.NewCatalogService(catalog, logger),
			service.NewCalculatorService(catalog, loanService, logger),
			reviewService,
			logger,
		),
		Loans:        httpLayer.NewLoanHandler(loanService, logger),
		Terms:        httpLayer.NewTermRecommendationHandler(service.NewTermRecommendationService(loanService, logger), logger),
		Reviews:      httpLayer.NewReviewHandler(reviewService, logger),
		Applications: httpLayer.NewApplicationHandler(a.applications, logger),
	}

	a.limiter = httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	a.handler = httpLayer.NewRouter(handlers, a.limiter, logger)

	logger.Info("application wired",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("redis_cache", cfg.Cache.RedisAddr != ""),
		zap.Int("products", len(catalogData.Products)),
		zap.Int("reviews", len(catalogData.Reviews)),
	)
	return a, nil
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close(logger)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("API listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("start server: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
