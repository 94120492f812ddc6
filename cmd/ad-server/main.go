// cmd/ad-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"adserve-core/internal/analytics"
	"adserve-core/internal/api"
	"adserve-core/internal/catalog"
	"adserve-core/internal/common/config"
	"adserve-core/internal/common/database"
	commonerrors "adserve-core/internal/common/errors"
	"adserve-core/internal/common/logger"
	"adserve-core/internal/common/observability"
	"adserve-core/internal/crawler"
	"adserve-core/internal/embedding"
	"adserve-core/internal/matching"
	"adserve-core/internal/pagecontext"
	"adserve-core/internal/pipeline"
	"adserve-core/internal/styling"
	"adserve-core/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting ad server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("ad-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Publisher registry ---
	publishers, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("publisher registry load failed",
			zap.String("path", cfg.Registry.Path), zap.Error(err))
	}
	if err := publishers.Validate(); err != nil {
		zapLog.Fatal("publisher registry invalid", zap.Error(err))
	}
	zapLog.Info("Publisher registry loaded",
		zap.Int("publishers", len(publishers.Publishers)))

	// --- Product catalog ---
	embedder := embedding.NewHashingEmbedder(cfg.Catalog.EmbeddingDims)
	loader := catalog.NewLoader(embedder, cfg.Catalog.ImageBaseURL, log)
	store, err := loader.Load(cfg.Catalog.ProductsDir)
	if err != nil {
		zapLog.Fatal("catalog load failed",
			zap.String("dir", cfg.Catalog.ProductsDir), zap.Error(err))
	}
	zapLog.Info("Catalog loaded", zap.Int("products", store.Len()))

	// --- Page context cache ---
	var cache pagecontext.Cache
	switch cfg.Cache.Backend {
	case "redis":
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		cache = pagecontext.NewRedisCache(redisClient.Client, config.GetDuration(cfg.Cache.TTL))
		zapLog.Info("Redis context cache connected")
	default:
		cache = pagecontext.NewMemoryCache(config.GetDuration(cfg.Cache.TTL))
		zapLog.Info("In-memory context cache initialized")
	}

	// --- Crawl enrichment ---
	crawlCfg := crawler.LoadConfig(cfg)
	enricher := crawler.NewOrchestrator(crawler.NewActorClient(crawlCfg), crawlCfg, log)

	// --- Matching ---
	matcher := matching.NewMatcher(embedder, store, cfg.Matching.MinScore, log)

	// --- Image styling ---
	styleCfg := styling.LoadConfig(cfg)
	styler := styling.NewOrchestrator(styling.NewRestyleClient(styleCfg), styleCfg, log)

	// --- Impression analytics (optional) ---
	var recorder pipeline.ImpressionRecorder
	if cfg.Analytics.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		recorder = analytics.NewImpressionStore(pg.DB, log)
		zapLog.Info("Impression analytics enabled")
	}

	// --- Pipeline & HTTP server ---
	coordinator := pipeline.NewCoordinator(
		cache, enricher, matcher, styler, recorder,
		cfg.Matching.TopK, obs, log,
	)

	errHandler := commonerrors.NewErrorHandler(log)
	handler := api.NewHandler(
		coordinator, publishers, errHandler,
		cfg.Catalog.ProductsDir, cfg.App.Version, log,
	)
	router := api.SetupRouter(cfg, handler, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Ad server stopped gracefully")
}
