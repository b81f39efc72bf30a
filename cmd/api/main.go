package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arcnode/quote-aggregator/internal/aggregator"
	"github.com/arcnode/quote-aggregator/internal/cache"
	"github.com/arcnode/quote-aggregator/internal/chain"
	"github.com/arcnode/quote-aggregator/internal/config"
	"github.com/arcnode/quote-aggregator/internal/dex"
	"github.com/arcnode/quote-aggregator/internal/entities"
	"github.com/arcnode/quote-aggregator/internal/httpapi"
	"github.com/arcnode/quote-aggregator/internal/registry"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := newLogger(cfg.LogLevel)
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	reader, err := chain.NewEthReader(ctx, cfg.RPCURL)
	cancel()
	if err != nil {
		log.Fatal("failed to connect to RPC endpoint", zap.Error(err))
	}
	defer reader.Close()
	log.Info("connected to chain RPC", zap.String("url", cfg.RPCURL))

	reg := registry.DefaultRegistry()
	if cfg.TokensFile != "" {
		if err := reg.LoadFromFile(cfg.TokensFile); err != nil {
			log.Fatal("failed to load token list", zap.String("file", cfg.TokensFile), zap.Error(err))
		}
		log.Info("loaded token list", zap.String("file", cfg.TokensFile), zap.Int("count", reg.Count()))
	}

	tokenCache := newTokenCache(cfg.RedisAddr, log)

	var adapters []dex.Adapter
	venues := make(map[string]entities.VenueConfig)
	if cfg.V2 != nil {
		adapters = append(adapters, dex.NewV2Adapter(*cfg.V2, reader, log))
		venues[cfg.V2.Name] = *cfg.V2
		log.Info("V2 adapter enabled", zap.String("venue", cfg.V2.Name))
	}
	if cfg.V3 != nil {
		adapters = append(adapters, dex.NewV3Adapter(*cfg.V3, reader, log))
		venues[cfg.V3.Name] = *cfg.V3
		log.Info("V3 adapter enabled", zap.String("venue", cfg.V3.Name))
	}

	agg := aggregator.New(adapters, venues, reg, reader, tokenCache, log)
	router := httpapi.NewRouter(agg, log, version)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("starting quote aggregator API", zap.String("version", version), zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown error", zap.Error(err))
	}
	log.Info("server stopped")
}

func newTokenCache(redisAddr string, log *zap.Logger) cache.TokenCache {
	if redisAddr == "" {
		log.Info("using in-memory token cache")
		return cache.NewInMemoryTokenCache()
	}
	redisCache, err := cache.NewRedisTokenCache(redisAddr, "", 0)
	if err != nil {
		log.Warn("failed to connect to redis, falling back to in-memory token cache", zap.String("addr", redisAddr), zap.Error(err))
		return cache.NewInMemoryTokenCache()
	}
	log.Info("connected to redis token cache", zap.String("addr", redisAddr))
	return redisCache
}

func newLogger(level string) *zap.Logger {
	zapLevel := zapcore.InfoLevel
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
