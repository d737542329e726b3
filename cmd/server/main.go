package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/hongminglow/shoptrack-be/internal/auth"
	"github.com/hongminglow/shoptrack-be/internal/config"
	"github.com/hongminglow/shoptrack-be/internal/logger"
	"github.com/hongminglow/shoptrack-be/internal/server"
	"github.com/hongminglow/shoptrack-be/internal/storage"
	"github.com/hongminglow/shoptrack-be/internal/storage/memory"
	"github.com/hongminglow/shoptrack-be/internal/storage/postgres"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Info().Msg("no .env file found; relying on existing environment")
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init storage")
	}
	defer store.Close()

	denylist, closeDenylist, err := openDenylist(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init token denylist")
	}
	defer closeDenylist()

	srv := server.New(cfg, store, denylist, log)

	go func() {
		log.Info().Str("addr", cfg.HTTPAddress()).Str("storage", cfg.StorageDriver).Msg("ShopTrack backend listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.DriverMemory {
		return memory.New(), nil
	}
	store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func openDenylist(ctx context.Context, cfg config.Config, log zerolog.Logger) (auth.Denylist, func(), error) {
	if !cfg.Redis.Enabled() {
		log.Info().Msg("REDIS_ADDR not set; logout is client-side only")
		return auth.NopDenylist{}, func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return auth.NewRedisDenylist(rdb), func() { _ = rdb.Close() }, nil
}
