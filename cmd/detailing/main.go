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

	"detailing-bot/internal/app"
	"detailing-bot/internal/bot"
	"detailing-bot/internal/config"
	"detailing-bot/internal/httpapi"
	"detailing-bot/internal/storage"
	redisstore "detailing-bot/internal/storage/redis"
	"detailing-bot/pkg/logger"
	"detailing-bot/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// ENTRY POINT

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	if err := run(ctx, cfg, zapLogger); err != nil {
		zapLogger.Fatal("Service stopped with error", zap.Error(err))
	}
	zapLogger.Info("Service shutdown gracefully")
}

func run(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) error {
	var (
		redisClient *redis.Client
		cache       storage.Cache
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.New(app.RedisOptions(cfg))
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("Failed to close Redis", zap.Error(err))
			}
		}()

		if err := redisClient.Ping(ctx); err != nil {
			return err
		}
		cache = redisClient
		zapLogger.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr))
	}

	provider, release, err := app.CatalogProvider(ctx, cfg, cache, zapLogger)
	if err != nil {
		return err
	}
	defer release()

	var tgBot *bot.Bot
	if cfg.TelegramToken != "" {
		if err := cfg.RequireBot(); err != nil {
			return err
		}
		tgBot, err = bot.New(cfg, redisstore.New(redisClient, cfg.RedisTTL), provider, zapLogger)
		if err != nil {
			return fmt.Errorf("create bot: %w", err)
		}
	} else {
		zapLogger.Warn("TELEGRAM_TOKEN not set, running HTTP API only")
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	g, gctx := errgroup.WithContext(ctx)

	handler := httpapi.NewHandler(provider, cfg.AnimationDuration, cfg.FrameInterval, zapLogger)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		zapLogger.Info("HTTP API listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if tgBot != nil {
		g.Go(func() error {
			return tgBot.Start(gctx)
		})
	}

	return g.Wait()
}
