// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"telegram-wallpaper-bot/internal/application"
	"telegram-wallpaper-bot/internal/config"
	pg "telegram-wallpaper-bot/internal/infra/db/postgres"
	"telegram-wallpaper-bot/internal/infra/logging"
	"telegram-wallpaper-bot/internal/infra/metrics"
	red "telegram-wallpaper-bot/internal/infra/redis"
	tele "telegram-wallpaper-bot/internal/infra/telegram"
	"telegram-wallpaper-bot/internal/infra/web"
	"telegram-wallpaper-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, polling fallback)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}
	if len(cfg.Bot.AdminIDs) == 0 {
		logger.Warn().Msg("no admin ids configured: every caller is treated as admin")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema setup failed")
	}

	// ---- Redis (optional: only rate limiting depends on it) ----
	var rateLimiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		rateLimiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis.url not set: command rate limiting disabled")
	}

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepo(pool)
	clickRepo := pg.NewPostgresLinkClickRepo(pool)

	// ---- Telegram adapter (constructed before usecases: broadcast sends through it) ----
	// The facade is wired afterwards because adapter and facade reference each other.
	trackerUC := usecase.NewTrackerUseCase(userRepo, clickRepo, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, clickRepo, logger)
	linksUC := usecase.NewLinksUseCase(clickRepo, logger)
	userUC := usecase.NewUserUseCase(userRepo, clickRepo, logger)

	facade := application.NewBotFacade(trackerUC, statsUC, linksUC, userUC, nil, logger)

	botAdapter, err := tele.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, logger, 8)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram auth failed")
	}
	facade.BroadcastUC = usecase.NewBroadcastUseCase(userRepo, botAdapter, cfg.Bot.BroadcastDelay, logger)

	// ---- Receive path: webhook (default) or polling ----
	switch strings.ToLower(cfg.Bot.Mode) {
	case "polling":
		go func() {
			if err := botAdapter.StartPolling(ctx); err != nil && err != context.Canceled {
				logger.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	default:
		if cfg.Bot.WebhookBaseURL == "" {
			logger.Warn().Msg("bot.webhook_base_url not set: skipping webhook registration")
		} else if err := botAdapter.RegisterWebhook(cfg.Bot.WebhookBaseURL); err != nil {
			logger.Fatal().Err(err).Msg("webhook registration failed")
		} else {
			logger.Info().Str("base_url", cfg.Bot.WebhookBaseURL).Msg("webhook registered")
		}
	}

	// ---- HTTP front door ----
	srv := web.NewServer(botAdapter, botAdapter.Username(), logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Bot.Port),
		Handler: srv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}
	botAdapter.StopPolling()
	cancel()
}
