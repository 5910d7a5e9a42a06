package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/audit"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/catalog"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/numbering"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/application/stock"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/infrastructure/notify"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/SalehOsman/alsaada-telegram-bot-sub000/internal/interfaces/http"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/pkg/config"
	"github.com/SalehOsman/alsaada-telegram-bot-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply schema")
	}

	itemRepo := postgres.NewItemRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	seqRepo := postgres.NewSequenceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Events go out over Redis when configured; otherwise they are dropped.
	var stockNotifier stock.Notifier = stock.NopNotifier{}
	var auditNotifier audit.Notifier = audit.NopNotifier{}
	if cfg.Redis.Addr != "" {
		publisher, err := notify.NewRedisPublisher(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to Redis")
		}
		defer publisher.Close()
		stockNotifier = publisher
		auditNotifier = publisher
	}

	numberingSvc := numbering.New(seqRepo)
	stockEngine := stock.NewEngine(txRunner, numberingSvc, stockNotifier, log)
	auditEngine := audit.NewEngine(txRunner, stockEngine, numberingSvc, auditNotifier, log)
	catalogSvc := catalog.New(itemRepo, txnRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Stock:     stockEngine,
		Audit:     auditEngine,
		Catalog:   catalogSvc,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
