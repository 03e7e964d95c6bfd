// Package main contains the entrypoint for the Banterbot application.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	"github.com/banterlabs/banterbot/internal/bot"
	"github.com/banterlabs/banterbot/internal/bot/handlers"
	"github.com/banterlabs/banterbot/internal/bot/tasks"
	"github.com/banterlabs/banterbot/internal/config"
	"github.com/banterlabs/banterbot/internal/database"
	"github.com/banterlabs/banterbot/internal/gemini"
	"github.com/banterlabs/banterbot/internal/httpapi"
	"github.com/banterlabs/banterbot/internal/logger"
	"github.com/banterlabs/banterbot/internal/resolver"
	"github.com/banterlabs/banterbot/internal/rules"
	"github.com/banterlabs/banterbot/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes every component, starts the orchestrator, and returns the
// process exit code.
func run(ctx context.Context) int {
	// A missing .env file is fine; configuration falls back to real
	// environment variables and defaults.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	gateway, err := gemini.NewClient(ctx, cfg.Gemini, cfg.Replies.Fallback, log)
	if err != nil {
		log.Error("Failed to initialize completion client", "error", err)
		return 1
	}

	matcher := rules.NewMatcher(rules.Replies{
		Greeting: cfg.Replies.Greeting,
		Identity: cfg.Replies.Identity,
		Creator:  cfg.Replies.Creator,
	})
	res := resolver.New(store, matcher, gateway, cfg.Database.ContextTurns, log)

	hDeps := handlers.HandlerDeps{
		Logger:   log,
		Config:   cfg,
		Resolver: res,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewChatHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}
	sched := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	httpServer := httpapi.NewServer(cfg.Server, store, log)

	app := bot.NewBot(log, cfg, db, store, tg, httpServer, sched)

	log.Info("Starting Banterbot")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully")
	time.Sleep(time.Second)
	return 0
}
