package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ruki-qq/homework-bot/internal/app"
	"github.com/ruki-qq/homework-bot/internal/domain/homework"
	"github.com/ruki-qq/homework-bot/internal/infra/config"
	"github.com/ruki-qq/homework-bot/internal/infra/logger"
	"github.com/ruki-qq/homework-bot/internal/infra/practicum"
	"github.com/ruki-qq/homework-bot/internal/infra/scheduler"
	"github.com/ruki-qq/homework-bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Homework status bot starting...")

	cfg, err := config.Load()
	if err != nil {
		// Logger is not initialized yet; the default settings have to do.
		logger.Get().Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	if err := logger.Init(cfg); err != nil {
		logger.Get().Fatalf("FATAL: Could not initialize logger: %v", err)
	}
	appLogger := logger.Get().WithField("app", "homework-bot")
	appLogger.WithFields(logrus.Fields{
		"log_level":     cfg.LogLevel,
		"environment":   cfg.Environment,
		"endpoint":      cfg.Endpoint,
		"poll_interval": cfg.PollInterval.String(),
	}).Info("Configuration loaded")

	// Verdict table: built-in codes, optionally extended from a YAML file.
	verdicts := homework.DefaultVerdicts()
	if cfg.VerdictsFile != "" {
		data, err := os.ReadFile(cfg.VerdictsFile)
		if err != nil {
			appLogger.Fatalf("FATAL: Could not read verdicts file %s: %v", cfg.VerdictsFile, err)
		}
		if err := verdicts.MergeYAML(data); err != nil {
			appLogger.Fatalf("FATAL: Could not parse verdicts file %s: %v", cfg.VerdictsFile, err)
		}
		appLogger.WithField("verdicts", len(verdicts)).Info("Verdict table extended from file")
	}

	api := practicum.NewClient(cfg.Endpoint, cfg.PracticumToken, appLogger.WithField("component", "practicum"))

	// Creating the bot performs a getMe call, so a dead bot token stops the
	// process right here.
	pref := telebot.Settings{
		Token:  cfg.BotToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := appLogger.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithFields(logrus.Fields{
					"message":   c.Text(),
					"sender_id": c.Sender().ID,
					"chat_id":   c.Chat().ID,
				})
			}
			entry.Error("Telegram handler error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		appLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	appLogger.WithField("bot_username", bot.Me.Username).Info("Telegram bot authorized")

	if cfg.TokenProbe {
		probeCtx, cancelProbe := context.WithTimeout(context.Background(), 1*time.Minute)
		if err := api.Probe(probeCtx); err != nil {
			cancelProbe()
			appLogger.Fatalf("FATAL: Status API rejected the token on startup: %v", err)
		}
		cancelProbe()
		appLogger.Info("Status API token verified")
	}

	notifier := telegram.NewTelebotAdapter(bot, appLogger.WithField("component", "telegram"))
	poller := app.NewPollService(
		api,
		notifier,
		verdicts,
		cfg.TelegramChatID,
		cfg.PollInterval,
		appLogger.WithField("component", "poller"),
	)

	telegram.RegisterBotCommands(bot, cfg, poller, appLogger.WithField("component", "handlers"))
	appLogger.Info("Bot command handlers registered")

	maintenance := scheduler.NewMaintenanceScheduler(
		api,
		poller,
		appLogger.WithField("component", "scheduler"),
		cfg.ProbeCron,
		cfg.DigestCron,
	)
	if err := maintenance.Start(); err != nil {
		appLogger.Fatalf("FATAL: Could not start maintenance scheduler: %v", err)
	}

	appLogger.Info("Application setup complete. Bot and poll loop are starting...")

	ctx, cancel := context.WithCancel(context.Background())

	// Start bot in a goroutine so it doesn't block graceful shutdown handling
	go bot.Start()

	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		poller.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	appLogger.Info("Shutting down application...")
	cancel()
	maintenance.Stop()
	bot.Stop()
	<-pollDone
	appLogger.Info("Application shut down gracefully")
}
