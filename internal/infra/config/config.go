package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultEndpoint is the Practicum homework status endpoint queried when
// PRACTICUM_ENDPOINT is not set.
const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

// DefaultPollInterval is the pause between poll cycles when POLL_INTERVAL is
// not set.
const DefaultPollInterval = 600 * time.Second

// MissingCredentialError reports every required environment variable found
// absent, not just the first one. Startup must not proceed past it.
type MissingCredentialError struct {
	Names []string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("required environment variables are not set: %s", strings.Join(e.Names, ", "))
}

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken string
	BotToken       string
	TelegramChatID int64
	Endpoint       string
	PollInterval   time.Duration
	LogLevel       string
	Environment    string
	LogFile        string
	VerdictsFile   string
	TokenProbe     bool
	ProbeCron      string
	DigestCron     string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	// The three secrets the bot cannot run without. Absence is collected so
	// one failure names them all.
	var missing []string
	cfg.PracticumToken = os.Getenv("PRACTICUM_TOKEN")
	if cfg.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	cfg.BotToken = os.Getenv("BOT_TOKEN")
	if cfg.BotToken == "" {
		missing = append(missing, "BOT_TOKEN")
	}
	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	if chatIDStr == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return nil, &MissingCredentialError{Names: missing}
	}

	var err error
	cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}

	cfg.Endpoint = os.Getenv("PRACTICUM_ENDPOINT")
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	cfg.PollInterval = DefaultPollInterval
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		cfg.PollInterval, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
		}
		if cfg.PollInterval <= 0 {
			return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.LogFile = os.Getenv("LOG_FILE")
	cfg.VerdictsFile = os.Getenv("VERDICTS_FILE")

	// Live token probes at startup mirror the presence checks; they can be
	// switched off for offline runs.
	cfg.TokenProbe = true
	if v := os.Getenv("TOKEN_PROBE"); v != "" {
		cfg.TokenProbe, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_PROBE: %w", err)
		}
	}

	cfg.ProbeCron = os.Getenv("PROBE_CRON")
	if cfg.ProbeCron == "" {
		cfg.ProbeCron = "@every 1h"
	}
	cfg.DigestCron = os.Getenv("DIGEST_CRON")
	if cfg.DigestCron == "" {
		cfg.DigestCron = "0 9 * * *" // Default: 9 AM daily
	}

	return cfg, nil
}
