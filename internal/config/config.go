package config

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	PlatformTelegram = "telegram"
	PlatformLine     = "line"
)

// Config contains all runtime settings for the relay.
type Config struct {
	Platform string

	TelegramToken       string
	TelegramPollTimeout int

	LineChannelToken  string
	LineChannelSecret string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAITimeout time.Duration

	HTTPAddr         string
	MetricsNamespace string
	ShutdownTimeout  time.Duration
	TextsFile        string

	LogLevel  slog.Level
	LogFormat string
}

// LoadEnvFiles loads .env style files into the process environment.
// Variables already set in the environment win. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	return nil
}

// Load reads the environment. platform, when non-empty, overrides
// CHAT_PLATFORM. Missing secrets for the selected platform are an error.
func Load(platform string) (Config, error) {
	cfg := Config{
		Platform:          strings.ToLower(cmp.Or(platform, envOrDefault("CHAT_PLATFORM", PlatformTelegram))),
		TelegramToken:     stringsTrimSpace("TELEGRAM_TOKEN"),
		LineChannelToken:  stringsTrimSpace("LINE_CHANNEL_TOKEN"),
		LineChannelSecret: stringsTrimSpace("LINE_CHANNEL_SECRET"),
		OpenAIAPIKey:      stringsTrimSpace("OPENAI_API_KEY"),
		OpenAIBaseURL:     stringsTrimSpace("OPENAI_BASE_URL"),
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":"+cmp.Or(os.Getenv("PORT"), "3000")),
		MetricsNamespace:  envOrDefault("METRICS_NAMESPACE", "chatrelay"),
		TextsFile:         stringsTrimSpace("TEXTS_FILE"),
		LogFormat:         strings.ToLower(envOrDefault("LOG_FORMAT", "json")),
	}

	var err error
	if cfg.TelegramPollTimeout, err = intFromEnv("TELEGRAM_POLL_TIMEOUT", 30); err != nil {
		return Config{}, err
	}
	if cfg.OpenAITimeout, err = durationFromEnv("OPENAI_TIMEOUT", 2*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = durationFromEnv("SHUTDOWN_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if err = cfg.LogLevel.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL parse error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (cfg Config) validate() error {
	var errs []error

	switch cfg.Platform {
	case PlatformTelegram:
		if cfg.TelegramToken == "" {
			errs = append(errs, errors.New("TELEGRAM_TOKEN is required when CHAT_PLATFORM=telegram"))
		}
		if cfg.TelegramPollTimeout <= 0 {
			errs = append(errs, errors.New("TELEGRAM_POLL_TIMEOUT must be positive"))
		}
	case PlatformLine:
		if cfg.LineChannelToken == "" {
			errs = append(errs, errors.New("LINE_CHANNEL_TOKEN is required when CHAT_PLATFORM=line"))
		}
		if cfg.LineChannelSecret == "" {
			errs = append(errs, errors.New("LINE_CHANNEL_SECRET is required when CHAT_PLATFORM=line"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid CHAT_PLATFORM: %q (expected telegram|line)", cfg.Platform))
	}

	if cfg.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT: %q (expected json|text)", cfg.LogFormat))
	}

	return errors.Join(errs...)
}

// NewLogger builds the process logger from the logging settings.
func (cfg Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
