package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPConfig struct {
	Address string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"127.0.0.1:5000"`
	Timeout time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"5s"`
}

type DigestConfig struct {
	// Interval between overdue digests; zero disables the interval job.
	Interval time.Duration `yaml:"interval" env:"DIGEST_INTERVAL" env-default:"0s"`
	// At schedules one digest per day at HH:MM and takes precedence over Interval.
	At string `yaml:"at" env:"DIGEST_AT"`
}

type TelegramConfig struct {
	Token       string `yaml:"token" env:"TELEGRAM_TOKEN"`
	ChatID      int64  `yaml:"chat_id" env:"TELEGRAM_CHAT_ID"`
	APIEndpoint string `yaml:"api_endpoint" env:"TELEGRAM_API_ENDPOINT"`
}

// Config keeps runtime settings for the API.
type Config struct {
	LogLevel    string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat   string         `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	DatabaseURL string         `yaml:"database_url" env:"DATABASE_URL" env-default:"gerenciador_tarefas.db"`
	HTTP        HTTPConfig     `yaml:"http"`
	Digest      DigestConfig   `yaml:"digest"`
	Telegram    TelegramConfig `yaml:"telegram"`
}

// Load reads the YAML file at path when it exists, otherwise the environment.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return cfg, fmt.Errorf("read config %q: %w", path, err)
		}
		cfg = Config{}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, fmt.Errorf("read env: %w", err)
		}
	}

	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)
	cfg.Digest.At = strings.TrimSpace(cfg.Digest.At)

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Digest.Interval < 0 {
		return fmt.Errorf("DIGEST_INTERVAL must not be negative")
	}
	if c.Digest.At != "" && !validClock(c.Digest.At) {
		return fmt.Errorf("DIGEST_AT %q, expected HH:MM", c.Digest.At)
	}
	if c.Telegram.Token != "" && c.Telegram.ChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_TOKEN is set")
	}
	return nil
}

// DigestEnabled reports whether any digest schedule is configured.
func (c Config) DigestEnabled() bool {
	return c.Digest.At != "" || c.Digest.Interval > 0
}

func validClock(raw string) bool {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return false
	}
	minute, err := strconv.Atoi(parts[1])
	return err == nil && minute >= 0 && minute <= 59
}
