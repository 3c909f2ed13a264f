// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token          string        `yaml:"token"`
	Mode           string        `yaml:"mode"` // webhook | polling (dev fallback)
	Port           int           `yaml:"port"`
	Username       string        `yaml:"username"`
	WebhookBaseURL string        `yaml:"webhook_base_url"`
	AdminIDs       []int64       `yaml:"admin_ids"`
	ChannelURL     string        `yaml:"channel_url"`
	BroadcastDelay time.Duration `yaml:"broadcast_delay"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path (missing file is fine: everything
// can come from the environment) and applies env overrides on top.
func LoadConfig(path string, dev bool) (*Config, error) {
	// .env is a dev convenience; absence is not an error.
	_ = godotenv.Load()

	var cfg Config
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnvOverrides(&cfg)

	// defaults
	if cfg.Bot.Mode == "" {
		cfg.Bot.Mode = "webhook"
	}
	if cfg.Bot.Port <= 0 {
		cfg.Bot.Port = 3000
	}
	if cfg.Bot.BroadcastDelay <= 0 {
		cfg.Bot.BroadcastDelay = 50 * time.Millisecond
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	// The welcome keyboard always carries the channel-join button, so a
	// missing channel link is a misconfiguration, not an optional feature.
	if cfg.Bot.ChannelURL == "" {
		return nil, errors.New("bot.channel_url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if v := os.Getenv("BOT_USERNAME"); v != "" {
		cfg.Bot.Username = v
	}
	if v := os.Getenv("WEBHOOK_BASE_URL"); v != "" {
		cfg.Bot.WebhookBaseURL = v
	}
	if v := os.Getenv("CHANNEL_URL"); v != "" {
		cfg.Bot.ChannelURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Bot.Port = p
		}
	}
	if v := os.Getenv("ADMIN_IDS"); v != "" {
		cfg.Bot.AdminIDs = parseAdminIDs(v)
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// parseAdminIDs accepts a comma-separated list; malformed entries are skipped.
func parseAdminIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if id, err := strconv.ParseInt(part, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
