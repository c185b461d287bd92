package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/leli-rentals/leli-assist/pkg/mailer"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}
	conf.applyDefaults()

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	c.applyDefaults()
	return c
}

type CoreConfig struct {
	Addr     string      `toml:"addr"`
	Log      Log         `toml:"log"`
	Postgres PGConfig    `toml:"postgres"`
	Redis    RedisConfig `toml:"redis"`

	Mailer    mailer.Config   `toml:"mailer"`
	Assistant AssistantConfig `toml:"assistant"`
	Sweep     SweepConfig     `toml:"sweep"`
}

type AssistantConfig struct {
	// RateLimit is messages per user per minute.
	RateLimit int `toml:"rate_limit"`
	// CacheTTLSecond bounds how long a composed reply is reused for
	// identical input.
	CacheTTLSecond int `toml:"cache_ttl_second"`
	// SessionRetentionDays is how long closed conversations linger before
	// the cleanup job removes them.
	SessionRetentionDays int `toml:"session_retention_days"`
	// CleanupCron schedules the session retention job.
	CleanupCron string `toml:"cleanup_cron"`
}

type SweepConfig struct {
	// Cron schedules the verification-deadline sweep.
	Cron     string `toml:"cron"`
	PageSize uint64 `toml:"page_size"`
}

func (c *CoreConfig) applyDefaults() {
	if c.Assistant.RateLimit == 0 {
		c.Assistant.RateLimit = 10
	}
	if c.Assistant.CacheTTLSecond == 0 {
		c.Assistant.CacheTTLSecond = 300
	}
	if c.Assistant.SessionRetentionDays == 0 {
		c.Assistant.SessionRetentionDays = 30
	}
	if c.Assistant.CleanupCron == "" {
		c.Assistant.CleanupCron = "30 4 * * *"
	}
	if c.Sweep.Cron == "" {
		c.Sweep.Cron = "0 3 * * *"
	}
	if c.Sweep.PageSize == 0 {
		c.Sweep.PageSize = 500
	}
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("LELI_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
	c.Mailer.APIKey = os.Getenv("LELI_RESEND_API_KEY")
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("LELI_API_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("LELI_REDIS_ADDR")
	r.Password = os.Getenv("LELI_REDIS_PASSWORD")
	if dbStr := os.Getenv("LELI_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("LELI_API_LOG_LEVEL")
	l.Path = os.Getenv("LELI_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
