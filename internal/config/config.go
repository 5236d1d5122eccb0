package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Telegram holds the dispatch credential and the single recipient.
type Telegram struct {
	BotToken string `yaml:"bot_token" validate:"required"`
	ChatID   string `yaml:"chat_id" validate:"required"`
	BaseURL  string `yaml:"base_url" validate:"required,url"`
}

// DataSource describes the market-data provider.
type DataSource struct {
	BaseURL         string   `yaml:"base_url" validate:"required,url"`
	Category        string   `yaml:"category" validate:"required"`
	QuoteCoin       string   `yaml:"quote_coin" validate:"required"`
	FallbackSymbols []string `yaml:"fallback_symbols" validate:"min=1,dive,required"`
}

// Scan bounds the work done per cycle.
type Scan struct {
	TopN           int  `yaml:"top_n" validate:"gte=1"`
	CandleLimit    int  `yaml:"candle_limit" validate:"gte=3,lte=1000"`
	NotifyNoSignal bool `yaml:"notify_no_signal"`
}

// Schedule sets the daily UTC wall-clock time of the scan, as HH:MM.
type Schedule struct {
	DailyAt string `yaml:"daily_at" validate:"required"`
}

type HTTP struct {
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

type Database struct {
	SQLitePath string `yaml:"sqlite_path"`
}

type Metrics struct {
	Addr string `yaml:"addr"`
}

type Log struct {
	Level string `yaml:"level"`
}

// Config holds all application configuration. It is built once by Load and
// passed by value afterwards.
type Config struct {
	Telegram   Telegram   `yaml:"telegram"`
	DataSource DataSource `yaml:"data_source"`
	Scan       Scan       `yaml:"scan"`
	Schedule   Schedule   `yaml:"schedule"`
	HTTP       HTTP       `yaml:"http"`
	Database   Database   `yaml:"database"`
	Metrics    Metrics    `yaml:"metrics"`
	Log        Log        `yaml:"log"`
	Proxy      string     `yaml:"proxy"`
}

// Load reads config from an optional YAML file, then applies .env and
// environment variable overrides, then defaults.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("YOUR_TELEGRAM_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("BYBIT_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SCAN_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCAN_TOP_N: %w", err)
		}
		cfg.Scan.TopN = n
	}
	if v := os.Getenv("SCAN_DAILY_AT"); v != "" {
		cfg.Schedule.DailyAt = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Telegram.BaseURL == "" {
		cfg.Telegram.BaseURL = "https://api.telegram.org"
	}
	if cfg.DataSource.BaseURL == "" {
		cfg.DataSource.BaseURL = "https://api.bybit.com"
	}
	if cfg.DataSource.Category == "" {
		cfg.DataSource.Category = "linear"
	}
	if cfg.DataSource.QuoteCoin == "" {
		cfg.DataSource.QuoteCoin = "USDT"
	}
	if len(cfg.DataSource.FallbackSymbols) == 0 {
		cfg.DataSource.FallbackSymbols = []string{"BTCUSDT", "ETHUSDT"}
	}
	if cfg.Scan.TopN == 0 {
		cfg.Scan.TopN = 20
	}
	if cfg.Scan.CandleLimit == 0 {
		cfg.Scan.CandleLimit = 5
	}
	if cfg.Schedule.DailyAt == "" {
		cfg.Schedule.DailyAt = "00:05"
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks that all required fields are set and well formed.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, _, err := c.Schedule.Clock(); err != nil {
		return err
	}
	return nil
}

// Clock parses DailyAt into hour and minute.
func (s Schedule) Clock() (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s.DailyAt))
	if err != nil {
		return 0, 0, fmt.Errorf("schedule.daily_at %q: want HH:MM", s.DailyAt)
	}
	return t.Hour(), t.Minute(), nil
}
