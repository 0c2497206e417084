package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"BreakoutRadar/internal/backtest"
	"BreakoutRadar/internal/model"
	"BreakoutRadar/internal/signal"
	"BreakoutRadar/internal/srlevels"
)

// Config holds all application configuration.
type Config struct {
	Provider struct {
		BaseURL        string  `yaml:"base_url"`
		APIKey         string  `yaml:"api_key"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		Benchmark      string  `yaml:"benchmark"`
	} `yaml:"provider"`
	Universe struct {
		Symbols []string `yaml:"symbols"`
	} `yaml:"universe"`
	Analysis struct {
		SwingWindow         int     `yaml:"swing_window"`
		ZoneTolerance       float64 `yaml:"zone_tolerance"`
		ConfluenceTolerance float64 `yaml:"confluence_tolerance"`
		MinStrengthWeekly   int     `yaml:"min_strength_weekly"`
		MinStrengthDaily    int     `yaml:"min_strength_daily"`
		MinStrengthHourly   int     `yaml:"min_strength_hourly"`
	} `yaml:"analysis"`
	Signal   signal.Config   `yaml:"signal"`
	Backtest backtest.Config `yaml:"backtest"`
	Scanner  struct {
		Workers int `yaml:"workers"`
	} `yaml:"scanner"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath    string `yaml:"sqlite_path"`
		CheckpointDir string `yaml:"checkpoint_dir"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy    string `yaml:"proxy"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. Validation is separate and fails fast.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("RADAR_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("RADAR_API_KEY"); v != "" {
		cfg.Provider.APIKey = v
	}
	if v := os.Getenv("RADAR_BENCHMARK"); v != "" {
		cfg.Provider.Benchmark = v
	}
	if v := os.Getenv("RADAR_SYMBOLS"); v != "" {
		cfg.Universe.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("RADAR_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scanner.Workers = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Provider.Benchmark == "" {
		cfg.Provider.Benchmark = "SPY"
	}
	if cfg.Provider.RequestsPerSec == 0 {
		cfg.Provider.RequestsPerSec = 2
	}
	if cfg.Analysis.SwingWindow == 0 {
		cfg.Analysis.SwingWindow = 5
	}
	if cfg.Analysis.ZoneTolerance == 0 {
		cfg.Analysis.ZoneTolerance = 0.02
	}
	if cfg.Analysis.ConfluenceTolerance == 0 {
		cfg.Analysis.ConfluenceTolerance = 0.03
	}
	if cfg.Analysis.MinStrengthWeekly == 0 {
		cfg.Analysis.MinStrengthWeekly = 2
	}
	if cfg.Analysis.MinStrengthDaily == 0 {
		cfg.Analysis.MinStrengthDaily = 3
	}
	if cfg.Analysis.MinStrengthHourly == 0 {
		cfg.Analysis.MinStrengthHourly = 2
	}
	if cfg.Signal == (signal.Config{}) {
		cfg.Signal = signal.DefaultConfig()
	}
	if cfg.Backtest.InitialCapital == 0 {
		def := backtest.DefaultConfig()
		def.Start = cfg.Backtest.Start
		def.End = cfg.Backtest.End
		cfg.Backtest = def
	}
	if cfg.Scanner.Workers == 0 {
		cfg.Scanner.Workers = 4
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 30 21 * * 1-5" // after US close
	}
	if cfg.Database.CheckpointDir == "" {
		cfg.Database.CheckpointDir = "data/checkpoints"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// AnalyzerConfig assembles the multi-timeframe S/R settings.
func (c *Config) AnalyzerConfig() srlevels.AnalyzerConfig {
	return srlevels.AnalyzerConfig{
		SwingWindow:         c.Analysis.SwingWindow,
		ZoneTolerance:       c.Analysis.ZoneTolerance,
		ConfluenceTolerance: c.Analysis.ConfluenceTolerance,
		MinStrength: map[model.Timeframe]int{
			model.TimeframeWeekly: c.Analysis.MinStrengthWeekly,
			model.TimeframeDaily:  c.Analysis.MinStrengthDaily,
			model.TimeframeHourly: c.Analysis.MinStrengthHourly,
		},
	}
}

// Validate checks that required fields are set and thresholds are usable.
// Invalid values fail here, never silently defaulted.
func (c *Config) Validate() error {
	if c.Provider.BaseURL == "" {
		return model.NewConfigurationError("provider.base_url", "is required")
	}
	if len(c.Universe.Symbols) == 0 {
		return model.NewConfigurationError("universe.symbols", "must not be empty")
	}
	if c.Analysis.SwingWindow <= 0 {
		return model.NewConfigurationError("analysis.swing_window", "must be positive")
	}
	if c.Analysis.ZoneTolerance <= 0 {
		return model.NewConfigurationError("analysis.zone_tolerance", "must be positive")
	}
	if c.Analysis.ConfluenceTolerance <= 0 {
		return model.NewConfigurationError("analysis.confluence_tolerance", "must be positive")
	}
	if c.Scanner.Workers <= 0 {
		return model.NewConfigurationError("scanner.workers", "must be positive")
	}
	if err := c.Signal.Validate(); err != nil {
		return err
	}
	return c.Backtest.Validate()
}
