package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Instrument is a single tradable symbol with its display name.
type Instrument struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}

// Group is a named collection of instruments, rendered as one table.
type Group struct {
	Name        string       `yaml:"name"`
	Instruments []Instrument `yaml:"instruments"`
}

// SessionRule maps an instrument (or group) to its session-close convention.
type SessionRule struct {
	TZ      string `yaml:"tz"`
	Cutoff  string `yaml:"cutoff"`  // time-of-day offset from local midnight, e.g. "16h30m"
	Shifted bool   `yaml:"shifted"` // fixed two-hour shift resampling instead of cutoff
}

// Config holds all application configuration.
type Config struct {
	Groups   []Group                `yaml:"groups"`
	Sessions map[string]SessionRule `yaml:"sessions"`
	Default  SessionRule            `yaml:"default_session"`
	Fetch    struct {
		HourlyRange    string `yaml:"hourly_range"`
		PreflightRange string `yaml:"preflight_range"`
		TimeoutSec     int    `yaml:"timeout_sec"`
	} `yaml:"fetch"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Report struct {
		OutputPath string `yaml:"output_path"`
		Title      string `yaml:"title"`
	} `yaml:"report"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("REPORT_PATH"); v != "" {
		cfg.Report.OutputPath = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
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

	// Defaults
	if len(cfg.Groups) == 0 {
		cfg.Groups = DefaultGroups()
	}
	if len(cfg.Sessions) == 0 {
		cfg.Sessions = DefaultSessions()
	}
	if cfg.Default.TZ == "" {
		cfg.Default = SessionRule{TZ: "America/New_York", Cutoff: "16h30m"}
	}
	if cfg.Fetch.HourlyRange == "" {
		cfg.Fetch.HourlyRange = "3mo"
	}
	if cfg.Fetch.PreflightRange == "" {
		cfg.Fetch.PreflightRange = "5d"
	}
	if cfg.Fetch.TimeoutSec == 0 {
		cfg.Fetch.TimeoutSec = 60
	}
	if cfg.Report.OutputPath == "" {
		cfg.Report.OutputPath = "index.html"
	}
	if cfg.Report.Title == "" {
		cfg.Report.Title = "Market Signal Dashboard"
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 6 * * 2-6"
	}

	return cfg, nil
}

// SessionFor resolves the session rule for a symbol within a group.
// Precedence: symbol-specific rule, then group rule, then the default.
func (c *Config) SessionFor(symbol, group string) SessionRule {
	if r, ok := c.Sessions[symbol]; ok {
		return r
	}
	if r, ok := c.Sessions[group]; ok {
		return r
	}
	return c.Default
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Groups) == 0 {
		return fmt.Errorf("at least one instrument group is required")
	}
	for _, g := range c.Groups {
		if g.Name == "" {
			return fmt.Errorf("group without a name")
		}
		for _, ins := range g.Instruments {
			if ins.Symbol == "" {
				return fmt.Errorf("group %s: instrument without a symbol", g.Name)
			}
			if err := checkRule(c.SessionFor(ins.Symbol, g.Name)); err != nil {
				return fmt.Errorf("session rule for %s: %w", ins.Symbol, err)
			}
		}
	}
	return nil
}

func checkRule(r SessionRule) error {
	if _, err := time.LoadLocation(r.TZ); err != nil {
		return fmt.Errorf("timezone %q: %w", r.TZ, err)
	}
	if r.Cutoff != "" {
		if _, err := time.ParseDuration(r.Cutoff); err != nil {
			return fmt.Errorf("cutoff %q: %w", r.Cutoff, err)
		}
	}
	return nil
}

// DefaultGroups returns the built-in instrument universe.
func DefaultGroups() []Group {
	return []Group{
		{Name: "Commodities", Instruments: []Instrument{
			{Symbol: "CL=F", Name: "WTI Crude Oil"},
			{Symbol: "GC=F", Name: "Gold"},
			{Symbol: "SI=F", Name: "Silver"},
			{Symbol: "HG=F", Name: "Copper"},
			{Symbol: "PL=F", Name: "Platinum"},
			{Symbol: "NG=F", Name: "Natural Gas"},
		}},
		{Name: "Indices", Instruments: []Instrument{
			{Symbol: "^GSPC", Name: "S&P 500"},
			{Symbol: "^NDX", Name: "Nasdaq 100"},
			{Symbol: "^DJI", Name: "Dow Jones"},
			{Symbol: "^FTSE", Name: "FTSE 100"},
			{Symbol: "^N225", Name: "Nikkei 225"},
		}},
		{Name: "FX", Instruments: []Instrument{
			{Symbol: "EURUSD=X", Name: "EUR/USD"},
			{Symbol: "GBPUSD=X", Name: "GBP/USD"},
			{Symbol: "USDJPY=X", Name: "USD/JPY"},
			{Symbol: "AUDUSD=X", Name: "AUD/USD"},
			{Symbol: "USDCAD=X", Name: "USD/CAD"},
		}},
		{Name: "Crypto", Instruments: []Instrument{
			{Symbol: "BTC-USD", Name: "Bitcoin"},
			{Symbol: "ETH-USD", Name: "Ethereum"},
		}},
	}
}

// DefaultSessions returns the built-in session-close conventions.
// The FTSE closes 21:00 New York / 02:00 UTC next day, which no clean
// local-midnight cutoff can express; it uses the shifted resample instead.
func DefaultSessions() map[string]SessionRule {
	return map[string]SessionRule{
		"Commodities": {TZ: "America/New_York", Cutoff: "16h30m"},
		"FX":          {TZ: "America/New_York", Cutoff: "17h"},
		"Crypto":      {TZ: "UTC", Cutoff: "0h"},
		"^GSPC":       {TZ: "America/New_York", Cutoff: "16h"},
		"^NDX":        {TZ: "America/New_York", Cutoff: "16h"},
		"^DJI":        {TZ: "America/New_York", Cutoff: "16h"},
		"^FTSE":       {TZ: "UTC", Cutoff: "0h", Shifted: true},
		"^N225":       {TZ: "UTC", Cutoff: "0h"},
	}
}
