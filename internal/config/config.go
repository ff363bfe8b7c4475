package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inveskit/journal/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Yahoo struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"yahoo"`
	Analysis struct {
		APIURL         string `yaml:"api_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"analysis"`
	Schedule struct {
		// RefreshCron triggers re-ingestion of the stock universe.
		// Empty disables the scheduler.
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	// Stocks extends the built-in name-to-code table.
	Stocks map[string]string `yaml:"stocks"`
	// Universe lists the stocks covered by bulk initialization and the
	// refresh scheduler.
	Universe []model.Stock `yaml:"universe"`
	Proxy    string        `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
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
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("YAHOO_BASE_URL"); v != "" {
		cfg.Yahoo.BaseURL = v
	}
	if v := os.Getenv("ANALYSIS_API_URL"); v != "" {
		cfg.Analysis.APIURL = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/journal.db"
	}
	if cfg.Yahoo.TimeoutSeconds == 0 {
		cfg.Yahoo.TimeoutSeconds = 30
	}
	if cfg.Analysis.APIURL == "" {
		cfg.Analysis.APIURL = "https://aider-production-7367.up.railway.app"
	}
	if cfg.Analysis.TimeoutSeconds == 0 {
		cfg.Analysis.TimeoutSeconds = 60
	}
	if len(cfg.Universe) == 0 {
		cfg.Universe = DefaultUniverse()
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Analysis.APIURL == "" {
		return fmt.Errorf("analysis.api_url is required")
	}
	for i, s := range c.Universe {
		if s.Name == "" || s.Code == "" {
			return fmt.Errorf("universe[%d]: name and code are required", i)
		}
	}
	return nil
}

// DefaultUniverse returns the major KOSPI listings ingested by default.
func DefaultUniverse() []model.Stock {
	return []model.Stock{
		{Name: "삼성전자", Code: "005930", Market: "KOSPI"},
		{Name: "SK하이닉스", Code: "000660", Market: "KOSPI"},
		{Name: "LG에너지솔루션", Code: "373220", Market: "KOSPI"},
		{Name: "삼성바이오로직스", Code: "207940", Market: "KOSPI"},
		{Name: "현대차", Code: "005380", Market: "KOSPI"},
		{Name: "기아", Code: "000270", Market: "KOSPI"},
		{Name: "POSCO홀딩스", Code: "005490", Market: "KOSPI"},
		{Name: "네이버", Code: "035420", Market: "KOSPI"},
		{Name: "카카오", Code: "035720", Market: "KOSPI"},
		{Name: "셀트리온", Code: "068270", Market: "KOSPI"},
	}
}
