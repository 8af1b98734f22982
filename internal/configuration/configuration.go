package configuration

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"snookerviz/internal/chart"
	"snookerviz/internal/scrape"
	"snookerviz/internal/snooker"
	"snookerviz/internal/stats"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SNOOKERVIZ_SERVER_ADDRESS.
const EnvPrefix = "SNOOKERVIZ"

// AppConfig represents the complete application configuration.
type AppConfig struct {
	// Logger: logger component configuration
	Logger LoggerConfig `mapstructure:"logger"`
	// Server: HTTP server configuration
	Server ServerConfig `mapstructure:"server"`
	// Session: per-browser session configuration
	Session SessionConfig `mapstructure:"session"`
	// Chart: rendered chart size
	Chart ChartConfig `mapstructure:"chart"`
	// Thresholds: baseline proportion per ball, keyed by ball name
	Thresholds map[string]float64 `mapstructure:"thresholds"`
	// Scraper: upcoming matchups source
	Scraper ScraperConfig `mapstructure:"scraper"`
	// Prediction: bias rules and the prediction journal
	Prediction PredictionConfig `mapstructure:"prediction"`
}

// LoggerConfig defines logging settings.
type LoggerConfig struct {
	// Level: log level: debug, info, warn, warning, error.
	// Value is case-insensitive but checked in lowercase.
	Level string `mapstructure:"level"`
	// File: optional rotating log file, written in addition to stdout.
	File string `mapstructure:"file"`
	// MaxSize: log file size in MB before rotation.
	MaxSize int `mapstructure:"max_size"`
	// MaxBackups: number of rotated log files to keep.
	MaxBackups int `mapstructure:"max_backups"`
}

// ServerConfig contains HTTP server parameters.
type ServerConfig struct {
	// Address: address and port where the server will listen (e.g., ":8080").
	Address string `mapstructure:"address"`
	// Static: path to directory with static files served by the server.
	// Can be empty if static serving is not required.
	Static string `mapstructure:"static"`
	// Workbook: optional workbook loaded at startup and shown to every session.
	Workbook string `mapstructure:"workbook"`
	// UploadLimit: maximum upload size in MB.
	UploadLimit int `mapstructure:"upload_limit"`
	// ReadTimeout, WriteTimeout: per-request limits.
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SessionConfig defines the session store.
type SessionConfig struct {
	// Cookie: name of the cookie carrying the session token.
	Cookie string `mapstructure:"cookie"`
	// TTL: idle time after which a session and its upload are dropped.
	TTL time.Duration `mapstructure:"ttl"`
	// History: number of recent comparisons kept per session.
	History int `mapstructure:"history"`
}

// ChartConfig sizes the rendered charts in pixels.
type ChartConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// ScraperConfig defines where upcoming matchups are read from.
type ScraperConfig struct {
	URL       string           `mapstructure:"url"`
	UserAgent string           `mapstructure:"user_agent"`
	Timeout   time.Duration    `mapstructure:"timeout"`
	// MinScore: lowest fuzzy score (0..100) accepted when matching scraped names.
	MinScore  int              `mapstructure:"min_score"`
	Selectors scrape.Selectors `mapstructure:"selectors"`
}

// PredictionConfig defines bias scoring.
type PredictionConfig struct {
	// Rules: optional path to a YAML file with CEL bias rules.
	Rules string `mapstructure:"rules"`
	// Margin: bias needed to call a leaning over or under.
	Margin float64 `mapstructure:"margin"`
	// Journal: prediction journal
	Journal JournalConfig `mapstructure:"journal"`
}

// JournalConfig defines the prediction journal
type JournalConfig struct {
	// Journal file path (optional)
	File string `mapstructure:"file"`
	// Maximal journal file size (default 100M)
	Size int `mapstructure:"size"`
	// Number of journal files (default 20)
	Amount int `mapstructure:"amount"`
}

// Validate checks the correctness of the entire application configuration.
// Calls validation for each nested structure and returns the first detected error.
// Returns nil if the configuration is valid.
func (c *AppConfig) Validate() error {
	validators := []func() error{
		c.Logger.Validate,
		c.Server.Validate,
		c.Session.Validate,
		c.Chart.Validate,
		c.validateThresholds,
		c.Scraper.Validate,
		c.Prediction.Validate,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the correctness of the logger configuration.
// Supported values: debug, info, warn, warning, error (case-insensitive).
func (l *LoggerConfig) Validate() error {
	if l.Level == "" {
		return errors.New("logger.level: must be specified")
	}

	valid := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !valid[strings.ToLower(l.Level)] {
		return fmt.Errorf("logger.level: unsupported level '%s'", l.Level)
	}

	if l.File != "" && l.MaxSize <= 0 {
		return errors.New("logger.max_size: must be positive when logger.file is set")
	}

	return nil
}

// Validate checks the correctness of the server configuration.
func (n *ServerConfig) Validate() error {
	if n.Address == "" {
		return errors.New("server.address: must be specified")
	}

	if n.UploadLimit <= 0 {
		return fmt.Errorf("server.upload_limit: must be positive, got %d", n.UploadLimit)
	}

	if n.ReadTimeout <= 0 || n.WriteTimeout <= 0 {
		return errors.New("server.read_timeout, server.write_timeout: must be positive")
	}

	return nil
}

// UploadBytes is the upload limit in bytes.
func (n *ServerConfig) UploadBytes() int64 {
	return int64(n.UploadLimit) << 20
}

// Validate checks the correctness of the session configuration.
func (s *SessionConfig) Validate() error {
	if s.Cookie == "" {
		return errors.New("session.cookie: must be specified")
	}

	if s.TTL <= 0 {
		return errors.New("session.ttl: must be positive")
	}

	if s.History <= 0 {
		return fmt.Errorf("session.history: must be positive, got %d", s.History)
	}

	return nil
}

// Validate checks the chart size.
func (c *ChartConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("chart: size must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// Options converts the section for the chart package.
func (c *ChartConfig) Options() chart.Options {
	return chart.Options{Width: c.Width, Height: c.Height}
}

func (c *AppConfig) validateThresholds() error {
	_, err := c.ThresholdSet()
	return err
}

// ThresholdSet starts from the default thresholds and applies the configured ones.
func (c *AppConfig) ThresholdSet() (stats.Thresholds, error) {
	t := stats.DefaultThresholds()
	for name, v := range c.Thresholds {
		ball, err := snooker.ParseBall(name)
		if err != nil {
			return nil, fmt.Errorf("thresholds.%s: %w", name, err)
		}
		if v < 0 || v > 1 {
			return nil, fmt.Errorf("thresholds.%s: must be within [0, 1], got %v", name, v)
		}
		t[ball] = v
	}
	return t, nil
}

// Validate checks the correctness of the scraper configuration.
func (s *ScraperConfig) Validate() error {
	if _, err := url.ParseRequestURI(s.URL); err != nil {
		return fmt.Errorf("scraper.url: %w", err)
	}

	if s.Timeout <= 0 {
		return errors.New("scraper.timeout: must be positive")
	}

	if s.MinScore < 0 || s.MinScore > 100 {
		return fmt.Errorf("scraper.min_score: must be within [0, 100], got %d", s.MinScore)
	}

	sel := s.Selectors
	if sel.Event == "" || sel.Row == "" || sel.Player == "" {
		return errors.New("scraper.selectors: event, row and player must be specified")
	}

	return nil
}

// Validate checks the prediction parameters and fills journal defaults.
func (p *PredictionConfig) Validate() error {
	if p.Margin < 0 || p.Margin >= 1 {
		return fmt.Errorf("prediction.margin: must be within [0, 1), got %v", p.Margin)
	}

	return p.Journal.Validate()
}

// Validate journal parameters
func (d *JournalConfig) Validate() error {
	if d.Amount == 0 {
		d.Amount = 20
	}

	if d.Size == 0 {
		d.Size = 100
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 5)

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.static", "")
	v.SetDefault("server.workbook", "")
	v.SetDefault("server.upload_limit", 20)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	v.SetDefault("session.cookie", "snookerviz_session")
	v.SetDefault("session.ttl", 12*time.Hour)
	v.SetDefault("session.history", 10)

	v.SetDefault("chart.width", 640)
	v.SetDefault("chart.height", 400)

	for ball, t := range stats.DefaultThresholds() {
		v.SetDefault("thresholds."+ball.Key(), t)
	}

	sel := scrape.DefaultSelectors()
	v.SetDefault("scraper.url", scrape.DefaultURL)
	v.SetDefault("scraper.user_agent", scrape.DefaultUserAgent)
	v.SetDefault("scraper.timeout", 30*time.Second)
	v.SetDefault("scraper.min_score", 80)
	v.SetDefault("scraper.selectors.event", sel.Event)
	v.SetDefault("scraper.selectors.row", sel.Row)
	v.SetDefault("scraper.selectors.player", sel.Player)
	v.SetDefault("scraper.selectors.scheduled", sel.Scheduled)

	v.SetDefault("prediction.rules", "")
	v.SetDefault("prediction.margin", 0.05)
	v.SetDefault("prediction.journal.file", "")
	v.SetDefault("prediction.journal.size", 100)
	v.SetDefault("prediction.journal.amount", 20)
}

// LoadConfig loads configuration from the specified YAML file using Viper.
// Every key has a default, so an empty configPath yields the defaults.
// Environment variables (SNOOKERVIZ_ prefix, "." replaced by "_") override
// values from the file.
//
// Returns a pointer to AppConfig or an error if:
// - the file is not found or inaccessible
// - the configuration has invalid format
// - one of the sections fails validation
func LoadConfig(configPath string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}
