package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/glabrego/vidfeed/internal/session"
)

const (
	defaultBaseURL    = "http://localhost:5000"
	defaultTrackRate  = 5
	defaultTrackBurst = 10
)

// Config holds runtime settings for the CLI app.
type Config struct {
	BaseURL    string  `yaml:"base_url"`
	DBPath     string  `yaml:"db_path"`
	View       string  `yaml:"view"`
	Sort       string  `yaml:"sort"`
	LogPath    string  `yaml:"log_path"`
	LogLevel   string  `yaml:"log_level"`
	Rollback   bool    `yaml:"rollback_on_failure"`
	TrackRate  float64 `yaml:"track_rate"`
	TrackBurst int     `yaml:"track_burst"`
}

// LoadFromEnv reads the optional YAML file named by VIDFEED_CONFIG and then
// applies environment overrides.
func LoadFromEnv() (Config, error) {
	var cfg Config
	if path := os.Getenv("VIDFEED_CONFIG"); path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	overrideString(&cfg.BaseURL, "VIDFEED_BASE_URL")
	overrideString(&cfg.DBPath, "VIDFEED_DB_PATH")
	overrideString(&cfg.View, "VIDFEED_VIEW")
	overrideString(&cfg.Sort, "VIDFEED_SORT")
	overrideString(&cfg.LogPath, "VIDFEED_LOG_PATH")
	overrideString(&cfg.LogLevel, "VIDFEED_LOG_LEVEL")
	if raw := os.Getenv("VIDFEED_ROLLBACK"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("VIDFEED_ROLLBACK must be a boolean: %s", raw)
		}
		cfg.Rollback = v
	}
	if raw := os.Getenv("VIDFEED_TRACK_RATE"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("VIDFEED_TRACK_RATE must be a number: %s", raw)
		}
		cfg.TrackRate = v
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile parses a YAML config file without applying defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.DBPath == "" {
		c.DBPath = "vidfeed.db"
	}
	if c.View == "" {
		c.View = string(session.ViewUnwatched)
	}
	if c.Sort == "" {
		c.Sort = string(session.SortDateDesc)
	}
	if c.LogPath == "" {
		c.LogPath = "vidfeed.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.TrackRate == 0 {
		c.TrackRate = defaultTrackRate
	}
	if c.TrackBurst == 0 {
		c.TrackBurst = defaultTrackBurst
	}
}

func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("BaseURL is required")
	}
	if c.DBPath == "" {
		return errors.New("DBPath is required")
	}
	if strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("VIDFEED_BASE_URL must not end with '/': %s", c.BaseURL)
	}
	if _, err := session.ParseView(c.View); err != nil {
		return fmt.Errorf("VIDFEED_VIEW: %w", err)
	}
	if _, err := session.ParseSort(c.Sort); err != nil {
		return fmt.Errorf("VIDFEED_SORT: %w", err)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("VIDFEED_LOG_LEVEL must be debug, info, warn or error: %s", c.LogLevel)
	}
	if c.TrackRate <= 0 {
		return fmt.Errorf("VIDFEED_TRACK_RATE must be positive: %v", c.TrackRate)
	}
	if c.TrackBurst < 1 {
		return fmt.Errorf("track_burst must be at least 1: %d", c.TrackBurst)
	}
	return nil
}

func (c Config) InitialView() session.View {
	v, _ := session.ParseView(c.View)
	return v
}

func (c Config) InitialSort() session.Sort {
	s, _ := session.ParseSort(c.Sort)
	return s
}
