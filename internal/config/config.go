// Package config loads parselinks settings from defaults, an optional config
// file and PARSELINKS_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (server.port -> PARSELINKS_SERVER_PORT).
const EnvPrefix = "PARSELINKS"

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Convert ConvertConfig `mapstructure:"convert"`
	Log     LogConfig     `mapstructure:"log"`
}

// ServerConfig configures the HTTP layer.
type ServerConfig struct {
	Port      int     `mapstructure:"port"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second, 0 disables
	RateBurst int     `mapstructure:"rate_burst"`
}

// FetchConfig configures the page fetcher.
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// BatchConfig configures batch fan-out.
type BatchConfig struct {
	MaxPages    int `mapstructure:"max_pages"`
	Concurrency int `mapstructure:"concurrency"`
}

// ConvertConfig configures the extraction pipeline.
type ConvertConfig struct {
	QualityThreshold int `mapstructure:"quality_threshold"`
	CharThreshold    int `mapstructure:"char_threshold"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("fetch.timeout", time.Second)
	v.SetDefault("fetch.user_agent", "parselinks/1.0")
	v.SetDefault("batch.max_pages", 10)
	v.SetDefault("batch.concurrency", 6)
	v.SetDefault("convert.quality_threshold", 1000)
	v.SetDefault("convert.char_threshold", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads path (if non-empty) into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must not be negative"))
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		errs = append(errs, fmt.Errorf("server.rate_burst must be positive when rate_limit is set"))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must be positive"))
	}
	if c.Batch.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("batch.max_pages must be positive"))
	}
	if c.Batch.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("batch.concurrency must be positive"))
	}
	if c.Convert.QualityThreshold < 0 {
		errs = append(errs, fmt.Errorf("convert.quality_threshold must not be negative"))
	}
	if c.Convert.CharThreshold < 1 {
		errs = append(errs, fmt.Errorf("convert.char_threshold must be positive"))
	}
	return errors.Join(errs...)
}
