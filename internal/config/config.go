// Package config loads the settings of the cleaner from the environment and an optional
// YAML file.
package config

import (
	"os"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable, e.g. CLEANER_SERVER_ADDR.
const EnvPrefix = "CLEANER"

type Config struct {
	Server      ServerConfig `yaml:"server" envconfig:"SERVER"`
	Log         LogConfig    `yaml:"log" envconfig:"LOG"`
	Ingest      IngestConfig `yaml:"ingest" envconfig:"INGEST"`
	PreviewRows int          `yaml:"preview_rows" envconfig:"PREVIEW_ROWS" default:"10" validate:"gte=0"`
}

type ServerConfig struct {
	Addr            string          `yaml:"addr" envconfig:"ADDR" default:":8080" validate:"required"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gt=0"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
	MaxUploadBytes  int64           `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"33554432" validate:"gt=0"`
	AllowedOrigins  []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"*"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"10" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"20" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
}

type IngestConfig struct {
	// Delimiter is a single character.
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" default:"," validate:"len=1"`
	// Concurrency is the number of goroutines parsing cells, 0 uses every CPU.
	Concurrency int `yaml:"concurrency" envconfig:"CONCURRENCY" default:"0" validate:"gte=0"`
	// Buffer is the channel capacity between ingestion steps.
	Buffer int `yaml:"buffer" envconfig:"BUFFER" default:"64" validate:"gte=0"`
}

// DelimiterRune returns the delimiter as a rune.
func (c IngestConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)

	return r
}

// Load reads the environment, then overlays the YAML file at path when path is set. Keys
// present in the file win over the environment.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to load config from env")
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "unable to read config file")
		}
		if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "unable to parse config file %s", path)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	return nil
}
