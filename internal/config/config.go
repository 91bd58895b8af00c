// Package config loads sortie settings: built-in defaults, then an optional
// YAML file, then SORTIE_* environment variables, then validation.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/samdwyer/sortie/internal/api"
	"github.com/samdwyer/sortie/internal/game"
	"github.com/samdwyer/sortie/internal/telemetry"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SORTIE_"

// Config is the complete sortie configuration.
type Config struct {
	API       APIConfig       `yaml:"api" envPrefix:"API_"`
	Battle    BattleConfig    `yaml:"battle" envPrefix:"BATTLE_"`
	Catalog   CatalogConfig   `yaml:"catalog" envPrefix:"CATALOG_"`
	Log       LogConfig       `yaml:"log" envPrefix:"LOG_"`
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

// APIConfig holds the game server session.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" env:"BASE_URL" validate:"required,url"`
	UserID    string        `yaml:"user_id" env:"USER_ID" validate:"required"`
	Cookie    string        `yaml:"cookie" env:"COOKIE" validate:"required"`
	Token     string        `yaml:"token" env:"TOKEN"`
	Timeout   time.Duration `yaml:"timeout" env:"TIMEOUT" validate:"gt=0"`
	RateLimit float64       `yaml:"rate_limit" env:"RATE_LIMIT" validate:"gte=0"`
	RateBurst int           `yaml:"rate_burst" env:"RATE_BURST" validate:"gte=1"`
	UserAgent string        `yaml:"user_agent" env:"USER_AGENT"`
}

// BattleConfig holds the engine and repeat settings.
type BattleConfig struct {
	StepDelay       time.Duration    `yaml:"step_delay" env:"STEP_DELAY" validate:"gte=0"`
	MinAlive        int              `yaml:"min_alive" env:"MIN_ALIVE" validate:"gte=1,lte=6"`
	GrindMode       bool             `yaml:"grind_mode" env:"GRIND_MODE"`
	PreBoss         map[string][]int `yaml:"pre_boss" validate:"dive,keys,episode_field,endkeys,dive,gte=1"`
	CommonFormation int              `yaml:"common_formation" env:"COMMON_FORMATION" validate:"gte=0,lte=6"`
	Interval        time.Duration    `yaml:"interval" env:"INTERVAL" validate:"gte=0"`
	BadStatusWait   time.Duration    `yaml:"bad_status_wait" env:"BAD_STATUS_WAIT" validate:"gte=0"`
}

// CatalogConfig locates the reference database. An empty path disables
// name lookups.
type CatalogConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level   string `yaml:"level" env:"LEVEL" validate:"omitempty,oneof=trace debug info warn error"`
	Console bool   `yaml:"console" env:"CONSOLE"`
}

// TelemetryConfig configures tracing and the metrics listener.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled" env:"ENABLED"`
	Endpoint    string  `yaml:"endpoint" env:"ENDPOINT" validate:"omitempty,url"`
	SampleRatio float64 `yaml:"sample_ratio" env:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	MetricsAddr string  `yaml:"metrics_addr" env:"METRICS_ADDR" validate:"omitempty,hostname_port"`
}

// Tracing returns the tracer settings.
func (c TelemetryConfig) Tracing() telemetry.Config {
	return telemetry.Config{Endpoint: c.Endpoint, SampleRatio: c.SampleRatio}
}

// Default returns the built-in settings.
func Default() Config {
	g := game.DefaultConfig()
	return Config{
		API: APIConfig{
			Timeout:   30 * time.Second,
			RateLimit: 2,
			RateBurst: 1,
		},
		Battle: BattleConfig{
			StepDelay:       g.StepDelay,
			MinAlive:        g.MinAlive,
			CommonFormation: g.CommonFormation,
			Interval:        5 * time.Second,
			BadStatusWait:   10 * time.Minute,
		},
		Log:       LogConfig{Level: "info", Console: true},
		Telemetry: TelemetryConfig{SampleRatio: 1},
	}
}

// Load builds the configuration. path may be empty; a named file that does
// not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

var episodeField = regexp.MustCompile(`^[1-9][0-9]*-[1-9][0-9]*$`)

// Validate checks every field constraint.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("episode_field", func(fl validator.FieldLevel) bool {
		return episodeField.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.Struct(c)
}

// Options returns the client options for this session.
func (c APIConfig) Options() api.Options {
	limit := rate.Inf
	if c.RateLimit > 0 {
		limit = rate.Limit(c.RateLimit)
	}
	return api.Options{
		BaseURL:   c.BaseURL,
		UserID:    c.UserID,
		Cookie:    c.Cookie,
		Token:     c.Token,
		Timeout:   c.Timeout,
		RateLimit: limit,
		RateBurst: c.RateBurst,
		UserAgent: c.UserAgent,
	}
}

// Engine returns the engine settings.
func (c BattleConfig) Engine() game.Config {
	return game.Config{
		StepDelay:       c.StepDelay,
		MinAlive:        c.MinAlive,
		GrindMode:       c.GrindMode,
		PreBoss:         c.PreBoss,
		CommonFormation: c.CommonFormation,
	}
}
