// Package config provides configuration loading and validation for sfcshift.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/sfcshift/pkg/component"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers     = errors.New("batch workers must not be negative")
	ErrInvalidMaxFileSize = errors.New("invalid max file size")
	ErrInvalidDebounce    = errors.New("watch debounce must be positive")
	ErrInvalidLogLevel    = errors.New("invalid log level")
)

// EnvPrefix prefixes environment overrides: SFCSHIFT_BATCH_WORKERS sets
// batch.workers.
const EnvPrefix = "SFCSHIFT"

// Config holds all configuration for sfcshift.
type Config struct {
	Convert       ConvertConfig       `mapstructure:"convert" json:"convert" yaml:"convert"`
	Batch         BatchConfig         `mapstructure:"batch" json:"batch" yaml:"batch"`
	Watch         WatchConfig         `mapstructure:"watch" json:"watch" yaml:"watch"`
	Observability ObservabilityConfig `mapstructure:"observability" json:"observability" yaml:"observability"`
}

// ConvertConfig selects the authoring styles and the plugin passes.
type ConvertConfig struct {
	From    string   `mapstructure:"from" json:"from" yaml:"from"`
	To      string   `mapstructure:"to" json:"to" yaml:"to"`
	Indent  string   `mapstructure:"indent" json:"indent" yaml:"indent"`
	Plugins []string `mapstructure:"plugins" json:"plugins" yaml:"plugins"`
}

// BatchConfig controls tree conversion.
type BatchConfig struct {
	MaxFileSize string   `mapstructure:"max_file_size" json:"max_file_size" yaml:"max_file_size"`
	RouterDirs  []string `mapstructure:"router_dirs" json:"router_dirs" yaml:"router_dirs"`
	StoreDirs   []string `mapstructure:"store_dirs" json:"store_dirs" yaml:"store_dirs"`
	Skip        []string `mapstructure:"skip" json:"skip" yaml:"skip"`
	Workers     int      `mapstructure:"workers" json:"workers" yaml:"workers"`
	// Incremental keeps a manifest in the output root and skips inputs
	// that did not change since it was written.
	Incremental bool `mapstructure:"incremental" json:"incremental" yaml:"incremental"`
}

// MaxFileBytes parses MaxFileSize. Zero means no limit.
func (b BatchConfig) MaxFileBytes() (uint64, error) {
	if b.MaxFileSize == "" || b.MaxFileSize == "0" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(b.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMaxFileSize, b.MaxFileSize)
	}

	return n, nil
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" json:"debounce" yaml:"debounce"`
}

// ObservabilityConfig holds logging, tracing and metrics settings.
type ObservabilityConfig struct {
	LogLevel     string `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint" yaml:"otlp_endpoint"`
	MetricsFile  string `mapstructure:"metrics_file" json:"metrics_file" yaml:"metrics_file"`
	LogJSON      bool   `mapstructure:"log_json" json:"log_json" yaml:"log_json"`
}

// LoadConfig loads configuration from file and environment variables. With
// an empty path it looks for .sfcshift.yaml in the working directory and
// the home directory, and a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".sfcshift")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("convert.from", DefaultFrom)
	viperCfg.SetDefault("convert.to", DefaultTo)
	viperCfg.SetDefault("convert.indent", DefaultIndent)
	viperCfg.SetDefault("convert.plugins", DefaultPlugins)

	viperCfg.SetDefault("batch.workers", DefaultWorkers)
	viperCfg.SetDefault("batch.max_file_size", DefaultMaxFileSize)
	viperCfg.SetDefault("batch.router_dirs", DefaultRouterDirs)
	viperCfg.SetDefault("batch.store_dirs", DefaultStoreDirs)
	viperCfg.SetDefault("batch.skip", []string{"node_modules", ".git"})
	viperCfg.SetDefault("batch.incremental", false)

	viperCfg.SetDefault("watch.debounce", DefaultDebounce.String())

	viperCfg.SetDefault("observability.log_level", DefaultLogLevel)
	viperCfg.SetDefault("observability.log_json", DefaultLogJSON)
	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.metrics_file", "")
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if _, err := component.ParseStyle(config.Convert.From); err != nil {
		return fmt.Errorf("convert.from: %w", err)
	}

	if _, err := component.ParseStyle(config.Convert.To); err != nil {
		return fmt.Errorf("convert.to: %w", err)
	}

	if config.Batch.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Batch.Workers)
	}

	if _, err := config.Batch.MaxFileBytes(); err != nil {
		return err
	}

	if config.Watch.Debounce <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDebounce, config.Watch.Debounce)
	}

	if !logLevels[strings.ToLower(config.Observability.LogLevel)] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Observability.LogLevel)
	}

	return nil
}
