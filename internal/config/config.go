// Package config provides configuration loading for stealthctl.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/smallyu/go-stealth/internal/address"
	"github.com/smallyu/go-stealth/internal/logging"
)

// EnvPrefix is prepended to every environment override, e.g.
// STEALTH_CHAIN or STEALTH_LOG_LEVEL.
const EnvPrefix = "STEALTH"

// Config holds all configuration for the application.
type Config struct {
	// Chain selects the address encoder and the deterministic key salt.
	Chain string `mapstructure:"chain"`
	// Workers bounds concurrent event scanning.
	Workers int            `mapstructure:"workers"`
	Log     logging.Config `mapstructure:"log"`
}

// Load reads configuration from the given file (optional), then
// environment variables, then defaults. A non-nil v lets the caller bind
// command-line flags before loading.
func Load(v *viper.Viper, file string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Nested keys are not picked up by AutomaticEnv on Unmarshal.
	_ = v.BindEnv("log.level")
	_ = v.BindEnv("log.format")

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(address.Default()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("chain", address.ChainSHA3)
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", logging.FormatConsole)
}

// Validate checks the configuration against the chains known to reg.
func (c *Config) Validate(reg *address.Registry) error {
	if _, err := reg.Lookup(c.Chain); err != nil {
		return err
	}
	if c.Workers < 1 {
		return errors.New("config: workers must be positive")
	}
	switch c.Log.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}
