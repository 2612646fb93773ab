// Package config loads the hostinfo command configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the hostinfo command configuration.
type Config struct {
	SystemctlPath  string        `mapstructure:"systemctl_path"`
	UserScope      bool          `mapstructure:"user_scope"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	Concurrency    int           `mapstructure:"concurrency"`
	UnitTimeout    time.Duration `mapstructure:"unit_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
	OutputFormat   string        `mapstructure:"output_format"`
}

// Load reads configuration from file and environment. A missing config file
// is not an error; an explicitly named one that cannot be read is. Callers
// apply their overrides and then call Validate.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("hostinfo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/hostinfo")
		v.AddConfigPath("/etc/hostinfo")
	}

	v.SetDefault("systemctl_path", "systemctl")
	v.SetDefault("user_scope", false)
	v.SetDefault("command_timeout", "10s")
	v.SetDefault("concurrency", 4)
	v.SetDefault("unit_timeout", "30s")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("output_format", "json")

	v.SetEnvPrefix("HOSTINFO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that viper cannot check by type alone.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid output_format %q: want json or yaml", c.OutputFormat)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log_format %q: want console or json", c.LogFormat)
	}
	if c.CommandTimeout < 0 || c.UnitTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}
