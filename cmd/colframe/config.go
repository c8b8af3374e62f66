package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds CLI defaults loadable from a YAML config file.
type Config struct {
	Format string `mapstructure:"format"`
	Limit  int    `mapstructure:"limit"`
}

func defaultConfig() Config {
	return Config{Format: "jsonl"}
}

// loadConfig reads a YAML config file. A missing file at the default
// location is not an error; an explicitly given path must exist.
func loadConfig(path string, required bool) (Config, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(path); err != nil {
		if required {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("format", cfg.Format)
	v.SetDefault("limit", cfg.Limit)

	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}
