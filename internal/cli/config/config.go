// Package config loads the ecschema CLI configuration from ecschema.yml.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the ecschema CLI configuration
type Config struct {
	// SearchPaths lists directories scanned for schema JSON documents when
	// resolving references from the command line.
	SearchPaths []string `mapstructure:"search_paths"`
	// Store is the sqlite schema store path, empty to disable
	Store string `mapstructure:"store"`
	// Cache holds optional redis cache settings
	Cache CacheConfig `mapstructure:"cache"`
}

// CacheConfig represents redis cache configuration
type CacheConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Load loads the configuration from ecschema.yml or ecschema.yaml in the
// working directory, falling back to defaults when absent.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("search_paths", []string{"."})

	v.SetConfigName("ecschema")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("ECSCHEMA")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}
