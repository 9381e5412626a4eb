package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ProviderConfig struct {
	BaseURL              string  `mapstructure:"base_url"`
	APIKey               string  `mapstructure:"api_key"`
	MaxRequestsPerSecond float32 `mapstructure:"max_requests_per_second"`
	// CacheTTL enables in-memory caching of identical searches when
	// positive.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

func (config ProviderConfig) validate() error {

	if config.BaseURL == "" {
		return fmt.Errorf("missing variable: provider base url")
	}

	if config.MaxRequestsPerSecond < 0 {
		return fmt.Errorf("max_requests_per_second must be non-negative")
	}

	return nil
}

func (config ProviderConfig) bindEnvironmentVariables() error {

	err := viper.BindEnv("provider.api_key", "PROVIDER_API_KEY")
	if err != nil {
		return err
	}

	return viper.BindEnv("provider.base_url", "PROVIDER_BASE_URL")
}
