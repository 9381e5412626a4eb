package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type SearchLocation struct {
	Country string `mapstructure:"country" validate:"required"`
	Place   string `mapstructure:"place"`
}

type ScraperConfig struct {
	Sites             []string         `mapstructure:"sites" validate:"required,min=1,dive,oneof=indeed glassdoor google"`
	SearchTerms       []string         `mapstructure:"search_terms" validate:"required,min=1,dive,min=1"`
	GoogleSearchTerms []string         `mapstructure:"google_search_terms"`
	Locations         []SearchLocation `mapstructure:"locations" validate:"required,min=1,dive"`
	// IndeedCountryCodes translates configured country names into the
	// identifiers indeed searches expect.
	IndeedCountryCodes map[string]string `mapstructure:"indeed_country_codes"`
	BatchSize          int               `mapstructure:"batch_size" validate:"gte=1"`
	RequestDelay       time.Duration     `mapstructure:"request_delay" validate:"gte=0"`
	HoursOld           int               `mapstructure:"hours_old" validate:"gte=0"`
	ResultsWanted      int               `mapstructure:"results_wanted" validate:"gte=1,lte=100"`
	// Schedule is a cron spec; when empty the aggregator runs once and
	// exits.
	Schedule string `mapstructure:"schedule"`
}

func (config ScraperConfig) validate() error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid scraper configuration: %w", err)
	}
	return nil
}

func (config ScraperConfig) bindEnvironmentVariables() error {
	return viper.BindEnv("scraper.schedule", "SCRAPE_SCHEDULE")
}
