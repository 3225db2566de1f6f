package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config is the application configuration. Secrets (DATABASE_URL,
// JWT_SECRET) stay in the environment; everything else lives here.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Locales   []string        `mapstructure:"locales"`
	Country   CountryConfig   `mapstructure:"country"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Timezone  TimezoneConfig  `mapstructure:"timezone"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
}

type ServerConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type CountryConfig struct {
	Default string `mapstructure:"default"`
}

type ProvidersConfig struct {
	HolidaysBaseURL string `mapstructure:"holidays_base_url"`
	HolidaysAPIKey  string `mapstructure:"holidays_api_key"`
	GeocoderBaseURL string `mapstructure:"geocoder_base_url"`
	TimezoneBaseURL string `mapstructure:"timezone_base_url"`
	Timeout         string `mapstructure:"timeout"`
}

type TimezoneConfig struct {
	CacheSize int `mapstructure:"cache_size"`
}

type JobsConfig struct {
	// HolidayRefreshCron keeps the current/next-year holiday horizon rolling.
	HolidayRefreshCron string `mapstructure:"holiday_refresh_cron"`
	GenerateTimeout    string `mapstructure:"generate_timeout"`
}

// Load reads config.yaml (or the given file) with env overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/horarios")
	}

	v.SetDefault("locales", []string{"en"})
	v.SetDefault("country.default", "BE")
	v.SetDefault("providers.timeout", "20s")
	v.SetDefault("timezone.cache_size", 256)
	v.SetDefault("jobs.holiday_refresh_cron", "0 3 * * *")
	v.SetDefault("jobs.generate_timeout", "45s")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if len(c.Locales) == 0 {
		return fmt.Errorf("locales must not be empty")
	}
	for _, l := range c.Locales {
		if _, err := language.Parse(l); err != nil {
			return fmt.Errorf("invalid locale %q: %w", l, err)
		}
	}

	if c.Country.Default == "" {
		return fmt.Errorf("country.default is required")
	}
	if c.Providers.HolidaysBaseURL == "" {
		return fmt.Errorf("providers.holidays_base_url is required")
	}
	if c.Providers.GeocoderBaseURL == "" {
		return fmt.Errorf("providers.geocoder_base_url is required")
	}
	if c.Providers.TimezoneBaseURL == "" {
		return fmt.Errorf("providers.timezone_base_url is required")
	}
	if _, err := time.ParseDuration(c.Providers.Timeout); err != nil {
		return fmt.Errorf("invalid providers.timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Jobs.GenerateTimeout); err != nil {
		return fmt.Errorf("invalid jobs.generate_timeout: %w", err)
	}
	if c.Jobs.HolidayRefreshCron == "" {
		return fmt.Errorf("jobs.holiday_refresh_cron is required")
	}
	return nil
}

// ProviderTimeout returns the parsed provider HTTP timeout.
func (c *Config) ProviderTimeout() time.Duration {
	d, err := time.ParseDuration(c.Providers.Timeout)
	if err != nil {
		return 20 * time.Second
	}
	return d
}

// GenerateTimeout returns the budget for one holiday-generation run.
func (c *Config) GenerateTimeout() time.Duration {
	d, err := time.ParseDuration(c.Jobs.GenerateTimeout)
	if err != nil {
		return 45 * time.Second
	}
	return d
}
