package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds all configuration for the provider.
// Tags use mapstructure for Viper unmarshalling and env for environment variable binding.
type ServerConfig struct {
	HTTPPort  string `mapstructure:"HTTP_PORT"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	OtelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// Hydra admin API, where login/consent challenges are fetched and resolved.
	HydraAdminURL string `mapstructure:"HYDRA_ADMIN_URL"`

	// Crowd directory service and the application credential used to call it.
	CrowdBaseURL     string `mapstructure:"CROWD_BASEURL"`
	CrowdApplication string `mapstructure:"CROWD_APPLICATION"`
	CrowdPassword    string `mapstructure:"CROWD_PASSWORD"`

	// Session cookie carrying the Crowd SSO token between login and consent.
	CookieName   string `mapstructure:"CROWD_COOKIE_NAME"`
	CookieDomain string `mapstructure:"CROWD_COOKIE_DOMAIN"`
	CookieSecure bool   `mapstructure:"CROWD_COOKIE_SECURE"`
	CookieMaxAge int    `mapstructure:"CROWD_COOKIE_MAX_AGE_SEC"`

	// Policy values attached to accepted challenges. RememberForSec of 0 means
	// "never expires" on the Hydra side, so it must be set deliberately.
	RememberForSec int    `mapstructure:"REMEMBER_FOR_SEC"`
	IDTokenLocale  string `mapstructure:"ID_TOKEN_LOCALE"`
	IDTokenZone    string `mapstructure:"ID_TOKEN_ZONEINFO"`
}

// LoadConfig reads configuration from file, environment variables, and defaults.
func LoadConfig() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("/etc/crowdprovider/")
	v.AddConfigPath("$HOME/.crowdprovider")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
	v.SetDefault("OTEL_SERVICE_NAME", "hydra-crowdprovider")
	v.SetDefault("HYDRA_ADMIN_URL", "http://localhost:4445")
	v.SetDefault("CROWD_COOKIE_NAME", "crowd.token_key")
	v.SetDefault("CROWD_COOKIE_SECURE", false)
	v.SetDefault("CROWD_COOKIE_MAX_AGE_SEC", 240)
	v.SetDefault("REMEMBER_FOR_SEC", 3600)
	v.SetDefault("ID_TOKEN_LOCALE", "de-DE")
	v.SetDefault("ID_TOKEN_ZONEINFO", "Europe/Berlin")

	if err := v.ReadInConfig(); err != nil {
		// ConfigFileNotFoundError is acceptable, means we use defaults/env vars.
		// Other errors (e.g., permission issues, malformed config) should be returned.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if cfg.CrowdBaseURL == "" {
		return nil, fmt.Errorf("CROWD_BASEURL is required")
	}
	if cfg.CrowdApplication == "" || cfg.CrowdPassword == "" {
		return nil, fmt.Errorf("CROWD_APPLICATION and CROWD_PASSWORD are required")
	}

	return &cfg, nil
}
