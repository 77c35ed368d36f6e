// Package config defines client configuration and defaults.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is everything the client needs at startup.
type Config struct {
	// APIURL is the base URL of the control-plane API.
	APIURL string
	// Token is an optional bearer token attached to every request.
	Token string
	// CacheTTL is the freshness window of the resource store.
	CacheTTL time.Duration
	// WebhookURL, when set, receives a digest of failed workflows.
	WebhookURL string
	// OTLPEndpoint, when set, enables trace export.
	OTLPEndpoint string
	// MockMode runs against canned fixtures instead of the API.
	MockMode bool
	// Verbose enables text logging to stderr.
	Verbose bool
}

// Defaults.
const (
	DefaultAPIURL   = "http://localhost:8080/api/v1"
	DefaultCacheTTL = 30 * time.Second
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		CacheTTL: DefaultCacheTTL,
	}
}

// Init wires viper to the profile file and environment. Flags are bound
// by the root command on top of this.
func Init(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".planedeck.yaml"))
			viper.SetConfigType("yaml")
		}
	}

	viper.SetDefault("api_url", DefaultAPIURL)
	viper.SetDefault("cache_ttl", DefaultCacheTTL)

	viper.SetEnvPrefix("PLANEDECK")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

// Load materializes a Config from viper's merged sources.
func Load() Config {
	cfg := Config{
		APIURL:       viper.GetString("api_url"),
		Token:        viper.GetString("token"),
		CacheTTL:     viper.GetDuration("cache_ttl"),
		WebhookURL:   viper.GetString("webhook_url"),
		OTLPEndpoint: viper.GetString("otlp_endpoint"),
		MockMode:     viper.GetBool("mock"),
		Verbose:      viper.GetBool("verbose"),
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	return cfg
}
