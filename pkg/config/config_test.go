package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	Init(filepath.Join(t.TempDir(), "absent.yaml"))
	cfg := Load()

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL = %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.CacheTTL, DefaultCacheTTL)
	}
	if cfg.MockMode || cfg.Verbose {
		t.Error("boolean flags must default to false")
	}
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "planedeck.yaml")
	content := `api_url: https://api.example.com/v1
token: tok-123
cache_ttl: 45s
webhook_url: https://hooks.example.com/T00/B00
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	Init(path)
	cfg := Load()

	if cfg.APIURL != "https://api.example.com/v1" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Token != "tok-123" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.CacheTTL != 45*time.Second {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.WebhookURL != "https://hooks.example.com/T00/B00" {
		t.Errorf("WebhookURL = %q", cfg.WebhookURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("PLANEDECK_API_URL", "http://env.example.com")
	t.Setenv("PLANEDECK_VERBOSE", "true")

	Init(filepath.Join(t.TempDir(), "absent.yaml"))
	cfg := Load()

	if cfg.APIURL != "http://env.example.com" {
		t.Errorf("env APIURL not applied: %q", cfg.APIURL)
	}
	if !cfg.Verbose {
		t.Error("env Verbose not applied")
	}
}

func TestLoadSanitizesBadValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("api_url", "")
	viper.Set("cache_ttl", -time.Second)

	cfg := Load()
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("empty APIURL not defaulted: %q", cfg.APIURL)
	}
	if cfg.CacheTTL != DefaultCacheTTL {
		t.Errorf("negative CacheTTL not defaulted: %v", cfg.CacheTTL)
	}
}
