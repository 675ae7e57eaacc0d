package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/orionbanner/pkg/adapters/fanart"
	"github.com/user/orionbanner/pkg/ports"
)

func TestDefaults_Validate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.Server.RateLimit.Requests != 10 || cfg.Server.RateLimit.Window != 15*time.Minute {
		t.Errorf("rate limit = %+v", cfg.Server.RateLimit)
	}
	if cfg.Cache.ImageTTL != time.Hour || cfg.Cache.QueryTTL != 30*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("fetch timeout = %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxPixels != 40_000_000 {
		t.Errorf("fetch max pixels = %d", cfg.Fetch.MaxPixels)
	}
	if proxies, err := cfg.TrustedProxies(); err != nil || len(proxies) != 0 {
		t.Errorf("no proxy should be trusted by default, got %v (%v)", proxies, err)
	}
	if cfg.Level() != ports.LevelInfo {
		t.Errorf("level = %v", cfg.Level())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orion.yaml")
	yml := `
server:
  addr: ":9090"
  rate_limit:
    requests: 3
  trusted_proxies: ["10.0.0.0/8", "192.0.2.1"]
fetch:
  timeout: 5s
  max_pixels: 1000000
cache:
  image_ttl: 2h
colors:
  - key: roxo
    primary: "#8B5CF6"
    gradient_start: "#4C1D95"
    gradient_end: "#8B5CF6"
    background: https://res.cloudinary.com/orion/themes/roxo.png
log_level: debug
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.RateLimit.Requests != 3 || cfg.Server.RateLimit.Window != 15*time.Minute {
		t.Errorf("partial override should keep the default window: %+v", cfg.Server.RateLimit)
	}
	if cfg.Fetch.MaxPixels != 1_000_000 {
		t.Errorf("MaxPixels = %d", cfg.Fetch.MaxPixels)
	}
	proxies, err := cfg.TrustedProxies()
	if err != nil || len(proxies) != 2 || proxies[1].String() != "192.0.2.1/32" {
		t.Errorf("TrustedProxies() = %v, %v", proxies, err)
	}
	if cfg.Fetch.Timeout != 5*time.Second || cfg.Cache.ImageTTL != 2*time.Hour {
		t.Errorf("durations not parsed: %v %v", cfg.Fetch.Timeout, cfg.Cache.ImageTTL)
	}
	if cfg.Cache.QueryTTL != 30*time.Minute {
		t.Errorf("QueryTTL = %v", cfg.Cache.QueryTTL)
	}
	if len(cfg.Colors) != 1 {
		t.Fatalf("colors should replace the defaults, got %d", len(cfg.Colors))
	}
	if cfg.Level() != ports.LevelDebug {
		t.Errorf("level = %v", cfg.Level())
	}

	cat, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if _, ok := cat.Lookup("ROXO"); !ok {
		t.Error("ROXO should be in the loaded catalog")
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("server: [unclosed"), 0644)
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero rate", func(c *Config) { c.Server.RateLimit.Requests = 0 }, "rate_limit"},
		{"no hosts", func(c *Config) { c.Fetch.AllowedHosts = nil }, "allowed_hosts"},
		{"zero ttl", func(c *Config) { c.Cache.QueryTTL = 0 }, "TTL"},
		{"zero pixel limit", func(c *Config) { c.Fetch.MaxPixels = 0 }, "max_pixels"},
		{"bad proxy", func(c *Config) { c.Server.TrustedProxies = []string{"lb.internal"} }, "trusted_proxies"},
		{"bad colour", func(c *Config) { c.Colors[0].Primary = "purple" }, "colors"},
		{"duplicate colour", func(c *Config) { c.Colors = append(c.Colors, c.Colors[0]) }, "colors"},
		{"background off-list", func(c *Config) { c.Colors[0].Background = "https://evil.example/roxo.png" }, "colors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestAllowedHosts_Fanart(t *testing.T) {
	cfg := Defaults()
	for _, h := range cfg.AllowedHosts() {
		if h == fanart.AssetHost {
			t.Fatal("fanart host must not be allowed without a key")
		}
	}

	cfg.Fanart.APIKey = "k"
	if !cfg.Guard().IsAllowed("https://" + fanart.AssetHost + "/fanart/movies/1/moviebackground/a.jpg") {
		t.Error("fanart assets should be allowed once the provider is enabled")
	}
	if len(Defaults().Fetch.AllowedHosts) != 3 {
		t.Error("AllowedHosts must not mutate the defaults")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"ORION_JWT_SECRET": " s3cret-s3cret-s3cret ",
		"TMDB_API_KEY":     "tmdb",
		"FANART_API_KEY":   "",
	}
	cfg := Defaults()
	cfg.Fanart.APIKey = "from-file"
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	if cfg.Auth.JWTSecret != "s3cret-s3cret-s3cret" {
		t.Errorf("JWTSecret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.TMDB.APIKey != "tmdb" {
		t.Errorf("TMDB key = %q", cfg.TMDB.APIKey)
	}
	if cfg.Fanart.APIKey != "from-file" {
		t.Error("empty env values must not clear file values")
	}
}
