// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/orionbanner/pkg/adapters/fanart"
	"github.com/user/orionbanner/pkg/adapters/httpfetcher"
	"github.com/user/orionbanner/pkg/adapters/tmdb"
	"github.com/user/orionbanner/pkg/cache"
	"github.com/user/orionbanner/pkg/catalog"
	"github.com/user/orionbanner/pkg/ports"
	"github.com/user/orionbanner/pkg/server"
	"github.com/user/orionbanner/pkg/urlguard"
)

// Config represents the full configuration for orionbanner.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Auth   AuthConfig   `yaml:"auth"`
	Fetch  FetchConfig  `yaml:"fetch"`
	Cache  CacheConfig  `yaml:"cache"`
	Assets AssetsConfig `yaml:"assets"`

	// Colors replaces the built-in catalog when set.
	Colors []catalog.Entry `yaml:"colors"`

	TMDB   ProviderConfig `yaml:"tmdb"`
	Fanart ProviderConfig `yaml:"fanart"`

	UsersFile string `yaml:"users_file"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Debug
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string          `yaml:"addr"`
	ReadTimeout     time.Duration   `yaml:"read_timeout"`
	WriteTimeout    time.Duration   `yaml:"write_timeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64           `yaml:"max_body_bytes"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`

	// TrustedProxies lists addresses or CIDR ranges allowed to set
	// X-Forwarded-For and X-Real-IP. Other peers are limited by their own
	// address.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// RateLimitConfig allows Requests per Window for each client IP.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
}

// FetchConfig controls remote image downloads.
type FetchConfig struct {
	AllowedHosts []string      `yaml:"allowed_hosts"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBytes     int64         `yaml:"max_bytes"`
	MaxPixels    int64         `yaml:"max_pixels"`
}

// CacheConfig sets the lifetime of the two in-memory caches.
type CacheConfig struct {
	ImageTTL  time.Duration `yaml:"image_ttl"`
	QueryTTL  time.Duration `yaml:"query_ttl"`
	HighWater int           `yaml:"high_water"`
}

// AssetsConfig points at local files bundled with the service.
// FontRegular and FontBold replace the embedded Go fonts. The Go fonts lack
// emoji, so the metadata star is drawn as a vector shape; configure a font
// carrying U+2B50 to render the glyph itself.
type AssetsConfig struct {
	DefaultLogo string `yaml:"default_logo"`
	FontRegular string `yaml:"font_regular"`
	FontBold    string `yaml:"font_bold"`
}

// ProviderConfig configures a metadata API. An empty key disables it.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    64 << 10,
			RateLimit: RateLimitConfig{
				Requests: 10,
				Window:   15 * time.Minute,
			},
		},
		Fetch: FetchConfig{
			AllowedHosts: append([]string(nil), urlguard.DefaultHosts...),
			Timeout:      httpfetcher.DefaultTimeout,
			UserAgent:    httpfetcher.DefaultUserAgent,
			MaxBytes:     httpfetcher.DefaultMaxBytes,
			MaxPixels:    httpfetcher.DefaultMaxPixels,
		},
		Cache: CacheConfig{
			ImageTTL:  time.Hour,
			QueryTTL:  30 * time.Minute,
			HighWater: cache.DefaultHighWater,
		},
		Assets: AssetsConfig{
			DefaultLogo: "assets/logo.png",
		},
		Colors: catalog.Defaults(),
		TMDB: ProviderConfig{
			BaseURL: tmdb.DefaultBaseURL,
		},
		Fanart: ProviderConfig{
			BaseURL: fanart.DefaultBaseURL,
		},
		LogLevel: "info",
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file over Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides secrets from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.Auth.JWTSecret, "ORION_JWT_SECRET")
	set(&c.TMDB.APIKey, "TMDB_API_KEY")
	set(&c.Fanart.APIKey, "FANART_API_KEY")
}

// AllowedHosts returns the fetch allow-list, extended with the fanart.tv
// asset host when that provider is enabled.
func (c Config) AllowedHosts() []string {
	hosts := append([]string(nil), c.Fetch.AllowedHosts...)
	if c.Fanart.APIKey != "" {
		hosts = append(hosts, fanart.AssetHost)
	}
	return hosts
}

// Guard builds the URL validator for AllowedHosts.
func (c Config) Guard() *urlguard.Validator {
	return urlguard.New(c.AllowedHosts()...)
}

// Catalog builds the colour catalog, checking every background against the
// allow-list.
func (c Config) Catalog() (*catalog.Catalog, error) {
	return catalog.New(c.Colors, c.Guard())
}

// TrustedProxies parses server.trusted_proxies.
func (c Config) TrustedProxies() ([]netip.Prefix, error) {
	return server.ParseTrustedProxies(c.Server.TrustedProxies)
}

// Level returns the configured log level.
func (c Config) Level() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}

// Validate checks the values that cannot be defaulted at use site.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.RateLimit.Requests <= 0 || c.Server.RateLimit.Window <= 0 {
		return fmt.Errorf("server.rate_limit must allow at least one request per positive window")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if _, err := c.TrustedProxies(); err != nil {
		return fmt.Errorf("server.trusted_proxies: %w", err)
	}
	if len(c.Fetch.AllowedHosts) == 0 {
		return fmt.Errorf("fetch.allowed_hosts must not be empty")
	}
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Fetch.MaxPixels <= 0 {
		return fmt.Errorf("fetch.max_pixels must be positive")
	}
	if c.Cache.ImageTTL <= 0 || c.Cache.QueryTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("colors: %w", err)
	}
	return nil
}
