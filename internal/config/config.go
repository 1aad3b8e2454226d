// Package config loads application configuration from environment
// variables following 12-factor principles.
package config

import (
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds everything the classification engine needs from its
// environment: the home platform's DNS fingerprint, cache tuning, the
// denylist, and the addresses of its collaborators.
type Config struct {
	// HomePlatformIP is the canonical A-record address of the home
	// platform; an exact match on it is the strongest home signal.
	HomePlatformIP string `env:"HOME_PLATFORM_IP,required"`

	// HomeCNAMEPatterns are substrings that mark a CNAME as pointing at
	// the home platform's edge.
	HomeCNAMEPatterns []string `env:"HOME_CNAME_PATTERNS" envSeparator:","`

	// DNSCacheTTL bounds how long one resolution result stays fresh.
	DNSCacheTTL time.Duration `env:"DNS_CACHE_TTL" envDefault:"600s"`

	// DenylistDomains override the built-in list of non-commercial
	// hosts (ad network properties, link shorteners); empty keeps the
	// default.
	DenylistDomains []string `env:"DENYLIST_DOMAINS" envSeparator:","`

	// Collaborators
	DatabaseURL string `env:"DB_URL,required"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`

	// API surface
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`
	APIKey     string `env:"API_SECRET_KEY"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// AnalysisTimeout caps one client's classification pass in the
	// worker; DNS-heavy clients with thousands of ads need headroom.
	AnalysisTimeout time.Duration `env:"ANALYSIS_TIMEOUT" envDefault:"10m"`
}

// Load parses environment variables and validates the fields whose
// shape env tags cannot express.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if net.ParseIP(cfg.HomePlatformIP) == nil {
		return nil, fmt.Errorf("HOME_PLATFORM_IP is not a valid IP address: %q", cfg.HomePlatformIP)
	}
	if cfg.DNSCacheTTL <= 0 {
		return nil, fmt.Errorf("DNS_CACHE_TTL must be positive, got %s", cfg.DNSCacheTTL)
	}
	return cfg, nil
}
