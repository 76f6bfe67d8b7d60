package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{HTTPPort: 8080, GRPCPort: 9090, Mode: "release"},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, Database: "radio", MaxConns: 10, MinConns: 1},
		Redis:    RedisConfig{Host: "localhost", Port: 6379},
		Cache:    CacheConfig{Backend: CacheBackendRedis, TTL: time.Hour, OpTimeout: time.Second, MemoryCapacity: 10},
		Directory: DirectoryConfig{
			BaseURL:   "https://de1.api.radio-browser.info",
			Timeout:   time.Second,
			RateLimit: 1,
			RateBurst: 1,
		},
		JWT: JWTConfig{Secret: testSecret},
	}
}

func TestValidator_Valid(t *testing.T) {
	assert.NoError(t, NewValidator().Validate(validConfig()))
}

func TestValidator_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }, "http_port"},
		{"same ports", func(c *Config) { c.Server.GRPCPort = 8080 }, "grpc_port"},
		{"bad mode", func(c *Config) { c.Server.Mode = "prod" }, "mode"},
		{"negative rate limit", func(c *Config) { c.Server.RateLimit = -1 }, "rate_limit"},
		{"rate limit without burst", func(c *Config) { c.Server.RateLimit = 5 }, "rate_burst"},
		{"bad db url", func(c *Config) { c.Database.URL = "mysql://x" }, "scheme"},
		{"min over max", func(c *Config) { c.Database.MinConns = 20 }, "min_conns"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, "unknown backend"},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }, "ttl"},
		{"bad base url", func(c *Config) { c.Directory.BaseURL = "not a url" }, "base_url"},
		{"short secret", func(c *Config) { c.JWT.Secret = "short" }, "32"},
		{"telemetry endpoint", func(c *Config) { c.Telemetry.Enabled = true }, "otlp_endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := NewValidator().Validate(cfg)
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestValidator_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.HTTPPort = -1
	cfg.JWT.Secret = ""

	err := NewValidator().Validate(cfg)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "server")
		assert.Contains(t, err.Error(), "jwt")
	}
}
