package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validator validates configuration values.
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration and reports every problem at once.
func (v *Validator) Validate(cfg *Config) error {
	var errs []error

	if err := v.ValidateServer(&cfg.Server); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := v.ValidateDatabase(&cfg.Database); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	if err := v.ValidateCache(&cfg.Cache, &cfg.Redis); err != nil {
		errs = append(errs, fmt.Errorf("cache: %w", err))
	}
	if err := v.ValidateDirectory(&cfg.Directory); err != nil {
		errs = append(errs, fmt.Errorf("directory: %w", err))
	}
	if err := v.ValidateJWT(&cfg.JWT); err != nil {
		errs = append(errs, fmt.Errorf("jwt: %w", err))
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.OTLPEndpoint == "" {
		errs = append(errs, fmt.Errorf("telemetry: otlp_endpoint is required when enabled"))
	}
	if cfg.Consul.Enabled && cfg.Consul.Address == "" {
		errs = append(errs, fmt.Errorf("consul: address is required when enabled"))
	}

	return errors.Join(errs...)
}

// ValidateServer validates server configuration.
func (v *Validator) ValidateServer(cfg *ServerConfig) error {
	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", cfg.HTTPPort)
	}

	if cfg.GRPCPort > 0 {
		if cfg.GRPCPort > 65535 {
			return fmt.Errorf("invalid grpc_port: %d", cfg.GRPCPort)
		}
		if cfg.GRPCPort == cfg.HTTPPort {
			return fmt.Errorf("grpc_port cannot be the same as http_port")
		}
	}

	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.ShutdownTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}

	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate_limit cannot be negative")
	}
	if cfg.RateLimit > 0 && cfg.RateBurst <= 0 {
		return fmt.Errorf("rate_burst must be positive when rate_limit is set")
	}

	switch cfg.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid mode: %q", cfg.Mode)
	}

	return nil
}

// ValidateDatabase validates PostgreSQL configuration.
func (v *Validator) ValidateDatabase(cfg *DatabaseConfig) error {
	if cfg.URL != "" {
		u, err := url.Parse(cfg.URL)
		if err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
		if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			return fmt.Errorf("url scheme must be postgres, got %q", u.Scheme)
		}
	} else {
		if cfg.Host == "" {
			return fmt.Errorf("host is required")
		}
		if cfg.Port <= 0 || cfg.Port > 65535 {
			return fmt.Errorf("invalid port: %d", cfg.Port)
		}
		if cfg.Database == "" {
			return fmt.Errorf("database is required")
		}
	}

	if cfg.MaxConns <= 0 {
		return fmt.Errorf("max_conns must be positive")
	}
	if cfg.MinConns < 0 || cfg.MinConns > cfg.MaxConns {
		return fmt.Errorf("min_conns must be between 0 and max_conns")
	}

	return nil
}

// ValidateCache validates the cache backend selection and the redis settings it needs.
func (v *Validator) ValidateCache(cfg *CacheConfig, redis *RedisConfig) error {
	switch cfg.Backend {
	case CacheBackendRedis:
		if redis.Host == "" {
			return fmt.Errorf("redis.host is required for the redis backend")
		}
		if redis.Port <= 0 || redis.Port > 65535 {
			return fmt.Errorf("invalid redis.port: %d", redis.Port)
		}
	case CacheBackendMemory:
		if cfg.MemoryCapacity <= 0 {
			return fmt.Errorf("memory_capacity must be positive")
		}
	default:
		return fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	if cfg.TTL <= 0 {
		return fmt.Errorf("ttl must be positive")
	}
	if cfg.OpTimeout <= 0 {
		return fmt.Errorf("op_timeout must be positive")
	}
	return nil
}

// ValidateDirectory validates the station directory client settings.
func (v *Validator) ValidateDirectory(cfg *DirectoryConfig) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if cfg.RateLimit <= 0 || cfg.RateBurst <= 0 {
		return fmt.Errorf("rate_limit and rate_burst must be positive")
	}
	return nil
}

// ValidateJWT validates token verification settings.
func (v *Validator) ValidateJWT(cfg *JWTConfig) error {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return fmt.Errorf("secret is required")
	}
	if len(secret) < 32 {
		return fmt.Errorf("secret must be at least 32 characters")
	}
	return nil
}
