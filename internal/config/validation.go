// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate rejects configurations that cannot work at runtime. It fails
// fast at startup rather than surfacing errors on first request.
func Validate(cfg AppConfig) error {
	if _, _, err := net.SplitHostPort(cfg.ListenAddr); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", cfg.ListenAddr, err)
	}

	switch cfg.CacheBackend {
	case "memory", "none":
	case "redis":
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return fmt.Errorf("cache backend is redis but JUEGOS_REDIS_ADDR is empty")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (expected memory, redis or none)", cfg.CacheBackend)
	}

	switch cfg.MediaBackend {
	case "dir", "badger":
	default:
		return fmt.Errorf("unknown media backend %q (expected dir or badger)", cfg.MediaBackend)
	}

	if cfg.MediaMaxBytes <= 0 {
		return fmt.Errorf("media max bytes must be positive, got %d", cfg.MediaMaxBytes)
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}
	if cfg.ReviewRatePerMinute < 0 {
		return fmt.Errorf("review rate must not be negative")
	}

	if cfg.TrustedProxies != "" {
		for _, part := range strings.Split(cfg.TrustedProxies, ",") {
			p := strings.TrimSpace(part)
			if p == "" {
				continue
			}
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("invalid trusted proxy CIDR %q: %w", p, err)
			}
		}
	}
	return nil
}
