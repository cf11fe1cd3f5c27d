// SPDX-License-Identifier: MIT

package config

import "time"

// ServerConfig holds HTTP server operational parameters.
type ServerConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int
}

// ParseServerConfig reads server tuning from the environment with
// production-safe defaults.
func ParseServerConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:      ParseString("JUEGOS_LISTEN", DefaultListenAddr),
		ReadTimeout:     ParseDuration("JUEGOS_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    ParseDuration("JUEGOS_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     ParseDuration("JUEGOS_IDLE_TIMEOUT", 120*time.Second),
		ShutdownTimeout: ParseDuration("JUEGOS_SHUTDOWN_TIMEOUT", 15*time.Second),
		MaxHeaderBytes:  ParseInt("JUEGOS_MAX_HEADER_BYTES", 1<<20),
	}
}
