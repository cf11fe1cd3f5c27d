// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the YAML configuration file. Pointer fields distinguish
// "unset" from zero values so the file only overrides what it names.
type FileConfig struct {
	Listen         *string        `yaml:"listen"`
	DataDir        *string        `yaml:"dataDir"`
	DBPath         *string        `yaml:"dbPath"`
	LogLevel       *string        `yaml:"logLevel"`
	APIToken       *string        `yaml:"apiToken"`
	AllowedOrigins []string       `yaml:"allowedOrigins"`
	TrustedProxies *string        `yaml:"trustedProxies"`
	RateLimitRPS   *int           `yaml:"rateLimitRps"`
	RateLimitBurst *int           `yaml:"rateLimitBurst"`
	Metrics        *MetricsFile   `yaml:"metrics"`
	Cache          *CacheFile     `yaml:"cache"`
	Media          *MediaFile     `yaml:"media"`
	ReviewRate     *int           `yaml:"reviewRatePerMinute"`
	OTLPEndpoint   *string        `yaml:"otlpEndpoint"`
	ImportOnStart  *bool          `yaml:"importOnStart"`
}

// MetricsFile is the metrics section of the config file.
type MetricsFile struct {
	Enabled *bool   `yaml:"enabled"`
	Addr    *string `yaml:"addr"`
}

// CacheFile is the cache section of the config file.
type CacheFile struct {
	Backend       *string        `yaml:"backend"`
	TTL           *time.Duration `yaml:"ttl"`
	RedisAddr     *string        `yaml:"redisAddr"`
	RedisPassword *string        `yaml:"redisPassword"`
	RedisDB       *int           `yaml:"redisDb"`
}

// MediaFile is the media section of the config file.
type MediaFile struct {
	Backend  *string `yaml:"backend"`
	Dir      *string `yaml:"dir"`
	MaxBytes *int64  `yaml:"maxBytes"`
}

func readFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator flags/env
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("not found: %w", err)
		}
		return nil, err
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &fc, nil
}

func mergeFile(cfg *AppConfig, fc *FileConfig) {
	if fc == nil {
		return
	}
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&cfg.ListenAddr, fc.Listen)
	setStr(&cfg.DataDir, fc.DataDir)
	setStr(&cfg.DBPath, fc.DBPath)
	setStr(&cfg.LogLevel, fc.LogLevel)
	setStr(&cfg.APIToken, fc.APIToken)
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	setStr(&cfg.TrustedProxies, fc.TrustedProxies)
	if fc.RateLimitRPS != nil {
		cfg.RateLimitRPS = *fc.RateLimitRPS
	}
	if fc.RateLimitBurst != nil {
		cfg.RateLimitBurst = *fc.RateLimitBurst
	}
	if fc.Metrics != nil {
		if fc.Metrics.Enabled != nil {
			cfg.MetricsEnabled = *fc.Metrics.Enabled
		}
		setStr(&cfg.MetricsAddr, fc.Metrics.Addr)
	}
	if fc.Cache != nil {
		setStr(&cfg.CacheBackend, fc.Cache.Backend)
		if fc.Cache.TTL != nil {
			cfg.CacheTTL = *fc.Cache.TTL
		}
		setStr(&cfg.RedisAddr, fc.Cache.RedisAddr)
		setStr(&cfg.RedisPassword, fc.Cache.RedisPassword)
		if fc.Cache.RedisDB != nil {
			cfg.RedisDB = *fc.Cache.RedisDB
		}
	}
	if fc.Media != nil {
		setStr(&cfg.MediaBackend, fc.Media.Backend)
		setStr(&cfg.MediaDir, fc.Media.Dir)
		if fc.Media.MaxBytes != nil {
			cfg.MediaMaxBytes = *fc.Media.MaxBytes
		}
	}
	if fc.ReviewRate != nil {
		cfg.ReviewRatePerMinute = *fc.ReviewRate
	}
	setStr(&cfg.TracingEndpoint, fc.OTLPEndpoint)
	if fc.ImportOnStart != nil {
		cfg.ImportOnStart = *fc.ImportOnStart
	}
}
