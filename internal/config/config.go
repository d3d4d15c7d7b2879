package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration, loaded from an optional yaml file
// with flag/env overrides applied in main. Durations are yaml strings in
// time.ParseDuration syntax.
type Config struct {
	Port string `yaml:"port"`

	Backend struct {
		URL            string  `yaml:"url"`
		Timeout        string  `yaml:"timeout"`
		MaxRetries     int     `yaml:"max_retries"`
		RateLimitRPS   float64 `yaml:"rate_limit_rps"`
		RateLimitBurst int     `yaml:"rate_limit_burst"`
	} `yaml:"backend"`

	Cache struct {
		Enabled       bool   `yaml:"enabled"`
		RedisHost     string `yaml:"redis_host"`
		RedisPort     string `yaml:"redis_port"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
		TTL           string `yaml:"ttl"`
	} `yaml:"cache"`

	Session struct {
		TTL           string `yaml:"ttl"`
		SweepInterval string `yaml:"sweep_interval"`
	} `yaml:"session"`

	Log struct {
		Level string `yaml:"level"`
		JSON  bool   `yaml:"json"`
	} `yaml:"log"`
}

func Default() *Config {
	cfg := &Config{Port: "8080"}
	cfg.Backend.URL = "http://localhost:8081"
	cfg.Backend.Timeout = "10s"
	cfg.Backend.MaxRetries = 3
	cfg.Backend.RateLimitRPS = 20
	cfg.Backend.RateLimitBurst = 40
	cfg.Cache.Enabled = true
	cfg.Cache.RedisHost = "localhost"
	cfg.Cache.RedisPort = "6379"
	cfg.Cache.TTL = "5m"
	cfg.Session.TTL = "30m"
	cfg.Session.SweepInterval = "1m"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads the yaml file at path over the defaults. An empty path means
// defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	for name, value := range map[string]string{
		"backend.timeout":        c.Backend.Timeout,
		"cache.ttl":              c.Cache.TTL,
		"session.ttl":            c.Session.TTL,
		"session.sweep_interval": c.Session.SweepInterval,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (c *Config) BackendTimeout() time.Duration {
	return parseDuration(c.Backend.Timeout, 10*time.Second)
}

func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, 5*time.Minute)
}

func (c *Config) SessionTTL() time.Duration {
	return parseDuration(c.Session.TTL, 30*time.Minute)
}

func (c *Config) SessionSweepInterval() time.Duration {
	return parseDuration(c.Session.SweepInterval, time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
