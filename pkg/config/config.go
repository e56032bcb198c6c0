// Package config provides configuration loading for the API server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Source backend modes.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// Cache backend modes.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config represents the full server configuration. It is built once at
// startup and passed explicitly into each component.
type Config struct {
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`

	// Server settings
	HTTPPort     int           `yaml:"http_port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`

	// Observability
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Data source
	SourceMode      string `yaml:"source_mode"` // "remote" or "local"
	VictimsURL      string `yaml:"victims_url"`
	GroupsURL       string `yaml:"groups_url"`
	TTPsURL         string `yaml:"ttps_url"`
	InfostealerURL  string `yaml:"infostealer_url"`
	CyberattacksURL string `yaml:"cyberattacks_url"`
	DataDir         string `yaml:"data_dir"`

	// Screenshot artifacts
	ScreenshotDir     string `yaml:"screenshot_dir"`
	ScreenshotBaseURL string `yaml:"screenshot_base_url"`

	// Response cache
	CacheBackend string        `yaml:"cache_backend"` // "memory" or "redis"
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	RedisAddr    string        `yaml:"redis_addr"`

	// Rate limiting
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`

	// Misc
	DocsURL     string   `yaml:"docs_url"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Load creates a new Config from environment variables with defaults.
// If CONFIG_FILE is set, the named YAML file is applied on top.
func Load() (*Config, error) {
	cfg := &Config{
		ServiceName:       getEnv("SERVICE_NAME", "ransomware-api"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		HTTPPort:          getEnvAsInt("HTTP_PORT", 8080),
		ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
		SourceMode:        getEnv("SOURCE_MODE", SourceRemote),
		VictimsURL:        getEnv("VICTIMS_URL", "https://data.ransomware.live/posts.json"),
		GroupsURL:         getEnv("GROUPS_URL", "https://data.ransomware.live/groups.json"),
		TTPsURL:           getEnv("TTPS_URL", "https://data.ransomware.live/ttps.json"),
		InfostealerURL:    getEnv("INFOSTEALER_URL", "https://data.ransomware.live/infostealer.json"),
		CyberattacksURL:   getEnv("CYBERATTACKS_URL", "https://raw.githubusercontent.com/Casualtek/Cyberwatch/main/cyberattacks.json"),
		DataDir:           getEnv("DATA_DIR", "./data"),
		ScreenshotDir:     getEnv("SCREENSHOT_DIR", "/var/www/ransomware.live/docs/screenshots/posts"),
		ScreenshotBaseURL: getEnv("SCREENSHOT_BASE_URL", "https://images.ransomware.live/screenshots/posts/"),
		CacheBackend:      getEnv("CACHE_BACKEND", CacheMemory),
		CacheTTL:          getEnvAsDuration("CACHE_TTL", 30*time.Minute),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RateLimit:         getEnvAsInt("RATE_LIMIT", 1),
		RateWindow:        getEnvAsDuration("RATE_WINDOW", time.Minute),
		DocsURL:           getEnv("DOCS_URL", "https://apidocs.ransomware.live"),
		CORSOrigins:       getEnvAsSlice("CORS_ORIGINS", []string{"*"}),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// applyFile overlays values from a YAML file onto the config.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// validate checks that the selected modes are coherent.
func (c *Config) validate() error {
	switch c.SourceMode {
	case SourceRemote, SourceLocal:
	default:
		return fmt.Errorf("unknown source mode %q", c.SourceMode)
	}
	switch c.CacheBackend {
	case CacheMemory:
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required with the redis cache backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
	if c.RateLimit < 1 {
		return fmt.Errorf("rate limit must be at least 1")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		start := 0
		for i := 0; i <= len(value); i++ {
			if i == len(value) || value[i] == ',' {
				if start < i {
					result = append(result, value[start:i])
				}
				start = i + 1
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
