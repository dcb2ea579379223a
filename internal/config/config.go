package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/htmlpack/pkg/weight"
)

// FileEnv names the environment variable holding an optional YAML config
// file. Values from the file sit between the defaults and the environment.
const FileEnv = "HTMLPACK_CONFIG"

type Config struct {
	Port string `yaml:"port"`

	// Auth
	APIKey string `yaml:"api_key"`

	// Upload limits
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`

	// Packing defaults
	DefaultMaxWeight int    `yaml:"default_max_weight"`
	DefaultMetric    string `yaml:"default_metric"`
	TokenEncoding    string `yaml:"token_encoding"`

	// Concurrency
	MaxConcurrentPack int `yaml:"max_concurrent_pack"`

	// Observability
	StatsWindow      time.Duration `yaml:"stats_window"`
	MetricsNamespace string        `yaml:"metrics_namespace"`

	// Shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// PDF
	PDFFallbackPdftotext bool `yaml:"pdf_fallback_pdftotext"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Port:                 "8090",
		MaxUploadBytes:       52428800, // 50MB
		DefaultMaxWeight:     16000,
		DefaultMetric:        weight.MetricChars,
		TokenEncoding:        weight.DefaultEncoding,
		MaxConcurrentPack:    4,
		StatsWindow:          time.Hour,
		MetricsNamespace:     "htmlpack",
		ShutdownTimeout:      10 * time.Second,
		PDFFallbackPdftotext: true,
	}
}

// Load builds the configuration from defaults, the optional YAML file
// named by HTMLPACK_CONFIG, and environment overrides, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = envOr("HTMLPACK_API_KEY", cfg.APIKey)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.DefaultMaxWeight = envInt("DEFAULT_MAX_WEIGHT", cfg.DefaultMaxWeight)
	cfg.DefaultMetric = envOr("DEFAULT_METRIC", cfg.DefaultMetric)
	cfg.TokenEncoding = envOr("TOKEN_ENCODING", cfg.TokenEncoding)
	cfg.MaxConcurrentPack = envInt("MAX_CONCURRENT_PACK", cfg.MaxConcurrentPack)
	cfg.StatsWindow = envDuration("STATS_WINDOW", cfg.StatsWindow)
	cfg.MetricsNamespace = envOr("METRICS_NAMESPACE", cfg.MetricsNamespace)
	cfg.ShutdownTimeout = envDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.PDFFallbackPdftotext = envBool("PDF_FALLBACK_PDFTOTEXT", cfg.PDFFallbackPdftotext)

	def := Default()
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = def.MaxUploadBytes
	}
	if cfg.MaxConcurrentPack <= 0 {
		cfg.MaxConcurrentPack = def.MaxConcurrentPack
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = def.StatsWindow
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = def.ShutdownTimeout
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("HTMLPACK_API_KEY is required")
	}
	if c.DefaultMaxWeight <= 0 {
		return fmt.Errorf("DEFAULT_MAX_WEIGHT must be positive, got %d", c.DefaultMaxWeight)
	}
	if !slices.Contains(weight.Names(), c.DefaultMetric) {
		return fmt.Errorf("DEFAULT_METRIC must be one of %s, got %q", strings.Join(weight.Names(), ", "), c.DefaultMetric)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
