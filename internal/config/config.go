// Package config loads process settings from an optional .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds every setting the binaries read.
type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`

	StoreBackend string `mapstructure:"STORE_BACKEND"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisPrefix   string `mapstructure:"REDIS_PREFIX"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`

	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	APIBase     string `mapstructure:"API_BASE"`
	WebDir      string `mapstructure:"WEB_DIR"`
}

var defaults = map[string]any{
	"PORT":           "8080",
	"ENVIRONMENT":    "development",
	"STORE_BACKEND":  BackendMemory,
	"DATABASE_URL":   "",
	"REDIS_ADDR":     "localhost:6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"REDIS_PREFIX":   "tt:",
	"JWT_SECRET":     "",
	"LOG_LEVEL":      "info",
	"LOG_FILE":       "",
	"CORS_ORIGINS":   "*",
	"API_BASE":       "http://localhost:8080",
	"WEB_DIR":        "",
}

// Load reads <path>/.env if present, then lets environment variables
// override it.
func Load(path string) (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want memory, postgres or redis)", c.StoreBackend)
	}
	return nil
}

// IsProduction reports whether ENVIRONMENT is production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Origins splits CORS_ORIGINS on commas.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
