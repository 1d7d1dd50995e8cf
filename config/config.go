package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds process configuration. Values come from an optional YAML file
// (HUGECAP_CONFIG) overlaid by environment variables; env wins.
type Config struct {
	Port        string `yaml:"port"`
	Env         string `yaml:"env"`
	DatabaseURL string `yaml:"database_url"`
	DBMaxConns  int32  `yaml:"db_max_conns"`
	JWTSecret   string `yaml:"jwt_secret"`
}

// Load builds the configuration. A missing config file is not an error; a
// malformed one is.
func Load() (Config, error) {
	cfg := Config{
		Port:       "8080",
		Env:        "local",
		DBMaxConns: 10,
	}

	if path := os.Getenv("HUGECAP_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DBMaxConns = getEnvInt32("DB_MAX_CONNS", cfg.DBMaxConns)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("config: database url is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("config: jwt secret is required")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("config: db_max_conns must be positive")
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt32(key string, fallback int32) int32 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(n)
}
