package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the engine's YAML configuration. Environment variables
// override individual fields after the file is parsed.
type Config struct {
	Catalog struct {
		BaseURL string `yaml:"base_url"`
		Season  int    `yaml:"season"`
		PerPage int    `yaml:"per_page"`
	} `yaml:"catalog"`
	Cache struct {
		TTL          time.Duration `yaml:"ttl"`
		DisplayLimit int           `yaml:"display_limit"`
	} `yaml:"cache"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Events struct {
		NATSURL string `yaml:"nats_url"`
		Stream  string `yaml:"stream"`
	} `yaml:"events"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

func defaultConfig() *Config {
	var config Config
	config.Cache.TTL = 5 * time.Minute
	config.Cache.DisplayLimit = 10
	config.Server.Port = "8080"
	return &config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	config.Catalog.BaseURL = getEnv("CATALOG_BASE_URL", config.Catalog.BaseURL)
	config.Catalog.Season = getEnvAsInt("CATALOG_SEASON", config.Catalog.Season)
	config.Storage.Path = getEnv("STORAGE_PATH", config.Storage.Path)
	config.Events.NATSURL = getEnv("NATS_URL", config.Events.NATSURL)
	config.Server.Port = getEnv("PORT", config.Server.Port)

	return config, nil
}
