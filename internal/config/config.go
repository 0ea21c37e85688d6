package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/Lego1st/quizzess/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	API struct {
		BaseURL    string `yaml:"base_url"`
		UploadPath string `yaml:"upload_path"`
		Timeout    string `yaml:"timeout"`
	} `yaml:"api"`
	Auth struct {
		Username string `yaml:"username"`
		Token    string `yaml:"token"`
		TTL      string `yaml:"ttl"`
	} `yaml:"auth"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Categories map[string]int `yaml:"categories"`
	Log        struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default is the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.API.BaseURL = "http://localhost:8000"
	cfg.API.UploadPath = "/api/upload_quiz/"
	cfg.API.Timeout = "30s"
	cfg.Auth.TTL = "24h"
	cfg.Quiz.TTL = "10m"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads YAML config from path on top of Default. A missing file is not
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// CategoryCodec builds the category vocabulary, preferring the configured
// categories over the built-in ones.
func (c Config) CategoryCodec() (*domain.CategoryCodec, error) {
	if len(c.Categories) == 0 {
		return domain.NewCategoryCodec(domain.DefaultCategories)
	}
	return domain.NewCategoryCodec(c.Categories)
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
