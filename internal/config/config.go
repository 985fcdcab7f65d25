// Package config loads and persists the application config.json.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alvarogf/txt2woo/internal/woo"
)

// AIConfig selects the extraction endpoint and model. BaseURL points at any
// OpenAI-compatible chat completions URL.
type AIConfig struct {
	BaseURL     string  `json:"base_url"`
	APIKey      string  `json:"api_key"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Config is the whole application configuration.
type Config struct {
	AI  AIConfig   `json:"ai"`
	Woo woo.Config `json:"woocommerce"`
}

// LoadOrCreate reads config.json from path, writing a default file on first
// run. Returns the config and whether it was freshly created.
func LoadOrCreate(path string) (*Config, bool, error) {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := defaultConfig()
			if err := Save(path, cfg); err != nil {
				return nil, false, fmt.Errorf("write default config: %w", err)
			}
			return cfg, true, nil
		}
		return nil, false, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, false, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyEnv()
	return &cfg, false, nil
}

func defaultConfig() *Config {
	cfg := &Config{
		AI: AIConfig{
			BaseURL:     "https://api.openai.com/v1/chat/completions",
			Model:       "gpt-4o",
			Temperature: 0.2,
			MaxTokens:   1200,
		},
		Woo: woo.Config{
			BaseURL:     "https://example.com",
			ConsumerKey: "ck_xxx",
			ConsumerSec: "cs_xxx",
			Version:     "wc/v3",
		},
	}
	cfg.applyEnv()
	return cfg
}

// applyEnv lets the environment (typically a .env file) override secrets so
// they never need to live in config.json.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("WOOCOMMERCE_URL"); v != "" {
		c.Woo.BaseURL = v
	}
	if v := os.Getenv("WOOCOMMERCE_CONSUMER_KEY"); v != "" {
		c.Woo.ConsumerKey = v
	}
	if v := os.Getenv("WOOCOMMERCE_CONSUMER_SECRET"); v != "" {
		c.Woo.ConsumerSec = v
	}
}

func Save(path string, cfg *Config) error {
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
