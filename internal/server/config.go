package server

import (
	"fmt"
	"os"
)

// Config holds the dev backend configuration. Everything comes from the
// environment so a shared .env works for both the client and the backend.
type Config struct {
	Addr          string
	DBPath        string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
}

// DefaultModel matches the model the travel assistant has always used.
const DefaultModel = "gpt-3.5-turbo"

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("TRAVELCHAT_ADDR", ":8000"),
		DBPath:        getEnv("TRAVELCHAT_DB", "./data/travelchat.db"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   getEnv("OPENAI_MODEL", DefaultModel),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("TRAVELCHAT_ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("TRAVELCHAT_DB cannot be empty")
	}
	return nil
}

// Online reports whether replies come from a real model.
func (c *Config) Online() bool {
	return c.OpenAIKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
