package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"flash-gen/internal/llm"
)

// Config stores runtime configuration loaded from environment variables.
type Config struct {
	Provider string `mapstructure:"llm_provider" validate:"oneof=openai anthropic gemini mock"`

	OpenAIKey      string `mapstructure:"openai_api_key"`
	OpenAIEndpoint string `mapstructure:"openai_api_endpoint" validate:"required,url"`
	OpenAIModel    string `mapstructure:"openai_model" validate:"required"`
	AnthropicKey   string `mapstructure:"anthropic_api_key"`
	AnthropicModel string `mapstructure:"anthropic_model" validate:"required"`
	GeminiKey      string `mapstructure:"gemini_api_key"`
	GeminiModel    string `mapstructure:"gemini_model" validate:"required"`

	Database string `mapstructure:"database_path" validate:"required"`
	Port     string `mapstructure:"port" validate:"required,numeric"`
	Env      string `mapstructure:"app_env" validate:"oneof=development production"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	DefaultCards    int    `mapstructure:"default_cards" validate:"min=1,max=20"`
	DefaultLanguage string `mapstructure:"default_language" validate:"required"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" validate:"min=1,max=100"`
}

var defaults = map[string]any{
	"llm_provider":        llm.ProviderOpenAI,
	"openai_api_key":      "",
	"openai_api_endpoint": "https://api.openai.com/v1",
	"openai_model":        llm.DefaultOpenAIModel,
	"anthropic_api_key":   "",
	"anthropic_model":     "claude-haiku",
	"gemini_api_key":      "",
	"gemini_model":        "gemini-flash",
	"database_path":       "./data/flashgen.db",
	"port":                "8080",
	"app_env":             "development",
	"log_level":           "info",
	"default_cards":       5,
	"default_language":    "auto",
	"max_upload_mb":       10,
}

var validate = validator.New()

// Load reads configuration from the environment, providing sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	// Load .env file if it exists (useful for development)
	_ = godotenv.Load()

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and that the selected provider has credentials.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.LLM().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LLM returns the completion provider settings.
func (c *Config) LLM() llm.Config {
	return llm.Config{
		Provider: c.Provider,
		OpenAI: llm.OpenAIConfig{
			APIKey:  c.OpenAIKey,
			Model:   c.OpenAIModel,
			BaseURL: c.OpenAIEndpoint,
		},
		Anthropic: llm.AnthropicConfig{APIKey: c.AnthropicKey, Model: c.AnthropicModel},
		Gemini:    llm.GeminiConfig{APIKey: c.GeminiKey, Model: c.GeminiModel},
	}
}

// MaxUploadBytes is the multipart size limit.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// EnsureDataDir creates the directory holding the database file.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(filepath.Dir(c.Database), 0o755); err != nil {
		return fmt.Errorf("ensure database dir %s: %w", c.Database, err)
	}
	return nil
}
