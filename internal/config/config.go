package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/njchilds90/chatsanitizer"
)

// EnvPrefix is the prefix of environment overrides: PORTFOLIO_MODEL -> model.
const EnvPrefix = "PORTFOLIO_"

// APIKeyEnvVar holds the OpenAI API key. Without it the relay answers
// with the fallback reply.
const APIKeyEnvVar = "OPENAI_API_KEY"

// Load reads configuration from the given YAML file, then overlays
// PORT and PORTFOLIO_* environment overrides. A .env file in the
// working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// PORT is the conventional hosting variable; PORTFOLIO_PORT wins over it.
	if port := os.Getenv("PORT"); port != "" {
		if err := k.Set("port", port); err != nil {
			return nil, fmt.Errorf("setting port: %w", err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if key == "allowed_origins" {
			return key, splitCSV(value)
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.APIKey = strings.TrimSpace(os.Getenv(APIKeyEnvVar))
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := chatsanitizer.New(&chatsanitizer.Policy{Origin: c.Origin}); err != nil {
		return fmt.Errorf("invalid origin: %w", err)
	}
	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err != nil {
			return fmt.Errorf("accessing static_dir %s: %w", c.StaticDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("static_dir %s is not a directory", c.StaticDir)
		}
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %v out of range [0, 2]", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be positive")
	}
	if strings.TrimSpace(c.FallbackReply) == "" {
		return fmt.Errorf("fallback_reply is required")
	}
	if strings.TrimSpace(c.DefaultReply) == "" {
		return fmt.Errorf("default_reply is required")
	}
	return nil
}

// HasAPIKey reports whether an upstream LLM is configured.
func (c *Config) HasAPIKey() bool {
	return c.APIKey != ""
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
