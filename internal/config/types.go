package config

import "time"

// Config is the chat relay configuration, corresponding to portfolio.yml.
type Config struct {
	Env            string        `yaml:"env" koanf:"env"`
	Port           int           `yaml:"port" koanf:"port"`
	StaticDir      string        `yaml:"static_dir" koanf:"static_dir"`
	Origin         string        `yaml:"origin" koanf:"origin"`
	AllowedOrigins []string      `yaml:"allowed_origins" koanf:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout" koanf:"request_timeout"`

	Model            string  `yaml:"model" koanf:"model"`
	BaseURL          string  `yaml:"base_url" koanf:"base_url"`
	Temperature      float64 `yaml:"temperature" koanf:"temperature"`
	MaxTokens        int     `yaml:"max_tokens" koanf:"max_tokens"`
	MaxMessageLength int     `yaml:"max_message_length" koanf:"max_message_length"`
	Persona          string  `yaml:"persona" koanf:"persona"`
	FallbackReply    string  `yaml:"fallback_reply" koanf:"fallback_reply"`
	DefaultReply     string  `yaml:"default_reply" koanf:"default_reply"`

	// APIKey comes from OPENAI_API_KEY only and is never written to disk.
	APIKey string `yaml:"-" koanf:"-"`
}
