package llm

import "github.com/njchilds90/chatsanitizer/internal/config"

// NewProvider returns an OpenAI provider when cfg carries an API key and
// a FallbackProvider with cfg.FallbackReply otherwise.
func NewProvider(cfg *config.Config) Provider {
	if !cfg.HasAPIKey() {
		return &FallbackProvider{Reply: cfg.FallbackReply}
	}
	return NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Model)
}
