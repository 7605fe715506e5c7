package llm

import "context"

// FallbackProvider answers every request with a fixed reply. The relay
// uses it when no API key is configured.
type FallbackProvider struct {
	Reply string
}

func (p *FallbackProvider) Name() string {
	return "fallback"
}

func (p *FallbackProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &CompletionResponse{
		Content:      p.Reply,
		Model:        "fallback",
		FinishReason: "stop",
	}, nil
}
