package llm

// Role is the author of a chat message as the upstream API sees it.
// The relay only ever sends a persona prompt and one visitor message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one entry of the prompt sent upstream.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is a single-turn chat completion.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Usage is the token accounting reported by the provider.
type Usage struct {
	PromptTokens int
	ReplyTokens  int
}

// CompletionResponse is the assistant reply. Content is raw model
// output and must be sanitized before it reaches a page.
type CompletionResponse struct {
	Content      string
	Model        string
	FinishReason string
	Usage        Usage
}
