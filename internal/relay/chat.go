package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/njchilds90/chatsanitizer"
	"github.com/njchilds90/chatsanitizer/internal/config"
	"github.com/njchilds90/chatsanitizer/internal/llm"
	"github.com/njchilds90/chatsanitizer/internal/logger"
	"github.com/njchilds90/chatsanitizer/internal/markdown"
)

// maxBodyBytes caps the size of a chat request body.
const maxBodyBytes = 64 << 10

// ErrInvalidMessage is returned for a missing, empty or oversized message.
var ErrInvalidMessage = errors.New("invalid message")

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatResponse is the body of a successful POST /api/chat. Reply is the
// assistant text as received; HTML is the same reply rendered from
// Markdown and sanitized, ready to be inserted as markup.
type ChatResponse struct {
	ID    string `json:"id"`
	Reply string `json:"reply"`
	HTML  string `json:"html"`
}

// ChatSettings are the completion parameters sent with every message.
type ChatSettings struct {
	Model            string
	Persona          string
	Temperature      float64
	MaxTokens        int
	MaxMessageLength int
	DefaultReply     string
}

// SettingsFromConfig extracts ChatSettings from the relay configuration.
func SettingsFromConfig(cfg *config.Config) ChatSettings {
	return ChatSettings{
		Model:            cfg.Model,
		Persona:          cfg.Persona,
		Temperature:      cfg.Temperature,
		MaxTokens:        cfg.MaxTokens,
		MaxMessageLength: cfg.MaxMessageLength,
		DefaultReply:     cfg.DefaultReply,
	}
}

// ChatHandler relays visitor messages to an llm.Provider and returns
// sanitized replies.
type ChatHandler struct {
	provider  llm.Provider
	sanitizer *chatsanitizer.Sanitizer
	renderer  *markdown.Renderer
	strip     *bluemonday.Policy
	validate  *validator.Validate
	settings  ChatSettings
	log       *logger.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(provider llm.Provider, sanitizer *chatsanitizer.Sanitizer, renderer *markdown.Renderer, settings ChatSettings, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		provider:  provider,
		sanitizer: sanitizer,
		renderer:  renderer,
		strip:     bluemonday.StrictPolicy(),
		validate:  validator.New(),
		settings:  settings,
		log:       log,
	}
}

// Reply sends message to the provider and returns the reply. The
// visitor's message is reduced to plain text before it is forwarded.
func (h *ChatHandler) Reply(ctx context.Context, message string) (*ChatResponse, error) {
	req := ChatRequest{Message: h.plainText(message)}
	if err := h.validate.Struct(req); err != nil {
		return nil, ErrInvalidMessage
	}
	if h.settings.MaxMessageLength > 0 {
		if err := h.validate.Var(req.Message, fmt.Sprintf("max=%d", h.settings.MaxMessageLength)); err != nil {
			return nil, ErrInvalidMessage
		}
	}

	resp, err := h.provider.Complete(ctx, llm.CompletionRequest{
		Model: h.settings.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: h.settings.Persona},
			{Role: llm.RoleUser, Content: req.Message},
		},
		MaxTokens:   h.settings.MaxTokens,
		Temperature: h.settings.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%s completion: %w", h.provider.Name(), err)
	}
	h.log.WithContext(ctx).ChatCompletion(h.provider.Name(), resp.Model, resp.FinishReason, resp.Usage.PromptTokens, resp.Usage.ReplyTokens)

	reply := strings.TrimSpace(resp.Content)
	if reply == "" {
		reply = h.settings.DefaultReply
	}

	return &ChatResponse{
		ID:    uuid.NewString(),
		Reply: reply,
		HTML:  h.renderHTML(reply),
	}, nil
}

// ServeHTTP handles POST /api/chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid message")
		return
	}

	resp, err := h.Reply(r.Context(), body.Message)
	if errors.Is(err, ErrInvalidMessage) {
		writeError(w, http.StatusBadRequest, "Invalid message")
		return
	}
	if err != nil {
		h.log.WithContext(r.Context()).ChatError(h.provider.Name(), err)
		writeError(w, http.StatusInternalServerError, "Chat service error")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// plainText strips markup from a visitor message. bluemonday escapes
// the text it keeps, which the model does not need.
func (h *ChatHandler) plainText(message string) string {
	return strings.TrimSpace(html.UnescapeString(h.strip.Sanitize(message)))
}

// renderHTML renders reply as Markdown and sanitizes the result. If
// rendering fails the raw reply is sanitized instead.
func (h *ChatHandler) renderHTML(reply string) string {
	rendered, err := h.renderer.Render(reply)
	if err != nil {
		h.log.Warn("markdown_render_failed", "error", err.Error())
		rendered = reply
	}
	return strings.TrimSpace(h.sanitizer.Sanitize(rendered))
}
