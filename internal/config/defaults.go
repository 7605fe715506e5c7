package config

import "time"

// DefaultPersona is the system prompt sent ahead of every visitor message.
const DefaultPersona = `You are the AI assistant for this portfolio site.
Persona: Friendly, concise, professional, and helpful. Speak in the site owner's voice.
Guidelines:
- Keep replies short (1-3 sentences) unless the visitor explicitly asks for details.
- Offer links to LinkedIn, GitHub, and the resume when relevant.
- For availability or collaboration inquiries, collect name, email, and a brief idea.
- If asked about contact, point to the email and phone listed on the site.
- If asked technical questions, answer simply and suggest scheduling a call.
`

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Env:              "production",
		Port:             3000,
		StaticDir:        "",
		Origin:           "http://localhost:3000",
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		RequestTimeout:   30 * time.Second,
		Model:            "gpt-4o-mini",
		Temperature:      0.5,
		MaxTokens:        200,
		MaxMessageLength: 2000,
		Persona:          DefaultPersona,
		FallbackReply:    "Thanks for reaching out! Please use the contact form or email and I'll respond soon.",
		DefaultReply:     "Thanks! I will get back to you.",
	}
}
