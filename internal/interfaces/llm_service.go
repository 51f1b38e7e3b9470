package interfaces

import "context"

// Message represents a single turn in an LLM conversation.
type Message struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// LLMService is a synchronous request/response language-understanding client.
// The repo wires two implementations: a primary model for structured
// extraction and a cheaper model for description cleanup.
type LLMService interface {
	// Chat generates a completion for the conversation history.
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the provider is reachable and configured.
	HealthCheck(ctx context.Context) error

	// Close releases client resources.
	Close() error
}
