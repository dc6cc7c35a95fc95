// Package llm talks to hosted text completion services.
package llm

import "context"

// Provider sends a prompt to a completion service and returns its raw reply.
type Provider interface {
	// Generate performs a single request/response exchange. Implementations do
	// not retry and do not impose their own deadline.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the completion service.
type Request struct {
	Messages []Message

	// MaxTokens caps the reply length. Zero leaves the vendor default.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the vendor default.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt is a request carrying prompt as its only user message.
func UserPrompt(prompt string) Request {
	return Request{Messages: []Message{{Role: RoleUser, Content: prompt}}}
}

// Response holds the service's reply.
type Response struct {
	// Content is the raw reply text.
	Content string

	Usage Usage

	// Model is the model that served the request.
	Model string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// resolveModel maps a friendly model name to a provider model ID.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
