// Package ai abstracts the external chat-completion provider behind a small
// interface so that services and tests do not depend on a concrete HTTP
// client. The production implementation talks to an OpenRouter-compatible
// API; tests substitute an in-process fake.
package ai

import "context"

// Message is one turn of a completion request, in the provider's wire shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider produces a single assistant reply for an ordered list of turns.
//
// Implementations must be safe for concurrent use and must honor the
// provided context for cancellation.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
