package generator

import (
	"context"
	"fmt"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one turn of a model conversation.
type Message struct {
	Role    string
	Content string
}

// Conversation is an immutable sequence of turns. Append returns a new
// value, so two sequential completions can share a prefix without either
// seeing the other's extra turns.
type Conversation []Message

func (c Conversation) Append(role, content string) Conversation {
	out := make(Conversation, len(c), len(c)+1)
	copy(out, c)
	return append(out, Message{Role: role, Content: content})
}

// LLMClient abstracts the generation collaborator so it can be replaced
// or mocked.
type LLMClient interface {
	Complete(ctx context.Context, model string, conv Conversation) (string, error)
	GenerateImage(ctx context.Context, model, prompt string) (string, error)
}

// RequestError reports a non-success response from the generation
// collaborator. Stage names the endpoint, "chat" or "image". StatusCode is
// zero when the failure happened before a response arrived.
type RequestError struct {
	Stage      string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %v", e.Stage, e.StatusCode, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }
