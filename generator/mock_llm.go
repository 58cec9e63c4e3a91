package generator

import (
	"context"
	"errors"
)

// MockLLM replays scripted completions and records every conversation it
// receives. Useful for tests and local runs without network access.
type MockLLM struct {
	Completions []string
	ImageURL    string

	Calls        int
	Seen         []Conversation
	ImagePrompts []string
}

func (m *MockLLM) Complete(_ context.Context, _ string, conv Conversation) (string, error) {
	m.Seen = append(m.Seen, conv)
	if m.Calls >= len(m.Completions) {
		return "", errors.New("mock: no scripted completion left")
	}
	out := m.Completions[m.Calls]
	m.Calls++
	return out, nil
}

func (m *MockLLM) GenerateImage(_ context.Context, _ string, prompt string) (string, error) {
	m.ImagePrompts = append(m.ImagePrompts, prompt)
	if m.ImageURL == "" {
		return "", errors.New("mock: no image url configured")
	}
	return m.ImageURL, nil
}
