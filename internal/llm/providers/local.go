package providers

import (
	"context"
	"fmt"
	"strings"
)

// Message is one role/content turn sent to the chat model.
type Message struct {
	Role    string
	Content string
}

// Provider is the hosted chat-completion surface used by every capability.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// LocalProvider is the no-credential fallback. It never leaves the process
// and exists so the chat path still answers something when no model key is
// configured.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	last := messages[len(messages)-1].Content
	return "[local-stub] " + strings.TrimSpace(last), nil
}

func (l *LocalProvider) Name() string {
	return "local"
}
