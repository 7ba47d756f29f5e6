package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sahaara/backend/internal/config"
)

// Role tags a replayed conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one prior message replayed into a chat session.
type Turn struct {
	Role Role
	Text string
}

// Gateway is the text-in/text-out contract of the LLM provider.
type Gateway interface {
	// Complete runs a single-shot prompt.
	Complete(ctx context.Context, prompt string) (string, error)
	// OpenSession starts a stateful conversation seeded with prior turns.
	OpenSession(ctx context.Context, history []Turn) (Session, error)
}

// Session is a multi-turn conversation opened by a Gateway.
type Session interface {
	Send(ctx context.Context, text string) (string, error)
}

// ErrEmptyResponse is returned when the provider answers without any text,
// which is how blocked or filtered prompts surface.
var ErrEmptyResponse = errors.New("empty model response")

// NewGateway creates the gateway for the configured provider.
func NewGateway(ctx context.Context, cfg config.AIConfig) (Gateway, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("llm provider %q is not configured", cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiGateway(ctx, cfg)
	case config.ProviderArk:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return NewEinoGateway(ctx, chatModel, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// withTimeout bounds a single provider round-trip. A zero timeout leaves ctx untouched.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// Unavailable returns a gateway that fails every call with err. The server
// runs on it when no provider is configured, so every flow degrades to its
// default instead of refusing requests.
func Unavailable(err error) Gateway {
	return unavailableGateway{err: err}
}

type unavailableGateway struct {
	err error
}

func (g unavailableGateway) Complete(context.Context, string) (string, error) {
	return "", g.err
}

func (g unavailableGateway) OpenSession(context.Context, []Turn) (Session, error) {
	return nil, g.err
}
