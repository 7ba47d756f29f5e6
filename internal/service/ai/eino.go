package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// EinoGateway runs prompts through an eino chain backed by any eino chat model.
type EinoGateway struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
}

// NewEinoGateway compiles the history + query chain around chatModel.
func NewEinoGateway(ctx context.Context, chatModel model.ChatModel, timeout time.Duration) (*EinoGateway, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &EinoGateway{chain: runnable, timeout: timeout}, nil
}

// Complete sends prompt without any history.
func (g *EinoGateway) Complete(ctx context.Context, prompt string) (string, error) {
	return g.invoke(ctx, nil, prompt)
}

// OpenSession converts the replayed turns into eino messages.
func (g *EinoGateway) OpenSession(_ context.Context, history []Turn) (Session, error) {
	messages := make([]*schema.Message, 0, len(history))
	for _, turn := range history {
		switch turn.Role {
		case RoleModel:
			messages = append(messages, schema.AssistantMessage(turn.Text, nil))
		default:
			messages = append(messages, schema.UserMessage(turn.Text))
		}
	}

	return &einoSession{gateway: g, history: messages}, nil
}

func (g *EinoGateway) invoke(ctx context.Context, history []*schema.Message, query string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	input := map[string]any{
		"history": history,
		"query":   query,
	}

	response, err := g.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", ErrEmptyResponse
	}
	return response.Content, nil
}

type einoSession struct {
	gateway *EinoGateway

	mu      sync.Mutex
	history []*schema.Message
}

// Send appends the exchange to the session history once the model answers.
func (s *einoSession) Send(ctx context.Context, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := s.gateway.invoke(ctx, s.history, text)
	if err != nil {
		return "", err
	}

	s.history = append(s.history, schema.UserMessage(text), schema.AssistantMessage(reply, nil))
	return reply, nil
}
