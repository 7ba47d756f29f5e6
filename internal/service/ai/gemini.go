package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/sahaara/backend/internal/config"
)

// GeminiGateway talks to the Gemini API.
type GeminiGateway struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiGateway creates a Gemini client from the configuration.
func NewGeminiGateway(ctx context.Context, cfg config.AIConfig) (*GeminiGateway, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGateway{
		client:  client,
		model:   cfg.GeminiModel,
		timeout: cfg.Timeout,
	}, nil
}

// Complete runs a single GenerateContent call.
func (g *GeminiGateway) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(res)
}

// OpenSession creates a Gemini chat seeded with the replayed turns.
func (g *GeminiGateway) OpenSession(ctx context.Context, history []Turn) (Session, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == RoleModel {
			role = genai.Role(genai.RoleModel)
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}

	chat, err := g.client.Chats.Create(ctx, g.model, nil, contents)
	if err != nil {
		return nil, fmt.Errorf("gemini chat create: %w", err)
	}

	return &geminiSession{chat: chat, timeout: g.timeout}, nil
}

type geminiSession struct {
	chat    *genai.Chat
	timeout time.Duration
}

func (s *geminiSession) Send(ctx context.Context, text string) (string, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("gemini send: %w", err)
	}
	return responseText(res)
}

// responseText joins the text parts of the first candidate.
func responseText(res *genai.GenerateContentResponse) (string, error) {
	// Blocked prompts come back without candidates or parts.
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var builder strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		builder.WriteString(part.Text)
	}

	if strings.TrimSpace(builder.String()) == "" {
		return "", ErrEmptyResponse
	}
	return builder.String(), nil
}
