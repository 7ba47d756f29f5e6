package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sahaara/backend/internal/model/checkin"
	"github.com/sahaara/backend/internal/model/resource"
	"github.com/sahaara/backend/internal/service/ai"
)

// ErrNoJSONObject is returned when the completion holds no JSON object.
var ErrNoJSONObject = errors.New("missing json object")

// Outcome is the generated recommendation. Fallback is set, and Err holds the
// cause, when the default recommendation was served instead of model output.
type Outcome struct {
	Recommendation checkin.Recommendation
	Fallback       bool
	Err            error
}

// Generator turns a check-in into a personalised recommendation.
type Generator struct {
	gateway ai.Gateway
}

// NewGenerator creates a generator bound to gateway.
func NewGenerator(gateway ai.Gateway) *Generator {
	return &Generator{gateway: gateway}
}

// Generate never fails: gateway or parse errors degrade to Default().
func (g *Generator) Generate(ctx context.Context, in checkin.CheckIn) Outcome {
	completion, err := g.gateway.Complete(ctx, BuildPrompt(in))
	if err != nil {
		return fallback(fmt.Errorf("generate: %w", err))
	}

	rec, err := parseRecommendation(completion)
	if err != nil {
		return fallback(fmt.Errorf("parse recommendation: %w", err))
	}

	return Outcome{Recommendation: rec}
}

func fallback(err error) Outcome {
	log.Printf("[recommend] serving default recommendation: %v", err)
	return Outcome{Recommendation: Default(), Fallback: true, Err: err}
}

// parseRecommendation strips markdown fences and decodes the JSON object.
// Missing keys are left empty.
func parseRecommendation(completion string) (checkin.Recommendation, error) {
	cleaned := strings.TrimSpace(completion)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return checkin.Recommendation{}, ErrNoJSONObject
	}

	var rec checkin.Recommendation
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &rec); err != nil {
		return checkin.Recommendation{}, err
	}

	// Only the six generated fields come from the model.
	rec.MusicURL = ""
	rec.Status = ""
	return rec, nil
}

// Default is served whenever generation fails.
func Default() checkin.Recommendation {
	return checkin.Recommendation{
		RecommendationsLine: "It sounds like you're carrying a heavy load today. Here are a few things that might help.",
		ChatWelcome:         "I'm here for you. Let's talk about what's on your mind.",
		StoryHeading:        "The Persistent Inventor",
		StoryText:           "Thomas Edison's teachers said he was 'too stupid to learn anything.' He was fired from his first two jobs. As an inventor, he made 1,000 unsuccessful attempts at inventing the light bulb. But he never gave up, and eventually succeeded, changing the world.",
		StoryReflection:     "Just like Edison, remember that every attempt, even those that don't work out, is a step toward your own brilliant breakthrough.",
		MusicPhrase:         resource.OceanWaves,
	}
}
