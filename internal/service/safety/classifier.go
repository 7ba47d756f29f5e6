package safety

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sahaara/backend/internal/service/ai"
)

// Label is the outcome of crisis classification.
type Label string

const (
	Safe   Label = "safe"
	Crisis Label = "crisis"
)

// Classification carries the label and, when the gateway failed, the error
// that forced the configured failure outcome.
type Classification struct {
	Label Label
	Err   error
}

// IsCrisis reports whether the text must be routed to crisis resources.
func (c Classification) IsCrisis() bool {
	return c.Label == Crisis
}

// Degraded reports whether the label is a failure default rather than a model judgement.
func (c Classification) Degraded() bool {
	return c.Err != nil
}

// Config controls the classifier.
type Config struct {
	// FailClosed reports gateway failures as Crisis. The default is fail-open.
	FailClosed bool
}

// Classifier asks the LLM whether a message indicates self-harm risk.
type Classifier struct {
	gateway    ai.Gateway
	failClosed bool
}

// NewClassifier creates a classifier bound to gateway.
func NewClassifier(gateway ai.Gateway, cfg Config) *Classifier {
	return &Classifier{gateway: gateway, failClosed: cfg.FailClosed}
}

// Classify labels text. Gateway errors never escape: they yield Safe (or
// Crisis when fail-closed) with Err set.
func (c *Classifier) Classify(ctx context.Context, text string) Classification {
	completion, err := c.gateway.Complete(ctx, buildPrompt(text))
	if err != nil {
		label := Safe
		if c.failClosed {
			label = Crisis
		}
		log.Printf("[safety] classification failed, defaulting to %s: %v", label, err)
		return Classification{Label: label, Err: fmt.Errorf("classify: %w", err)}
	}

	return Classification{Label: Parse(completion)}
}

// Parse maps a raw completion onto a label: any mention of "crisis" wins.
func Parse(completion string) Label {
	if strings.Contains(strings.ToLower(strings.TrimSpace(completion)), string(Crisis)) {
		return Crisis
	}
	return Safe
}

func buildPrompt(text string) string {
	return fmt.Sprintf(classificationPrompt, text)
}

const classificationPrompt = `
Analyze the following user message. Classify it as either "crisis" or "safe".
A "crisis" involves any mention of self-harm, suicide, or severe, urgent distress.
Respond with only a single word: either "crisis" or "safe".

User Message: "%s"
Classification:
`
