package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/sahaara/backend/internal/model/chat"
	"github.com/sahaara/backend/internal/service/ai"
	"github.com/sahaara/backend/internal/service/safety"
)

// RetryText is returned whenever the conversation could not be continued.
const RetryText = "I'm having a little trouble thinking right now. Could you please say that again?"

// ErrEmptyHistory is recorded when Respond is called without messages.
var ErrEmptyHistory = errors.New("chat history is empty")

// Status tells the chat workflow which path the reply took.
type Status string

const (
	StatusSafe   Status = "safe"
	StatusCrisis Status = "crisis"
)

// Reply is the responder outcome. Err is set when Text is the retry prompt
// served because of a failure, or when classification itself degraded.
type Reply struct {
	Status Status
	Text   string
	Err    error
}

// Classifier is the crisis check run before any generation.
type Classifier interface {
	Classify(ctx context.Context, text string) safety.Classification
}

// Responder continues a client-held conversation.
type Responder struct {
	classifier Classifier
	gateway    ai.Gateway
}

// NewResponder creates a responder.
func NewResponder(classifier Classifier, gateway ai.Gateway) *Responder {
	return &Responder{classifier: classifier, gateway: gateway}
}

// Respond classifies the newest message, then replays the earlier ones into
// a fresh session and sends the newest. It never returns an error.
func (r *Responder) Respond(ctx context.Context, history chat.History) Reply {
	last, ok := history.Last()
	if !ok {
		return r.retry(ErrEmptyHistory)
	}

	verdict := r.classifier.Classify(ctx, last.Text)
	if verdict.IsCrisis() {
		return Reply{Status: StatusCrisis, Err: verdict.Err}
	}

	session, err := r.gateway.OpenSession(ctx, Replay(history[:len(history)-1]))
	if err != nil {
		return r.retry(fmt.Errorf("open session: %w", err))
	}

	text, err := session.Send(ctx, last.Text)
	if err != nil {
		return r.retry(fmt.Errorf("send message: %w", err))
	}

	return Reply{Status: StatusSafe, Text: strings.TrimSpace(text), Err: verdict.Err}
}

func (r *Responder) retry(err error) Reply {
	log.Printf("[conversation] replying with retry prompt: %v", err)
	return Reply{Status: StatusSafe, Text: RetryText, Err: err}
}

// Replay converts chat messages into role-tagged turns: ai messages become
// model turns, everything else is a user turn.
func Replay(messages []chat.Message) []ai.Turn {
	turns := make([]ai.Turn, 0, len(messages))
	for _, msg := range messages {
		role := ai.RoleUser
		if msg.Sender == chat.SenderAI {
			role = ai.RoleModel
		}
		turns = append(turns, ai.Turn{Role: role, Text: msg.Text})
	}
	return turns
}
