package chat

import (
	"context"
	"log"

	"github.com/sahaara/backend/internal/model/chat"
	"github.com/sahaara/backend/internal/service/conversation"
)

// Responder continues the client-held conversation.
type Responder interface {
	Respond(ctx context.Context, history chat.History) conversation.Reply
}

// Workflow turns a chat history into the next AI message.
type Workflow struct {
	responder Responder
}

// NewWorkflow creates the chat workflow.
func NewWorkflow(responder Responder) *Workflow {
	return &Workflow{responder: responder}
}

// Process delegates to the responder and shapes its reply for the client.
func (w *Workflow) Process(ctx context.Context, history chat.History) chat.Response {
	reply := w.responder.Respond(ctx, history)
	if reply.Err != nil {
		log.Printf("[chat] degraded reply: %v", reply.Err)
	}

	if reply.Status == conversation.StatusCrisis {
		return chat.Response{Status: chat.StatusCrisisDetected}
	}

	var lastID string
	if last, ok := history.Last(); ok {
		lastID = last.ID.String()
	}

	return chat.Response{
		Status: chat.StatusSuccess,
		Message: &chat.Reply{
			ID:     "ai-" + lastID,
			Sender: chat.SenderAI,
			Text:   reply.Text,
		},
	}
}
