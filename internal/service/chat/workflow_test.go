package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sahaara/backend/internal/model/chat"
	chatsvc "github.com/sahaara/backend/internal/service/chat"
	"github.com/sahaara/backend/internal/service/conversation"
)

type stubResponder struct {
	reply   conversation.Reply
	history chat.History
}

func (s *stubResponder) Respond(_ context.Context, history chat.History) conversation.Reply {
	s.history = history
	return s.reply
}

func history() chat.History {
	return chat.History{
		{ID: "1", Text: "hi", Sender: chat.SenderUser},
		{ID: "ai-1", Text: "hello", Sender: chat.SenderAI},
		{ID: "7", Text: "I'm stressed", Sender: chat.SenderUser},
	}
}

func TestProcessSafeReply(t *testing.T) {
	responder := &stubResponder{reply: conversation.Reply{Status: conversation.StatusSafe, Text: "Let's breathe together."}}
	resp := chatsvc.NewWorkflow(responder).Process(context.Background(), history())

	if resp.Status != chat.StatusSuccess || resp.Message == nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Message.ID != "ai-7" || resp.Message.Sender != "ai" || resp.Message.Text != "Let's breathe together." {
		t.Fatalf("unexpected message: %+v", resp.Message)
	}
	if len(responder.history) != 3 {
		t.Fatalf("expected full history to reach responder, got %d", len(responder.history))
	}
}

func TestProcessCrisis(t *testing.T) {
	responder := &stubResponder{reply: conversation.Reply{Status: conversation.StatusCrisis}}
	resp := chatsvc.NewWorkflow(responder).Process(context.Background(), history())

	if resp.Status != chat.StatusCrisisDetected || resp.Message != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestProcessDegradedReplyIsStillSuccess(t *testing.T) {
	responder := &stubResponder{reply: conversation.Reply{
		Status: conversation.StatusSafe,
		Text:   conversation.RetryText,
		Err:    errors.New("model unavailable"),
	}}
	resp := chatsvc.NewWorkflow(responder).Process(context.Background(), history())

	if resp.Status != chat.StatusSuccess || resp.Message == nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Message.Text != conversation.RetryText || resp.Message.ID != "ai-7" {
		t.Fatalf("expected retry prompt for the last message, got %+v", resp.Message)
	}
}
