package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sahaara/backend/internal/model/chat"
	"github.com/sahaara/backend/internal/service/ai"
	chatService "github.com/sahaara/backend/internal/service/chat"
	"github.com/sahaara/backend/internal/service/conversation"
	"github.com/sahaara/backend/internal/service/safety"
)

type fakeSession struct {
	gateway *fakeGateway
}

func (s *fakeSession) Send(_ context.Context, text string) (string, error) {
	s.gateway.mu.Lock()
	defer s.gateway.mu.Unlock()
	s.gateway.sent = append(s.gateway.sent, text)
	return s.gateway.reply, nil
}

// fakeGateway classifies with verdict and replies with reply.
type fakeGateway struct {
	mu      sync.Mutex
	verdict string
	reply   string
	turns   []ai.Turn
	sent    []string
}

func (g *fakeGateway) Complete(context.Context, string) (string, error) {
	return g.verdict, nil
}

func (g *fakeGateway) OpenSession(_ context.Context, turns []ai.Turn) (ai.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.turns = turns
	return &fakeSession{gateway: g}, nil
}

func newHandler(gateway *fakeGateway) *Handler {
	responder := conversation.NewResponder(safety.NewClassifier(gateway, safety.Config{}), gateway)
	return New(chatService.NewWorkflow(responder))
}

func setupRouter(gateway *fakeGateway) *chi.Mux {
	r := chi.NewRouter()
	newHandler(gateway).RegisterRoutes(r)
	return r
}

func postChat(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatReturnsAIMessage(t *testing.T) {
	gateway := &fakeGateway{verdict: "safe", reply: "  That sounds like a lot to carry.  "}
	r := setupRouter(gateway)

	resp := postChat(r, `{"messages":[
		{"id":1,"text":"hi","sender":"user"},
		{"id":2,"text":"Hello, how are you?","sender":"ai"},
		{"id":3,"text":"tired of everything at work","sender":"user"}
	]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got chat.Response
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != chat.StatusSuccess || got.Message == nil {
		t.Fatalf("unexpected response %+v", got)
	}
	if got.Message.ID != "ai-3" || got.Message.Sender != chat.SenderAI {
		t.Fatalf("unexpected message envelope %+v", got.Message)
	}
	if got.Message.Text != "That sounds like a lot to carry." {
		t.Fatalf("expected trimmed reply, got %q", got.Message.Text)
	}

	if len(gateway.turns) != 2 || gateway.turns[1].Role != ai.RoleModel {
		t.Fatalf("expected two replayed turns ending with a model turn, got %+v", gateway.turns)
	}
	if len(gateway.sent) != 1 || gateway.sent[0] != "tired of everything at work" {
		t.Fatalf("expected newest message to be sent, got %v", gateway.sent)
	}
}

func TestChatCrisisReturnsStatusOnly(t *testing.T) {
	gateway := &fakeGateway{verdict: "crisis", reply: "should not be used"}
	r := setupRouter(gateway)

	resp := postChat(r, `{"messages":[{"id":"a1","text":"I can't go on","sender":"user"}]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != 1 || body["status"] != chat.StatusCrisisDetected {
		t.Fatalf("expected crisis status only, got %v", body)
	}
	if len(gateway.sent) != 0 {
		t.Fatalf("crisis must not reach generation, got %v", gateway.sent)
	}
}

func TestChatReplaysOtherSendersAsUserTurns(t *testing.T) {
	gateway := &fakeGateway{verdict: "safe", reply: "Tell me more."}
	r := setupRouter(gateway)

	resp := postChat(r, `{"messages":[
		{"id":"","text":"earlier note","sender":"assistant"},
		{"id":"","text":"still here","sender":"user"}
	]}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got chat.Response
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Status != chat.StatusSuccess || got.Message == nil || got.Message.ID != "ai-" {
		t.Fatalf("unexpected response %+v", got)
	}

	if len(gateway.turns) != 1 {
		t.Fatalf("expected one replayed turn, got %+v", gateway.turns)
	}
	if gateway.turns[0].Role != ai.RoleUser || gateway.turns[0].Text != "earlier note" {
		t.Fatalf("expected assistant sender replayed as user turn, got %+v", gateway.turns[0])
	}
	if len(gateway.sent) != 1 || gateway.sent[0] != "still here" {
		t.Fatalf("expected newest message to be sent, got %v", gateway.sent)
	}
}

func TestChatRejectsBadInput(t *testing.T) {
	r := setupRouter(&fakeGateway{verdict: "safe", reply: "ok"})

	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed", body: `{"messages":[`, want: http.StatusBadRequest},
		{name: "empty history", body: `{"messages":[]}`, want: http.StatusUnprocessableEntity},
		{name: "missing messages", body: `{}`, want: http.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postChat(r, tc.body)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}
}
