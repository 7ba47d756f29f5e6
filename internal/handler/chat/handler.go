package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/sahaara/backend/internal/model/chat"
	chatService "github.com/sahaara/backend/internal/service/chat"
	"github.com/sahaara/backend/pkg/utils"
)

// Handler serves the chat workflow over HTTP and websocket.
type Handler struct {
	workflow *chatService.Workflow
	upgrader websocket.Upgrader
}

// New creates the chat handler.
func New(workflow *chatService.Workflow) *Handler {
	return &Handler{
		workflow: workflow,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the chat routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/chat/ws", h.handleWebSocket)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chat.Payload
	if !utils.BindJSON(w, r, &payload) {
		return
	}

	utils.RespondJSON(w, http.StatusOK, h.workflow.Process(r.Context(), payload.Messages))
}
