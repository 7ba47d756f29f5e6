package chat

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sahaara/backend/internal/model/chat"
	"github.com/sahaara/backend/pkg/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

const statusError = "error"

type errorFrame struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// handleWebSocket answers every {messages: [...]} frame with the same
// response the HTTP endpoint would return.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[chat-ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go keepAlive(ctx, conn)

	log.Printf("[chat-ws] connection opened from %s", r.RemoteAddr)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[chat-ws] read error: %v", err)
			}
			return
		}

		var payload chat.Payload
		if err := decodeFrame(data, &payload); err != nil {
			if writeErr := writeFrame(conn, errorFrame{Status: statusError, Error: err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		response := h.workflow.Process(ctx, payload.Messages)
		if err := writeFrame(conn, response); err != nil {
			log.Printf("[chat-ws] write error: %v", err)
			return
		}
	}
}

func decodeFrame(data []byte, payload *chat.Payload) error {
	if err := utils.DecodeJSON(bytes.NewReader(data), payload); err != nil {
		return utils.ErrInvalidBody
	}
	return utils.Validate(payload)
}

func writeFrame(conn *websocket.Conn, v any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v)
}

func keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
				log.Printf("[chat-ws] ping failed: %v", err)
				return
			}
		}
	}
}
