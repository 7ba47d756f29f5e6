package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Sender values accepted on chat messages.
const (
	SenderUser = "user"
	SenderAI   = "ai"
)

// Message is a single turn of the client-held conversation. The server never
// stores it. Any sender other than SenderAI is treated as the user.
type Message struct {
	ID     MessageID `json:"id"`
	Text   string    `json:"text"`
	Sender string    `json:"sender"`
}

// History is the full running conversation, oldest first.
type History []Message

// Last returns the newest message of the history.
func (h History) Last() (Message, bool) {
	if len(h) == 0 {
		return Message{}, false
	}
	return h[len(h)-1], true
}

// MessageID accepts either a JSON number or a JSON string and keeps its textual form.
type MessageID string

// UnmarshalJSON decodes numeric and string identifiers.
func (id *MessageID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("message id is empty")
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = MessageID(s)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("message id must be a number or string: %w", err)
	}
	*id = MessageID(n.String())
	return nil
}

// String returns the identifier text.
func (id MessageID) String() string {
	return string(id)
}
