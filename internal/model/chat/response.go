package chat

// Response statuses returned by the chat endpoint.
const (
	StatusSuccess        = "success"
	StatusCrisisDetected = "crisis_detected"
)

// Payload is the request body of POST /api/chat.
type Payload struct {
	Messages History `json:"messages" validate:"required,min=1"`
}

// Reply is the AI message synthesized for a safe turn.
type Reply struct {
	ID     string `json:"id"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// Response is the body returned by the chat endpoint.
type Response struct {
	Status  string `json:"status"`
	Message *Reply `json:"message,omitempty"`
}
