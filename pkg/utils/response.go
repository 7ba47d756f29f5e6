package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorBody is the payload of every non-2xx response.
type ErrorBody struct {
	Error string `json:"error"`
}

// RespondJSON writes payload as a JSON response. Model-written text often
// contains '&' or '<', so HTML escaping is off.
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		log.Printf("[http] failed to encode %d response: %v", status, err)
	}
}

// RespondError writes an ErrorBody with message.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorBody{Error: message})
}
