package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSONKeepsModelText(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondJSON(rr, http.StatusOK, map[string]string{"story_heading": "Salt & Light <1>"})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "Salt & Light <1>") {
		t.Fatalf("expected unescaped text, got %s", rr.Body.String())
	}
}

func TestRespondErrorBody(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, http.StatusInternalServerError, "failed to save check-in")

	var body ErrorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if rr.Code != http.StatusInternalServerError || body.Error != "failed to save check-in" {
		t.Fatalf("unexpected error response %d %+v", rr.Code, body)
	}
}
