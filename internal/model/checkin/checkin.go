package checkin

import (
	"encoding/json"
	"time"
)

// Response statuses returned by the check-in endpoint.
const (
	StatusSuccess        = "success"
	StatusCrisisDetected = "crisis_detected"
)

// CrisisMessage is returned in place of recommendations when the thoughts indicate a crisis.
const CrisisMessage = "It sounds like you need immediate help. We will connect you to professional resources."

// CheckIn is the structured mood self-report submitted by the client.
// Free-text fields may be empty; energy and the context list must be present,
// though the list itself may be empty.
type CheckIn struct {
	Emotion  string   `json:"emotion" yaml:"emotion"`
	Energy   *int     `json:"energy" yaml:"energy" validate:"required,min=0,max=100"`
	Social   string   `json:"social" yaml:"social"`
	Context  []string `json:"context" yaml:"context" validate:"required"`
	Thoughts string   `json:"thoughts" yaml:"thoughts"`
}

// EnergyLevel returns the reported energy, zero when absent.
func (c CheckIn) EnergyLevel() int {
	if c.Energy == nil {
		return 0
	}
	return *c.Energy
}

// Recommendation is the generated bundle of narrative and audio suggestions.
// MusicURL and Status are filled in by the check-in workflow.
type Recommendation struct {
	RecommendationsLine string `json:"recommendations_line" yaml:"recommendations_line"`
	ChatWelcome         string `json:"chat_welcome" yaml:"chat_welcome"`
	StoryHeading        string `json:"story_heading" yaml:"story_heading"`
	StoryText           string `json:"story_text" yaml:"story_text"`
	StoryReflection     string `json:"story_reflection" yaml:"story_reflection"`
	MusicPhrase         string `json:"music_phrase" yaml:"music_phrase"`
	MusicURL            string `json:"music_url,omitempty" yaml:"music_url,omitempty"`
	Status              string `json:"status,omitempty" yaml:"status,omitempty"`

	// extra holds a JSON object of keys outside the fields above, so model
	// output and legacy records round-trip unchanged.
	extra string
}

// recommendationFields has the same layout without the JSON methods.
type recommendationFields Recommendation

var recommendationKeys = []string{
	"recommendations_line", "chat_welcome", "story_heading", "story_text",
	"story_reflection", "music_phrase", "music_url", "status",
}

// UnmarshalJSON decodes the known fields and keeps any other keys.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var fields recommendationFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range recommendationKeys {
		delete(raw, key)
	}

	fields.extra = ""
	if len(raw) > 0 {
		extra, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		fields.extra = string(extra)
	}

	*r = Recommendation(fields)
	return nil
}

// MarshalJSON writes the known fields merged with any preserved keys.
// Known fields win over preserved keys of the same name.
func (r Recommendation) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(recommendationFields(r))
	if err != nil || r.extra == "" {
		return data, err
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(r.extra), &merged); err != nil {
		return nil, err
	}

	var known map[string]json.RawMessage
	if err := json.Unmarshal(data, &known); err != nil {
		return nil, err
	}
	for key, value := range known {
		merged[key] = value
	}
	return json.Marshal(merged)
}

// Record is one entry of the persistence log.
type Record struct {
	ID         string         `json:"id,omitempty" yaml:"id,omitempty"`
	CreatedAt  time.Time      `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	CheckIn    CheckIn        `json:"checkin_data" yaml:"checkin_data"`
	AIResponse Recommendation `json:"ai_response" yaml:"ai_response"`
}

// CrisisResponse is returned when the check-in is routed to professional resources.
type CrisisResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
