package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sahaara/backend/internal/model/checkin"
	"github.com/sahaara/backend/internal/service/ai"
)

type stubGateway struct {
	completion string
	err        error
	prompt     string
}

func (s *stubGateway) Complete(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.completion, s.err
}

func (s *stubGateway) OpenSession(context.Context, []ai.Turn) (ai.Session, error) {
	return nil, errors.New("not used")
}

func sampleCheckIn() checkin.CheckIn {
	energy := 20
	return checkin.CheckIn{
		Emotion:  "sad",
		Energy:   &energy,
		Social:   "alone",
		Context:  []string{"work", "family"},
		Thoughts: "I feel overwhelmed",
	}
}

const validCompletion = "```json\n" + `{
  "recommendations_line": "Try a short walk.",
  "chat_welcome": "Welcome back.",
  "story_heading": "Rowling's Rejections",
  "story_text": "Twelve publishers said no.",
  "story_reflection": "Rejection is not the end.",
  "music_phrase": "Piano Melodies"
}` + "\n```"

func TestGenerateParsesFencedJSON(t *testing.T) {
	gateway := &stubGateway{completion: validCompletion}
	out := NewGenerator(gateway).Generate(context.Background(), sampleCheckIn())

	if out.Fallback || out.Err != nil {
		t.Fatalf("unexpected fallback: %v", out.Err)
	}
	rec := out.Recommendation
	if rec.StoryHeading != "Rowling's Rejections" || rec.MusicPhrase != "Piano Melodies" {
		t.Fatalf("unexpected recommendation: %+v", rec)
	}
}

func TestGenerateFallsBack(t *testing.T) {
	cases := map[string]*stubGateway{
		"gateway error": {err: errors.New("timeout")},
		"not json":      {completion: "Here is some advice: rest."},
		"broken json":   {completion: `{"story_heading": "x",`},
		"wrong types":   {completion: `{"story_heading": 42}`},
	}

	for name, gateway := range cases {
		t.Run(name, func(t *testing.T) {
			out := NewGenerator(gateway).Generate(context.Background(), sampleCheckIn())
			if !out.Fallback || out.Err == nil {
				t.Fatal("expected fallback with error")
			}
			if out.Recommendation != Default() {
				t.Fatalf("expected default recommendation, got %+v", out.Recommendation)
			}
		})
	}
}

func TestDefaultIsFullyPopulated(t *testing.T) {
	rec := Default()
	for name, value := range map[string]string{
		"recommendations_line": rec.RecommendationsLine,
		"chat_welcome":         rec.ChatWelcome,
		"story_heading":        rec.StoryHeading,
		"story_text":           rec.StoryText,
		"story_reflection":     rec.StoryReflection,
		"music_phrase":         rec.MusicPhrase,
	} {
		if value == "" {
			t.Fatalf("default %s is empty", name)
		}
	}
}

func TestGenerateToleratesMissingFields(t *testing.T) {
	gateway := &stubGateway{completion: `{"story_heading": "Only a heading", "music_phrase": "Disco"}`}
	out := NewGenerator(gateway).Generate(context.Background(), sampleCheckIn())

	if out.Fallback {
		t.Fatalf("unexpected fallback: %v", out.Err)
	}
	if out.Recommendation.StoryText != "" || out.Recommendation.MusicPhrase != "Disco" {
		t.Fatalf("unexpected recommendation: %+v", out.Recommendation)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(sampleCheckIn())

	for _, want := range []string{
		"- Emotion: sad",
		"- Energy: 20 out of 100",
		"- Social connection: alone",
		"- Context: work, family",
		"- Thoughts: I feel overwhelmed",
		"Nature Sounds, Piano Melodies, Ocean Waves, Upbeat Folk, Chillwave.",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}

	empty := sampleCheckIn()
	empty.Context = nil
	if !strings.Contains(BuildPrompt(empty), "- Context: none") {
		t.Fatal("expected empty context to render as none")
	}
}
