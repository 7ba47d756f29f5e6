package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sahaara/backend/internal/model/checkin"
	"github.com/sahaara/backend/internal/storage"
)

func seedStore(t *testing.T, records ...checkin.Record) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db.json")
	history, err := storage.NewFileLog(path)
	if err != nil {
		t.Fatalf("NewFileLog err: %v", err)
	}
	for _, rec := range records {
		if err := history.Append(context.Background(), rec); err != nil {
			t.Fatalf("Append err: %v", err)
		}
	}
	return path
}

func record(id, emotion string, energy int) checkin.Record {
	return checkin.Record{
		ID:        id,
		CreatedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		CheckIn:   checkin.CheckIn{Emotion: emotion, Energy: &energy, Social: "alone", Context: []string{"work"}},
		AIResponse: checkin.Recommendation{
			StoryHeading: "The Persistent Inventor",
			MusicPhrase:  "Ocean Waves",
			MusicURL:     "./sounds/3.mp3",
			Status:       checkin.StatusSuccess,
		},
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("STORE_PATH", "")

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestListShowsRecords(t *testing.T) {
	path := seedStore(t,
		record("0d7c2a10-aaaa-bbbb-cccc-000000000001", "sad", 20),
		record("5e11f00d-aaaa-bbbb-cccc-000000000002", "calm", 70),
	)

	out, err := run(t, "--driver", "file", "--path", path, "list")
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	for _, want := range []string{"Check-ins (2)", "sad", "calm", "0d7c2a10", "Ocean Waves"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestListLimit(t *testing.T) {
	path := seedStore(t,
		record("first", "sad", 20),
		record("second", "calm", 70),
	)

	out, err := run(t, "--path", path, "list", "-n", "1")
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if strings.Contains(out, "sad") || !strings.Contains(out, "calm") {
		t.Fatalf("expected only the newest record:\n%s", out)
	}
}

func TestListEmptyStore(t *testing.T) {
	out, err := run(t, "--path", seedStore(t), "list")
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if !strings.Contains(out, "No check-ins recorded yet.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestShowByIndexAndPrefix(t *testing.T) {
	path := seedStore(t,
		record("0d7c2a10-aaaa", "sad", 20),
		record("5e11f00d-aaaa", "calm", 70),
	)

	out, err := run(t, "--path", path, "show", "2")
	if err != nil {
		t.Fatalf("show err: %v", err)
	}
	if !strings.Contains(out, "calm") {
		t.Fatalf("expected second record:\n%s", out)
	}

	out, err = run(t, "--path", path, "show", "0d7c")
	if err != nil {
		t.Fatalf("show err: %v", err)
	}
	if !strings.Contains(out, "sad") {
		t.Fatalf("expected first record:\n%s", out)
	}
}

func TestFindRecordMissing(t *testing.T) {
	_, err := findRecord([]checkin.Record{record("abc", "sad", 1)}, "zzz")
	if !errors.Is(err, errRecordNotFound) {
		t.Fatalf("expected errRecordNotFound, got %v", err)
	}
}

func TestExportFormats(t *testing.T) {
	path := seedStore(t, record("0d7c2a10", "sad", 20))

	out, err := run(t, "--path", path, "export", "--format", "json")
	if err != nil {
		t.Fatalf("export json err: %v", err)
	}
	var fromJSON []checkin.Record
	if err := json.Unmarshal([]byte(out), &fromJSON); err != nil {
		t.Fatalf("invalid json export: %v", err)
	}
	if len(fromJSON) != 1 || fromJSON[0].CheckIn.Emotion != "sad" {
		t.Fatalf("unexpected json export %+v", fromJSON)
	}

	out, err = run(t, "--path", path, "export", "-f", "yaml")
	if err != nil {
		t.Fatalf("export yaml err: %v", err)
	}
	var fromYAML []checkin.Record
	if err := yaml.Unmarshal([]byte(out), &fromYAML); err != nil {
		t.Fatalf("invalid yaml export: %v", err)
	}
	if len(fromYAML) != 1 || fromYAML[0].AIResponse.MusicURL != "./sounds/3.mp3" {
		t.Fatalf("unexpected yaml export %+v", fromYAML)
	}
}

func TestExportToFile(t *testing.T) {
	path := seedStore(t, record("0d7c2a10", "sad", 20))
	target := filepath.Join(t.TempDir(), "history.yaml")

	if _, err := run(t, "--path", path, "export", "-f", "yml", "-o", target); err != nil {
		t.Fatalf("export err: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "checkin_data:") {
		t.Fatalf("expected yaml keys in export:\n%s", data)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	if _, err := run(t, "--path", seedStore(t), "export", "--format", "csv"); err == nil {
		t.Fatal("expected error for csv format")
	}
}

func TestListMissingStoreIsNotCreated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	if _, err := run(t, "--path", path, "list"); !errors.Is(err, storage.ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("list created %s", path)
	}
}

func TestUnknownDriver(t *testing.T) {
	if _, err := run(t, "--driver", "mongo", "list"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
