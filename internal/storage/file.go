package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sahaara/backend/internal/model/checkin"
)

// FileLog keeps the whole history in one JSON array file. A mutex serializes
// read-modify-write cycles and each write replaces the file atomically.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog returns a FileLog at path, creating an empty history if needed.
func NewFileLog(path string) (*FileLog, error) {
	if path == "" {
		return nil, fmt.Errorf("file log: empty path")
	}

	l := &FileLog{path: path}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := l.write([]checkin.Record{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("file log: stat: %w", err)
	}
	return l, nil
}

// ReadAll decodes the history file.
func (l *FileLog) ReadAll(_ context.Context) ([]checkin.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

// WriteAll replaces the history file.
func (l *FileLog) WriteAll(_ context.Context, records []checkin.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.write(records)
}

// Append reads, extends and rewrites the history under the lock.
func (l *FileLog) Append(_ context.Context, record checkin.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.read()
	if err != nil {
		return err
	}
	return l.write(append(records, stamp(record)))
}

// Close is a no-op; the file is opened per operation.
func (l *FileLog) Close() error {
	return nil
}

func (l *FileLog) read() ([]checkin.Record, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return []checkin.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file log: read: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []checkin.Record{}, nil
	}

	var records []checkin.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("file log: decode: %w", err)
	}
	if records == nil {
		records = []checkin.Record{}
	}
	return records, nil
}

func (l *FileLog) write(records []checkin.Record) error {
	if records == nil {
		records = []checkin.Record{}
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("file log: encode: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("file log: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file log: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file log: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file log: close: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file log: rename: %w", err)
	}
	return nil
}
