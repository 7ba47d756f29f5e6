package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sahaara/backend/internal/config"
	"github.com/sahaara/backend/internal/model/checkin"
)

// Log is the check-in history: an ordered sequence of records.
type Log interface {
	// ReadAll returns every record, oldest first.
	ReadAll(ctx context.Context) ([]checkin.Record, error)
	// WriteAll replaces the whole history.
	WriteAll(ctx context.Context, records []checkin.Record) error
	// Append adds one record. Concurrent appends are never lost.
	Append(ctx context.Context, record checkin.Record) error
	Close() error
}

// Open creates the log selected by cfg.Driver.
func Open(cfg config.StorageConfig) (Log, error) {
	switch cfg.Driver {
	case config.DriverFile:
		return NewFileLog(cfg.Path)
	case config.DriverSQLite:
		return OpenSQLite(cfg.Path)
	case config.DriverPostgres:
		return OpenPostgres(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("open: unsupported driver %q", cfg.Driver)
	}
}

// ErrNoHistory is returned by OpenExisting when the store file is missing.
var ErrNoHistory = errors.New("no check-in history")

// OpenExisting opens the log like Open but never creates a file-backed store.
// Read-only tools use it so that pointing at a wrong path is an error.
func OpenExisting(cfg config.StorageConfig) (Log, error) {
	switch cfg.Driver {
	case config.DriverFile, config.DriverSQLite:
		if _, err := os.Stat(cfg.Path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoHistory, cfg.Path)
		} else if err != nil {
			return nil, fmt.Errorf("open: stat %s: %w", cfg.Path, err)
		}
	}
	return Open(cfg)
}

// stamp assigns an id and creation time to records that lack them.
func stamp(record checkin.Record) checkin.Record {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	return record
}
