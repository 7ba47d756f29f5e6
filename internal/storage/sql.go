package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/sahaara/backend/internal/model/checkin"
)

type dialect struct {
	driver string
	schema []string
	// bind renders the n-th (1-based) query placeholder.
	bind func(n int) string
}

var sqliteDialect = dialect{
	driver: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS checkins (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			checkin_data TEXT NOT NULL,
			ai_response TEXT NOT NULL
		)`,
	},
	bind: func(int) string { return "?" },
}

var postgresDialect = dialect{
	driver: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS checkins (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			checkin_data TEXT NOT NULL,
			ai_response TEXT NOT NULL
		)`,
	},
	bind: func(n int) string { return fmt.Sprintf("$%d", n) },
}

// SQLLog stores one row per record. Appends are single INSERTs, so the
// database serializes concurrent writers.
type SQLLog struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQLite opens (or creates) a SQLite history at dbPath.
func OpenSQLite(dbPath string) (*SQLLog, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("open sqlite: empty db path")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("open sqlite: create db dir: %w", err)
	}

	dsn := "file:" + dbPath + "?mode=rwc&_pragma=busy_timeout(5000)"
	return openSQL(sqliteDialect, dsn)
}

// OpenPostgres connects to the history database at databaseURL.
func OpenPostgres(databaseURL string) (*SQLLog, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("open postgres: empty database url")
	}
	return openSQL(postgresDialect, databaseURL)
}

func openSQL(d dialect, dsn string) (*SQLLog, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: sql open: %w", d.driver, err)
	}
	if d.driver == sqliteDialect.driver {
		// One connection keeps SQLite writers from tripping over file locks.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: ping: %w", d.driver, err)
	}

	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open %s: migrate: %w", d.driver, err)
		}
	}

	return &SQLLog{db: db, dialect: d}, nil
}

// ReadAll returns every row in insertion order.
func (l *SQLLog) ReadAll(ctx context.Context) ([]checkin.Record, error) {
	rows, err := l.db.QueryContext(ctx, "SELECT id, created_at, checkin_data, ai_response FROM checkins ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("read all: query: %w", err)
	}
	defer rows.Close()

	records := []checkin.Record{}
	for rows.Next() {
		var (
			record    checkin.Record
			createdAt string
			checkIn   string
			response  string
		)
		if err := rows.Scan(&record.ID, &createdAt, &checkIn, &response); err != nil {
			return nil, fmt.Errorf("read all: scan: %w", err)
		}
		if record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("read all: parse created_at %q: %w", createdAt, err)
		}
		if err := json.Unmarshal([]byte(checkIn), &record.CheckIn); err != nil {
			return nil, fmt.Errorf("read all: decode checkin %s: %w", record.ID, err)
		}
		if err := json.Unmarshal([]byte(response), &record.AIResponse); err != nil {
			return nil, fmt.Errorf("read all: decode response %s: %w", record.ID, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read all: rows: %w", err)
	}
	return records, nil
}

// WriteAll replaces every row inside one transaction.
func (l *SQLLog) WriteAll(ctx context.Context, records []checkin.Record) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write all: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM checkins"); err != nil {
		return fmt.Errorf("write all: delete: %w", err)
	}

	for _, record := range records {
		if err := l.insert(ctx, tx, stamp(record)); err != nil {
			return fmt.Errorf("write all: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write all: commit: %w", err)
	}
	return nil
}

// Append inserts one row.
func (l *SQLLog) Append(ctx context.Context, record checkin.Record) error {
	if err := l.insert(ctx, l.db, stamp(record)); err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (l *SQLLog) Close() error {
	return l.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (l *SQLLog) insert(ctx context.Context, db execer, record checkin.Record) error {
	checkIn, err := json.Marshal(record.CheckIn)
	if err != nil {
		return fmt.Errorf("encode checkin: %w", err)
	}
	response, err := json.Marshal(record.AIResponse)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	placeholders := make([]string, 4)
	for i := range placeholders {
		placeholders[i] = l.dialect.bind(i + 1)
	}
	query := "INSERT INTO checkins (id, created_at, checkin_data, ai_response) VALUES (" + strings.Join(placeholders, ", ") + ")"

	if _, err := db.ExecContext(ctx, query, record.ID, record.CreatedAt.UTC().Format(time.RFC3339Nano), string(checkIn), string(response)); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}
