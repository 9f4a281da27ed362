// Package activity implements store.ActivityStore over SQLite: a
// best-effort, append-only log of search and indexing events.
package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/emielsteerneman/tdpsearch/internal/store"
)

// Store implements store.ActivityStore against a single append-only
// events table.
type Store struct {
	db *sql.DB
}

var _ store.ActivityStore = (*Store)(nil)

// Open creates or opens the SQLite database at path. An empty path opens
// an in-memory database, for tests.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create directory %s: %w", dir, err)
			}
		}
		dsn = path
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS activity_events (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		source    TEXT NOT NULL,
		action    TEXT NOT NULL,
		detail    TEXT NOT NULL,
		occurred_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS activity_events_source_action ON activity_events(source, action);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Log records one activity event. Callers are expected to swallow any
// error at the warn level; logging is never on the hot path's critical
// path.
func (s *Store) Log(ctx context.Context, event store.ActivityEvent) error {
	detail, err := json.Marshal(event.Detail)
	if err != nil {
		return fmt.Errorf("marshal event detail: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO activity_events(source, action, detail) VALUES (?, ?, ?)`,
		event.Source, event.Action, string(detail))
	if err != nil {
		return fmt.Errorf("insert activity event: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
