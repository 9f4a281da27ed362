// Package metadata implements store.MetadataStore over SQLite, persisting
// the per-run IDF lexicon and paper catalogue.
package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite" // pure Go driver, no CGO

	"github.com/emielsteerneman/tdpsearch/internal/paper"
	"github.com/emielsteerneman/tdpsearch/internal/store"
)

// Store implements store.MetadataStore against the idf_index and tdp
// tables, using WAL mode for concurrent multi-process access.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

var _ store.MetadataStore = (*Store)(nil)

// Open creates or opens the SQLite database at path. An empty path opens
// an in-memory database, for tests.
func Open(path string) (*Store, error) {
	var dsn string
	if path == "" {
		dsn = ":memory:"
	} else {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create directory %s: %w", dir, err)
			}
		}
		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer avoids lock contention against the WAL file.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS idf_index (
		word TEXT NOT NULL,
		run  TEXT NOT NULL,
		idx  INTEGER NOT NULL,
		idf  REAL NOT NULL,
		UNIQUE(word, run)
	);
	CREATE INDEX IF NOT EXISTS idf_index_run ON idf_index(run);

	CREATE TABLE IF NOT EXISTS tdp (
		run    TEXT NOT NULL,
		league TEXT NOT NULL,
		year   INTEGER NOT NULL,
		team   TEXT NOT NULL,
		idx    INTEGER NOT NULL,
		lyti   TEXT NOT NULL,
		PRIMARY KEY (lyti)
	);
	CREATE INDEX IF NOT EXISTS tdp_run_league_year_team ON tdp(run, league, year, team);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ReplaceIDF atomically replaces run's idf_index rows.
func (s *Store) ReplaceIDF(ctx context.Context, run string, terms []store.Term) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("metadata store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM idf_index WHERE run = ?`, run); err != nil {
		return fmt.Errorf("delete existing idf rows: %w", err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO idf_index(word, run, idx, idf) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for _, term := range terms {
		if _, err := insert.ExecContext(ctx, term.Word, run, term.ID, term.WeightedIDF); err != nil {
			return fmt.Errorf("insert term %q: %w", term.Word, err)
		}
	}

	return tx.Commit()
}

// LoadIDF returns every idf_index row for run.
func (s *Store) LoadIDF(ctx context.Context, run string) ([]store.Term, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("metadata store is closed")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT word, idx, idf FROM idf_index WHERE run = ? ORDER BY idx`, run)
	if err != nil {
		return nil, fmt.Errorf("query idf rows: %w", err)
	}
	defer rows.Close()

	var terms []store.Term
	for rows.Next() {
		var t store.Term
		if err := rows.Scan(&t.Word, &t.ID, &t.WeightedIDF); err != nil {
			return nil, fmt.Errorf("scan idf row: %w", err)
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// ReplacePapers atomically replaces run's tdp rows.
func (s *Store) ReplacePapers(ctx context.Context, run string, papers []paper.TDPName) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("metadata store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tdp WHERE run = ?`, run); err != nil {
		return fmt.Errorf("delete existing tdp rows: %w", err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO tdp(run, league, year, team, idx, lyti) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for _, p := range papers {
		lyti := p.Filename()
		if _, err := insert.ExecContext(ctx, run, p.League.NamePretty, p.Year, p.Team.NamePretty, p.Index, lyti); err != nil {
			return fmt.Errorf("insert paper %q: %w", lyti, err)
		}
	}

	return tx.Commit()
}

// ListPapers returns every tdp row for run, optionally narrowed by league
// and team (empty = unconstrained) and year (nil = any).
func (s *Store) ListPapers(ctx context.Context, run, league, team string, year *uint32) ([]paper.TDPName, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, fmt.Errorf("metadata store is closed")
	}

	query := strings.Builder{}
	query.WriteString(`SELECT league, year, team, idx, lyti FROM tdp WHERE run = ?`)
	args := []any{run}

	if league != "" {
		query.WriteString(` AND league = ?`)
		args = append(args, league)
	}
	if team != "" {
		query.WriteString(` AND team = ?`)
		args = append(args, team)
	}
	if year != nil {
		query.WriteString(` AND year = ?`)
		args = append(args, *year)
	}
	query.WriteString(` ORDER BY league, year, team, idx`)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query tdp rows: %w", err)
	}
	defer rows.Close()

	var papers []paper.TDPName
	for rows.Next() {
		var lyti string
		var leagueName, teamName string
		var rowYear uint32
		var idx uint32
		if err := rows.Scan(&leagueName, &rowYear, &teamName, &idx, &lyti); err != nil {
			return nil, fmt.Errorf("scan tdp row: %w", err)
		}
		name, err := paper.ParseTDPName(lyti)
		if err != nil {
			return nil, fmt.Errorf("stored lyti %q is not a valid paper id: %w", lyti, err)
		}
		papers = append(papers, name)
	}
	return papers, rows.Err()
}

// Close closes the underlying database connection. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
