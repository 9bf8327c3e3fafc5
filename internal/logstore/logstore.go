// Package logstore persists handled exchanges to SQLite. Entries are
// append-only; reads serve conversational context and the admin listing.
package logstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/AlexMuhammad/telegram-token-assistant/internal/model"
)

// Store is a SQLite-backed query log. Safe for concurrent use: every
// message handler goroutine appends through the same Store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at the given path and applies
// the schema.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows one writer at a time; queue writers in the pool
	// instead of surfacing SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS query_logs (
		id         TEXT PRIMARY KEY,
		chat_id    INTEGER NOT NULL,
		input      TEXT NOT NULL,
		response   TEXT NOT NULL,
		token_data TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_query_logs_chat ON query_logs(chat_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_query_logs_created ON query_logs(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// newID returns a fresh ULID. ulid.Make uses the package-level locked
// entropy source, so concurrent appends are fine.
func newID() string {
	return ulid.Make().String()
}

// Append records one handled exchange.
func (s *Store) Append(ctx context.Context, chatID int64, input, response, tokenData string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_logs (id, chat_id, input, response, token_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		newID(), chatID, input, response, tokenData, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append query log: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for a chat, newest first.
func (s *Store) Recent(ctx context.Context, chatID int64, limit int) ([]model.QueryLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, input, response, token_data, created_at
		 FROM query_logs WHERE chat_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		chatID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent logs: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// List returns up to limit entries for the admin surface, newest first,
// optionally filtered by exact input text and chat ID.
func (s *Store) List(ctx context.Context, input string, chatID int64, limit int) ([]model.QueryLogEntry, error) {
	query := `SELECT id, chat_id, input, response, token_data, created_at FROM query_logs`
	var args []interface{}
	var where []string

	if input != "" {
		where = append(where, "input = ?")
		args = append(args, input)
	}
	if chatID != 0 {
		where = append(where, "chat_id = ?")
		args = append(args, chatID)
	}
	for i, cond := range where {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list query logs: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]model.QueryLogEntry, error) {
	var entries []model.QueryLogEntry
	for rows.Next() {
		var e model.QueryLogEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.ChatID, &e.Input, &e.Response, &e.TokenData, &createdAt); err != nil {
			return nil, fmt.Errorf("scan query log: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
