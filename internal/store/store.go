// Package store persists routing decisions to SQLite for later inspection.
// Recording is an observability aid, not part of the reply path: failures
// are logged and swallowed.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Decision is one recorded routing outcome.
type Decision struct {
	ID        int64
	ChatID    string
	Kind      string
	Responder string
	LatencyMs int64
	CreatedAt time.Time
}

// SQLiteStore records routing decisions in a local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create database directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Single connection; SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id     TEXT NOT NULL,
		kind        TEXT NOT NULL,
		responder   TEXT,
		latency_ms  INTEGER DEFAULT 0,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_time ON decisions(created_at);
	CREATE INDEX IF NOT EXISTS idx_decisions_chat ON decisions(chat_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// LogDecision records one routing outcome. Best-effort: a write failure is
// logged, never propagated to the message path.
func (s *SQLiteStore) LogDecision(ctx context.Context, chatID, kind, responderName string, latencyMs int64) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions (chat_id, kind, responder, latency_ms) VALUES (?, ?, ?, ?)`,
		chatID, kind, responderName, latencyMs,
	)
	if err != nil {
		s.logger.Warn("failed to record decision", "err", err, "kind", kind)
	}
}

// Count returns the total number of recorded decisions.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM decisions`).Scan(&n)
	return n, err
}

// RecentDecisions returns the latest decisions, newest first.
func (s *SQLiteStore) RecentDecisions(ctx context.Context, limit int) ([]Decision, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, kind, responder, latency_ms, created_at
		 FROM decisions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Decision
	for rows.Next() {
		var d Decision
		if err := rows.Scan(&d.ID, &d.ChatID, &d.Kind, &d.Responder, &d.LatencyMs, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
