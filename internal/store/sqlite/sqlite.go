package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roomcast/roomcast-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id           TEXT PRIMARY KEY,
	display_name TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_seen_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implements store.SessionStore on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and applies the
// schema. Use ":memory:" for an ephemeral store.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single writer connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Touch inserts the session on first sight, otherwise bumps
// last_seen_at, and returns the stored record.
func (s *SQLiteStore) Touch(ctx context.Context, id string) (*store.Session, error) {
	query := `
		INSERT INTO sessions (id)
		VALUES (?)
		ON CONFLICT(id) DO UPDATE SET last_seen_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	return s.get(ctx, id)
}

// SetDisplayName records the session's chosen display name.
func (s *SQLiteStore) SetDisplayName(ctx context.Context, id, name string) error {
	query := `UPDATE sessions SET display_name = ? WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, name, id); err != nil {
		return fmt.Errorf("set display name: %w", err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, id string) (*store.Session, error) {
	query := `
		SELECT id, display_name, created_at, last_seen_at
		FROM sessions
		WHERE id = ?
	`
	var sess store.Session
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID, &sess.DisplayName, &sess.CreatedAt, &sess.LastSeenAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}
