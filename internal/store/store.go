package store

import (
	"context"
	"time"
)

// Session is a persisted client session. Only identity-adjacent data
// is stored; chat and game history are never persisted.
type Session struct {
	ID          string
	DisplayName string // empty until the user picks one
	CreatedAt   time.Time
	LastSeenAt  time.Time
}

// SessionStore persists sessions across server restarts so a
// returning client keeps its chosen display name. Implementations
// must be safe for concurrent use. A nil SessionStore is a valid
// configuration; the server then runs memory-only.
type SessionStore interface {
	// Touch creates the session on first sight or updates its
	// last-seen timestamp, and returns the stored record.
	Touch(ctx context.Context, id string) (*Session, error)

	// SetDisplayName records the session's chosen display name.
	SetDisplayName(ctx context.Context, id, name string) error

	// Close releases the underlying resources.
	Close() error
}
