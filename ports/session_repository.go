package ports

import (
	"context"
	"time"

	"csvexplorer/domain/core"
	"csvexplorer/internal/session"
)

// SessionRepository defines the interface for per-browser application state
type SessionRepository interface {
	// Load returns the current state for a session; unknown sessions start empty
	Load(ctx context.Context, id core.SessionID) (session.State, error)

	// Apply atomically applies a transition and returns the resulting state
	Apply(ctx context.Context, id core.SessionID, t session.Transition) (session.State, error)

	// Delete forgets a session entirely
	Delete(ctx context.Context, id core.SessionID) error

	// CleanupExpired drops sessions idle for longer than olderThan and reports how many went
	CleanupExpired(ctx context.Context, olderThan time.Duration) (int, error)

	// Len returns the number of live sessions
	Len() int
}

var _ SessionRepository = (*session.MemoryStore)(nil)
