package session

import (
	"context"
	"sync"
	"time"

	"csvexplorer/domain/core"
	"csvexplorer/internal"
)

type entry struct {
	state    State
	lastSeen time.Time
}

// MemoryStore keeps session state in process memory
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[core.SessionID]*entry
	logger   *internal.Logger
	now      func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore(logger *internal.Logger) *MemoryStore {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MemoryStore{
		sessions: make(map[core.SessionID]*entry),
		logger:   logger,
		now:      time.Now,
	}
}

// Load returns the state for id. Unknown sessions have the empty state.
func (s *MemoryStore) Load(ctx context.Context, id core.SessionID) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return State{}, nil
	}
	e.lastSeen = s.now()
	return e.state, nil
}

// Apply applies t to the state for id under the store lock
func (s *MemoryStore) Apply(ctx context.Context, id core.SessionID, t Transition) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		if t.Kind != TransitionReplace {
			return State{}, nil
		}
		e = &entry{}
		s.sessions[id] = e
	}

	e.state = t.Apply(e.state)
	e.lastSeen = s.now()

	if t.Kind != TransitionUnchanged {
		s.logger.Debug("[SessionStore] Applied %s transition to session %s", t.Kind, id)
	}
	return e.state, nil
}

// Delete forgets a session
func (s *MemoryStore) Delete(ctx context.Context, id core.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// CleanupExpired drops sessions not seen within olderThan
func (s *MemoryStore) CleanupExpired(ctx context.Context, olderThan time.Duration) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-olderThan)
	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of live sessions
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunJanitor periodically expires idle sessions until ctx is done
func (s *MemoryStore) RunJanitor(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed, err := s.CleanupExpired(ctx, ttl)
			if err != nil {
				return nil
			}
			if removed > 0 {
				s.logger.Info("[SessionStore] Expired %d idle sessions (%d remaining)", removed, s.Len())
			}
		}
	}
}
