package session

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned for IDs that were never created or are deleted.
var ErrSessionNotFound = errors.New("session not found")

//go:generate mockgen -source=session.go -destination=mocks/mock_repository.go -package=mocks

// Repository defines the interface for session storage.
type Repository interface {
	Save(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Session is one table: an engine plus the bookkeeping needed to drive it
// from concurrent handlers.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	engine  *game.Engine
	pending *time.Timer
	epoch   uint64 // bumped on cancel so a timer that already fired can tell
	deleted bool
}

// NewSession wraps engine under id.
func NewSession(id string, engine *game.Engine) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		engine:    engine,
	}
}

// Snapshot returns the current engine state.
func (s *Session) Snapshot() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshot()
}

// cancelPending stops a scheduled computer move. Callers hold s.mu.
func (s *Session) cancelPending() {
	s.epoch++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
