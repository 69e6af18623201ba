package repository

import (
	"context"
	"ctchen222/tictactoe/internal/session"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("repository.session")

// memorySessionRepository keeps sessions for the lifetime of the process.
// Scores live only as long as their session.
type memorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewSessionRepository creates a new in-memory session.Repository.
func NewSessionRepository() session.Repository {
	return &memorySessionRepository{
		sessions: make(map[string]*session.Session),
	}
}

// Save stores s, replacing any session with the same ID.
func (r *memorySessionRepository) Save(ctx context.Context, s *session.Session) error {
	_, span := tracer.Start(ctx, "SessionRepository.Save", trace.WithAttributes(
		attribute.String("session.id", s.ID),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
	return nil
}

// FindByID retrieves a session by its ID.
func (r *memorySessionRepository) FindByID(ctx context.Context, id string) (*session.Session, error) {
	_, span := tracer.Start(ctx, "SessionRepository.FindByID", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}
	return s, nil
}

// Delete removes a session. Deleting an unknown ID is not an error.
func (r *memorySessionRepository) Delete(ctx context.Context, id string) error {
	_, span := tracer.Start(ctx, "SessionRepository.Delete", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *memorySessionRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions), nil
}
