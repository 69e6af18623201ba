package session

import (
	"context"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/game"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("session")
	meter  = otel.Meter("session")
)

// Options tunes how sessions are played.
type Options struct {
	// ComputerMoveDelay paces the computer's reply in single-player mode.
	// Zero makes the engine answer within the human's move.
	ComputerMoveDelay time.Duration
}

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

// Service defines the interface for session-level game operations.
type Service interface {
	Create(ctx context.Context) (*Session, error)
	State(ctx context.Context, id string) (game.State, error)
	Move(ctx context.Context, id string, cell int) (game.State, error)
	ComputerMove(ctx context.Context, id string) (game.State, error)
	Reset(ctx context.Context, id string) (game.State, error)
	SetMode(ctx context.Context, id string, mode game.Mode) (game.State, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	publisher events.Publisher
	opts      Options
	rounds    metric.Int64Counter
}

// NewService creates a new session Service.
func NewService(repo Repository, publisher events.Publisher, opts Options) Service {
	rounds, err := meter.Int64Counter("tictactoe.rounds.finished",
		metric.WithDescription("Rounds that ended in a win or a draw"),
		metric.WithUnit("{round}"),
	)
	if err != nil {
		slog.Warn("failed to create rounds counter", "error", err)
		rounds = noop.Int64Counter{}
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		opts:      opts,
		rounds:    rounds,
	}
}

// Create starts a new session with a fresh engine.
func (s *service) Create(ctx context.Context) (*Session, error) {
	ctx, span := tracer.Start(ctx, "SessionService.Create")
	defer span.End()

	engine := game.NewEngine(game.WithAutoComputerMove(s.opts.ComputerMoveDelay <= 0))
	sess := NewSession(uuid.New().String(), engine)
	span.SetAttributes(attribute.String("session.id", sess.ID))

	if err := s.repo.Save(ctx, sess); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save session")
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.publish(ctx, events.SessionCreated, sess.ID, engine.Snapshot())
	slog.InfoContext(ctx, "Session created", "session.id", sess.ID)
	return sess, nil
}

// State returns the current snapshot of a session.
func (s *service) State(ctx context.Context, id string) (game.State, error) {
	ctx, span := tracer.Start(ctx, "SessionService.State", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	sess, err := s.find(ctx, span, id)
	if err != nil {
		return game.State{}, err
	}
	return sess.Snapshot(), nil
}

// Move plays the current turn's mark on cell. Ignored moves return the
// unchanged state without an error.
func (s *service) Move(ctx context.Context, id string, cell int) (game.State, error) {
	ctx, span := tracer.Start(ctx, "SessionService.Move", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.Int("move.cell", cell),
	))
	defer span.End()

	sess, err := s.lock(ctx, span, id)
	if err != nil {
		return game.State{}, err
	}
	defer sess.mu.Unlock()

	before := sess.engine.Status()
	applied, err := sess.engine.AttemptMove(cell)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid cell index")
		return game.State{}, err
	}
	span.SetAttributes(attribute.Bool("move.applied", applied))

	state := sess.engine.Snapshot()
	if !applied {
		return state, nil
	}
	slog.DebugContext(ctx, "Move applied", "session.id", id, "cell", cell, "status", state.Status)

	s.afterChange(ctx, sess, before, state)
	if sess.engine.AwaitingComputer() {
		s.scheduleComputerMove(ctx, sess)
	}
	return state, nil
}

// ComputerMove lets the computer play O right away. It is a no-op unless the
// session is in single-player mode and waiting for O.
func (s *service) ComputerMove(ctx context.Context, id string) (game.State, error) {
	ctx, span := tracer.Start(ctx, "SessionService.ComputerMove", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	sess, err := s.lock(ctx, span, id)
	if err != nil {
		return game.State{}, err
	}
	defer sess.mu.Unlock()

	sess.cancelPending()
	return s.computerMoveLocked(ctx, span, sess), nil
}

// Reset starts a new round, keeping score and mode.
func (s *service) Reset(ctx context.Context, id string) (game.State, error) {
	ctx, span := tracer.Start(ctx, "SessionService.Reset", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	sess, err := s.lock(ctx, span, id)
	if err != nil {
		return game.State{}, err
	}
	defer sess.mu.Unlock()

	sess.cancelPending()
	sess.engine.Reset()

	state := sess.engine.Snapshot()
	s.publish(ctx, events.StateChanged, id, state)
	return state, nil
}

// SetMode switches the mode, which always starts a new round.
func (s *service) SetMode(ctx context.Context, id string, mode game.Mode) (game.State, error) {
	ctx, span := tracer.Start(ctx, "SessionService.SetMode", trace.WithAttributes(
		attribute.String("session.id", id),
		attribute.String("game.mode", string(mode)),
	))
	defer span.End()

	if _, err := game.ParseMode(string(mode)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid mode")
		return game.State{}, err
	}

	sess, err := s.lock(ctx, span, id)
	if err != nil {
		return game.State{}, err
	}
	defer sess.mu.Unlock()

	sess.cancelPending()
	sess.engine.SetMode(mode)

	state := sess.engine.Snapshot()
	s.publish(ctx, events.ModeChanged, id, state)
	slog.InfoContext(ctx, "Session mode changed", "session.id", id, "game.mode", mode)
	return state, nil
}

// Delete drops a session and any scheduled computer move.
func (s *service) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "SessionService.Delete", trace.WithAttributes(
		attribute.String("session.id", id),
	))
	defer span.End()

	sess, err := s.lock(ctx, span, id)
	if err != nil {
		return err
	}
	defer sess.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}
	sess.cancelPending()
	sess.deleted = true

	s.publish(ctx, events.SessionDeleted, id, nil)
	slog.InfoContext(ctx, "Session deleted", "session.id", id)
	return nil
}

func (s *service) find(ctx context.Context, span trace.Span, id string) (*Session, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session lookup failed")
		return nil, err
	}
	return sess, nil
}

// lock finds a session and acquires its mutex. A session deleted while the
// caller waited for the mutex is reported as not found.
func (s *service) lock(ctx context.Context, span trace.Span, id string) (*Session, error) {
	sess, err := s.find(ctx, span, id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	if sess.deleted {
		sess.mu.Unlock()
		span.SetStatus(codes.Error, "Session deleted")
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// computerMoveLocked plays for O and publishes the result. Callers hold sess.mu.
func (s *service) computerMoveLocked(ctx context.Context, span trace.Span, sess *Session) game.State {
	before := sess.engine.Status()
	cell, ok := sess.engine.ComputerMove()
	state := sess.engine.Snapshot()
	if !ok {
		return state
	}
	span.SetAttributes(attribute.Int("move.cell", cell))
	slog.DebugContext(ctx, "Computer moved", "session.id", sess.ID, "cell", cell, "status", state.Status)

	s.afterChange(ctx, sess, before, state)
	return state
}

// scheduleComputerMove arranges for the computer to answer after the
// configured delay. Callers hold sess.mu.
func (s *service) scheduleComputerMove(ctx context.Context, sess *Session) {
	if s.opts.ComputerMoveDelay <= 0 {
		return
	}
	sess.cancelPending()

	epoch := sess.epoch
	ctx = context.WithoutCancel(ctx)
	sess.pending = time.AfterFunc(s.opts.ComputerMoveDelay, func() {
		ctx, span := tracer.Start(ctx, "SessionService.scheduledComputerMove", trace.WithAttributes(
			attribute.String("session.id", sess.ID),
		))
		defer span.End()

		sess.mu.Lock()
		defer sess.mu.Unlock()

		if sess.deleted || sess.epoch != epoch {
			return
		}
		sess.pending = nil
		s.computerMoveLocked(ctx, span, sess)
	})
}

// afterChange publishes a state change and, when the change ended the
// round, the round result.
func (s *service) afterChange(ctx context.Context, sess *Session, before game.Status, state game.State) {
	s.publish(ctx, events.StateChanged, sess.ID, state)

	if before.IsTerminal() || !state.Status.IsTerminal() {
		return
	}
	s.rounds.Add(ctx, 1, metric.WithAttributes(
		attribute.String("round.status", string(state.Status)),
		attribute.String("round.winner", string(state.Winner)),
		attribute.String("game.mode", string(state.Mode)),
	))
	s.publish(ctx, events.RoundFinished, sess.ID, events.RoundFinishedPayload{
		Status: state.Status,
		Winner: state.Winner,
		Line:   state.WinningLine,
		Score:  state.Score,
		Mode:   state.Mode,
	})
	slog.InfoContext(ctx, "Round finished", "session.id", sess.ID, "status", state.Status, "winner", state.Winner)
}

// publish delivers an event. Failures are logged, never returned: the game
// state has already changed by the time an event goes out.
func (s *service) publish(ctx context.Context, eventType, id string, payload any) {
	evt, err := events.New(eventType, id, payload)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build event", "event.type", eventType, "session.id", id, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "event.type", eventType, "session.id", id, "error", err)
		trace.SpanFromContext(ctx).RecordError(err)
	}
}
