package controller

import (
	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/session"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TokenIssuer hands out session tokens.
type TokenIssuer interface {
	Issue(sessionID string) (string, error)
}

// SessionController handles session-related HTTP requests.
type SessionController struct {
	sessions session.Service
	tokens   TokenIssuer
}

// NewSessionController creates a new SessionController.
func NewSessionController(sessions session.Service, tokens TokenIssuer) *SessionController {
	return &SessionController{
		sessions: sessions,
		tokens:   tokens,
	}
}

// Create starts a new session and returns the token that controls it.
func (sc *SessionController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	sess, err := sc.sessions.Create(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	token, err := sc.tokens.Issue(sess.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to issue session token", "session.id", sess.ID, "error", err)
		if delErr := sc.sessions.Delete(ctx, sess.ID); delErr != nil {
			slog.ErrorContext(ctx, "Failed to drop session without token", "session.id", sess.ID, "error", delErr)
		}
		response.ErrorResponse(c, http.StatusInternalServerError, "failed to issue session token")
		return
	}

	response.SuccessResponseWithCode(c, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sess.ID,
		Token:     token,
		State:     sess.Snapshot(),
	})
}

// Get returns the current state of a session.
func (sc *SessionController) Get(c *gin.Context) {
	state, err := sc.sessions.State(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessResponse(c, state)
}

// Move plays the current turn's mark. A move on an occupied cell or after
// the round ended succeeds with the state unchanged.
func (sc *SessionController) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	state, err := sc.sessions.Move(c.Request.Context(), c.Param("id"), *req.Cell)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessResponse(c, state)
}

// ComputerMove asks the computer to play O now.
func (sc *SessionController) ComputerMove(c *gin.Context) {
	state, err := sc.sessions.ComputerMove(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessResponse(c, state)
}

// Reset starts a new round.
func (sc *SessionController) Reset(c *gin.Context) {
	state, err := sc.sessions.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessResponse(c, state)
}

// SetMode switches between multiplayer and single-player.
func (sc *SessionController) SetMode(c *gin.Context) {
	var req models.ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	state, err := sc.sessions.SetMode(c.Request.Context(), c.Param("id"), game.Mode(req.Mode))
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessResponse(c, state)
}

// Delete ends a session.
func (sc *SessionController) Delete(c *gin.Context) {
	if err := sc.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.SuccessResponse(c, gin.H{"message": "Session deleted"})
}

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidIndex), errors.Is(err, game.ErrInvalidMode):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	code := StatusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "Session request failed", "session.id", c.Param("id"), "error", err)
		response.ErrorResponse(c, code, http.StatusText(code))
		return
	}
	response.ErrorResponse(c, code, err.Error())
}
