package middleware

import (
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/auth"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionIDKey is the gin context key holding the authorized session ID.
const SessionIDKey = "session.id"

// TokenVerifier checks a session token and returns the session it grants.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireSessionToken admits a request only when its token was issued for
// the session named by the :id path parameter. The token is read from the
// Authorization header or, for WebSocket clients, the token query parameter.
func RequireSessionToken(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			response.AbortWithError(c, response.NewError(http.StatusUnauthorized, "missing session token"))
			return
		}

		sessionID, err := verifier.Verify(token)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "Rejected session token", "error", err)
			response.AbortWithError(c, response.NewError(http.StatusUnauthorized, auth.ErrInvalidToken.Error()))
			return
		}
		if sessionID != c.Param("id") {
			slog.WarnContext(c.Request.Context(), "Token used for another session", "session.id", c.Param("id"), "token.session_id", sessionID)
			response.AbortWithError(c, response.NewError(http.StatusUnauthorized, "token does not grant this session"))
			return
		}

		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
