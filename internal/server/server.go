package server

import (
	"context"
	"ctchen222/tictactoe/internal/api/controller"
	"ctchen222/tictactoe/internal/api/middleware"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/hub"
	"ctchen222/tictactoe/internal/session"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("server")

const defaultHeartbeatInterval = 10 * time.Second

// SessionCounter reports how many sessions are live.
type SessionCounter interface {
	Count(ctx context.Context) (int, error)
}

// TokenService issues and verifies session tokens.
type TokenService interface {
	controller.TokenIssuer
	middleware.TokenVerifier
}

// Options carries the server's collaborators.
type Options struct {
	Sessions          session.Service
	Counter           SessionCounter
	Hub               *hub.Hub
	Tokens            TokenService
	HeartbeatInterval time.Duration
}

type Server struct {
	sessions   session.Service
	counter    SessionCounter
	hub        *hub.Hub
	tokens     TokenService
	controller *controller.SessionController
	upgrader   websocket.Upgrader
	heartbeat  time.Duration
}

func NewServer(opts Options) *Server {
	heartbeat := opts.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatInterval
	}
	return &Server{
		sessions:   opts.Sessions,
		counter:    opts.Counter,
		hub:        opts.Hub,
		tokens:     opts.Tokens,
		controller: controller.NewSessionController(opts.Sessions, opts.Tokens),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		heartbeat: heartbeat,
	}
}

// Engine builds the gin engine with every route registered.
func (s *Server) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Tracing())

	r.GET("/healthz", s.handleHealth)

	requireToken := middleware.RequireSessionToken(s.tokens)

	sessions := r.Group("/api/sessions")
	sessions.POST("", s.controller.Create)

	own := sessions.Group("/:id", requireToken)
	own.GET("", s.controller.Get)
	own.DELETE("", s.controller.Delete)
	own.POST("/moves", s.controller.Move)
	own.POST("/computer-move", s.controller.ComputerMove)
	own.POST("/reset", s.controller.Reset)
	own.PUT("/mode", s.controller.SetMode)

	r.GET("/ws/:id", requireToken, s.handleWebSocket)

	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	n, err := s.counter.Count(c.Request.Context())
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Health check failed", "error", err)
		response.ErrorResponse(c, http.StatusServiceUnavailable, "session store unavailable")
		return
	}
	response.SuccessResponse(c, gin.H{"status": "ok", "sessions": n})
}
