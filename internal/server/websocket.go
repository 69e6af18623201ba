package server

import (
	"context"
	"ctchen222/tictactoe/internal/api/controller"
	"ctchen222/tictactoe/internal/api/response"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/hub"
	"ctchen222/tictactoe/internal/validator"
	"ctchen222/tictactoe/pkg/proto"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

// handleWebSocket upgrades the connection, registers it with the hub under
// its session and then serves the client's messages until it goes away.
func (s *Server) handleWebSocket(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "server.handleWebSocket", trace.WithAttributes(
		attribute.String("http.url", c.Request.URL.String()),
		attribute.String("session.id", c.Param("id")),
	))
	defer span.End()

	sessionID := c.Param("id")
	state, err := s.sessions.State(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Session lookup failed")
		code := controller.StatusFor(err)
		response.ErrorResponse(c, code, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "Failed to upgrade connection", "session.id", sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upgrade connection")
		return
	}

	initial, err := json.Marshal(proto.NewStateMessage(state))
	if err != nil {
		span.RecordError(err)
		conn.Close()
		return
	}

	client := hub.NewClient(sessionID)
	span.SetAttributes(attribute.String("client.id", client.ID))
	if err := s.hub.Register(ctx, client, initial); err != nil {
		slog.ErrorContext(ctx, "Failed to register client", "session.id", sessionID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to register client")
		conn.Close()
		return
	}

	go s.writePump(conn, client)
	s.readPump(context.WithoutCancel(ctx), conn, client)
}

// readPump reads client messages until the connection fails. Pongs keep the
// read deadline moving.
func (s *Server) readPump(ctx context.Context, conn Connection, client *hub.Client) {
	defer func() {
		s.hub.Unregister(client)
		conn.Close()
		slog.InfoContext(ctx, "Client disconnected", "client.id", client.ID, "session.id", client.SessionID)
	}()

	pongWait := 2 * s.heartbeat
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "Client connection error", "client.id", client.ID, "session.id", client.SessionID, "error", err)
			}
			return
		}
		s.handleMessage(ctx, client, raw)
	}
}

// writePump sends hub output and heartbeat pings. It owns all writes to conn.
func (s *Server) writePump(conn Connection, client *hub.Client) {
	ticker := time.NewTicker(s.heartbeat)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Warn("Error writing message to client", "client.id", client.ID, "error", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage handles a message from a client. It acts as a dispatcher.
// State changes reach every client of the session through the hub; errors
// go back to the sender only.
func (s *Server) handleMessage(ctx context.Context, client *hub.Client, raw []byte) {
	ctx, span := tracer.Start(ctx, "server.handleMessage", trace.WithAttributes(
		attribute.String("client.id", client.ID),
		attribute.String("session.id", client.SessionID),
	))
	defer span.End()

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(raw, &message); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		s.replyError(ctx, client, "malformed message")
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from client", "client.id", client.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		s.replyError(ctx, client, validator.Describe(err))
		return
	}
	span.SetAttributes(attribute.String("message.type", message.Type))

	var err error
	switch message.Type {
	case proto.TypeMove:
		_, err = s.sessions.Move(ctx, client.SessionID, *message.Cell)
	case proto.TypeComputerMove:
		_, err = s.sessions.ComputerMove(ctx, client.SessionID)
	case proto.TypeReset:
		_, err = s.sessions.Reset(ctx, client.SessionID)
	case proto.TypeMode:
		_, err = s.sessions.SetMode(ctx, client.SessionID, game.Mode(message.Mode))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request rejected")
		if controller.StatusFor(err) == http.StatusInternalServerError {
			slog.ErrorContext(ctx, "Session request failed", "session.id", client.SessionID, "error", err)
			s.replyError(ctx, client, http.StatusText(http.StatusInternalServerError))
			return
		}
		s.replyError(ctx, client, err.Error())
	}
}

func (s *Server) replyError(ctx context.Context, client *hub.Client, reason string) {
	data, err := json.Marshal(proto.NewErrorMessage(reason))
	if err != nil {
		return
	}
	if err := s.hub.SendTo(ctx, client, data); err != nil && !errors.Is(err, hub.ErrHubClosed) {
		slog.WarnContext(ctx, "Failed to queue error reply", "client.id", client.ID, "error", err)
	}
}
