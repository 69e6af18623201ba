package controller

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/session/mocks"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type stubIssuer struct {
	err error
}

func (s stubIssuer) Issue(sessionID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-" + sessionID, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

func newRouter(sc *SessionController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/sessions", sc.Create)
	r.GET("/api/sessions/:id", sc.Get)
	r.POST("/api/sessions/:id/moves", sc.Move)
	r.POST("/api/sessions/:id/computer-move", sc.ComputerMove)
	r.POST("/api/sessions/:id/reset", sc.Reset)
	r.PUT("/api/sessions/:id/mode", sc.SetMode)
	r.DELETE("/api/sessions/:id", sc.Delete)
	return r
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestSessionController_Create(t *testing.T) {
	t.Run("Returns the session, its token and the first state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		sess := session.NewSession("s1", game.NewEngine())
		svc.EXPECT().Create(gomock.Any()).Return(sess, nil)

		w, env := do(newRouter(NewSessionController(svc, stubIssuer{})), http.MethodPost, "/api/sessions", "")

		require.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.Success)
		var body struct {
			SessionID string     `json:"session_id"`
			Token     string     `json:"token"`
			State     game.State `json:"state"`
		}
		require.NoError(t, json.Unmarshal(env.Extras, &body))
		assert.Equal(t, "s1", body.SessionID)
		assert.Equal(t, "token-s1", body.Token)
		assert.Equal(t, game.PlayerX, body.State.Turn)
		assert.Equal(t, game.StatusInProgress, body.State.Status)
	})

	t.Run("Token failure drops the session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().Create(gomock.Any()).Return(session.NewSession("s1", game.NewEngine()), nil)
		svc.EXPECT().Delete(gomock.Any(), "s1").Return(nil)

		w, env := do(newRouter(NewSessionController(svc, stubIssuer{err: errors.New("no key")})), http.MethodPost, "/api/sessions", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.False(t, env.Success)
	})
}

func TestSessionController_Move(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(svc *mocks.MockService)
		wantCode int
	}{
		{
			name: "Valid move",
			body: `{"cell": 4}`,
			setup: func(svc *mocks.MockService) {
				state := game.NewEngine().Snapshot()
				state.Board[4] = game.PlayerX
				state.Turn = game.PlayerO
				svc.EXPECT().Move(gomock.Any(), "s1", 4).Return(state, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "Out of range cell",
			body: `{"cell": 9}`,
			setup: func(svc *mocks.MockService) {
				svc.EXPECT().Move(gomock.Any(), "s1", 9).Return(game.State{}, fmt.Errorf("%w: cell 9", game.ErrInvalidIndex))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Missing cell",
			body:     `{}`,
			setup:    func(svc *mocks.MockService) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Malformed body",
			body:     `{"cell": "four"}`,
			setup:    func(svc *mocks.MockService) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "Unknown session",
			body: `{"cell": 0}`,
			setup: func(svc *mocks.MockService) {
				svc.EXPECT().Move(gomock.Any(), "s1", 0).Return(game.State{}, session.ErrSessionNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "Unexpected failure",
			body: `{"cell": 0}`,
			setup: func(svc *mocks.MockService) {
				svc.EXPECT().Move(gomock.Any(), "s1", 0).Return(game.State{}, context.DeadlineExceeded)
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockService(ctrl)
			tt.setup(svc)

			w, env := do(newRouter(NewSessionController(svc, stubIssuer{})), http.MethodPost, "/api/sessions/s1/moves", tt.body)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.Equal(t, tt.wantCode == http.StatusOK, env.Success)
		})
	}
}

func TestSessionController_SetMode(t *testing.T) {
	t.Run("Known mode", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().SetMode(gomock.Any(), "s1", game.ModeSinglePlayer).
			Return(game.NewEngine(game.WithMode(game.ModeSinglePlayer)).Snapshot(), nil)

		w, env := do(newRouter(NewSessionController(svc, stubIssuer{})), http.MethodPut, "/api/sessions/s1/mode", `{"mode":"single_player"}`)

		require.Equal(t, http.StatusOK, w.Code)
		var state game.State
		require.NoError(t, json.Unmarshal(env.Extras, &state))
		assert.Equal(t, game.ModeSinglePlayer, state.Mode)
	})

	t.Run("Unknown mode", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockService(ctrl)
		svc.EXPECT().SetMode(gomock.Any(), "s1", game.Mode("hard")).
			Return(game.State{}, fmt.Errorf("%w: hard", game.ErrInvalidMode))

		w, _ := do(newRouter(NewSessionController(svc, stubIssuer{})), http.MethodPut, "/api/sessions/s1/mode", `{"mode":"hard"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSessionController_SimpleActions(t *testing.T) {
	state := game.NewEngine().Snapshot()
	tests := []struct {
		name   string
		method string
		path   string
		setup  func(svc *mocks.MockService)
	}{
		{
			name: "Get", method: http.MethodGet, path: "/api/sessions/s1",
			setup: func(svc *mocks.MockService) { svc.EXPECT().State(gomock.Any(), "s1").Return(state, nil) },
		},
		{
			name: "Computer move", method: http.MethodPost, path: "/api/sessions/s1/computer-move",
			setup: func(svc *mocks.MockService) { svc.EXPECT().ComputerMove(gomock.Any(), "s1").Return(state, nil) },
		},
		{
			name: "Reset", method: http.MethodPost, path: "/api/sessions/s1/reset",
			setup: func(svc *mocks.MockService) { svc.EXPECT().Reset(gomock.Any(), "s1").Return(state, nil) },
		},
		{
			name: "Delete", method: http.MethodDelete, path: "/api/sessions/s1",
			setup: func(svc *mocks.MockService) { svc.EXPECT().Delete(gomock.Any(), "s1").Return(nil) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockService(ctrl)
			tt.setup(svc)

			w, env := do(newRouter(NewSessionController(svc, stubIssuer{})), tt.method, tt.path, "")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.True(t, env.Success)
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("%w: cell -1", game.ErrInvalidIndex), want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: hard", game.ErrInvalidMode), want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: s1", session.ErrSessionNotFound), want: http.StatusNotFound},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}
