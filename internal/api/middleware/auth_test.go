package middleware

import (
	"ctchen222/tictactoe/internal/auth"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireSessionToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := auth.NewIssuer("s3cret", time.Hour)
	own, err := issuer.Issue("s1")
	require.NoError(t, err)
	other, err := issuer.Issue("s2")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/api/sessions/:id", RequireSessionToken(issuer), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SessionIDKey))
	})

	tests := []struct {
		name     string
		header   string
		query    string
		wantCode int
	}{
		{name: "Bearer header", header: "Bearer " + own, wantCode: http.StatusOK},
		{name: "Lowercase scheme", header: "bearer " + own, wantCode: http.StatusOK},
		{name: "Query parameter", query: "?token=" + own, wantCode: http.StatusOK},
		{name: "No token", wantCode: http.StatusUnauthorized},
		{name: "Other session's token", header: "Bearer " + other, wantCode: http.StatusUnauthorized},
		{name: "Garbage token", header: "Bearer nope", wantCode: http.StatusUnauthorized},
		{name: "Wrong scheme", header: "Basic " + own, wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/sessions/s1"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "s1", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}
