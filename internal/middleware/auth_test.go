package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thereayou/rawrchat/pkg/auth"
)

func newEngine(jwt *auth.JWTManager, bl auth.Blacklist) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(LoggerMiddleware(zap.NewNop()))
	r.GET("/api", AuthMiddleware(jwt, bl, zap.NewNop()), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SessionIDKey))
	})
	r.GET("/ws", WSAuthMiddleware(jwt, bl, zap.NewNop()), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SessionIDKey))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	jwt := auth.NewJWTManager("secret", time.Hour)
	bl := auth.NewMemoryBlacklist()
	r := newEngine(jwt, bl)

	id := uuid.NewString()
	token, _, err := jwt.Generate(id)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, id, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, bl.Revoke(context.Background(), token, time.Minute))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "blacklisted")
}

func TestAuthMiddleware_RejectsNonSessionSubject(t *testing.T) {
	jwt := auth.NewJWTManager("secret", time.Hour)
	r := newEngine(jwt, auth.NewMemoryBlacklist())

	token, _, err := jwt.Generate("not-a-uuid")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
