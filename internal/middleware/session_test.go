package middleware

import (
	"net/http"
	"net/http/httptest"
	"quizgen_backend/internal/config"
	"quizgen_backend/internal/util"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", SessionMiddleware(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, util.GetSessionIDFromContext(c))
	})
	return router
}

func TestSessionMiddlewareBearerToken(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Secret: "test-secret"}}
	router := newTestRouter(cfg)

	token, err := util.GenerateSessionToken("sess-1", "test-secret", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-1", w.Body.String())
}

func TestSessionMiddlewareQueryToken(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Secret: "test-secret"}}
	router := newTestRouter(cfg)

	token, err := util.GenerateSessionToken("sess-2", "test-secret", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected?token="+token, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sess-2", w.Body.String())
}

func TestSessionMiddlewareRejects(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Secret: "test-secret"}}
	router := newTestRouter(cfg)

	// missing token
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// token signed with a different secret
	token, err := util.GenerateSessionToken("sess-3", "other-secret", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
