package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedRouter(t *testing.T, codec *Codec) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	guard := NewGuard(codec)

	router := gin.New()
	router.GET("/protected", guard.RequireAuth(), func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": principal.UserID, "email": principal.Email})
	})
	router.GET("/open", guard.OptionalAuth(), func(c *gin.Context) {
		if principal, ok := PrincipalFromContext(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": principal.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
	})
	return router
}

func TestRequireAuthMissingToken(t *testing.T) {
	t.Parallel()

	router := newGuardedRouter(t, NewCodec("secret", time.Hour))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "AUTH_REQUIRED", body["code"])
}

func TestRequireAuthInvalidToken(t *testing.T) {
	t.Parallel()

	router := newGuardedRouter(t, NewCodec("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestRequireAuthValidToken(t *testing.T) {
	t.Parallel()

	codec := NewCodec("secret", time.Hour)
	router := newGuardedRouter(t, codec)

	token, err := codec.Issue(9, "reader@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(9), body["user_id"])
	assert.Equal(t, "reader@example.com", body["email"])
}

func TestRequireAuthCookieToken(t *testing.T) {
	t.Parallel()

	codec := NewCodec("secret", time.Hour)
	router := newGuardedRouter(t, codec)

	token, err := codec.Issue(3, "cookie@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuthAnonymous(t *testing.T) {
	t.Parallel()

	router := newGuardedRouter(t, NewCodec("secret", time.Hour))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["anonymous"])
}

func TestOptionalAuthInvalidTokenStaysAnonymous(t *testing.T) {
	t.Parallel()

	router := newGuardedRouter(t, NewCodec("secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["anonymous"])
}

func TestOptionalAuthWithToken(t *testing.T) {
	t.Parallel()

	codec := NewCodec("secret", time.Hour)
	router := newGuardedRouter(t, codec)

	token, err := codec.Issue(5, "reader@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(5), body["user_id"])
}
