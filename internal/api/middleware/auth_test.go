package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/ecofinds/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key", 15*time.Minute)
}

func captureSession(captured *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = GetSessionID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionMiddleware_ValidToken_Header(t *testing.T) {
	jwtService := newTestJWTService()
	token, _, err := jwtService.GenerateSessionToken("sess-123")
	require.NoError(t, err)

	var captured string
	req := httptest.NewRequest(http.MethodGet, "/api/view", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	SessionMiddleware(jwtService)(captureSession(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-123", captured)
}

func TestSessionMiddleware_ValidToken_Cookie(t *testing.T) {
	jwtService := newTestJWTService()
	token, _, err := jwtService.GenerateSessionToken("sess-456")
	require.NoError(t, err)

	var captured string
	req := httptest.NewRequest(http.MethodGet, "/api/view", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	SessionMiddleware(jwtService)(captureSession(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-456", captured)
}

func TestSessionMiddleware_CookieTakesPrecedence(t *testing.T) {
	jwtService := newTestJWTService()
	cookieToken, _, err := jwtService.GenerateSessionToken("from-cookie")
	require.NoError(t, err)
	headerToken, _, err := jwtService.GenerateSessionToken("from-header")
	require.NoError(t, err)

	var captured string
	req := httptest.NewRequest(http.MethodGet, "/api/view", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookieToken})
	req.Header.Set("Authorization", "Bearer "+headerToken)
	rec := httptest.NewRecorder()

	SessionMiddleware(jwtService)(captureSession(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, "from-cookie", captured)
}

func TestSessionMiddleware_Rejects(t *testing.T) {
	jwtService := newTestJWTService()
	other := auth.NewJWTService("another-secret", 15*time.Minute)
	foreign, _, err := other.GenerateSessionToken("sess-1")
	require.NoError(t, err)

	expiring := auth.NewJWTService("test-secret-key", time.Millisecond)
	expired, _, err := expiring.GenerateSessionToken("sess-1")
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	tests := []struct {
		name   string
		header string
	}{
		{"no token", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer not-a-token"},
		{"wrong signature", "Bearer " + foreign},
		{"expired", "Bearer " + expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

			req := httptest.NewRequest(http.MethodGet, "/api/view", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			SessionMiddleware(jwtService)(handler).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestGetSessionID_NoClaims(t *testing.T) {
	assert.Empty(t, GetSessionID(context.Background()))
}

func TestRecoverPanic(t *testing.T) {
	handler := RecoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogRequest_PassesThroughStatus(t *testing.T) {
	handler := LogRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
