package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/parley-chat/parley-services/internal/authn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSigner(t *testing.T) *authn.Signer {
	signer, err := authn.NewSigner("middleware-test-key", time.Hour)
	require.NoError(t, err)
	return signer
}

func TestJWTMiddleware_ValidBearerToken_ClaimsPopulated(t *testing.T) {
	signer := newSigner(t)
	token, err := signer.Issue("user-id", "someone", []string{"system_user"})
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := Claims(r)
		require.True(t, ok)
		assert.Equal(t, "user-id", claims.UserID())
		assert.Equal(t, "someone", claims.Username)
		assert.Equal(t, token, r.Context().Value(TokenKey))
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Add("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	JWTMiddleware(signer)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTMiddleware_CookieToken(t *testing.T) {
	signer := newSigner(t)
	token, err := signer.Issue("user-id", "someone", nil)
	require.NoError(t, err)

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookie, Value: token})
	JWTMiddleware(signer)(next).ServeHTTP(httptest.NewRecorder(), req)

	assert.True(t, called)
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	signer := newSigner(t)
	other, err := authn.NewSigner("another-key", time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue("user-id", "someone", nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer invalid-token"},
		{"foreign signature", "Bearer " + foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("request should have been rejected")
			})
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Add("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			JWTMiddleware(signer)(next).ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestWithLogger(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		assert.NotEqual(t, zerolog.Disabled, logger.GetLevel())
	})
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	WithLogger(next).ServeHTTP(httptest.NewRecorder(), req)
}

func TestWithMetrics(t *testing.T) {
	r := mux.NewRouter()
	r.Use(WithMetrics)
	r.HandleFunc("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/1", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
