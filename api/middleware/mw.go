package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/parley-chat/parley-services/internal/authn"
	"github.com/parley-chat/parley-services/internal/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type contextKey string
type tokenKey string

const ClaimsKey contextKey = "claims"
const TokenKey tokenKey = "token"

// AuthCookie carries the session token for browser clients.
const AuthCookie = "PARLEYAUTHTOKEN"

// TokenFromRequest returns the bearer token or, failing that, the session cookie.
func TokenFromRequest(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			return "", false
		}
		return token, true
	}
	if cookie, err := r.Cookie(AuthCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	return "", false
}

// JWTMiddleware parses the session token and adds claims to the request context.
func JWTMiddleware(signer *authn.Signer) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				logger := zerolog.Ctx(r.Context()).With().
					Str("handler", "JWTMiddleware").Logger()

				token, ok := TokenFromRequest(r)
				if !ok {
					logger.Debug().Msg("session token missing")
					http.Error(w, "session token missing", http.StatusUnauthorized)
					return
				}

				claims, err := signer.ParseClaims(token)
				if err != nil {
					logger.Warn().Err(err).Msg("invalid session token")
					http.Error(w, "invalid session token", http.StatusUnauthorized)
					return
				}

				ctx := context.WithValue(r.Context(), TokenKey, token)
				ctx = context.WithValue(ctx, ClaimsKey, claims)

				next.ServeHTTP(w, r.WithContext(ctx))
			},
		)
	}
}

// WithLogger adds a logger to the context and logs request information.
func WithLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger := log.With().
				Str("host", r.Host).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Str("remote_addr", r.RemoteAddr).
				Time("timestamp", time.Now()).
				Logger()

			ctx := logger.WithContext(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		},
	)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

// WithMetrics counts responses per route template and status code.
func WithMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			metrics.RecordHTTPRequest(route, rec.code)
		},
	)
}

// Claims returns the claims JWTMiddleware stored on the request.
func Claims(r *http.Request) (authn.Claims, bool) {
	claims, ok := r.Context().Value(ClaimsKey).(authn.Claims)
	return claims, ok
}
