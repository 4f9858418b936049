package httpapi

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookworm/internal/common"
	"github.com/dmitrijs2005/bookworm/internal/server/auth"
	"github.com/google/uuid"
)

const claimsKey ctxKey = "claims"

// closeBodyMiddleware closes the request body. MUST be registered first so
// it runs after every other middleware and the handler have finished.
func closeBodyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		r.Body.Close()
	})
}

// requestIDMiddleware tags every request with a uuid, echoed in the
// X-Request-Id header and attached to log lines downstream.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const requestIDKey ctxKey = "requestID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs every request with its outcome and duration.
// Bodies are never logged: they may carry passwords and tokens.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		id, _ := r.Context().Value(requestIDKey).(string)
		s.logger.Info(r.Context(), "request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}

// recoverMiddleware recovers from any panic by logging it and returning a
// generic 500 response.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				s.logger.Error(r.Context(), "panic while handling request",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", p,
					"stack", string(debug.Stack()),
				)
				respondJSON(w, http.StatusInternalServerError,
					Envelope{Success: false, Error: common.ErrorInternal.Error(), Data: nil})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// authMiddleware is the gate in front of every protected route. It demands
// a well-formed "Authorization: Bearer <token>" header, verifies the token,
// and attaches the decoded claims to the request context. On any failure
// the protected handler never runs.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondError(w, common.ErrorUnauthorized)
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || scheme != "Bearer" || token == "" {
			respondError(w, common.ErrorUnauthorized)
			return
		}

		claims, err := auth.ParseClaims(token, s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrTokenExpired) {
				respondError(w, err)
				return
			}
			s.logger.Error(r.Context(), "token verification failed", "error", err)
			respondError(w, common.ErrorInternal)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the verified claims attached by the auth gate.
// Handlers read the caller's identity from here and nowhere else.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}
