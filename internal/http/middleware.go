package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"prompt-library/internal/auth"
	"prompt-library/internal/contextutil"
	"prompt-library/internal/handlers"
)

// healthPath is excluded from request logging while it succeeds.
const healthPath = "/api/health"

// SessionVerifier resolves a session token to a username.
type SessionVerifier interface {
	Verify(token string) (string, error)
}

// UserDirectory reports whether a username is still known.
type UserDirectory interface {
	Has(username string) bool
}

// LoggerMiddleware adds a structured logger to the request context.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID == "" {
			requestID = uuid.NewString()
		}
		logger := slog.Default().With(
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		ctx := contextutil.WithLogger(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// responseWriter records the status code written by a handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// RequestLogger logs one line per request with its status and duration.
// Successful health checks are not logged.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		if r.URL.Path == healthPath && rw.statusCode == http.StatusOK {
			return
		}

		ctx := r.Context()
		logger := contextutil.LoggerFromContext(ctx)
		level := slog.LevelInfo
		if rw.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(ctx, level, "request completed",
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// RequireSession lets a request through only with a valid session cookie for
// a known user. Anyone else is redirected to /login.
func RequireSession(sessions SessionVerifier, users UserDirectory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := contextutil.LoggerFromContext(ctx)

			cookie, err := r.Cookie(auth.CookieName)
			if err != nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			username, err := sessions.Verify(cookie.Value)
			if err != nil || !users.Has(username) {
				logger.WarnContext(ctx, "rejected session", "error", err, "username", username)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx = contextutil.WithUser(ctx, username)
			ctx = contextutil.WithLogger(ctx, logger.With("user", username))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Theme copies the theme cookie into the request context.
func Theme(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(handlers.ThemeCookieName); err == nil {
			r = r.WithContext(contextutil.WithTheme(r.Context(), cookie.Value))
		}
		next.ServeHTTP(w, r)
	})
}
