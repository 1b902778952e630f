package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/google/uuid"
)

// ErrNoSession is returned when a request carries no session ID in its context
var ErrNoSession = errors.New("no session in request context")

type contextKey struct{}

// CookieOptions configures the session cookie
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge int // seconds, 0 for a browser-session cookie
	// SkipPaths are served without a session or cookie
	SkipPaths []string
}

// Middleware makes sure every request has a session ID. A valid ID from the
// cookie is reused; otherwise a new UUID is issued and set on the response.
// Requests to SkipPaths pass through untouched.
func Middleware(opts CookieOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(opts.SkipPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			id := ""
			if c, err := r.Cookie(opts.Name); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}

			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     opts.Name,
					Value:    id,
					Path:     "/",
					MaxAge:   opts.MaxAge,
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
		})
	}
}

// WithID returns a copy of ctx carrying the session ID
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IDFromContext returns the session ID placed by Middleware
func IDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(contextKey{}).(string)
	if !ok || id == "" {
		return "", ErrNoSession
	}
	return id, nil
}

// LogAttrs adds the session ID to access log lines
func LogAttrs(r *http.Request) []slog.Attr {
	id, err := IDFromContext(r.Context())
	if err != nil {
		return nil
	}
	return []slog.Attr{slog.String("session_id", id)}
}
