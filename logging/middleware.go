package logging

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// AttrsFunc contributes extra attributes to a request's access log line
type AttrsFunc func(r *http.Request) []slog.Attr

// AccessLogOptions configures AccessLog
type AccessLogOptions struct {
	// SkipPaths are served without an access log line
	SkipPaths []string
	// Attrs are evaluated after the handler returns
	Attrs []AttrsFunc
}

// AccessLog writes one "HTTP request" line per request.
// Server errors log at Error, client errors at Warn and the rest at Info.
func AccessLog(logger *slog.Logger, opts AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(opts.SkipPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := make([]slog.Attr, 0, 12)
			attrs = append(attrs,
				slog.String("request_id", requestID(r)),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if r.URL.RawQuery != "" {
				attrs = append(attrs, slog.String("query", r.URL.RawQuery))
			}
			attrs = append(attrs,
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.Int("status_code", status),
				slog.Int("bytes_written", ww.BytesWritten()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
			for _, fn := range opts.Attrs {
				attrs = append(attrs, fn(r)...)
			}

			logger.LogAttrs(r.Context(), levelFor(status), "HTTP request", attrs...)
		})
	}
}

func requestID(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return "unknown"
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
