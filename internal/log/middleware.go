package log

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type ctxKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or the app logger outside a request.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return logger
	}
	return Default(ComponentApp)
}

// Middleware puts base in every request context, tagged with the request ID
// when requestID is set.
func Middleware(base *Logger, requestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base
			if requestID != nil {
				if id := requestID(r); id != "" {
					logger = logger.With(FieldRequestID, id)
				}
			}
			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), logger)))
		})
	}
}

// StatusLevel is the level a finished request is logged at.
func StatusLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// RequestStarted logs an incoming request at debug level.
func RequestStarted(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.Header.Get("User-Agent")).
		WithClientIP(clientIP)
	FromContext(ctx).WithComponent(ComponentHTTP).DebugContext(ctx, "HTTP request started", fields.ToSlice()...)
}

// RequestFinished logs a completed request at StatusLevel(status).
func RequestFinished(ctx context.Context, r *http.Request, status int, elapsed time.Duration, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, "").
		WithHTTPResponse(status, elapsed.Milliseconds()).
		WithClientIP(clientIP)
	FromContext(ctx).WithComponent(ComponentHTTP).log(ctx, StatusLevel(status), "HTTP request completed", fields.ToSlice())
}
