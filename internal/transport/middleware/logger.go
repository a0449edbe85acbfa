package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/w-udagawa/vlingual-cards/pkg/ctxutil"
)

// SessionIDHeader carries the study session a response belongs to. Handlers
// set it so the access log can attribute requests made below the session
// routes.
const SessionIDHeader = "X-Session-Id"

// Logger logs one http.request line per request. 5xx responses are logged at
// ERROR, 4xx at WARN.
func Logger(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Int("bytes", sw.bytes),
				slog.Duration("duration", time.Since(start)),
				slog.String(ctxutil.RequestIDKey, ctxutil.RequestIDFromCtx(r.Context())),
			}
			if id, ok := ctxutil.SessionIDFromCtx(r.Context()); ok {
				attrs = append(attrs, slog.String(ctxutil.SessionIDKey, id.String()))
			} else if id := sw.Header().Get(SessionIDHeader); id != "" {
				attrs = append(attrs, slog.String(ctxutil.SessionIDKey, id))
			}

			level := slog.LevelInfo
			switch {
			case sw.status >= 500:
				level = slog.LevelError
			case sw.status >= 400:
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "http.request", attrs...)
		})
	}
}

// statusWriter captures the status code and body size.
type statusWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
