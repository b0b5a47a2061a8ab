package httpapi

import (
	"net"
	"net/http"
	"strings"
	"time"

	"pkt.systems/ravenshell/internal/logx"
	"pkt.systems/ravenshell/schema"
)

// statusWriter records the status and size of a response.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

func (w *statusWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += int64(n)
	return n, err
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// withRequestLogging binds a remote (and session, when the path names one)
// logger to each request and logs the outcome. Health checks log at debug.
func withRequestLogging(next http.Handler, lookup func(*http.Request) schema.SessionID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		var id schema.SessionID
		if lookup != nil {
			id = lookup(r)
		}
		remote := clientIP(r)
		ctx := r.Context()
		log := logx.WithSessionRemote(ctx, id, remote)
		ctx = logx.ContextWithRemote(logx.ContextWithSessionLogger(ctx, log, id), remote)

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r.WithContext(ctx))

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", sw.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case r.URL.Path == "/healthz":
			log.Debug("http request", fields...)
		case status >= http.StatusInternalServerError:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
		log.Trace("http request details", "ua", r.UserAgent(), "query", r.URL.RawQuery)
	})
}

// clientIP prefers the first X-Forwarded-For hop, then the peer host.
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
