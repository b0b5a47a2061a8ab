package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name      string
		remote    string
		forwarded string
		want      string
	}{
		{name: "peer host", remote: "10.0.0.7:51234", want: "10.0.0.7"},
		{name: "ipv6 peer", remote: "[::1]:8080", want: "::1"},
		{name: "forwarded first hop", remote: "10.0.0.7:1", forwarded: "203.0.113.9, 10.0.0.1", want: "203.0.113.9"},
		{name: "blank forwarded", remote: "10.0.0.7:1", forwarded: " ,10.0.0.1", want: "10.0.0.7"},
		{name: "no port", remote: "pipe", want: "pipe"},
	}
	for _, tc := range tests {
		r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		r.RemoteAddr = tc.remote
		if tc.forwarded != "" {
			r.Header.Set("X-Forwarded-For", tc.forwarded)
		}
		if got := clientIP(r); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestRequestLoggingRecordsStatus(t *testing.T) {
	var seen *statusWriter
	handler := withRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw, ok := w.(*statusWriter)
		if !ok {
			t.Fatalf("expected status writer, got %T", w)
		}
		seen = sw
		w.WriteHeader(http.StatusLocked)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("locked"))
	}), nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/x/input", nil))
	if seen.status != http.StatusLocked {
		t.Fatalf("expected first status to stick, got %d", seen.status)
	}
	if seen.bytes != int64(len("locked")) {
		t.Fatalf("expected byte count, got %d", seen.bytes)
	}
	if seen.Unwrap() != http.ResponseWriter(rec) {
		t.Fatalf("expected unwrap to return the recorder")
	}
}
