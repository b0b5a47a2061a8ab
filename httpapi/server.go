package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pkt.systems/ravenshell/internal/eventbus"
	"pkt.systems/ravenshell/internal/logx"
	"pkt.systems/ravenshell/schema"
)

// Server serves the terminal session API.
type Server struct {
	cfg      Config
	bus      *eventbus.Bus
	sessions *sessionStore
}

// NewServer constructs an HTTP server publishing session output on bus.
func NewServer(cfg Config, bus *eventbus.Bus) *Server {
	if cfg.SnapshotLines <= 0 {
		cfg.SnapshotLines = defaultSnapshotLines
	}
	if bus == nil {
		bus = eventbus.New(nil, eventbus.DefaultHistory)
	}
	return &Server{
		cfg:      cfg,
		bus:      bus,
		sessions: newSessionStore(cfg.SessionTTL, bus, cfg.Shell),
	}
}

// SetBaseContext sets the parent context for session lifetimes.
func (s *Server) SetBaseContext(ctx context.Context) {
	if s == nil || ctx == nil {
		return
	}
	s.sessions.setBaseContext(ctx)
}

// Handler returns an http.Handler for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/sessions", s.handleCreate)
	mux.HandleFunc("GET /api/sessions/{id}", s.requireSession(s.handleSnapshot))
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDelete)
	mux.HandleFunc("POST /api/sessions/{id}/input", s.requireSession(s.handleInput))
	mux.HandleFunc("POST /api/sessions/{id}/history", s.requireSession(s.handleHistory))
	mux.HandleFunc("GET /api/sessions/{id}/stream", s.requireSession(s.handleStream))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.sessions.len()})
	})
	return withRequestLogging(mux, sessionFromPath)
}

// Run sweeps idle sessions until ctx is done, then closes every session.
func (s *Server) Run(ctx context.Context) {
	interval := s.sessions.ttl / 4
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer s.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.sweep(); n > 0 {
				logx.Ctx(ctx).Debug("http sessions swept", "expired", n)
			}
		}
	}
}

// Close shuts every terminal session down.
func (s *Server) Close() {
	s.sessions.closeAll()
}

type sessionHandler func(http.ResponseWriter, *http.Request, *session)

func (s *Server) requireSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := schema.NormalizeSessionID(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, schema.ErrSessionNotFound)
			return
		}
		entry, ok := s.sessions.get(id)
		if !ok {
			writeError(w, http.StatusNotFound, schema.ErrSessionNotFound)
			return
		}
		ctx := logx.ContextWithSessionLogger(r.Context(), logx.WithSession(r.Context(), id), id)
		next(w, r.WithContext(ctx), entry)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	entry, err := s.sessions.create(r.Context())
	if err != nil {
		logx.Ctx(r.Context()).Warn("http session create failed", "err", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	payload := map[string]any{"id": entry.id}
	if base := strings.TrimRight(s.cfg.PublicURL, "/"); base != "" {
		payload["stream"] = base + "/api/sessions/" + string(entry.id) + "/stream"
	}
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := schema.NormalizeSessionID(r.PathValue("id"))
	if err != nil || !s.sessions.delete(id) {
		writeError(w, http.StatusNotFound, schema.ErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request, entry *session) {
	log := logx.Ctx(r.Context())
	var payload struct {
		Line string `json:"line"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		log.Warn("http input decode failed", "err", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", schema.ErrInvalidRequest, err))
		return
	}
	if strings.ContainsAny(payload.Line, "\r\n") {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: line must not contain newlines", schema.ErrInvalidRequest))
		return
	}
	if err := entry.loop.Submit(r.Context(), payload.Line); err != nil {
		writeSubmitError(w, err)
		return
	}
	state, err := entry.loop.State(r.Context())
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotOf(entry.id, state, s.cfg.Shell.Hostname, nil))
}

func writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schema.ErrInputLocked), errors.Is(err, schema.ErrPlaybackActive):
		writeError(w, http.StatusLocked, err)
	case errors.Is(err, schema.ErrSessionClosed):
		writeError(w, http.StatusNotFound, schema.ErrSessionNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, entry *session) {
	var payload struct {
		Direction string `json:"direction"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %v", schema.ErrInvalidRequest, err))
		return
	}
	var up bool
	switch strings.ToLower(strings.TrimSpace(payload.Direction)) {
	case "up":
		up = true
	case "down":
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: direction must be up or down", schema.ErrInvalidRequest))
		return
	}
	buf, err := entry.loop.History(r.Context(), up)
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"buffer": buf})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request, entry *session) {
	state, err := entry.loop.State(r.Context())
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	limit := parseInt(r.URL.Query().Get("lines"), s.cfg.SnapshotLines)
	view := entry.buffer.Snapshot(limit)
	writeJSON(w, http.StatusOK, snapshotOf(entry.id, state, s.cfg.Shell.Hostname, view.Lines))
}

func snapshotOf(id schema.SessionID, state schema.State, hostname string, lines []schema.Line) schema.SessionSnapshot {
	return schema.SessionSnapshot{
		ID:       id,
		User:     state.User(),
		Prompt:   state.Prompt(hostname),
		Faction:  state.Faction,
		Name:     state.Name,
		Awaiting: state.AwaitingName,
		Locked:   state.InputLocked,
		Lines:    lines,
	}
}

// handleStream sends session events as server-sent events. Events above
// Last-Event-ID (or the last_id query parameter) are replayed from the
// session history first.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request, entry *session) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("stream unsupported"))
		return
	}
	log := logx.Ctx(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	lastID := parseUint(r.Header.Get("Last-Event-ID"))
	if lastID == 0 {
		lastID = parseUint(r.URL.Query().Get("last_id"))
	}

	ch, unsubscribe, _ := s.bus.Subscribe(entry.id)
	defer unsubscribe()

	replay := s.bus.Replay(entry.id, lastID)
	for _, event := range replay {
		_ = writeSSEvent(w, event)
		lastID = event.Seq
	}
	flusher.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	log.Info("http stream opened", "last_id", lastID, "replay", len(replay))
	for {
		select {
		case <-r.Context().Done():
			log.Info("http stream closed")
			return
		case <-entry.loop.Done():
			log.Info("http stream ended", "reason", "session closed")
			return
		case <-keepAlive.C:
			_, _ = io.WriteString(w, ": keep-alive\n\n")
			flusher.Flush()
			s.sessions.touch(entry.id)
		case event, ok := <-ch:
			if !ok {
				log.Info("http stream ended", "reason", "dropped")
				return
			}
			if event.Seq <= lastID {
				continue
			}
			lastID = event.Seq
			_ = writeSSEvent(w, event)
			flusher.Flush()
			s.sessions.touch(entry.id)
		}
	}
}

func sessionFromPath(r *http.Request) schema.SessionID {
	rest, ok := strings.CutPrefix(r.URL.Path, "/api/sessions/")
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	return schema.SessionID(id)
}

func decodeJSON(body io.Reader, target any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeSSEvent(w io.Writer, event schema.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if event.Seq > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", event.Seq)
	}
	_, _ = fmt.Fprintf(w, "data: %s\n\n", strings.TrimSpace(string(data)))
	return nil
}

func parseUint(value string) uint64 {
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
