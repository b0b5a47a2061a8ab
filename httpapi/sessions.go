package httpapi

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pkt.systems/ravenshell/core"
	"pkt.systems/ravenshell/internal/eventbus"
	"pkt.systems/ravenshell/internal/logx"
	"pkt.systems/ravenshell/internal/terminal"
	"pkt.systems/ravenshell/schema"
)

type session struct {
	id       schema.SessionID
	loop     *terminal.Loop
	buffer   *terminal.Buffer
	created  time.Time
	lastSeen time.Time
}

type sessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	baseCtx context.Context
	items   map[schema.SessionID]*session
	bus     *eventbus.Bus
	shell   schema.ShellConfig
	newEnv  func(schema.ShellConfig) core.Env
	now     func() time.Time
}

func newSessionStore(ttl time.Duration, bus *eventbus.Bus, shell schema.ShellConfig) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{
		ttl:     ttl,
		baseCtx: context.Background(),
		items:   make(map[schema.SessionID]*session),
		bus:     bus,
		shell:   shell,
		newEnv:  core.NewEnv,
		now:     time.Now,
	}
}

func (s *sessionStore) setBaseContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()
	logx.Ctx(ctx).Debug("session base context set")
}

// create starts a terminal loop for a new session and plays the boot
// sequence on it.
func (s *sessionStore) create(ctx context.Context) (*session, error) {
	id := schema.SessionID(uuid.NewString())
	s.mu.Lock()
	base := s.baseCtx
	now := s.now()
	s.mu.Unlock()

	base = logx.ContextWithSessionLogger(base, logx.WithSession(base, id), id)
	buffer := terminal.NewBuffer(s.shell.BufferMaxLines)
	term := terminal.NewSession(base, terminal.Config{
		ID:   id,
		Env:  s.newEnv(s.shell),
		Sink: terminal.Fanout{buffer, s.bus.SessionSink(id)},
	})
	loop := terminal.NewLoop(term, nil)
	loop.Start(base)

	var bootErr error
	if err := loop.Do(ctx, func(t *terminal.Session) { bootErr = t.Boot() }); err != nil {
		loop.Close()
		return nil, err
	}
	if bootErr != nil {
		loop.Close()
		return nil, bootErr
	}

	entry := &session{id: id, loop: loop, buffer: buffer, created: now, lastSeen: now}
	s.mu.Lock()
	s.items[id] = entry
	count := len(s.items)
	s.mu.Unlock()
	logx.WithSession(base, id).Info("session created", "sessions", count)
	return entry, nil
}

// get returns a live session and refreshes its idle deadline.
func (s *sessionStore) get(id schema.SessionID) (*session, bool) {
	s.mu.Lock()
	entry, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return nil, false
	}
	now := s.now()
	if now.Sub(entry.lastSeen) > s.ttl {
		delete(s.items, id)
		s.mu.Unlock()
		s.shutdown(entry, "expired")
		return nil, false
	}
	select {
	case <-entry.loop.Done():
		delete(s.items, id)
		s.mu.Unlock()
		s.shutdown(entry, "stopped")
		return nil, false
	default:
	}
	entry.lastSeen = now
	s.mu.Unlock()
	return entry, true
}

func (s *sessionStore) touch(id schema.SessionID) {
	s.mu.Lock()
	if entry, ok := s.items[id]; ok {
		entry.lastSeen = s.now()
	}
	s.mu.Unlock()
}

func (s *sessionStore) delete(id schema.SessionID) bool {
	s.mu.Lock()
	entry, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	s.mu.Unlock()
	if ok {
		s.shutdown(entry, "deleted")
	}
	return ok
}

// sweep closes every session idle for longer than the TTL.
func (s *sessionStore) sweep() int {
	s.mu.Lock()
	now := s.now()
	var expired []*session
	for id, entry := range s.items {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.items, id)
			expired = append(expired, entry)
		}
	}
	s.mu.Unlock()
	for _, entry := range expired {
		s.shutdown(entry, "expired")
	}
	return len(expired)
}

func (s *sessionStore) closeAll() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[schema.SessionID]*session)
	s.mu.Unlock()
	for _, entry := range items {
		s.shutdown(entry, "shutdown")
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *sessionStore) shutdown(entry *session, reason string) {
	entry.loop.Close()
	s.bus.Drop(entry.id)
	s.mu.Lock()
	base := s.baseCtx
	s.mu.Unlock()
	logx.WithSession(base, entry.id).Info("session closed", "reason", reason, "age_ms", s.now().Sub(entry.created).Milliseconds())
}
