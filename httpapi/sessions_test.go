package httpapi

import (
	"context"
	"sync"
	"testing"
	"time"

	"pkt.systems/ravenshell/internal/eventbus"
	"pkt.systems/ravenshell/schema"
)

type fakeNow struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeNow) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeNow) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestStore(t *testing.T, ttl time.Duration) (*sessionStore, *fakeNow, *eventbus.Bus) {
	t.Helper()
	bus := eventbus.New(nil, 0)
	store := newSessionStore(ttl, bus, schema.ShellConfig{Hostname: "kali", SiteName: "lihammad.com"})
	clock := &fakeNow{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store.now = clock.Now
	t.Cleanup(store.closeAll)
	return store, clock, bus
}

func TestSessionStoreCreateGetDelete(t *testing.T) {
	store, _, bus := newTestStore(t, time.Hour)
	sess, err := store.create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.id == "" {
		t.Fatalf("expected session id")
	}
	if got, ok := store.get(sess.id); !ok || got != sess {
		t.Fatalf("expected session to be found")
	}
	if len(bus.Replay(sess.id, 0)) == 0 {
		t.Fatalf("expected boot output on the bus")
	}
	if !store.delete(sess.id) {
		t.Fatalf("expected delete to report the session")
	}
	if _, ok := store.get(sess.id); ok {
		t.Fatalf("expected session to be deleted")
	}
	select {
	case <-sess.loop.Done():
	default:
		t.Fatalf("expected the terminal loop to stop")
	}
	if len(bus.Replay(sess.id, 0)) != 0 {
		t.Fatalf("expected bus history dropped")
	}
}

func TestSessionStoreExpiration(t *testing.T) {
	store, clock, _ := newTestStore(t, time.Minute)
	sess, err := store.create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.Advance(30 * time.Second)
	if _, ok := store.get(sess.id); !ok {
		t.Fatalf("expected session alive within ttl")
	}
	clock.Advance(45 * time.Second)
	if _, ok := store.get(sess.id); !ok {
		t.Fatalf("expected get to refresh the idle deadline")
	}
	clock.Advance(2 * time.Minute)
	if _, ok := store.get(sess.id); ok {
		t.Fatalf("expected expired session")
	}
	<-sess.loop.Done()
}

func TestSessionStoreSweep(t *testing.T) {
	store, clock, _ := newTestStore(t, time.Minute)
	first, err := store.create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.Advance(50 * time.Second)
	second, err := store.create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	clock.Advance(20 * time.Second)
	if n := store.sweep(); n != 1 {
		t.Fatalf("expected one expired session, got %d", n)
	}
	if _, ok := store.get(first.id); ok {
		t.Fatalf("expected first session swept")
	}
	if _, ok := store.get(second.id); !ok {
		t.Fatalf("expected second session alive")
	}
}

func TestSessionStoreBaseContextCancelStopsLoops(t *testing.T) {
	store, _, _ := newTestStore(t, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	store.setBaseContext(ctx)
	sess, err := store.create(context.Background())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	cancel()
	select {
	case <-sess.loop.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("expected loop to stop with the base context")
	}
	if _, ok := store.get(sess.id); ok {
		t.Fatalf("expected stopped session to be dropped")
	}
}
