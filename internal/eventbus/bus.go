package eventbus

import (
	"context"
	"sync"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/ravenshell/internal/logx"
	"pkt.systems/ravenshell/schema"
)

// DefaultHistory is the number of events kept per session for replay.
const DefaultHistory = 1000

// Bus fans terminal events out to per-session subscribers and keeps a
// bounded history so reconnecting clients can resume from a sequence number.
type Bus struct {
	mu          sync.Mutex
	sessions    map[schema.SessionID]*sessionHub
	historySize int
	depth       int
	log         pslog.Logger
	now         func() time.Time
}

type sessionHub struct {
	seq     uint64
	history []schema.Event
	subs    map[chan schema.Event]struct{}
}

// New constructs a Bus keeping historySize events per session.
func New(logger pslog.Logger, historySize int) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	if historySize <= 0 {
		historySize = DefaultHistory
	}
	return &Bus{
		sessions:    make(map[schema.SessionID]*sessionHub),
		historySize: historySize,
		depth:       256,
		log:         logger,
		now:         time.Now,
	}
}

// Subscribe registers a subscriber for the session. It returns the channel,
// a cancel func and the last sequence number published. Events already
// published are available through Replay.
func (b *Bus) Subscribe(id schema.SessionID) (<-chan schema.Event, func(), uint64) {
	if b == nil {
		return nil, func() {}, 0
	}
	ch := make(chan schema.Event, b.depth)
	b.mu.Lock()
	hub := b.hubLocked(id)
	hub.subs[ch] = struct{}{}
	seq := hub.seq
	count := len(hub.subs)
	b.mu.Unlock()
	b.log.With("session", id).Debug("eventbus subscribe", "subs", count, "seq", seq)
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if hub := b.sessions[id]; hub != nil {
				if _, ok := hub.subs[ch]; ok {
					delete(hub.subs, ch)
					close(ch)
				}
			}
			b.mu.Unlock()
			b.log.With("session", id).Debug("eventbus unsubscribe")
		})
	}, seq
}

// Replay returns history events with a sequence number above after.
func (b *Bus) Replay(id schema.SessionID, after uint64) []schema.Event {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	hub := b.sessions[id]
	if hub == nil {
		return nil
	}
	events := make([]schema.Event, 0, len(hub.history))
	for _, event := range hub.history {
		if event.Seq > after {
			events = append(events, event)
		}
	}
	return events
}

// Drop closes every subscriber of the session and forgets its history.
func (b *Bus) Drop(id schema.SessionID) {
	if b == nil {
		return
	}
	b.mu.Lock()
	hub := b.sessions[id]
	delete(b.sessions, id)
	if hub != nil {
		for sub := range hub.subs {
			close(sub)
		}
		hub.subs = nil
	}
	b.mu.Unlock()
	b.log.With("session", id).Debug("eventbus drop")
}

// Publish stamps and delivers an event to the session subscribers. Slow
// subscribers lose events instead of blocking the publisher.
func (b *Bus) Publish(id schema.SessionID, event schema.Event) uint64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	hub := b.hubLocked(id)
	hub.seq++
	event.Seq = hub.seq
	event.Session = id
	if event.Timestamp.IsZero() {
		event.Timestamp = b.now()
	}
	hub.history = append(hub.history, event)
	if len(hub.history) > b.historySize {
		hub.history = append([]schema.Event(nil), hub.history[len(hub.history)-b.historySize:]...)
	}
	dropped := 0
	for sub := range hub.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		b.log.With("session", id).Warn("eventbus dropped", "type", string(event.Type), "count", dropped)
	}
	return event.Seq
}

func (b *Bus) hubLocked(id schema.SessionID) *sessionHub {
	hub := b.sessions[id]
	if hub == nil {
		hub = &sessionHub{subs: make(map[chan schema.Event]struct{})}
		b.sessions[id] = hub
	}
	return hub
}

// Sink adapts a session's terminal output to bus events.
type Sink struct {
	bus *Bus
	id  schema.SessionID
}

// SessionSink returns a terminal sink publishing to the session stream.
func (b *Bus) SessionSink(id schema.SessionID) Sink {
	return Sink{bus: b, id: id}
}

// Emit publishes output lines.
func (s Sink) Emit(lines ...schema.Line) {
	if len(lines) == 0 {
		return
	}
	s.bus.Publish(s.id, schema.Event{Type: schema.EventOutput, Lines: append([]schema.Line(nil), lines...)})
}

// Clear publishes a clear.
func (s Sink) Clear() {
	s.bus.Publish(s.id, schema.Event{Type: schema.EventClear})
}

// SetLocked publishes lock and unlock events.
func (s Sink) SetLocked(locked bool) {
	typ := schema.EventUnlock
	if locked {
		typ = schema.EventLock
	}
	s.bus.Publish(s.id, schema.Event{Type: typ})
}

// Transition publishes the hero hand-off with the house display data.
func (s Sink) Transition(faction schema.Faction, name string) {
	house, _ := schema.LookupHouse(faction)
	logx.WithSession(context.Background(), s.id).Trace("eventbus transition", "faction", string(faction))
	s.bus.Publish(s.id, schema.Event{
		Type:    schema.EventTransition,
		Faction: faction,
		Name:    name,
		Display: house.Display,
		Words:   house.Words,
	})
}
