package terminal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"pkt.systems/ravenshell/internal/playback"
	"pkt.systems/ravenshell/schema"
)

// Loop runs one Session on its own goroutine. Requests are serialized over a
// channel and a single timer is armed for the next scheduled task, so the
// session keeps its single-threaded model behind concurrent hosts.
type Loop struct {
	session *Session
	clock   playback.Clock
	reqs    chan func(*Session)
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	started atomic.Bool
}

// NewLoop wraps a session. Run must be called to start processing.
func NewLoop(session *Session, clock playback.Clock) *Loop {
	if clock == nil {
		clock = playback.SystemClock{}
	}
	return &Loop{
		session: session,
		clock:   clock,
		reqs:    make(chan func(*Session)),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start runs the loop on a new goroutine.
func (l *Loop) Start(ctx context.Context) {
	l.started.Store(true)
	go l.Run(ctx)
}

// Run processes requests and timers until ctx ends or Close is called. The
// session is closed on exit.
func (l *Loop) Run(ctx context.Context) {
	l.started.Store(true)
	defer close(l.done)
	defer l.session.Close()
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	for {
		var wake <-chan time.Time
		if due, ok := l.session.NextDue(); ok {
			wait := due.Sub(l.clock.Now())
			if wait < 0 {
				wait = 0
			}
			timer.Reset(wait)
			wake = timer.C
		}
		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case fn := <-l.reqs:
			timer.Stop()
			fn(l.session)
		case <-wake:
			l.session.RunDue(l.clock.Now())
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func(*Session)) error {
	finished := make(chan struct{})
	req := func(s *Session) {
		defer close(finished)
		fn(s)
	}
	select {
	case l.reqs <- req:
	case <-l.done:
		return schema.ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return schema.ErrSessionClosed
	}
}

// Submit forwards one input line to the session.
func (l *Loop) Submit(ctx context.Context, raw string) error {
	var err error
	if doErr := l.Do(ctx, func(s *Session) { err = s.Submit(raw) }); doErr != nil {
		return doErr
	}
	return err
}

// History moves through input history; up selects older entries.
func (l *Loop) History(ctx context.Context, up bool) (string, error) {
	var buf string
	err := l.Do(ctx, func(s *Session) {
		if up {
			buf = s.HistoryUp()
			return
		}
		buf = s.HistoryDown()
	})
	return buf, err
}

// State returns a copy of the session state.
func (l *Loop) State(ctx context.Context) (schema.State, error) {
	var st schema.State
	err := l.Do(ctx, func(s *Session) { st = s.State() })
	return st, err
}

// Close stops the loop and waits for a running loop to exit.
func (l *Loop) Close() {
	l.once.Do(func() { close(l.stop) })
	if l.started.Load() {
		<-l.done
	}
}

// Done is closed once the loop has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
