package terminal

import (
	"context"
	"errors"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/ravenshell/core"
	"pkt.systems/ravenshell/internal/logx"
	"pkt.systems/ravenshell/internal/playback"
	"pkt.systems/ravenshell/schema"
)

// Config configures a terminal session.
type Config struct {
	ID    schema.SessionID
	Env   core.Env
	Sink  Sink
	Clock playback.Clock
	State *schema.State
}

// Session ties the interpreter, the scheduler and a sink together. It is not
// safe for concurrent use; hosts either own it on a single goroutine or run it
// behind a Loop.
type Session struct {
	id     schema.SessionID
	env    core.Env
	sink   Sink
	sched  *playback.Scheduler
	state  schema.State
	log    pslog.Logger
	closed bool
}

// NewSession constructs a session. The context supplies the logger.
func NewSession(ctx context.Context, cfg Config) *Session {
	if ctx == nil {
		ctx = context.Background()
	}
	state := schema.NewState()
	if cfg.State != nil {
		state = cfg.State.Clone()
	}
	sink := cfg.Sink
	if sink == nil {
		sink = Fanout(nil)
	}
	return &Session{
		id:    cfg.ID,
		env:   cfg.Env,
		sink:  sink,
		sched: playback.New(cfg.Clock),
		state: state,
		log:   logx.WithSession(ctx, cfg.ID),
	}
}

// ID returns the session id.
func (s *Session) ID() schema.SessionID {
	return s.id
}

// State returns a copy of the current state.
func (s *Session) State() schema.State {
	return s.state.Clone()
}

// Locked reports whether the input lock is held.
func (s *Session) Locked() bool {
	return s.state.InputLocked
}

// Prompt returns the current prompt string.
func (s *Session) Prompt() string {
	return s.state.Prompt(s.env.Hostname)
}

// Submit interprets one input line. Input is refused while a lock-holding
// script plays.
func (s *Session) Submit(raw string) error {
	if s.closed {
		return schema.ErrSessionClosed
	}
	if s.state.InputLocked {
		return schema.ErrInputLocked
	}
	res := core.Dispatch(s.state, raw, s.env)
	s.sink.Emit(res.Echo)
	if res.Clear {
		s.sink.Clear()
	}
	s.state = res.State
	if len(res.Lines) > 0 {
		s.sink.Emit(res.Lines...)
	}
	log := logx.WithIdentity(s.log, s.state)
	if res.Err != nil {
		if errors.Is(res.Err, schema.ErrUnknownCommand) {
			log.Debug("terminal unknown command", "command", res.Name)
		} else {
			log.Warn("terminal command failed", "command", res.Command.String(), "err", res.Err)
		}
	} else if res.Command != core.CmdUnknown {
		log.Debug("terminal command", "command", res.Command.String(), "args", len(res.Args))
	}
	if res.Script != nil {
		return s.Play(res.Script)
	}
	return nil
}

// HistoryUp recalls an older history entry and returns the buffer to show.
func (s *Session) HistoryUp() string {
	var buf string
	s.state, buf = core.HistoryUp(s.state)
	return buf
}

// HistoryDown recalls a newer history entry and returns the buffer to show.
func (s *Session) HistoryDown() string {
	var buf string
	s.state, buf = core.HistoryDown(s.state)
	return buf
}

// Boot plays the boot sequence.
func (s *Session) Boot() error {
	return s.Play(core.BootScript(s.state, s.env))
}

// Play starts a script. Starting a lock-holding script while the lock is held
// fails with ErrPlaybackActive. Started scripts run to completion.
func (s *Session) Play(script *core.Script) error {
	if script == nil {
		return nil
	}
	if s.closed {
		return schema.ErrSessionClosed
	}
	if script.Lock {
		if s.state.InputLocked {
			return schema.ErrPlaybackActive
		}
		s.setLocked(true)
	}
	r := &runner{session: s, steps: append([]core.Step(nil), script.Steps...), lock: script.Lock}
	r.next()
	return nil
}

// NextDue returns the earliest scheduled deadline.
func (s *Session) NextDue() (time.Time, bool) {
	return s.sched.NextDue()
}

// RunDue runs every task due at now.
func (s *Session) RunDue(now time.Time) int {
	return s.sched.RunDue(now)
}

// Pending returns the number of scheduled tasks.
func (s *Session) Pending() int {
	return s.sched.Pending()
}

// Close drops all pending playback. Further input is refused.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	dropped := s.sched.Pending()
	s.sched.Reset()
	s.log.Debug("terminal session closed", "dropped", dropped)
}

func (s *Session) setLocked(locked bool) {
	if s.state.InputLocked == locked {
		return
	}
	s.state.InputLocked = locked
	s.sink.SetLocked(locked)
}

// runner walks a script's steps on the session scheduler.
type runner struct {
	session *Session
	steps   []core.Step
	index   int
	lock    bool
}

func (r *runner) next() {
	s := r.session
	for r.index < len(r.steps) {
		if s.closed {
			return
		}
		step := r.steps[r.index]
		r.index++
		switch v := step.(type) {
		case core.Sequential:
			s.sched.Sequential(v.Lines, v.Delay, s.sink.Emit, r.next)
			return
		case core.Periodic:
			s.sched.Periodic(v.Interval, v.Generate, v.Stop, s.sink.Emit, r.next)
			return
		case core.Pause:
			s.sched.After(v.Delay, r.next)
			return
		case core.Emit:
			s.sink.Emit(v.Lines...)
		case core.Clear:
			s.sink.Clear()
		case core.Patch:
			if v.Apply != nil {
				locked := s.state.InputLocked
				s.state = v.Apply(s.state.Clone())
				s.state.InputLocked = locked
			}
		case core.Transition:
			s.log.Info("terminal transition", "faction", string(s.state.Faction), "name", s.state.Name)
			s.sink.Transition(s.state.Faction, s.state.Name)
		}
	}
	if r.lock && !s.closed {
		r.lock = false
		s.setLocked(false)
	}
}
