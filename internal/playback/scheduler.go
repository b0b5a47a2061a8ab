package playback

import (
	"container/heap"
	"time"

	"pkt.systems/ravenshell/schema"
)

// EmitFunc receives lines as the scheduler releases them.
type EmitFunc func(lines ...schema.Line)

type task struct {
	due time.Time
	seq uint64
	fn  func()
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*task)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return t
}

// Scheduler is a single-threaded timed task queue. It starts no goroutines
// and is not safe for concurrent use: the owner asks NextDue for the next
// deadline and calls RunDue from its own goroutine.
//
// Continuations scheduled from inside a running task are relative to that
// task's due time, not to the wall clock, so late wakeups do not stretch a
// sequence.
type Scheduler struct {
	clock   Clock
	queue   taskQueue
	seq     uint64
	running bool
	base    time.Time
}

// New returns a scheduler reading time from clock. A nil clock uses SystemClock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

// Clock returns the scheduler clock.
func (s *Scheduler) Clock() Clock {
	return s.clock
}

func (s *Scheduler) origin() time.Time {
	if s.running {
		return s.base
	}
	return s.clock.Now()
}

// After schedules fn d after now, or after the running task's due time.
func (s *Scheduler) After(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if d < 0 {
		d = 0
	}
	s.seq++
	heap.Push(&s.queue, &task{due: s.origin().Add(d), seq: s.seq, fn: fn})
}

// NextDue returns the earliest pending deadline.
func (s *Scheduler) NextDue() (time.Time, bool) {
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].due, true
}

// Pending returns the number of queued tasks.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// RunDue runs every task due at or before now, in (due, seq) order, including
// tasks those tasks schedule within the window. It returns the number run.
func (s *Scheduler) RunDue(now time.Time) int {
	ran := 0
	for len(s.queue) > 0 {
		next := s.queue[0]
		if next.due.After(now) {
			break
		}
		heap.Pop(&s.queue)
		prevRunning, prevBase := s.running, s.base
		s.running, s.base = true, next.due
		next.fn()
		s.running, s.base = prevRunning, prevBase
		ran++
	}
	return ran
}

// Reset drops every pending task.
func (s *Scheduler) Reset() {
	s.queue = nil
}

// Sequential emits the first line immediately and each following line delay
// later. done runs delay after the last line, or at once for no lines.
func (s *Scheduler) Sequential(lines []schema.Line, delay time.Duration, emit EmitFunc, done func()) {
	if len(lines) == 0 {
		if done != nil {
			done()
		}
		return
	}
	lines = append([]schema.Line(nil), lines...)
	var step func(i int)
	step = func(i int) {
		if i >= len(lines) {
			if done != nil {
				done()
			}
			return
		}
		if emit != nil {
			emit(lines[i])
		}
		s.After(delay, func() { step(i + 1) })
	}
	step(0)
}

// Periodic ticks every interval, starting one interval from now. Each tick
// emits generate(tick) and then checks stop(tick); a true result ends the
// sequence and runs done within the same tick. Ticks count from 1. A nil stop
// never ends the sequence, so callers must supply one.
func (s *Scheduler) Periodic(interval time.Duration, generate func(tick int) []schema.Line, stop func(tick int) bool, emit EmitFunc, done func()) {
	var tick func(n int)
	tick = func(n int) {
		if generate != nil && emit != nil {
			if lines := generate(n); len(lines) > 0 {
				emit(lines...)
			}
		}
		if stop != nil && stop(n) {
			if done != nil {
				done()
			}
			return
		}
		s.After(interval, func() { tick(n + 1) })
	}
	s.After(interval, func() { tick(1) })
}

// StopAfter ends a periodic sequence after exactly n ticks.
func StopAfter(n int) func(tick int) bool {
	return func(tick int) bool { return tick >= n }
}

// StopAbove ends a periodic sequence once the tick count exceeds n, that is
// after n+1 ticks.
func StopAbove(n int) func(tick int) bool {
	return func(tick int) bool { return tick > n }
}
