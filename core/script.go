package core

import (
	"time"

	"pkt.systems/ravenshell/schema"
)

// Script is a scheduled playback request returned by a handler. Steps run
// strictly in order; each starts when the previous one completes.
type Script struct {
	// Lock holds the input lock from the first step until the last completes.
	Lock  bool
	Steps []Step
}

// Step is one element of a Script.
type Step interface {
	step()
}

// Sequential emits Lines one at a time, Delay apart.
type Sequential struct {
	Lines []schema.Line
	Delay time.Duration
}

// Periodic calls Generate every Interval until Stop reports true for the
// tick count. Ticks count from 1.
type Periodic struct {
	Interval time.Duration
	Generate func(tick int) []schema.Line
	Stop     func(tick int) bool
}

// Pause waits before the next step.
type Pause struct {
	Delay time.Duration
}

// Emit writes Lines at once.
type Emit struct {
	Lines []schema.Line
}

// Clear empties the output sink.
type Clear struct{}

// Patch rewrites session state when the step is reached.
type Patch struct {
	Apply func(schema.State) schema.State
}

// Transition hands the sworn identity to the hero view.
type Transition struct{}

func (Sequential) step() {}
func (Periodic) step()   {}
func (Pause) step()      {}
func (Emit) step()       {}
func (Clear) step()      {}
func (Patch) step()      {}
func (Transition) step() {}

// Duration returns the total playback time when it is known up front.
// Periodic steps make the total unknowable and report ok=false.
func (s *Script) Duration() (time.Duration, bool) {
	if s == nil {
		return 0, true
	}
	var total time.Duration
	for _, st := range s.Steps {
		switch v := st.(type) {
		case Sequential:
			total += time.Duration(len(v.Lines)) * v.Delay
		case Pause:
			total += v.Delay
		case Periodic:
			return 0, false
		}
	}
	return total, true
}
