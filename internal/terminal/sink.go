package terminal

import "pkt.systems/ravenshell/schema"

// Sink receives everything a session displays.
type Sink interface {
	Emit(lines ...schema.Line)
	Clear()
	SetLocked(locked bool)
	Transition(faction schema.Faction, name string)
}

// Fanout forwards to several sinks in order. Nil entries are skipped.
type Fanout []Sink

// Emit forwards output lines.
func (f Fanout) Emit(lines ...schema.Line) {
	for _, sink := range f {
		if sink == nil {
			continue
		}
		sink.Emit(lines...)
	}
}

// Clear forwards a clear.
func (f Fanout) Clear() {
	for _, sink := range f {
		if sink == nil {
			continue
		}
		sink.Clear()
	}
}

// SetLocked forwards lock changes.
func (f Fanout) SetLocked(locked bool) {
	for _, sink := range f {
		if sink == nil {
			continue
		}
		sink.SetLocked(locked)
	}
}

// Transition forwards the hero view hand-off.
func (f Fanout) Transition(faction schema.Faction, name string) {
	for _, sink := range f {
		if sink == nil {
			continue
		}
		sink.Transition(faction, name)
	}
}
