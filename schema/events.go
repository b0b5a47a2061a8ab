package schema

import "time"

// EventType identifies what a terminal event carries.
type EventType string

const (
	// EventOutput carries lines appended to the sink.
	EventOutput EventType = "output"
	// EventClear empties the sink.
	EventClear EventType = "clear"
	// EventLock reports the input lock was taken.
	EventLock EventType = "lock"
	// EventUnlock reports the input lock was released.
	EventUnlock EventType = "unlock"
	// EventTransition hands the sworn identity to the hero view.
	EventTransition EventType = "transition"
)

// SessionID identifies a terminal session.
type SessionID string

// Event is the host-facing record of one sink operation.
type Event struct {
	Seq       uint64    `json:"seq,omitempty"`
	Type      EventType `json:"type"`
	Session   SessionID `json:"session,omitempty"`
	Lines     []Line    `json:"lines,omitempty"`
	Faction   Faction   `json:"faction,omitempty"`
	Name      string    `json:"name,omitempty"`
	Display   string    `json:"display,omitempty"`
	Words     string    `json:"words,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionSnapshot describes a terminal session for API clients.
type SessionSnapshot struct {
	ID       SessionID `json:"id"`
	User     string    `json:"user"`
	Prompt   string    `json:"prompt"`
	Faction  Faction   `json:"faction,omitempty"`
	Name     string    `json:"name,omitempty"`
	Awaiting bool      `json:"awaiting_name"`
	Locked   bool      `json:"locked"`
	Lines    []Line    `json:"lines,omitempty"`
}
