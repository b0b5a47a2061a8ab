package schema

import "strings"

// DefaultHostname is the fake machine name shown in prompts.
const DefaultHostname = "kali"

// DefaultUser is the shell user before allegiance is sworn.
const DefaultUser = "serf"

// State is the per-terminal session record. Values are copied, never shared:
// Dispatch returns a new State instead of mutating its input.
type State struct {
	Faction       Faction  `json:"faction,omitempty"`
	Name          string   `json:"name,omitempty"`
	AwaitingName  bool     `json:"awaiting_name"`
	InputLocked   bool     `json:"input_locked"`
	History       []string `json:"history,omitempty"`
	HistoryCursor int      `json:"history_cursor"`
}

// NewState returns a fresh session state.
func NewState() State {
	return State{HistoryCursor: -1}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.History = append([]string(nil), s.History...)
	return out
}

// Sworn reports whether both faction and name are committed.
func (s State) Sworn() bool {
	return s.Faction != FactionNone && s.Name != ""
}

// User derives the shell user name from the sworn identity.
func (s State) User() string {
	if !s.Sworn() {
		return DefaultUser
	}
	name := compact(s.Name)
	house := compact(s.Faction.Display())
	if house == "" || strings.Contains(name, house) {
		return name
	}
	return name + house
}

// Prompt returns the shell prompt for the state.
func (s State) Prompt(hostname string) string {
	if hostname == "" {
		hostname = DefaultHostname
	}
	return s.User() + "@" + hostname + ":~$ "
}

func compact(value string) string {
	return strings.ToLower(strings.Join(strings.Fields(value), ""))
}
