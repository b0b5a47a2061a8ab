package schema

import "errors"

var (
	// ErrUnknownCommand indicates the first token did not match any command.
	ErrUnknownCommand = errors.New("command not found")
	// ErrInputLocked indicates a scripted playback holds the input lock.
	ErrInputLocked = errors.New("input locked")
	// ErrPlaybackActive indicates a lock-holding playback is already in flight.
	ErrPlaybackActive = errors.New("playback already active")
	// ErrSessionNotFound indicates a requested terminal session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed indicates the terminal session has been shut down.
	ErrSessionClosed = errors.New("session closed")
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
)
