package schema

import (
	"errors"
	"strings"
)

// ErrInvalidHostname indicates a hostname outside [a-z0-9-].
var ErrInvalidHostname = errors.New("invalid hostname")

// ValidateHostname ensures a fake hostname matches [a-z0-9-] with no normalization.
func ValidateHostname(name string) error {
	if name == "" || strings.TrimSpace(name) != name {
		return ErrInvalidHostname
	}
	if strings.HasPrefix(name, "-") || strings.HasSuffix(name, "-") {
		return ErrInvalidHostname
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return ErrInvalidHostname
		}
	}
	return nil
}

// NormalizeSessionID trims a session id and rejects anything but [a-zA-Z0-9-].
func NormalizeSessionID(raw string) (SessionID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || len(trimmed) > 64 {
		return "", ErrSessionNotFound
	}
	for _, r := range trimmed {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return "", ErrSessionNotFound
		}
	}
	return SessionID(trimmed), nil
}
