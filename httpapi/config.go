package httpapi

import (
	"time"

	"pkt.systems/ravenshell/schema"
)

// Config defines HTTP API settings.
type Config struct {
	Addr       string
	SessionTTL time.Duration
	PublicURL  string
	Shell      schema.ShellConfig
	// SnapshotLines is the default number of scrollback lines returned by
	// the session snapshot endpoint.
	SnapshotLines int
}

const (
	defaultSessionTTL    = 30 * time.Minute
	defaultSnapshotLines = 200
	shutdownTimeout      = 5 * time.Second
	streamKeepAlive      = 15 * time.Second
)
