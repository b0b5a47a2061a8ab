package core

import (
	"math/rand/v2"
	"sync/atomic"
	"time"

	"pkt.systems/ravenshell/schema"
)

// Env carries everything a handler may read besides session state.
type Env struct {
	Hostname string
	SiteName string
	Now      func() time.Time
	Rand     *rand.Rand
}

var envSeq atomic.Uint64

// NewEnv builds an Env from shell config with its own time-seeded random
// source. The source is not safe for concurrent use; build one Env per
// session.
func NewEnv(cfg schema.ShellConfig) Env {
	seed := uint64(time.Now().UnixNano())
	seq := envSeq.Add(1)
	return Env{
		Hostname: cfg.Hostname,
		SiteName: cfg.SiteName,
		Now:      time.Now,
		Rand:     rand.New(rand.NewPCG(seed^seq, seq<<1|1)),
	}
}

func (e Env) withDefaults() Env {
	if e.Hostname == "" {
		e.Hostname = schema.DefaultHostname
	}
	if e.SiteName == "" {
		e.SiteName = schema.DefaultSiteName
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewPCG(1, 2))
	}
	return e
}
