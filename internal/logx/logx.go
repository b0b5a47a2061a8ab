package logx

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/ravenshell/schema"
)

type contextKey int

const (
	sessionKey contextKey = iota
	remoteKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithSession annotates the logger with the session id if present.
func WithSession(ctx context.Context, id schema.SessionID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if id != "" {
		if current, ok := ctx.Value(sessionKey).(schema.SessionID); ok && current == id {
			return log
		}
		log = log.With("session", id)
	}
	return log
}

// WithSessionRemote annotates the logger with session and remote address.
func WithSessionRemote(ctx context.Context, id schema.SessionID, remote string) pslog.Logger {
	log := WithSession(ctx, id)
	if remote != "" {
		if current, ok := ctx.Value(remoteKey).(string); ok && current == remote {
			return log
		}
		log = log.With("remote", remote)
	}
	return log
}

// WithIdentity annotates the logger with the sworn identity when available.
func WithIdentity(log pslog.Logger, st schema.State) pslog.Logger {
	if st.Faction != schema.FactionNone {
		log = log.With("faction", string(st.Faction))
	}
	if st.Name != "" {
		log = log.With("name", st.Name)
	}
	return log
}

// ContextWithSession stores the session marker on the context for log de-duplication.
func ContextWithSession(ctx context.Context, id schema.SessionID) context.Context {
	if ctx == nil || id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey, id)
}

// ContextWithRemote stores the remote marker on the context for log de-duplication.
func ContextWithRemote(ctx context.Context, remote string) context.Context {
	if ctx == nil || remote == "" {
		return ctx
	}
	return context.WithValue(ctx, remoteKey, remote)
}

// ContextWithSessionLogger attaches the logger and session marker to the context.
func ContextWithSessionLogger(ctx context.Context, log pslog.Logger, id schema.SessionID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithSession(ctx, id)
}
