package sshserver

import (
	"context"
	"io"
	"net"

	gliderssh "github.com/gliderlabs/ssh"

	"pkt.systems/pslog"
	"pkt.systems/ravenshell/core"
	"pkt.systems/ravenshell/internal/logx"
	"pkt.systems/ravenshell/schema"
)

// Server exposes the terminal over SSH, one session per connection.
type Server struct {
	Addr        string
	HostKeyPath string
	Listener    net.Listener
	Shell       schema.ShellConfig
	// NewEnv builds the handler environment for one connection. Each
	// connection gets its own random source. Defaults to core.NewEnv.
	NewEnv   func(schema.ShellConfig) core.Env
	MaxLines int
	logger   pslog.Logger
}

func (s *Server) sessionEnv() core.Env {
	if s.NewEnv == nil {
		return core.NewEnv(s.Shell)
	}
	return s.NewEnv(s.Shell)
}

// ListenAndServe starts the SSH server and shuts down on context cancellation.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.logger == nil {
		s.logger = pslog.Ctx(ctx)
	}

	signer, err := ensureHostKey(s.HostKeyPath, s.logger)
	if err != nil {
		return err
	}

	server := &gliderssh.Server{
		Addr:    s.Addr,
		Handler: s.handleSession,
	}
	server.AddHostKey(signer)

	errCh := make(chan error, 1)
	go func() {
		if s.Listener != nil {
			errCh <- server.Serve(s.Listener)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	s.logger.Info("ssh listening", "addr", s.Addr)
	select {
	case <-ctx.Done():
		_ = server.Close()
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleSession(sess gliderssh.Session) {
	log := s.logger
	if log == nil {
		log = pslog.Ctx(sess.Context())
	}
	remote := sess.RemoteAddr().String()
	id := schema.SessionID(sess.Context().SessionID())
	if len(id) > 16 {
		id = id[:16]
	}
	base := pslog.ContextWithLogger(sess.Context(), log)
	log = logx.WithSessionRemote(base, id, remote)
	ctx := logx.ContextWithRemote(logx.ContextWithSessionLogger(base, log, id), remote)

	pty, winCh, ok := sess.Pty()
	if !ok {
		log.Info("ssh session rejected", "reason", "pty required")
		_, _ = io.WriteString(sess, "pty required\n")
		_ = sess.Exit(1)
		return
	}

	log.Info("ssh session opened", "term", pty.Term, "user", sess.User())
	ui := NewUI(ctx, UIConfig{
		ID:       id,
		In:       sess,
		Out:      sess,
		Env:      s.sessionEnv(),
		MaxLines: s.MaxLines,
	})
	ui.SetSize(pty.Window.Width, pty.Window.Height)
	_ = ui.Run(ctx, windows(ctx, winCh))
	_ = sess.Exit(0)
	log.Info("ssh session closed", "term", pty.Term)
}

// windows adapts gliderssh window changes to UI resizes.
func windows(ctx context.Context, in <-chan gliderssh.Window) <-chan Window {
	out := make(chan Window)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case win, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- Window{Width: win.Width, Height: win.Height}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
