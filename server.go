package ravenshell

import (
	"context"
	"errors"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"pkt.systems/pslog"
	"pkt.systems/ravenshell/core"
	"pkt.systems/ravenshell/httpapi"
	"pkt.systems/ravenshell/internal/eventbus"
	"pkt.systems/ravenshell/schema"
	"pkt.systems/ravenshell/sshserver"
)

// Server composes the HTTP and SSH terminal hosts.
type Server interface {
	Start(ctx context.Context) error
	Wait() error
	Stop(ctx context.Context) error
}

// ServerConfig configures the compositor.
type ServerConfig struct {
	Shell         schema.ShellConfig
	HTTP          httpapi.Config
	SSH           SSHConfig
	StreamHistory int
	// HTTPListener and SSH.Listener override the configured addresses.
	HTTPListener net.Listener
}

// SSHConfig defines SSH host settings.
type SSHConfig struct {
	Addr        string
	HostKeyPath string
	Listener    net.Listener
}

// ServerOption toggles compositor components.
type ServerOption func(*serverOptions)

type serverOptions struct {
	enableHTTP bool
	enableSSH  bool
}

// WithHTTP enables the HTTP API server.
func WithHTTP() ServerOption {
	return func(o *serverOptions) { o.enableHTTP = true }
}

// WithSSH enables the SSH server.
func WithSSH() ServerOption {
	return func(o *serverOptions) { o.enableSSH = true }
}

// New constructs a composable ravenshell server.
func New(cfg ServerConfig, opts ...ServerOption) (Server, error) {
	options := serverOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if !options.enableHTTP && !options.enableSSH {
		return nil, errors.New("no services enabled")
	}
	shell, err := schema.NormalizeShellConfig(cfg.Shell)
	if err != nil {
		return nil, err
	}
	cfg.Shell = shell

	var httpSrv *httpapi.Server
	var sshSrv *sshserver.Server
	if options.enableHTTP {
		cfg.HTTP.Shell = shell
		httpSrv = httpapi.NewServer(cfg.HTTP, eventbus.New(nil, cfg.StreamHistory))
	}
	if options.enableSSH {
		sshSrv = &sshserver.Server{
			Addr:        cfg.SSH.Addr,
			HostKeyPath: cfg.SSH.HostKeyPath,
			Listener:    cfg.SSH.Listener,
			Shell:       shell,
			NewEnv:      core.NewEnv,
			MaxLines:    shell.BufferMaxLines,
		}
	}
	return &compositeServer{
		cfg:     cfg,
		options: options,
		httpSrv: httpSrv,
		sshSrv:  sshSrv,
	}, nil
}

type compositeServer struct {
	cfg     ServerConfig
	options serverOptions
	httpSrv *httpapi.Server
	sshSrv  *sshserver.Server
	logger  pslog.Logger

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	group   *errgroup.Group
	started bool
}

func (s *compositeServer) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		pslog.Ctx(ctx).Warn("server start rejected", "reason", "already started")
		return errors.New("server already started")
	}
	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	s.ctx, s.cancel = runCtx, cancel
	s.group = group
	s.started = true
	s.logger = pslog.Ctx(runCtx)
	s.mu.Unlock()

	log := s.logger
	log.Info(
		"server start",
		"http", s.options.enableHTTP,
		"ssh", s.options.enableSSH,
		"http_addr", s.cfg.HTTP.Addr,
		"ssh_addr", s.cfg.SSH.Addr,
		"hostname", s.cfg.Shell.Hostname,
		"site", s.cfg.Shell.SiteName,
	)
	if s.httpSrv != nil {
		s.httpSrv.SetBaseContext(groupCtx)
		group.Go(func() error {
			s.httpSrv.Run(groupCtx)
			return nil
		})
		group.Go(func() error {
			if err := httpapi.ListenAndServe(groupCtx, s.cfg.HTTP.Addr, s.cfg.HTTPListener, s.httpSrv.Handler()); err != nil {
				log.Error("http server failed", "err", err)
				return err
			}
			return nil
		})
	}
	if s.sshSrv != nil {
		group.Go(func() error {
			if err := s.sshSrv.ListenAndServe(groupCtx); err != nil {
				log.Error("ssh server failed", "err", err)
				return err
			}
			return nil
		})
	}
	return nil
}

// Wait blocks until every host has stopped and returns the first failure.
func (s *compositeServer) Wait() error {
	s.mu.Lock()
	group := s.group
	ctx := s.ctx
	started := s.started
	s.mu.Unlock()
	if !started {
		return errors.New("server not started")
	}
	err := group.Wait()
	if err != nil {
		pslog.Ctx(ctx).Error("server stopped", "err", err)
	}
	return err
}

func (s *compositeServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	group := s.group
	started := s.started
	log := s.logger
	s.mu.Unlock()
	if !started {
		return nil
	}
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	log.Info("server stop requested")
	if cancel != nil {
		cancel()
	}
	if ctx == nil {
		log.Info("server stop completed")
		return nil
	}
	done := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		log.Warn("server stop timed out", "err", ctx.Err())
		return ctx.Err()
	case <-done:
		log.Info("server stopped")
		return nil
	}
}
