package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pkt.systems/pslog"
	"pkt.systems/ravenshell/core"
	"pkt.systems/ravenshell/internal/appconfig"
	"pkt.systems/ravenshell/schema"
	"pkt.systems/ravenshell/sshserver"
)

const resizePollInterval = 250 * time.Millisecond

func newPlayCmd() *cobra.Command {
	var cfgPath string
	var logPath string
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Run the terminal locally in this tty",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			shell, err := cfg.ShellSettings()
			if err != nil {
				return err
			}
			fd := int(os.Stdin.Fd())
			if !term.IsTerminal(fd) {
				return errors.New("play needs an interactive terminal")
			}

			logOut := io.Discard
			if logPath != "" {
				file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return fmt.Errorf("open log: %w", err)
				}
				defer func() { _ = file.Close() }()
				logOut = file
			}
			logger := pslog.NewWithOptions(logOut, pslog.Options{Mode: pslog.ModeStructured, NoColor: true})
			ctx := pslog.ContextWithLogger(cmd.Context(), logger)

			state, err := term.MakeRaw(fd)
			if err != nil {
				return fmt.Errorf("raw mode: %w", err)
			}
			defer func() { _ = term.Restore(fd, state) }()

			return playLocal(ctx, fd, shell)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&logPath, "log", "", "append logs to this file")
	return cmd
}

func playLocal(ctx context.Context, fd int, shell schema.ShellConfig) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ui := sshserver.NewUI(ctx, sshserver.UIConfig{
		ID:       "local",
		In:       os.Stdin,
		Out:      os.Stdout,
		Env:      core.NewEnv(shell),
		MaxLines: shell.BufferMaxLines,
	})
	width, height, err := term.GetSize(fd)
	if err != nil {
		width, height = 80, 24
	}
	ui.SetSize(width, height)
	return ui.Run(ctx, pollSize(ctx, fd, width, height))
}

// pollSize reports terminal size changes until ctx is done.
func pollSize(ctx context.Context, fd int, width, height int) <-chan sshserver.Window {
	out := make(chan sshserver.Window)
	go func() {
		defer close(out)
		ticker := time.NewTicker(resizePollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			w, h, err := term.GetSize(fd)
			if err != nil || (w == width && h == height) {
				continue
			}
			width, height = w, h
			select {
			case out <- sshserver.Window{Width: w, Height: h}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
