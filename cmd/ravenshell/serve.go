package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mdp/qrterminal/v3"
	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/ravenshell"
	"pkt.systems/ravenshell/httpapi"
	"pkt.systems/ravenshell/internal/appconfig"
	"pkt.systems/ravenshell/internal/version"
)

func newServeCmd() *cobra.Command {
	var cfgPath string
	var sshAddr string
	var httpAddr string
	var showQR bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the SSH and HTTP terminal hosts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ssh-addr") {
				cfg.SSH.Addr = sshAddr
				cfg.SSH.Enabled = sshAddr != ""
			}
			if cmd.Flags().Changed("http-addr") {
				cfg.HTTP.Addr = httpAddr
				cfg.HTTP.Enabled = httpAddr != ""
			}
			serverCfg, opts, err := toServerConfig(cfg)
			if err != nil {
				return err
			}
			server, err := ravenshell.New(serverCfg, opts...)
			if err != nil {
				return err
			}

			if showQR {
				printPublicURL(cmd.OutOrStdout(), cfg.HTTP.PublicURL)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Stop(stopCtx); err != nil {
					logger.Warn("server stop failed", "err", err)
				}
			}()
			logger.Info("ravenshell starting",
				"version", version.Current(),
				"hostname", serverCfg.Shell.Hostname,
				"site", serverCfg.Shell.SiteName,
				"ssh", cfg.SSH.Enabled,
				"http", cfg.HTTP.Enabled,
			)
			if err := server.Start(ctx); err != nil {
				return err
			}
			return server.Wait()
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&sshAddr, "ssh-addr", "", "ssh listen address (empty disables ssh)")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "http listen address (empty disables http)")
	cmd.Flags().BoolVar(&showQR, "qr", false, "print a QR code for http.public_url")
	return cmd
}

func toServerConfig(cfg appconfig.Config) (ravenshell.ServerConfig, []ravenshell.ServerOption, error) {
	shell, err := cfg.ShellSettings()
	if err != nil {
		return ravenshell.ServerConfig{}, nil, err
	}
	serverCfg := ravenshell.ServerConfig{
		Shell: shell,
		HTTP: httpapi.Config{
			Addr:       cfg.HTTP.Addr,
			SessionTTL: time.Duration(cfg.HTTP.SessionTTLMinutes) * time.Minute,
			PublicURL:  cfg.HTTP.PublicURL,
		},
		SSH: ravenshell.SSHConfig{
			Addr:        cfg.SSH.Addr,
			HostKeyPath: cfg.SSH.HostKeyPath,
		},
		StreamHistory: cfg.HTTP.StreamHistory,
	}
	var opts []ravenshell.ServerOption
	if cfg.HTTP.Enabled {
		opts = append(opts, ravenshell.WithHTTP())
	}
	if cfg.SSH.Enabled {
		opts = append(opts, ravenshell.WithSSH())
	}
	if len(opts) == 0 {
		return ravenshell.ServerConfig{}, nil, fmt.Errorf("nothing to serve: ssh and http are both disabled")
	}
	return serverCfg, opts, nil
}

func printPublicURL(w io.Writer, publicURL string) {
	publicURL = strings.TrimSpace(publicURL)
	if publicURL == "" {
		_, _ = fmt.Fprintln(w, "http.public_url is not set; no QR code to print")
		return
	}
	_, _ = fmt.Fprintf(w, "terminal: %s\n", publicURL)
	qrterminal.GenerateHalfBlock(publicURL, qrterminal.L, w)
}
