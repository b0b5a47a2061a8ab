package ravenshell

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	"pkt.systems/ravenshell/httpapi"
	"pkt.systems/ravenshell/schema"
)

func TestNewRequiresService(t *testing.T) {
	if _, err := New(ServerConfig{}); err == nil {
		t.Fatalf("expected error without enabled services")
	}
}

func TestNewRejectsBadShell(t *testing.T) {
	if _, err := New(ServerConfig{}, WithHTTP()); err != nil {
		t.Fatalf("expected defaults to be valid: %v", err)
	}
	if _, err := New(ServerConfig{Shell: schema.ShellConfig{Hostname: "Kali Box"}}, WithSSH()); err == nil {
		t.Fatalf("expected invalid hostname to be rejected")
	}
}

func TestSSHBuildsEnvPerConnection(t *testing.T) {
	srv, err := New(ServerConfig{Shell: schema.ShellConfig{SiteName: "castle.black"}}, WithSSH())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ssh := srv.(*compositeServer).sshSrv
	if ssh.NewEnv == nil {
		t.Fatalf("expected an env factory on the ssh host")
	}
	first, second := ssh.NewEnv(ssh.Shell), ssh.NewEnv(ssh.Shell)
	if first.Rand == second.Rand {
		t.Fatalf("expected connections not to share a random source")
	}
	if first.SiteName != "castle.black" || first.Hostname != schema.DefaultHostname {
		t.Fatalf("unexpected env %+v", first)
	}
}

func TestStopBeforeStart(t *testing.T) {
	srv, err := New(ServerConfig{}, WithHTTP())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := srv.Wait(); err == nil {
		t.Fatalf("expected Wait to fail before Start")
	}
}

func TestServerServesHTTPUntilStopped(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv, err := New(ServerConfig{
		HTTP:         httpapi.Config{Addr: ln.Addr().String(), SessionTTL: time.Minute},
		HTTPListener: ln,
	}, WithHTTP())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := srv.Start(context.Background()); err == nil {
		t.Fatalf("expected second Start to fail")
	}

	resp, err := http.Post("http://"+ln.Addr().String()+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	err = json.NewDecoder(resp.Body).Decode(&created)
	_ = resp.Body.Close()
	if err != nil || resp.StatusCode != http.StatusCreated || created.ID == "" {
		t.Fatalf("unexpected create response %d %+v %v", resp.StatusCode, created, err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := srv.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}
