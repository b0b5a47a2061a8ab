package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"pkt.systems/pslog"
	"pkt.systems/ravenshell/schema"
)

func newCaptureLogger(capture *logCapture) pslog.Logger {
	return pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
}

func TestWithIdentityAddsFields(t *testing.T) {
	capture := &logCapture{}
	log := WithIdentity(newCaptureLogger(capture), schema.State{Faction: schema.FactionStark, Name: "Ned"})
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["faction"] != "stark" {
		t.Fatalf("expected faction field, got %+v", entry)
	}
	if entry["name"] != "Ned" {
		t.Fatalf("expected name field, got %+v", entry)
	}
}

func TestWithIdentitySkipsUnsworn(t *testing.T) {
	capture := &logCapture{}
	log := WithIdentity(newCaptureLogger(capture), schema.NewState())
	log.Info("hello")

	entry := capture.firstEntry(t)
	if _, ok := entry["faction"]; ok {
		t.Fatalf("did not expect faction for an unsworn state")
	}
}

func TestWithSessionRemoteAddsFields(t *testing.T) {
	capture := &logCapture{}
	ctx := pslog.ContextWithLogger(context.Background(), newCaptureLogger(capture))
	log := WithSessionRemote(ctx, "s1", "10.0.0.1:2222")
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["session"] != "s1" {
		t.Fatalf("expected session field, got %+v", entry)
	}
	if entry["remote"] != "10.0.0.1:2222" {
		t.Fatalf("expected remote field, got %+v", entry)
	}
}

func TestWithSessionSkipsDuplicateMarker(t *testing.T) {
	capture := &logCapture{}
	logger := newCaptureLogger(capture).With("session", "s1")
	ctx := ContextWithSessionLogger(context.Background(), logger, "s1")
	WithSession(ctx, "s1").Info("hello")

	line := capture.buf.String()
	if bytes.Count([]byte(line), []byte(`"session"`)) != 1 {
		t.Fatalf("expected a single session field, got %s", line)
	}
}

type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) firstEntry(t *testing.T) map[string]any {
	t.Helper()
	data := c.buf.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	line := bytes.TrimSpace(data[:idx])
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	return entry
}
