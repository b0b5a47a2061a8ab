package core

import (
	"testing"

	"pkt.systems/ravenshell/schema"
)

func TestHistoryUpDownSequence(t *testing.T) {
	st := schema.NewState()
	st.History = []string{"c", "b", "a"}

	var buf string
	steps := []struct {
		up   bool
		want string
	}{
		{up: true, want: "c"},
		{up: true, want: "b"},
		{up: true, want: "a"},
		{up: true, want: "a"},
		{up: false, want: "b"},
		{up: false, want: "c"},
		{up: false, want: ""},
		{up: false, want: ""},
	}
	for i, step := range steps {
		if step.up {
			st, buf = HistoryUp(st)
		} else {
			st, buf = HistoryDown(st)
		}
		if buf != step.want {
			t.Fatalf("step %d: expected %q, got %q", i, step.want, buf)
		}
		if st.HistoryCursor < -1 || st.HistoryCursor > len(st.History)-1 {
			t.Fatalf("step %d: cursor out of range: %d", i, st.HistoryCursor)
		}
	}
}

func TestHistoryUpOnEmpty(t *testing.T) {
	st, buf := HistoryUp(schema.NewState())
	if buf != "" || st.HistoryCursor != -1 {
		t.Fatalf("expected no-op, got %q cursor %d", buf, st.HistoryCursor)
	}
}

func TestHistoryDoesNotMutateInput(t *testing.T) {
	st := schema.NewState()
	st.History = []string{"x"}
	_, _ = HistoryUp(st)
	if st.HistoryCursor != -1 {
		t.Fatalf("input state mutated")
	}
}
