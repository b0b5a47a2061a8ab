package core

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"pkt.systems/ravenshell/schema"
)

var fixedNow = time.Date(2026, 10, 19, 21, 4, 5, 0, time.UTC)

func testEnv() Env {
	return Env{
		Hostname: "kali",
		SiteName: "lihammad.com",
		Now:      func() time.Time { return fixedNow },
		Rand:     rand.New(rand.NewPCG(3, 5)),
	}
}

func texts(lines []schema.Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.Text)
	}
	return out
}

func TestDispatchUnknownCommand(t *testing.T) {
	st := schema.NewState()
	res := Dispatch(st, "  FooBar baz", testEnv())
	if !errors.Is(res.Err, schema.ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", res.Err)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("expected a single diagnostic, got %d lines", len(res.Lines))
	}
	if res.Lines[0].Text != "bash: foobar: command not found" || res.Lines[0].Style != schema.StyleRed {
		t.Fatalf("unexpected diagnostic %+v", res.Lines[0])
	}
	if len(res.State.History) != 1 || res.State.History[0] != "FooBar baz" {
		t.Fatalf("expected trimmed input in history, got %v", res.State.History)
	}
	if res.Script != nil {
		t.Fatalf("expected no script")
	}
}

func TestDispatchDoesNotMutateInput(t *testing.T) {
	st := schema.NewState()
	st.History = []string{"old"}
	_ = Dispatch(st, "whoami", testEnv())
	if len(st.History) != 1 || st.History[0] != "old" {
		t.Fatalf("input state mutated: %v", st.History)
	}
	_ = Dispatch(st, "swear stark", testEnv())
	if st.Faction != schema.FactionNone || st.AwaitingName {
		t.Fatalf("input state mutated: %+v", st)
	}
}

func TestDispatchEmptyInputIsNoop(t *testing.T) {
	st := schema.NewState()
	res := Dispatch(st, "   ", testEnv())
	if res.Echo.Text != "serf@kali:~$    " {
		t.Fatalf("unexpected echo %q", res.Echo.Text)
	}
	if len(res.Lines) != 0 || len(res.State.History) != 0 || res.Command != CmdUnknown || res.Err != nil {
		t.Fatalf("expected no-op result, got %+v", res)
	}
}

func TestDispatchRecordsHistoryMostRecentFirst(t *testing.T) {
	st := schema.NewState()
	for _, cmd := range []string{"a", "b", "c"} {
		st = Dispatch(st, cmd, testEnv()).State
	}
	if !slices.Equal(st.History, []string{"c", "b", "a"}) {
		t.Fatalf("unexpected history %v", st.History)
	}
	if st.HistoryCursor != -1 {
		t.Fatalf("expected cursor reset, got %d", st.HistoryCursor)
	}
}

func TestAliasesShareHandlers(t *testing.T) {
	cases := map[string]Command{
		"swear":   CmdSwear,
		"LOGOUT":  CmdExit,
		"cmatrix": CmdMatrix,
		"banner":  CmdFiglet,
		"Nmap":    CmdTool,
	}
	for name, want := range cases {
		got, ok := Lookup(name)
		if !ok || got != want {
			t.Fatalf("lookup %q: expected %v, got %v (%v)", name, want, got, ok)
		}
	}
}

func TestHelpListsEveryDocumentedNameOnce(t *testing.T) {
	res := Dispatch(schema.NewState(), "help", testEnv())
	counts := map[string]int{}
	for _, line := range res.Lines {
		left, _, _ := strings.Cut(line.Text, " -- ")
		for _, token := range strings.FieldsFunc(left, func(r rune) bool { return r == ' ' || r == '/' }) {
			counts[token]++
		}
	}
	for _, name := range HelpNames() {
		if counts[name] != 1 {
			t.Fatalf("expected %q listed once, got %d", name, counts[name])
		}
	}
	if counts["dunkthelunk"] != 0 {
		t.Fatalf("hidden command must not be listed")
	}
}

func TestSwearFlow(t *testing.T) {
	env := testEnv()
	res := Dispatch(schema.NewState(), "swear-allegiance House-Lannister", env)
	if !res.State.AwaitingName || res.State.Faction != schema.FactionLannister {
		t.Fatalf("expected awaiting name for lannister, got %+v", res.State)
	}
	if last := res.Lines[len(res.Lines)-1].Text; last != "State your given name:" {
		t.Fatalf("unexpected prompt %q", last)
	}

	again := Dispatch(res.State, "   ", env)
	if again.Command != CmdNameEntry || !again.State.AwaitingName {
		t.Fatalf("expected re-prompt, got %+v", again)
	}
	if again.Lines[0].Text != "You must declare your name, serf." {
		t.Fatalf("unexpected re-prompt %q", again.Lines[0].Text)
	}

	done := Dispatch(again.State, "Tyrion", env)
	if done.State.AwaitingName || done.State.Name != "Tyrion" {
		t.Fatalf("expected committed name, got %+v", done.State)
	}
	if done.Script == nil || done.Script.Lock {
		t.Fatalf("expected unlocked transition script")
	}
	if d, ok := done.Script.Duration(); !ok || d != 900*time.Millisecond {
		t.Fatalf("expected 900ms transition, got %v", d)
	}
	if _, ok := done.Script.Steps[len(done.Script.Steps)-1].(Transition); !ok {
		t.Fatalf("expected transition as last step")
	}
	if len(done.State.History) != 0 {
		t.Fatalf("name entry must not be recorded in history")
	}
}

func TestSwearRejectsUnknownAndHedge(t *testing.T) {
	env := testEnv()
	res := Dispatch(schema.NewState(), "swear bolton", env)
	if res.State.AwaitingName || res.Lines[0].Text != `"bolton" is not a known house.` {
		t.Fatalf("unexpected result %q", texts(res.Lines))
	}
	res = Dispatch(schema.NewState(), "swear -stark", env)
	if res.State.AwaitingName || res.Lines[0].Text != `"-stark" is not a known house.` {
		t.Fatalf("expected a bare dash to stay part of the key, got %q", texts(res.Lines))
	}
	res = Dispatch(schema.NewState(), "swear dunkthelunk", env)
	if res.State.Faction != schema.FactionNone || res.Lines[0].Style != schema.StyleYellow {
		t.Fatalf("unexpected hedge result %+v", res)
	}
	res = Dispatch(schema.NewState(), "swear", env)
	if res.Lines[0].Text != "Usage: swear-allegiance <house>" {
		t.Fatalf("expected usage, got %q", res.Lines[0].Text)
	}
}

func TestHomeRequiresIdentity(t *testing.T) {
	env := testEnv()
	res := Dispatch(schema.NewState(), "home", env)
	if res.Script != nil {
		t.Fatalf("expected no transition for an unsworn visitor")
	}
	st := schema.NewState()
	st.Faction, st.Name = schema.FactionArryn, "Lysa"
	res = Dispatch(st, "exit", env)
	if res.Script == nil {
		t.Fatalf("expected a transition script")
	}
	if d, _ := res.Script.Duration(); d != 600*time.Millisecond {
		t.Fatalf("expected 600ms, got %v", d)
	}
	if res.Lines[0].Text != "Returning to Lysa of House Arryn..." {
		t.Fatalf("unexpected line %q", res.Lines[0].Text)
	}
}

func TestClearSetsFlag(t *testing.T) {
	res := Dispatch(schema.NewState(), "clear", testEnv())
	if !res.Clear || len(res.Lines) != 0 {
		t.Fatalf("expected clear with no lines, got %+v", res)
	}
}

func TestTimedCommandsLockInput(t *testing.T) {
	locking := []string{"ping", "wget", "matrix", "hack", "sl", "whiterabbit", "consequences", "nmap", "msfconsole", "dunkthelunk", "shutdown"}
	for _, cmd := range locking {
		res := Dispatch(schema.NewState(), cmd, testEnv())
		if res.Script == nil || !res.Script.Lock {
			t.Fatalf("%s: expected a locking script", cmd)
		}
	}
	res := Dispatch(schema.NewState(), "reboot", testEnv())
	if res.Script == nil || res.Script.Lock {
		t.Fatalf("reboot: expected an unlocked script")
	}
}

func TestScriptDurations(t *testing.T) {
	cases := map[string]time.Duration{
		"hack":        8 * 180 * time.Millisecond,
		"sl":          6*90*time.Millisecond + 200*time.Millisecond,
		"msfconsole":  8*80*time.Millisecond + 1500*time.Millisecond,
		"dunkthelunk": 12*160*time.Millisecond + 600*time.Millisecond,
		"shutdown":    1700 * time.Millisecond,
	}
	for cmd, want := range cases {
		res := Dispatch(schema.NewState(), cmd, testEnv())
		got, ok := res.Script.Duration()
		if !ok || got != want {
			t.Fatalf("%s: expected %v, got %v", cmd, want, got)
		}
	}
	if _, ok := Dispatch(schema.NewState(), "ping", testEnv()).Script.Duration(); ok {
		t.Fatalf("periodic scripts have no fixed duration")
	}
}

func TestWgetProgressReachesCompletion(t *testing.T) {
	res := Dispatch(schema.NewState(), "wget http://raven.example", testEnv())
	step := res.Script.Steps[0].(Periodic)
	for tick := 1; tick <= 10; tick++ {
		lines := step.Generate(tick)
		if len(lines) != 1 || !strings.HasPrefix(lines[0].Text, "[") {
			t.Fatalf("unexpected progress line %+v", lines)
		}
		if step.Stop(tick) {
			if !strings.HasSuffix(lines[0].Text, "] 100%") {
				t.Fatalf("expected 100%% on the final tick, got %q", lines[0].Text)
			}
			if tick < 3 {
				t.Fatalf("progress advanced too fast: %d ticks", tick)
			}
			return
		}
	}
	t.Fatalf("wget never completed")
}

func TestSystemCommands(t *testing.T) {
	st := schema.NewState()
	st.Faction, st.Name = schema.FactionStark, "Arya"
	cases := []struct {
		input string
		want  string
	}{
		{input: "whoami", want: "aryastark"},
		{input: "id", want: "uid=0(aryastark) gid=0 groups=0,999(smallfolk)"},
		{input: "hostname", want: "kali"},
		{input: "uname", want: "Linux"},
		{input: "uname -a", want: "Linux kali 6.1.0 #1 SMP x86_64 Westeros/GNU"},
		{input: "date", want: fixedNow.Format(time.UnixDate)},
		{input: "pwd", want: "/home/aryastark"},
		{input: "echo hello   there", want: "hello there"},
		{input: "man", want: "What manual page do you want?"},
		{input: "man ls", want: "No manual entry for ls"},
		{input: "ls", want: "readme.txt    allegiance.txt    lihammad.com/"},
		{input: "cat allegiance.txt", want: "Arya of House Stark"},
		{input: "cat notes.txt", want: "I must not forget the words."},
		{input: "cat ~/raven_mail/inbox/from_ned.msg", want: "I found something in the crypts. Meet me at nightfall."},
		{input: "cat /etc/hostname", want: "kali"},
		{input: "cat /etc/shadow", want: "cat: /etc/shadow: Permission denied"},
		{input: "cat dragons.txt", want: "cat: dragons.txt: No such file"},
		{input: "ls /home/lihammad", want: "notes.txt    projects/    raven_mail/"},
		{input: "ls /nowhere", want: "ls: cannot access '/nowhere': No such file or directory"},
	}
	for _, tc := range cases {
		res := Dispatch(st, tc.input, testEnv())
		if len(res.Lines) == 0 || res.Lines[0].Text != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.input, tc.want, texts(res.Lines))
		}
	}
}

func TestUptimeUsesRandomSource(t *testing.T) {
	res := Dispatch(schema.NewState(), "uptime", testEnv())
	if !strings.HasPrefix(res.Lines[0].Text, "up ") || !strings.HasSuffix(res.Lines[0].Text, " days, the realm endures") {
		t.Fatalf("unexpected uptime %q", res.Lines[0].Text)
	}
}

func TestHistoryCommandListsOldestFirst(t *testing.T) {
	st := schema.NewState()
	st = Dispatch(st, "id", testEnv()).State
	res := Dispatch(st, "history", testEnv())
	if !slices.Equal(texts(res.Lines), []string{"  1  id", "  2  history"}) {
		t.Fatalf("unexpected history output %q", texts(res.Lines))
	}
}

func TestCowsayAndFigletWidths(t *testing.T) {
	res := Dispatch(schema.NewState(), "cowsay moo", testEnv())
	if res.Lines[0].Text != "  -----" || res.Lines[1].Text != "< moo >" {
		t.Fatalf("unexpected cowsay %q", texts(res.Lines))
	}
	res = Dispatch(schema.NewState(), "banner hi", testEnv())
	if res.Lines[1].Text != "  +=====+" || res.Lines[2].Text != "  | H I |" {
		t.Fatalf("unexpected figlet %q", texts(res.Lines))
	}
}

func TestBootLinesWelcomeVariants(t *testing.T) {
	env := testEnv()
	serf := texts(BootLines(schema.NewState(), env))
	if !slices.Contains(serf, "[ OK ] Starting serf terminal...") {
		t.Fatalf("expected serf start line, got %q", serf)
	}
	st := schema.NewState()
	st.Faction, st.Name = schema.FactionGreyjoy, "Theon"
	sworn := texts(BootLines(st, env))
	if !slices.Contains(sworn, "  Welcome back, Theon of House Greyjoy.") {
		t.Fatalf("expected welcome back line, got %q", sworn)
	}
}

func TestBootBannerDependsOnSite(t *testing.T) {
	env := testEnv()
	env.SiteName = schema.DefaultSiteName
	logo := texts(BootLines(schema.NewState(), env))
	if !slices.Contains(logo, siteLogo[len(siteLogo)-1]) || !slices.Contains(logo, siteLogo[0]) {
		t.Fatalf("expected the site logo for the default site, got %q", logo)
	}
	for _, line := range BootLines(schema.NewState(), env) {
		if slices.Contains(siteLogo, line.Text) && line.Text != "" && line.Style != schema.StyleGold {
			t.Fatalf("expected gold logo line, got %+v", line)
		}
	}

	env.SiteName = "winterfell.north"
	other := texts(BootLines(schema.NewState(), env))
	if slices.Contains(other, siteLogo[0]) {
		t.Fatalf("expected no default logo for another site")
	}
	if !strings.Contains(strings.Join(other, "\n"), "W I N T E R F E L L") {
		t.Fatalf("expected a figlet banner of the site, got %q", other)
	}
}

func TestToolFallbackScene(t *testing.T) {
	lines := toolScene("ettercap", "lihammad.com")
	if len(lines) != 2 || lines[0].Text != "Running ettercap..." {
		t.Fatalf("unexpected fallback %q", texts(lines))
	}
}
