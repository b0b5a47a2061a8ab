package sshserver

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"pkt.systems/pslog"
	"pkt.systems/ravenshell/core"
	"pkt.systems/ravenshell/internal/logx"
	"pkt.systems/ravenshell/internal/playback"
	"pkt.systems/ravenshell/internal/terminal"
	"pkt.systems/ravenshell/schema"
)

// Window is a terminal size in cells.
type Window struct {
	Width  int
	Height int
}

// UIConfig configures a terminal UI.
type UIConfig struct {
	ID       schema.SessionID
	In       io.Reader
	Out      io.Writer
	Env      core.Env
	MaxLines int
	Clock    playback.Clock
	// Mirror receives a copy of every sink operation.
	Mirror terminal.Sink
}

// UI renders one terminal session on an ANSI screen and owns the session on
// the goroutine calling Run.
type UI struct {
	in      io.Reader
	screen  *screen
	env     core.Env
	clock   playback.Clock
	session *terminal.Session
	buffer  *terminal.Buffer

	width  int
	height int

	editor     lineEditor
	notice     string
	interrupts int
	hero       *terminal.Hero
	dirty      bool
	log        pslog.Logger
}

// uiSink marks the screen dirty and catches the hero hand-off.
type uiSink struct {
	ui *UI
}

func (s uiSink) Emit(...schema.Line) { s.ui.dirty = true }
func (s uiSink) Clear()              { s.ui.dirty = true }
func (s uiSink) SetLocked(bool)      { s.ui.dirty = true }

func (s uiSink) Transition(faction schema.Faction, name string) {
	s.ui.hero = &terminal.Hero{Faction: faction, Name: name}
	s.ui.dirty = true
}

// NewUI builds a UI and its terminal session.
func NewUI(ctx context.Context, cfg UIConfig) *UI {
	if ctx == nil {
		ctx = context.Background()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = playback.SystemClock{}
	}
	ui := &UI{
		in:     cfg.In,
		screen: newScreen(cfg.Out),
		env:    cfg.Env,
		clock:  clock,
		buffer: terminal.NewBuffer(cfg.MaxLines),
		width:  80,
		height: 24,
		log:    logx.WithSession(ctx, cfg.ID),
	}
	ui.session = terminal.NewSession(ctx, terminal.Config{
		ID:    cfg.ID,
		Env:   cfg.Env,
		Sink:  terminal.Fanout{ui.buffer, uiSink{ui: ui}, cfg.Mirror},
		Clock: clock,
	})
	return ui
}

// SetSize updates the screen size, falling back to 80x24.
func (u *UI) SetSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	u.width = width
	u.height = height
	u.dirty = true
}

// Run boots the terminal and processes keys, resizes and playback until the
// user leaves, the input ends or ctx is done.
func (u *UI) Run(ctx context.Context, resize <-chan Window) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer u.session.Close()
	u.screen.EnterAltScreen()
	defer u.screen.ExitAltScreen()

	if err := u.session.Boot(); err != nil {
		return err
	}
	u.render()
	u.log.Info("tui session start", "width", u.width, "height", u.height)

	keys := make(chan key, 16)
	go readKeys(u.in, keys)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		var wake <-chan time.Time
		if due, ok := u.session.NextDue(); ok {
			wait := due.Sub(u.clock.Now())
			if wait < 0 {
				wait = 0
			}
			timer.Reset(wait)
			wake = timer.C
		}
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			timer.Stop()
			if !ok {
				u.log.Info("tui exit", "reason", "input closed")
				return nil
			}
			if u.handleKey(k) {
				return nil
			}
		case win, ok := <-resize:
			timer.Stop()
			if !ok {
				resize = nil
				break
			}
			u.SetSize(win.Width, win.Height)
			u.log.Debug("tui resize", "width", u.width, "height", u.height)
		case <-wake:
			u.session.RunDue(u.clock.Now())
		}
		if u.dirty {
			u.render()
			u.dirty = false
		}
	}
}

// handleKey applies one key press and reports whether the UI should exit.
func (u *UI) handleKey(k key) bool {
	u.dirty = true
	if k.kind == keyEOF && (u.editor.Len() == 0 || u.session.Locked()) {
		u.log.Info("tui exit", "reason", "ctrl-d")
		return true
	}
	if u.hero != nil {
		u.leaveHero()
		return false
	}
	if u.session.Locked() {
		return false
	}
	if k.kind != keyInterrupt {
		u.interrupts = 0
	}
	if k.kind != keyTab {
		u.notice = ""
	}
	switch k.kind {
	case keyInterrupt:
		u.interrupts++
		if u.interrupts >= 2 {
			u.log.Info("tui exit", "reason", "ctrl-c")
			return true
		}
		u.editor.Clear()
		u.notice = "press Ctrl-C again to leave"
	case keyEnter:
		u.submit()
	case keyRune:
		u.buffer.ResetScroll()
		u.editor.InsertRune(k.r)
	case keyPaste:
		u.buffer.ResetScroll()
		u.editor.InsertText(k.text)
	case keyTab:
		u.complete()
	case keyUp:
		u.editor.SetString(u.session.HistoryUp())
	case keyDown:
		u.editor.SetString(u.session.HistoryDown())
	case keyPageUp:
		u.buffer.Scroll(u.viewHeight(), u.viewHeight())
	case keyPageDown:
		u.buffer.Scroll(-u.viewHeight(), u.viewHeight())
	case keyClearScreen:
		u.buffer.Clear()
	default:
		u.edit(k.kind)
	}
	return false
}

func (u *UI) edit(kind keyKind) {
	e := &u.editor
	switch kind {
	case keyEOF, keyDelete:
		e.Delete()
	case keyBackspace:
		e.Backspace()
	case keyLeft:
		e.MoveLeft()
	case keyRight:
		e.MoveRight()
	case keyHome:
		e.MoveStart()
	case keyEnd:
		e.MoveEnd()
	case keyWordLeft:
		e.MoveWordLeft()
	case keyWordRight:
		e.MoveWordRight()
	case keyKillWord:
		e.KillWord()
	case keyKillStart:
		e.KillStart()
	case keyKillEnd:
		e.KillEnd()
	case keyYank:
		e.Yank()
	}
}

func (u *UI) submit() {
	line := u.editor.String()
	u.editor.Clear()
	u.buffer.ResetScroll()
	if err := u.session.Submit(line); err != nil {
		switch {
		case errors.Is(err, schema.ErrInputLocked), errors.Is(err, schema.ErrPlaybackActive):
			u.log.Debug("tui input refused", "err", err)
		default:
			u.log.Warn("tui submit failed", "err", err)
		}
	}
}

func (u *UI) complete() {
	state := u.session.State()
	if state.AwaitingName {
		return
	}
	completed, candidates := completeCommand(u.editor.String(), core.HelpNames())
	u.editor.SetString(completed)
	u.notice = ""
	if len(candidates) > 1 {
		u.notice = strings.Join(candidates, "  ")
	}
}

// leaveHero returns from the hero view. The boot banner replays when the
// scrollback is empty.
func (u *UI) leaveHero() {
	u.hero = nil
	if u.buffer.Len() > 0 || u.session.Locked() {
		return
	}
	if err := u.session.Boot(); err != nil {
		u.log.Warn("tui boot failed", "err", err)
	}
}

func (u *UI) title() string {
	return u.session.State().User() + "@" + u.hostname() + " — terminal"
}

func (u *UI) hostname() string {
	if u.env.Hostname == "" {
		return schema.DefaultHostname
	}
	return u.env.Hostname
}

// viewHeight is the number of scrollback rows between the title bar and the
// input row, less one when a notice is shown.
func (u *UI) viewHeight() int {
	view := u.height - 2
	if u.notice != "" {
		view--
	}
	if view < 0 {
		view = 0
	}
	return view
}

func (u *UI) render() {
	state := u.session.State()
	theme := themeForFaction(state.Faction)
	if u.hero != nil {
		theme = themeForFaction(u.hero.Faction)
		lines := renderHero(*u.hero, u.width, u.height, theme)
		u.screen.SetTitle(u.hero.Name + " of House " + u.hero.Faction.Display())
		if err := u.screen.Draw(frame{rows: lines, cursorRow: u.height, hideCursor: true}); err != nil {
			u.log.Warn("tui render failed", "err", err)
		}
		return
	}
	lines := make([]string, 0, u.height)
	lines = append(lines, renderTitleBar(u.title(), u.width, theme))
	view := u.buffer.Snapshot(u.viewHeight())
	lines = append(lines, renderViewport(view.Lines, u.width, u.viewHeight(), theme, view.AtBottom)...)
	if u.notice != "" {
		lines = append(lines, ansiFgRGB(theme.Dim)+trimToWidth(u.notice, u.width)+ansiReset)
	}
	input, col := renderInputLine(u.session.Prompt(), u.editor.String(), u.editor.cursor, u.width, theme, state.InputLocked)
	lines = append(lines, input)
	u.screen.SetTitle(u.title())
	if err := u.screen.Draw(frame{rows: lines, cursorRow: len(lines), cursorCol: col, hideCursor: state.InputLocked}); err != nil {
		u.log.Warn("tui render failed", "err", err)
	}
}

func trimToWidth(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if visibleWidth(value) <= width {
		return value
	}
	runes := []rune(value)
	for len(runes) > 0 && visibleWidth(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}
