package sshserver

import (
	"fmt"
	"io"
	"strings"
)

// frame is one full redraw of the terminal window.
type frame struct {
	rows       []string
	cursorRow  int
	cursorCol  int
	hideCursor bool
}

// screen writes frames to an ANSI terminal, skipping redraws that would not
// change anything.
type screen struct {
	out   io.Writer
	title string
	last  string
}

func newScreen(out io.Writer) *screen {
	return &screen{out: out}
}

// EnterAltScreen switches to the alternate screen with bracketed paste on.
func (s *screen) EnterAltScreen() {
	_, _ = io.WriteString(s.out, "\x1b[?1049h\x1b[?2004h\x1b[H\x1b[2J")
	s.last = ""
}

func (s *screen) ExitAltScreen() {
	_, _ = io.WriteString(s.out, "\x1b[?2004l\x1b[?1049l\x1b[?25h")
}

// SetTitle sets the window title (OSC 2) when it changes.
func (s *screen) SetTitle(title string) {
	title = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, title)
	if title == s.title {
		return
	}
	s.title = title
	_, _ = io.WriteString(s.out, "\x1b]2;"+title+"\x07")
}

func (s *screen) Draw(f frame) error {
	row, col := f.cursorRow, f.cursorCol
	if row < 1 {
		row = 1
	}
	if col < 1 {
		col = 1
	}
	var b strings.Builder
	b.WriteString("\x1b[?25l")
	b.WriteString("\x1b[H\x1b[2J")
	for i, line := range f.rows {
		if i > 0 {
			b.WriteString("\r\n")
		}
		b.WriteString(line)
	}
	fmt.Fprintf(&b, "\x1b[%d;%dH", row, col)
	if !f.hideCursor {
		b.WriteString("\x1b[?25h")
	}
	out := b.String()
	if out == s.last {
		return nil
	}
	s.last = out
	_, err := io.WriteString(s.out, out)
	return err
}
