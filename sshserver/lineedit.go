package sshserver

import (
	"strings"
	"unicode"
)

// maxInputRunes caps the prompt line.
const maxInputRunes = 512

// lineEditor is the single-line input buffer under the prompt. Kills go to
// a one-entry kill ring that Yank inserts back.
type lineEditor struct {
	buf    []rune
	cursor int
	killed []rune
}

func (e *lineEditor) String() string { return string(e.buf) }

func (e *lineEditor) Len() int { return len(e.buf) }

func (e *lineEditor) Clear() {
	e.buf = nil
	e.cursor = 0
}

// SetString replaces the line and puts the cursor at the end.
func (e *lineEditor) SetString(value string) {
	e.buf = []rune(value)
	if len(e.buf) > maxInputRunes {
		e.buf = e.buf[:maxInputRunes]
	}
	e.cursor = len(e.buf)
}

func (e *lineEditor) InsertRune(r rune) {
	e.insert([]rune{r})
}

// InsertText inserts pasted text. Line breaks become spaces and other
// control characters are dropped.
func (e *lineEditor) InsertText(text string) {
	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\r' || r == '\n' || r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, text)
	e.insert([]rune(text))
}

func (e *lineEditor) insert(rs []rune) {
	if room := maxInputRunes - len(e.buf); len(rs) > room {
		rs = rs[:max(room, 0)]
	}
	if len(rs) == 0 {
		return
	}
	e.cursor = min(max(e.cursor, 0), len(e.buf))
	tail := append([]rune(nil), e.buf[e.cursor:]...)
	e.buf = append(append(e.buf[:e.cursor], rs...), tail...)
	e.cursor += len(rs)
}

func (e *lineEditor) Backspace() {
	if e.cursor > 0 {
		e.remove(e.cursor-1, e.cursor)
	}
}

func (e *lineEditor) Delete() {
	if e.cursor < len(e.buf) {
		e.remove(e.cursor, e.cursor+1)
	}
}

func (e *lineEditor) MoveLeft() {
	if e.cursor > 0 {
		e.cursor--
	}
}

func (e *lineEditor) MoveRight() {
	if e.cursor < len(e.buf) {
		e.cursor++
	}
}

func (e *lineEditor) MoveStart() { e.cursor = 0 }

func (e *lineEditor) MoveEnd() { e.cursor = len(e.buf) }

func (e *lineEditor) MoveWordLeft() { e.cursor = e.wordStart() }

func (e *lineEditor) MoveWordRight() {
	i := e.cursor
	for i < len(e.buf) && isSpace(e.buf[i]) {
		i++
	}
	for i < len(e.buf) && !isSpace(e.buf[i]) {
		i++
	}
	e.cursor = i
}

// KillWord cuts the word before the cursor.
func (e *lineEditor) KillWord() { e.kill(e.wordStart(), e.cursor) }

// KillStart cuts from the line start to the cursor.
func (e *lineEditor) KillStart() { e.kill(0, e.cursor) }

// KillEnd cuts from the cursor to the line end.
func (e *lineEditor) KillEnd() { e.kill(e.cursor, len(e.buf)) }

// Yank inserts the last killed text at the cursor.
func (e *lineEditor) Yank() { e.insert(e.killed) }

func (e *lineEditor) kill(from, to int) {
	if from >= to {
		return
	}
	e.killed = append([]rune(nil), e.buf[from:to]...)
	e.remove(from, to)
}

func (e *lineEditor) remove(from, to int) {
	e.buf = append(e.buf[:from], e.buf[to:]...)
	if e.cursor > to {
		e.cursor -= to - from
	} else if e.cursor > from {
		e.cursor = from
	}
}

func (e *lineEditor) wordStart() int {
	i := e.cursor
	for i > 0 && isSpace(e.buf[i-1]) {
		i--
	}
	for i > 0 && !isSpace(e.buf[i-1]) {
		i--
	}
	return i
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}
