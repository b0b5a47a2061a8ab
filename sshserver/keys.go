package sshserver

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"
)

type keyKind int

const (
	keyRune keyKind = iota
	keyEnter
	keyBackspace
	keyDelete
	keyLeft
	keyRight
	keyHome
	keyEnd
	keyWordLeft
	keyWordRight
	keyUp
	keyDown
	keyPageUp
	keyPageDown
	keyKillWord
	keyKillStart
	keyKillEnd
	keyYank
	keyClearScreen
	keyEOF
	keyInterrupt
	keyTab
	keyShiftTab
	keyPaste
)

// key is one decoded input event. text is set for keyPaste only.
type key struct {
	kind keyKind
	r    rune
	text string
}

// maxPaste bounds a single bracketed paste.
const maxPaste = 4096

var controlKeys = map[byte]keyKind{
	0x01: keyHome,        // ^A
	0x02: keyLeft,        // ^B
	0x03: keyInterrupt,   // ^C
	0x04: keyEOF,         // ^D
	0x05: keyEnd,         // ^E
	0x06: keyRight,       // ^F
	0x08: keyBackspace,   // ^H
	0x09: keyTab,         // ^I
	0x0b: keyKillEnd,     // ^K
	0x0c: keyClearScreen, // ^L
	0x0e: keyDown,        // ^N
	0x10: keyUp,          // ^P
	0x15: keyKillStart,   // ^U
	0x17: keyKillWord,    // ^W
	0x19: keyYank,        // ^Y
	0x7f: keyBackspace,
}

var csiKeys = map[string]keyKind{
	"A":    keyUp,
	"B":    keyDown,
	"C":    keyRight,
	"D":    keyLeft,
	"H":    keyHome,
	"F":    keyEnd,
	"1~":   keyHome,
	"7~":   keyHome,
	"4~":   keyEnd,
	"8~":   keyEnd,
	"3~":   keyDelete,
	"5~":   keyPageUp,
	"6~":   keyPageDown,
	"Z":    keyShiftTab,
	"1;2Z": keyShiftTab,
	"1;5C": keyWordRight,
	"1;5D": keyWordLeft,
	"1;3C": keyWordRight,
	"1;3D": keyWordLeft,
}

var ss3Keys = map[byte]keyKind{
	'A': keyUp,
	'B': keyDown,
	'C': keyRight,
	'D': keyLeft,
	'H': keyHome,
	'F': keyEnd,
}

// keyReader decodes raw terminal bytes into keys.
type keyReader struct {
	br  *bufio.Reader
	out chan<- key
	cr  bool
}

// readKeys decodes r until it fails, then closes out.
func readKeys(r io.Reader, out chan<- key) {
	defer close(out)
	kr := &keyReader{br: bufio.NewReader(r), out: out}
	for kr.next() {
	}
}

func (kr *keyReader) emit(kind keyKind) {
	kr.out <- key{kind: kind}
}

func (kr *keyReader) next() bool {
	b, err := kr.br.ReadByte()
	if err != nil {
		return false
	}
	// CR LF from line-buffered clients is one Enter.
	if kr.cr {
		kr.cr = false
		if b == '\n' {
			return true
		}
	}
	switch {
	case b == 0x1b:
		return kr.escape()
	case b == '\r':
		kr.cr = true
		kr.emit(keyEnter)
	case b == '\n':
		kr.emit(keyEnter)
	case b < 0x20 || b == 0x7f:
		if kind, ok := controlKeys[b]; ok {
			kr.emit(kind)
		}
	case b < utf8.RuneSelf:
		kr.out <- key{kind: keyRune, r: rune(b)}
	default:
		_ = kr.br.UnreadByte()
		r, _, err := kr.br.ReadRune()
		if err != nil {
			return false
		}
		kr.out <- key{kind: keyRune, r: r}
	}
	return true
}

func (kr *keyReader) escape() bool {
	b, err := kr.br.ReadByte()
	if err != nil {
		return false
	}
	switch b {
	case '[':
		return kr.csi()
	case 'O':
		b, err := kr.br.ReadByte()
		if err != nil {
			return false
		}
		if kind, ok := ss3Keys[b]; ok {
			kr.emit(kind)
		}
	case 'b', 'B':
		kr.emit(keyWordLeft)
	case 'f', 'F':
		kr.emit(keyWordRight)
	case 0x7f:
		kr.emit(keyKillWord)
	}
	return true
}

func (kr *keyReader) csi() bool {
	var seq []byte
	for {
		b, err := kr.br.ReadByte()
		if err != nil {
			return false
		}
		seq = append(seq, b)
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if len(seq) > 8 {
			return true
		}
	}
	if string(seq) == "200~" {
		return kr.paste()
	}
	if kind, ok := csiKeys[string(seq)]; ok {
		kr.emit(kind)
	}
	return true
}

// paste collects text up to the bracketed paste terminator.
func (kr *keyReader) paste() bool {
	const end = "\x1b[201~"
	var b strings.Builder
	for {
		r, _, err := kr.br.ReadRune()
		if err != nil {
			return false
		}
		b.WriteRune(r)
		if strings.HasSuffix(b.String(), end) {
			text := strings.TrimSuffix(b.String(), end)
			kr.out <- key{kind: keyPaste, text: text}
			return true
		}
		if b.Len() > maxPaste+len(end) {
			kr.out <- key{kind: keyPaste, text: b.String()}
			return true
		}
	}
}
