package sshserver

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"pkt.systems/ravenshell/internal/terminal"
	"pkt.systems/ravenshell/schema"
)

const heroHint = "press any key to return to the terminal"

func renderTitleBar(title string, width int, theme tuiTheme) string {
	if width <= 0 {
		return ""
	}
	text := " " + title
	text = runewidth.Truncate(text, width, "$")
	pad := width - runewidth.StringWidth(text)
	if pad < 0 {
		pad = 0
	}
	return ansiBgRGB(theme.TitleBG) + ansiFgRGB(theme.TitleFG) + ansiBold + text + strings.Repeat(" ", pad) + ansiReset
}

// renderLine wraps one output line to width and colors every row.
func renderLine(line schema.Line, width int, theme tuiTheme) []string {
	text := sanitizeOutputLine(line.Text)
	style := ansiFgRGB(theme.styleColor(line.Style))
	if line.Style == schema.StyleGold {
		style = ansiBold + style
	}
	rows := wrapPlain(text, width)
	for i, row := range rows {
		if row == "" {
			continue
		}
		rows[i] = style + row + ansiReset
	}
	return rows
}

// renderViewport renders the tail of lines into exactly height rows.
func renderViewport(lines []schema.Line, width, height int, theme tuiTheme, atBottom bool) []string {
	if height <= 0 {
		return nil
	}
	rendered := make([]string, 0, height)
	if atBottom {
		var flattened []string
		for _, line := range lines {
			flattened = append(flattened, renderLine(line, width, theme)...)
		}
		if len(flattened) > height {
			flattened = flattened[len(flattened)-height:]
		}
		rendered = append(rendered, flattened...)
	} else {
		for _, line := range lines {
			if len(rendered) >= height {
				break
			}
			for _, row := range renderLine(line, width, theme) {
				if len(rendered) >= height {
					break
				}
				rendered = append(rendered, row)
			}
		}
	}
	for len(rendered) < height {
		rendered = append(rendered, "")
	}
	return rendered
}

// renderInputLine renders the prompt and input on one row. Long input
// scrolls horizontally to keep the cursor visible. It returns the row and
// the 1-based cursor column.
func renderInputLine(prompt, input string, cursor, width int, theme tuiTheme, locked bool) (string, int) {
	if width <= 0 {
		width = 80
	}
	promptText := runewidth.Truncate(prompt, width-1, "")
	promptWidth := runewidth.StringWidth(promptText)
	styled := ansiBold + ansiFgRGB(theme.PromptFG) + promptText + ansiReset
	if locked {
		return ansiDim + promptText + ansiReset, promptWidth + 1
	}
	runes := []rune(input)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}
	avail := width - promptWidth - 1
	if avail < 1 {
		avail = 1
	}
	start := 0
	for runewidth.StringWidth(string(runes[start:cursor])) > avail {
		start++
	}
	visible := runewidth.Truncate(string(runes[start:]), avail+1, "")
	col := promptWidth + runewidth.StringWidth(string(runes[start:cursor])) + 1
	if col > width {
		col = width
	}
	return styled + visible, col
}

// renderHero renders the hero view centered in a width x height screen.
func renderHero(hero terminal.Hero, width, height int, theme tuiTheme) []string {
	house, _ := schema.LookupHouse(hero.Faction)
	body := []struct {
		text  string
		style string
	}{
		{text: hero.Name, style: ansiBold + ansiFgRGB(theme.Banner)},
		{text: "of House " + house.Display, style: ansiFgRGB(theme.Banner)},
		{text: ""},
		{text: house.Words, style: ansiItalic + ansiFgRGB(theme.Words)},
		{text: ""},
		{text: ""},
		{text: heroHint, style: ansiDim},
	}
	if height <= 0 {
		return nil
	}
	lines := make([]string, 0, height)
	top := (height - len(body)) / 2
	for i := 0; i < top; i++ {
		lines = append(lines, "")
	}
	for _, row := range body {
		if len(lines) >= height {
			break
		}
		lines = append(lines, centerText(row.text, row.style, width))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return lines
}

func centerText(text, style string, width int) string {
	if text == "" {
		return ""
	}
	text = runewidth.Truncate(text, width, "")
	pad := (width - runewidth.StringWidth(text)) / 2
	if pad < 0 {
		pad = 0
	}
	out := strings.Repeat(" ", pad)
	if style == "" {
		return out + text
	}
	return out + style + text + ansiReset
}

// wrapPlain splits text into rows no wider than width cells.
func wrapPlain(text string, width int) []string {
	if width <= 0 || text == "" {
		return []string{text}
	}
	var rows []string
	var b strings.Builder
	cells := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if cells+w > width && cells > 0 {
			rows = append(rows, b.String())
			b.Reset()
			cells = 0
		}
		b.WriteRune(r)
		cells += w
	}
	rows = append(rows, b.String())
	return rows
}

func sanitizeOutputLine(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		ch := text[i]
		if ch == 0x1b {
			i = skipEscape(text, i+1)
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		if r == '\r' {
			i += size
			continue
		}
		if r == '\t' {
			b.WriteString("    ")
			i += size
			continue
		}
		if r < 0x20 || r == 0x7f {
			i += size
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return b.String()
}

func skipEscape(text string, i int) int {
	if i >= len(text) {
		return i
	}
	switch text[i] {
	case '[':
		return skipCSI(text, i+1)
	case ']':
		return skipOSC(text, i+1)
	default:
		return i + 1
	}
}

func skipCSI(text string, i int) int {
	for i < len(text) {
		b := text[i]
		if b >= 0x40 && b <= 0x7e {
			return i + 1
		}
		i++
	}
	return i
}

func skipOSC(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case 0x07:
			return i + 1
		case 0x1b:
			if i+1 < len(text) && text[i+1] == '\\' {
				return i + 2
			}
		}
		i++
	}
	return i
}

// visibleWidth returns the display width of text, ignoring escape sequences.
func visibleWidth(text string) int {
	width := 0
	for i := 0; i < len(text); {
		if text[i] == 0x1b {
			i = skipEscape(text, i+1)
			continue
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		if size == 0 {
			break
		}
		i += size
		width += runewidth.RuneWidth(r)
	}
	return width
}
