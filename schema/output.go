package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Style tags an output line for the display sink.
type Style int

const (
	StyleDefault Style = iota
	StyleGold
	StyleDim
	StyleGreen
	StyleRed
	StyleYellow
	StyleCyan
)

var styleNames = [...]string{
	StyleDefault: "default",
	StyleGold:    "gold",
	StyleDim:     "dim",
	StyleGreen:   "green",
	StyleRed:     "red",
	StyleYellow:  "yellow",
	StyleCyan:    "cyan",
}

func (s Style) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return styleNames[StyleDefault]
	}
	return styleNames[s]
}

// ParseStyle maps a style name back to its tag.
func ParseStyle(name string) (Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StyleDefault, nil
	}
	for i, candidate := range styleNames {
		if candidate == name {
			return Style(i), nil
		}
	}
	return StyleDefault, fmt.Errorf("unknown style %q", name)
}

// MarshalJSON encodes the style as its name.
func (s Style) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a style name.
func (s *Style) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStyle(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Line is one unit of terminal output.
type Line struct {
	Text  string `json:"text"`
	Style Style  `json:"style"`
}

// L builds a line.
func L(text string, style Style) Line {
	return Line{Text: text, Style: style}
}

// Blank is an empty dim line.
func Blank() Line {
	return Line{Style: StyleDim}
}

// SplitLines breaks multi-line text into lines sharing one style.
func SplitLines(text string, style Style) []Line {
	parts := strings.Split(text, "\n")
	lines := make([]Line, 0, len(parts))
	for _, part := range parts {
		lines = append(lines, Line{Text: part, Style: style})
	}
	return lines
}
