package sshserver

import (
	"strconv"

	"pkt.systems/ravenshell/schema"
)

type rgb struct {
	r int
	g int
	b int
}

type tuiTheme struct {
	Name     string
	TitleBG  rgb
	TitleFG  rgb
	PromptFG rgb
	Text     rgb
	Gold     rgb
	Dim      rgb
	Green    rgb
	Red      rgb
	Yellow   rgb
	Cyan     rgb
	// Hero view colors.
	Banner rgb
	Words  rgb
}

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiDim    = "\x1b[2m"
	ansiItalic = "\x1b[3m"
)

var kaliTheme = tuiTheme{
	Name:     "kali",
	TitleBG:  rgb{r: 35, g: 38, b: 46},
	TitleFG:  rgb{r: 200, g: 204, b: 212},
	PromptFG: rgb{r: 80, g: 160, b: 255},
	Text:     rgb{r: 220, g: 223, b: 228},
	Gold:     rgb{r: 212, g: 175, b: 55},
	Dim:      rgb{r: 120, g: 124, b: 134},
	Green:    rgb{r: 80, g: 250, b: 123},
	Red:      rgb{r: 255, g: 85, b: 85},
	Yellow:   rgb{r: 241, g: 250, b: 140},
	Cyan:     rgb{r: 139, g: 233, b: 253},
	Banner:   rgb{r: 212, g: 175, b: 55},
	Words:    rgb{r: 200, g: 204, b: 212},
}

// factionAccents recolors the title bar and hero view per house.
var factionAccents = map[schema.Faction]struct {
	bg     rgb
	banner rgb
	words  rgb
}{
	schema.FactionTargaryen: {bg: rgb{r: 60, g: 10, b: 12}, banner: rgb{r: 220, g: 40, b: 40}, words: rgb{r: 240, g: 200, b: 190}},
	schema.FactionStark:     {bg: rgb{r: 40, g: 48, b: 58}, banner: rgb{r: 200, g: 210, b: 222}, words: rgb{r: 150, g: 170, b: 190}},
	schema.FactionLannister: {bg: rgb{r: 90, g: 10, b: 16}, banner: rgb{r: 255, g: 200, b: 60}, words: rgb{r: 240, g: 190, b: 120}},
	schema.FactionTyrell:    {bg: rgb{r: 20, g: 60, b: 30}, banner: rgb{r: 230, g: 200, b: 80}, words: rgb{r: 150, g: 210, b: 130}},
	schema.FactionBaratheon: {bg: rgb{r: 50, g: 40, b: 0}, banner: rgb{r: 255, g: 215, b: 0}, words: rgb{r: 220, g: 220, b: 220}},
	schema.FactionMartell:   {bg: rgb{r: 90, g: 45, b: 0}, banner: rgb{r: 255, g: 140, b: 0}, words: rgb{r: 250, g: 80, b: 60}},
	schema.FactionGreyjoy:   {bg: rgb{r: 10, g: 20, b: 30}, banner: rgb{r: 212, g: 175, b: 55}, words: rgb{r: 90, g: 120, b: 140}},
	schema.FactionArryn:     {bg: rgb{r: 20, g: 40, b: 80}, banner: rgb{r: 150, g: 200, b: 255}, words: rgb{r: 230, g: 240, b: 255}},
	schema.FactionTully:     {bg: rgb{r: 20, g: 30, b: 80}, banner: rgb{r: 200, g: 40, b: 50}, words: rgb{r: 130, g: 160, b: 230}},
	schema.FactionHedge:     {bg: rgb{r: 45, g: 50, b: 30}, banner: rgb{r: 120, g: 180, b: 80}, words: rgb{r: 210, g: 180, b: 120}},
}

func themeForFaction(faction schema.Faction) tuiTheme {
	theme := kaliTheme
	accent, ok := factionAccents[faction]
	if !ok {
		return theme
	}
	theme.Name = string(faction)
	theme.TitleBG = accent.bg
	theme.Banner = accent.banner
	theme.Words = accent.words
	return theme
}

func (t tuiTheme) styleColor(style schema.Style) rgb {
	switch style {
	case schema.StyleGold:
		return t.Gold
	case schema.StyleDim:
		return t.Dim
	case schema.StyleGreen:
		return t.Green
	case schema.StyleRed:
		return t.Red
	case schema.StyleYellow:
		return t.Yellow
	case schema.StyleCyan:
		return t.Cyan
	default:
		return t.Text
	}
}

func ansiFgRGB(c rgb) string {
	return "\x1b[38;2;" + strconv.Itoa(c.r) + ";" + strconv.Itoa(c.g) + ";" + strconv.Itoa(c.b) + "m"
}

func ansiBgRGB(c rgb) string {
	return "\x1b[48;2;" + strconv.Itoa(c.r) + ";" + strconv.Itoa(c.g) + ";" + strconv.Itoa(c.b) + "m"
}
