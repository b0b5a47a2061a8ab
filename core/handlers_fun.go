package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"pkt.systems/ravenshell/internal/playback"
	"pkt.systems/ravenshell/schema"
)

const (
	pingInterval   = 600 * time.Millisecond
	pingCount      = 4
	wgetInterval   = 280 * time.Millisecond
	matrixInterval = 75 * time.Millisecond
	matrixWidth    = 60
	matrixLast     = 14
	hackDelay      = 180 * time.Millisecond
	rabbitDelay    = 150 * time.Millisecond
	fableDelay     = 160 * time.Millisecond
	slDelay        = 90 * time.Millisecond
	slTail         = 200 * time.Millisecond
)

var katakana = []rune("アイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワヲン")

func cmdPing(r *reply, args []string) {
	host := "google.com"
	if len(args) > 0 {
		host = args[0]
	}
	rng := r.env.Rand
	r.println("PING "+host, schema.StyleDefault)
	r.play(&Script{Lock: true, Steps: []Step{
		Periodic{
			Interval: pingInterval,
			Generate: func(tick int) []schema.Line {
				ms := rng.Float64()*20 + 5
				return []schema.Line{schema.L(fmt.Sprintf("64 bytes from %s: icmp_seq=%d time=%.1fms", host, tick-1, ms), schema.StyleGreen)}
			},
			Stop: playback.StopAfter(pingCount),
		},
		Emit{Lines: []schema.Line{schema.L(fmt.Sprintf("%d packets transmitted, 0%% loss", pingCount), schema.StyleGreen)}},
	}})
}

func progressBar(percent int) string {
	filled := percent / 5
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 20-filled) + "] " + fmt.Sprintf("%d%%", percent)
}

func cmdWget(r *reply, args []string) {
	url := "http://example.com"
	if len(args) > 0 {
		url = args[0]
	}
	rng := r.env.Rand
	progress := 0
	r.println("Connecting to "+url, schema.StyleDefault)
	r.play(&Script{Lock: true, Steps: []Step{
		Periodic{
			Interval: wgetInterval,
			Generate: func(int) []schema.Line {
				progress = min(progress+rng.IntN(25)+10, 100)
				return []schema.Line{schema.L(progressBar(progress), schema.StyleGreen)}
			},
			Stop: func(int) bool { return progress >= 100 },
		},
		Emit{Lines: []schema.Line{schema.L("Download complete.", schema.StyleGreen)}},
	}})
}

func cmdMatrix(r *reply, _ []string) {
	rng := r.env.Rand
	r.play(&Script{Lock: true, Steps: []Step{
		Periodic{
			Interval: matrixInterval,
			Generate: func(int) []schema.Line {
				var b strings.Builder
				for range matrixWidth {
					b.WriteRune(katakana[rng.IntN(len(katakana))])
				}
				return []schema.Line{schema.L(b.String(), schema.StyleGreen)}
			},
			Stop: playback.StopAbove(matrixLast),
		},
		Emit{Lines: []schema.Line{
			schema.Blank(),
			schema.L("The ravens have spoken.", schema.StyleGold),
			schema.Blank(),
		}},
	}})
}

func cmdHack(r *reply, _ []string) {
	r.play(&Script{Lock: true, Steps: []Step{Sequential{Delay: hackDelay, Lines: []schema.Line{
		schema.Blank(),
		schema.L("HACK THE SEVEN KINGDOMS!", schema.StyleGreen),
		schema.Blank(),
		schema.L("Accessing the Iron Throne mainframe...", schema.StyleDefault),
		schema.L("[####################] Small Council bypassed", schema.StyleYellow),
		schema.L("[####################] The Wall firewall breached", schema.StyleYellow),
		schema.L("Access granted. You know nothing.", schema.StyleGreen),
		schema.Blank(),
	}}}})
}

func cmdRickroll(r *reply, _ []string) {
	r.println("Never gonna give you up", schema.StyleYellow)
	r.println("Never gonna let you down", schema.StyleYellow)
	r.println("Never gonna run around and desert you", schema.StyleYellow)
	r.println("You have been rickrolled.", schema.StyleGold)
	r.blank()
}

func cmdCowsay(r *reply, args []string) {
	msg := strings.Join(args, " ")
	if msg == "" {
		msg = "moo"
	}
	bar := strings.Repeat("-", runewidth.StringWidth(msg)+2)
	r.println("  "+bar, schema.StyleDefault)
	r.println("< "+msg+" >", schema.StyleDefault)
	r.println("  "+bar, schema.StyleDefault)
	r.println(`        \   ^__^`, schema.StyleDefault)
	r.println(`         \  (oo)\_______`, schema.StyleDefault)
	r.println(`            (__)\       )\/\`, schema.StyleDefault)
	r.println(`                ||----w |`, schema.StyleDefault)
	r.println(`                ||     ||`, schema.StyleDefault)
}

// figletLines boxes text in spaced capitals, padded by blank lines.
func figletLines(text string) []schema.Line {
	spaced := strings.Join(strings.Split(strings.ToUpper(text), ""), " ")
	border := "  +" + strings.Repeat("=", runewidth.StringWidth(spaced)+2) + "+"
	return []schema.Line{
		schema.Blank(),
		schema.L(border, schema.StyleGold),
		schema.L("  | "+spaced+" |", schema.StyleGold),
		schema.L(border, schema.StyleGold),
		schema.Blank(),
	}
}

func cmdFiglet(r *reply, args []string) {
	msg := strings.Join(args, " ")
	if msg == "" {
		msg = siteLabel(r.env.SiteName)
	}
	r.emit(figletLines(msg)...)
}

var trainFrames = []string{
	`        ====        ________`,
	`    _D _|  |_______/        \__I_I_____`,
	`     |(_)---  |   H\________/ |   |`,
	`     /     |  |   H  |  |     |   |`,
	`    | ________|___H__|_____/[][]~\___|`,
	`    |/ |   |-----------I_____I []  \====|`,
}

func cmdSl(r *reply, _ []string) {
	frames := make([]schema.Line, 0, len(trainFrames))
	for _, f := range trainFrames {
		frames = append(frames, schema.L(f, schema.StyleYellow))
	}
	r.play(&Script{Lock: true, Steps: []Step{
		Sequential{Lines: frames, Delay: slDelay},
		Pause{Delay: slTail},
		Emit{Lines: []schema.Line{schema.L("choo choo!", schema.StyleDefault), schema.Blank()}},
	}})
}

func cmdWhiteRabbit(r *reply, _ []string) {
	r.play(&Script{Lock: true, Steps: []Step{Sequential{Delay: rabbitDelay, Lines: []schema.Line{
		schema.Blank(),
		schema.L("FOLLOW THE WHITE RABBIT", schema.StyleCyan),
		schema.L("---------------------", schema.StyleDim),
		schema.L("You stand at the edge of the rabbit hole.", schema.StyleDefault),
		schema.L("A white rabbit with a pocket watch dashes past.", schema.StyleDefault),
		schema.Blank(),
		schema.L("> You follow.", schema.StyleDefault),
		schema.L("The world tilts. You fall.", schema.StyleDefault),
		schema.Blank(),
		schema.L("You land in a strange hallway.", schema.StyleDefault),
		schema.L("A tiny door. A bottle reads: DRINK ME.", schema.StyleDefault),
		schema.L("> You drink it. You shrink.", schema.StyleDefault),
		schema.Blank(),
		schema.L("The door opens. Impossible colors.", schema.StyleDefault),
		schema.L("You wake up. Or did you?", schema.StyleCyan),
		schema.Blank(),
	}}}})
}

func cmdConsequences(r *reply, _ []string) {
	r.play(&Script{Lock: true, Steps: []Step{Sequential{Delay: fableDelay, Lines: []schema.Line{
		schema.Blank(),
		schema.L("CONSIDER THE CONSEQUENCES (1930)", schema.StyleCyan),
		schema.L("--------------------------------", schema.StyleDim),
		schema.L("[A young lord] met [a mysterious lady]", schema.StyleDefault),
		schema.L("at [the end of the Kingsroad].", schema.StyleDefault),
		schema.Blank(),
		schema.L(`He said: "I have sought you in every castle."`, schema.StyleDefault),
		schema.L(`She said: "Winter is coming."`, schema.StyleDefault),
		schema.Blank(),
		schema.L("The consequence: deployed to production on a Friday.", schema.StyleDefault),
		schema.Blank(),
		schema.L(`The realm said: "skill issue."`, schema.StyleDefault),
		schema.Blank(),
		schema.L("~ fin ~", schema.StyleCyan),
		schema.Blank(),
	}}}})
}
