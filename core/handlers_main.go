package core

import (
	"fmt"
	"strings"
	"time"

	"pkt.systems/ravenshell/schema"
)

const (
	nameCommitDelay = 900 * time.Millisecond
	returnDelay     = 600 * time.Millisecond
	rebootDelay     = 900 * time.Millisecond
	shutdownDelay   = 1700 * time.Millisecond
	bootLineDelay   = 48 * time.Millisecond
)

type helpEntry struct {
	names string
	desc  string
}

type helpGroup struct {
	title   string
	entries []helpEntry
}

var helpGroups = []helpGroup{
	{title: "[MAIN]", entries: []helpEntry{
		{names: "swear-allegiance / swear <house>", desc: "enter the site"},
		{names: "houses", desc: "list the Great Houses"},
		{names: "home / exit / logout", desc: "go to site"},
		{names: "help / about", desc: "this screen, the site"},
		{names: "clear / reboot / shutdown"},
	}},
	{title: "[SYSTEM]", entries: []helpEntry{
		{names: "whoami / id / hostname / uname / date / uptime"},
		{names: "pwd / ls / cat / ps / free / df / neofetch / history"},
		{names: "sudo / su / man / echo"},
	}},
	{title: "[NETWORK]", entries: []helpEntry{
		{names: "ping / wget / ifconfig"},
	}},
	{title: "[HACKING TOOLS]", entries: []helpEntry{
		{names: "nmap / msfconsole / hydra / hashcat / john"},
		{names: "nikto / gobuster / sqlmap / airmon-ng / airodump-ng / kismet"},
	}},
	{title: "[FUN]", entries: []helpEntry{
		{names: "cowsay / figlet / banner / matrix / cmatrix / sl / hack / rickroll"},
		{names: "whiterabbit / consequences"},
	}},
}

func cmdHelp(r *reply, _ []string) {
	r.blank()
	r.println(strings.ToUpper(r.env.SiteName)+" TERMINAL", schema.StyleGold)
	r.println(strings.Repeat("-", 41), schema.StyleDim)
	for _, group := range helpGroups {
		r.println(group.title, schema.StyleYellow)
		for _, entry := range group.entries {
			if entry.desc == "" {
				r.println("  "+entry.names, schema.StyleDefault)
				continue
			}
			r.println(fmt.Sprintf("  %-32s -- %s", entry.names, entry.desc), schema.StyleDefault)
		}
	}
	r.blank()
}

func housesLines(r *reply) {
	r.blank()
	r.println("The Great Houses of Westeros:", schema.StyleGold)
	for _, h := range schema.Houses() {
		r.println(fmt.Sprintf("  %-12s-- %s", h.Key, h.Words), schema.StyleDefault)
	}
	r.blank()
	r.println("Usage: swear-allegiance <house>", schema.StyleDim)
	r.blank()
}

func cmdAbout(r *reply, _ []string) {
	const inner = 30
	label := r.env.SiteName + "  //  v2.0"
	pad := inner - len(label)
	if pad < 0 {
		pad = 0
	}
	left := pad / 2
	border := "  +" + strings.Repeat("=", inner) + "+"
	r.blank()
	r.println(border, schema.StyleGold)
	r.println("  |"+strings.Repeat(" ", left)+label+strings.Repeat(" ", pad-left)+"|", schema.StyleGold)
	r.println(border, schema.StyleGold)
	r.println("  Site    : "+r.env.SiteName, schema.StyleDefault)
	r.println("  Status  : online", schema.StyleGreen)
	r.println("  Theme   : Game of Thrones", schema.StyleDefault)
	r.blank()
}

func cmdReboot(r *reply, _ []string) {
	r.println("Rebooting...", schema.StyleYellow)
	r.play(&Script{Steps: []Step{
		Pause{Delay: rebootDelay},
		Clear{},
		bootStep(r.state, r.env),
	}})
}

func cmdShutdown(r *reply, _ []string) {
	r.println("Shutting down...", schema.StyleYellow)
	r.play(&Script{Lock: true, Steps: []Step{
		Pause{Delay: shutdownDelay},
		Clear{},
	}})
}

func returnToSite(r *reply) {
	h, _ := schema.LookupHouse(r.state.Faction)
	r.println(fmt.Sprintf("Returning to %s of House %s...", r.state.Name, h.Display), schema.StyleGold)
	r.play(&Script{Steps: []Step{Pause{Delay: returnDelay}, Transition{}}})
}

func cmdHome(r *reply, _ []string) {
	if r.state.Sworn() {
		returnToSite(r)
		return
	}
	r.println("You must first swear allegiance to a house.", schema.StyleGold)
	r.println("Type: swear-allegiance <house>", schema.StyleDefault)
	r.println("e.g.: swear-allegiance targaryen", schema.StyleDim)
}

func cmdExit(r *reply, _ []string) {
	if r.state.Sworn() {
		returnToSite(r)
		return
	}
	r.println("You cannot leave until you swear allegiance.", schema.StyleGold)
	housesLines(r)
}

func cmdSwear(r *reply, args []string) {
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	faction := schema.ParseFaction(arg)
	if faction == schema.FactionHedge {
		r.println("That is not a house. Try a different approach...", schema.StyleYellow)
		return
	}
	if faction == schema.FactionNone {
		r.println("Usage: swear-allegiance <house>", schema.StyleGold)
		housesLines(r)
		return
	}
	if !faction.Swearable() {
		r.println(fmt.Sprintf("%q is not a known house.", arg), schema.StyleRed)
		housesLines(r)
		return
	}
	h, _ := schema.LookupHouse(faction)
	r.state.Faction = faction
	r.state.AwaitingName = true
	r.blank()
	r.println("You wish to swear allegiance to House "+h.Display+"?", schema.StyleGold)
	r.println(h.Words, schema.StyleDefault)
	r.blank()
	r.println("State your given name:", schema.StyleGold)
}

func nameEntry(r *reply, raw string) {
	name := strings.TrimSpace(raw)
	if name == "" {
		r.println("You must declare your name, serf.", schema.StyleGold)
		r.println("Enter your given name:", schema.StyleDefault)
		return
	}
	h, _ := schema.LookupHouse(r.state.Faction)
	r.state.AwaitingName = false
	r.state.Name = name
	r.blank()
	r.println("So be it.", schema.StyleGold)
	r.blank()
	r.println(name+" of House "+h.Display+"...", schema.StyleGold)
	r.println(h.Words, schema.StyleDefault)
	r.blank()
	r.println("Opening the gates of "+r.env.SiteName+"...", schema.StyleDefault)
	r.play(&Script{Steps: []Step{Pause{Delay: nameCommitDelay}, Transition{}}})
}

// siteLogo is drawn for the default site. Other sites get a figlet banner.
var siteLogo = []string{
	`  _    _  _  _  ___  _  _  _  ___  _  _ __    ___`,
	` | |  | || || ||   || |  | || ||   || \| | \ \  _/`,
	` | |__| || || || O || |__| || || O ||  ` + "`" + ` |  \ \ |_ `,
	` |____|_||_||_||___||____||_||_||___||_|\_|___\/___/`,
	``,
	`   ___  ___  __   _   _  _  _`,
	`  |  _||_  ||  | | | | || \| |`,
	`  |_|_| _| ||__| |_| |_||_|\_|`,
}

func siteBanner(site string) []schema.Line {
	if site != schema.DefaultSiteName {
		return figletLines(site)
	}
	lines := []schema.Line{schema.Blank()}
	for _, text := range siteLogo {
		if text == "" {
			lines = append(lines, schema.Blank())
			continue
		}
		lines = append(lines, schema.L(text, schema.StyleGold))
	}
	return lines
}

// BootLines renders the boot banner for the state, welcome-back variant
// included when the identity is already sworn.
func BootLines(st schema.State, env Env) []schema.Line {
	env = env.withDefaults()
	start := "[ OK ] Starting serf terminal..."
	if st.Sworn() {
		start = "[ OK ] Starting " + st.User() + " terminal..."
	}
	lines := []schema.Line{
		schema.L("Linux "+env.Hostname+" 6.1.0 #1 SMP PREEMPT_DYNAMIC", schema.StyleGreen),
		schema.Blank(),
		schema.L(start, schema.StyleDefault),
		schema.L("[ OK ] Loading the Maester records...", schema.StyleDefault),
		schema.L("[ OK ] Consulting the ravens...", schema.StyleDefault),
	}
	lines = append(lines, siteBanner(env.SiteName)...)
	if st.Sworn() {
		h, _ := schema.LookupHouse(st.Faction)
		return append(lines,
			schema.L("  Welcome back, "+st.Name+" of House "+h.Display+".", schema.StyleGold),
			schema.L("  "+h.Words, schema.StyleDefault),
			schema.L(`  Type "home" to return to the site.`, schema.StyleDefault),
			schema.Blank(),
		)
	}
	return append(lines,
		schema.L("  You are a serf at the gates of "+env.SiteName+".", schema.StyleDefault),
		schema.L(`  Swear allegiance to enter. Type "help" for commands.`, schema.StyleDefault),
		schema.L(`  Type "houses" to see the Great Houses.`, schema.StyleDefault),
		schema.Blank(),
	)
}

func bootStep(st schema.State, env Env) Sequential {
	return Sequential{Lines: BootLines(st, env), Delay: bootLineDelay}
}

// BootScript plays the boot sequence. Hosts start it when a terminal opens
// on an empty sink.
func BootScript(st schema.State, env Env) *Script {
	return &Script{Steps: []Step{bootStep(st, env)}}
}
