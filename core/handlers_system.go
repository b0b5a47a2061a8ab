package core

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"pkt.systems/ravenshell/schema"
)

func cmdWhoami(r *reply, _ []string) {
	r.println(r.state.User(), schema.StyleGreen)
}

func cmdID(r *reply, _ []string) {
	r.println("uid=0("+r.state.User()+") gid=0 groups=0,999(smallfolk)", schema.StyleDefault)
}

func cmdHostname(r *reply, _ []string) {
	r.println(r.env.Hostname, schema.StyleDefault)
}

func cmdUname(r *reply, args []string) {
	if slices.Contains(args, "-a") {
		r.println("Linux "+r.env.Hostname+" 6.1.0 #1 SMP x86_64 Westeros/GNU", schema.StyleDefault)
		return
	}
	r.println("Linux", schema.StyleDefault)
}

func cmdDate(r *reply, _ []string) {
	r.println(r.env.Now().Format(time.UnixDate), schema.StyleDefault)
}

func cmdUptime(r *reply, _ []string) {
	days := r.env.Rand.IntN(99) + 1
	r.println(fmt.Sprintf("up %d days, the realm endures", days), schema.StyleDefault)
}

func cmdNeofetch(r *reply, _ []string) {
	allegiance := "none yet"
	if h, ok := schema.LookupHouse(r.state.Faction); ok {
		allegiance = h.Display
	}
	r.blank()
	r.println(`       *  *               `+r.state.User()+"@"+r.env.Hostname, schema.StyleGold)
	r.println(`    /|  |\              -----------------`, schema.StyleGold)
	r.println(`   / |  | \             OS: Westeros Linux`, schema.StyleGold)
	r.println(`  /  |  |  \            Shell: zsh 5.9`, schema.StyleGold)
	r.println(` /   |  |   \           Allegiance: `+allegiance, schema.StyleGold)
	r.println(`/____|__|____\          Vibe: immaculate`, schema.StyleGold)
	r.blank()
}

// cmdHistory lists oldest-first. The current command is already recorded.
func cmdHistory(r *reply, _ []string) {
	if len(r.state.History) == 0 {
		r.println("(no history)", schema.StyleDim)
		return
	}
	n := 1
	for i := len(r.state.History) - 1; i >= 0; i-- {
		r.println(fmt.Sprintf("  %d  %s", n, r.state.History[i]), schema.StyleDefault)
		n++
	}
}

func cmdPs(r *reply, _ []string) {
	r.println("  PID TTY      CMD\n 1337 pts/0   bash\n 9999 pts/0   "+siteLabel(r.env.SiteName)+"-term", schema.StyleDefault)
}

func cmdFree(r *reply, _ []string) {
	r.println("Mem: 64000MB total, 1337MB used, 60000MB free", schema.StyleDefault)
}

func cmdDf(r *reply, _ []string) {
	r.println("/dev/sda1  500G  133G  367G  27%  /", schema.StyleDefault)
}

func cmdIfconfig(r *reply, _ []string) {
	r.println("eth0: inet 192.168.1.100  ether de:ad:be:ef:ca:fe", schema.StyleDefault)
}

func cmdSudo(r *reply, _ []string) {
	r.println("[sudo] password for "+r.state.User()+":\nSorry, no sudo privileges.", schema.StyleRed)
}

func cmdSu(r *reply, _ []string) {
	r.println("su: Authentication failure. You are but a serf.", schema.StyleRed)
}

func cmdMan(r *reply, args []string) {
	if len(args) == 0 {
		r.println("What manual page do you want?", schema.StyleYellow)
		return
	}
	r.println("No manual entry for "+args[0], schema.StyleYellow)
}

func cmdEcho(r *reply, args []string) {
	r.println(strings.Join(args, " "), schema.StyleDefault)
}
