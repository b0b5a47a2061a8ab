package core

import (
	"time"

	"pkt.systems/ravenshell/schema"
)

const (
	toolDelay       = 180 * time.Millisecond
	msfDelay        = 80 * time.Millisecond
	msfExitPause    = time.Second
	msfQuitPause    = 500 * time.Millisecond
	hedgeDelay      = 160 * time.Millisecond
	hedgeName       = "Duncan the Tall"
	hedgeEntryPause = 600 * time.Millisecond
)

func toolScene(name, site string) []schema.Line {
	label := siteLabel(site)
	switch name {
	case "nmap":
		return []schema.Line{
			schema.L("Starting Nmap 7.94", schema.StyleCyan),
			schema.L("Host is up (0.0042s latency)", schema.StyleDefault),
			schema.L("22/tcp open ssh", schema.StyleGreen),
			schema.L("80/tcp open http", schema.StyleGreen),
			schema.L("443/tcp open https", schema.StyleGreen),
			schema.L("Nmap done in 3.14s", schema.StyleGreen),
		}
	case "hashcat":
		return []schema.Line{
			schema.L("hashcat (v6.2.6) starting...", schema.StyleCyan),
			schema.L("[####################] 100%", schema.StyleYellow),
			schema.L("5f4dcc3b:password", schema.StyleGreen),
			schema.L("Session: complete", schema.StyleGreen),
		}
	case "hydra":
		return []schema.Line{
			schema.L("Hydra v9.5 starting...", schema.StyleCyan),
			schema.L("[ATTEMPT] admin/admin", schema.StyleYellow),
			schema.L("[22][ssh] login: admin  pass: password123", schema.StyleGreen),
			schema.L("1 valid password found", schema.StyleGreen),
		}
	case "john":
		return []schema.Line{
			schema.L("John the Ripper 1.9.0", schema.StyleCyan),
			schema.L("Loaded 1 hash", schema.StyleDefault),
			schema.L("password123  (hash)", schema.StyleGreen),
			schema.L("1g DONE", schema.StyleGreen),
		}
	case "nikto":
		return []schema.Line{
			schema.L("Nikto v2.1.6", schema.StyleCyan),
			schema.L("+ Server: Apache/2.4.54", schema.StyleDefault),
			schema.L("+ /admin/: found", schema.StyleYellow),
			schema.L("+ 4 items reported", schema.StyleGreen),
		}
	case "gobuster":
		return []schema.Line{
			schema.L("Gobuster v3.6", schema.StyleCyan),
			schema.L("/index.html (200)", schema.StyleGreen),
			schema.L("/admin (403)", schema.StyleYellow),
			schema.L("Finished", schema.StyleGreen),
		}
	case "sqlmap":
		return []schema.Line{
			schema.L("sqlmap v1.7.11", schema.StyleCyan),
			schema.L("Testing connection...", schema.StyleDefault),
			schema.L("GET param injectable", schema.StyleGreen),
			schema.L("Run ended", schema.StyleGreen),
		}
	case "airmon-ng":
		return []schema.Line{
			schema.L("Found wlan0", schema.StyleCyan),
			schema.L("Monitor mode enabled on wlan0mon", schema.StyleGreen),
		}
	case "airodump-ng":
		return []schema.Line{
			schema.L("Scanning...", schema.StyleCyan),
			schema.L(label+"-net  DE:AD:BE:EF:CA:FE  -30dBm", schema.StyleGreen),
		}
	case "kismet":
		return []schema.Line{
			schema.L("Kismet v2024-01", schema.StyleCyan),
			schema.L("Found: "+label+"-net", schema.StyleGreen),
			schema.L("Total: 2 networks", schema.StyleGreen),
		}
	case "msfconsole":
		return []schema.Line{
			schema.Blank(),
			schema.L("      .:okOOOkdc.", schema.StyleRed),
			schema.L("    .xOOOOOOOOOOOx.", schema.StyleRed),
			schema.L("   :OOOOOOOOOOOOOOo:", schema.StyleRed),
			schema.L("  =[ metasploit v6.3.44-dev ]", schema.StyleCyan),
			schema.L("+ -- --=[ 2376 exploits ]", schema.StyleDefault),
			schema.Blank(),
			schema.L("msf6 > ", schema.StyleGreen),
		}
	}
	return []schema.Line{
		schema.L("Running "+name+"...", schema.StyleCyan),
		schema.L("Done.", schema.StyleGreen),
	}
}

func cmdTool(r *reply, _ []string) {
	scene := toolScene(r.name, r.env.SiteName)
	if r.name != "msfconsole" {
		r.play(&Script{Lock: true, Steps: []Step{Sequential{Lines: scene, Delay: toolDelay}}})
		return
	}
	r.play(&Script{Lock: true, Steps: []Step{
		Sequential{Lines: scene, Delay: msfDelay},
		Pause{Delay: msfExitPause},
		Emit{Lines: []schema.Line{
			schema.L("msf6 > exit", schema.StyleDefault),
			schema.L("[*] Quitting Metasploit...", schema.StyleYellow),
		}},
		Pause{Delay: msfQuitPause},
	}})
}

// cmdHedge lets a visitor in without a house. The identity is only written
// once the scene has played.
func cmdHedge(r *reply, _ []string) {
	r.play(&Script{Lock: true, Steps: []Step{
		Sequential{Delay: hedgeDelay, Lines: []schema.Line{
			schema.Blank(),
			schema.L("...", schema.StyleDefault),
			schema.L("...a hedge knight approaches the gate.", schema.StyleDefault),
			schema.Blank(),
			schema.L("The gate guard squints.", schema.StyleDefault),
			schema.L(`"Name and house?"`, schema.StyleYellow),
			schema.Blank(),
			schema.L(`"Duncan. Just... Duncan."`, schema.StyleGold),
			schema.Blank(),
			schema.L("The guard shrugs and waves you through.", schema.StyleDefault),
			schema.Blank(),
			schema.L("Entering as Ser Duncan the Tall...", schema.StyleGold),
		}},
		Patch{Apply: func(st schema.State) schema.State {
			st.Faction = schema.FactionHedge
			st.Name = hedgeName
			st.AwaitingName = false
			return st
		}},
		Pause{Delay: hedgeEntryPause},
		Transition{},
	}})
}
