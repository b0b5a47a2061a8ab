package core

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"pkt.systems/ravenshell/schema"
)

// fixture is the read-only filesystem served by ls and cat.
type fixture struct {
	home  string
	dirs  map[string][]string
	files map[string]string
}

func siteLabel(site string) string {
	label, _, _ := strings.Cut(site, ".")
	if label == "" {
		return "raven"
	}
	return label
}

func newFixture(env Env) fixture {
	home := "/home/" + siteLabel(env.SiteName)
	return fixture{
		home: home,
		dirs: map[string][]string{
			"/":                        {"home", "etc", "var", "usr", "opt", "tmp"},
			"/home":                    {path.Base(home)},
			home:                       {"projects", "notes.txt", "raven_mail"},
			home + "/projects":         {env.SiteName, "kali-config", "maester-scripts"},
			home + "/raven_mail":       {"inbox", "sent"},
			home + "/raven_mail/inbox": {"from_cersei.msg", "from_ned.msg"},
			home + "/raven_mail/sent":  {},
			"/etc":                     {"passwd", "hostname", "shadow"},
			"/var":                     {"log", "spool"},
			"/usr":                     {"bin", "local"},
			"/opt":                     {},
			"/tmp":                     {},
		},
		files: map[string]string{
			home + "/notes.txt":                        "I must not forget the words.\nWinter is coming.\nAlways.",
			"/etc/hostname":                            env.Hostname,
			home + "/raven_mail/inbox/from_cersei.msg": "When you play the game of thrones, you win or you die.",
			home + "/raven_mail/inbox/from_ned.msg":    "I found something in the crypts. Meet me at nightfall.",
		},
	}
}

func (f fixture) resolve(p string) string {
	switch {
	case p == "~":
		return f.home
	case strings.HasPrefix(p, "~/"):
		return path.Join(f.home, p[2:])
	case path.IsAbs(p):
		return path.Clean(p)
	default:
		return path.Join(f.home, p)
	}
}

func (f fixture) isDir(p string) bool {
	_, ok := f.dirs[p]
	return ok
}

// listed reports whether p appears as an entry of its parent directory.
func (f fixture) listed(p string) bool {
	for _, entry := range f.dirs[path.Dir(p)] {
		if entry == path.Base(p) {
			return true
		}
	}
	return false
}

func cmdLs(r *reply, args []string) {
	if len(args) == 0 {
		r.println("readme.txt    allegiance.txt    "+r.env.SiteName+"/", schema.StyleDefault)
		return
	}
	fs := newFixture(r.env)
	target := fs.resolve(args[0])
	if !fs.isDir(target) {
		if fs.listed(target) {
			r.println(args[0], schema.StyleDefault)
			return
		}
		r.println(fmt.Sprintf("ls: cannot access '%s': No such file or directory", args[0]), schema.StyleRed)
		return
	}
	entries := append([]string(nil), fs.dirs[target]...)
	sort.Strings(entries)
	for i, entry := range entries {
		if fs.isDir(path.Join(target, entry)) {
			entries[i] = entry + "/"
		}
	}
	if len(entries) == 0 {
		return
	}
	r.println(strings.Join(entries, "    "), schema.StyleDefault)
}

func cmdCat(r *reply, args []string) {
	if len(args) == 0 {
		r.println("cat: missing operand. Try: cat readme.txt", schema.StyleRed)
		return
	}
	switch args[0] {
	case "readme.txt":
		r.println(strings.ToUpper(r.env.SiteName)+" TERMINAL\nSwear allegiance to a house to enter.\nType \"houses\" to see all houses.", schema.StyleDefault)
		return
	case "allegiance.txt":
		if r.state.Sworn() {
			h, _ := schema.LookupHouse(r.state.Faction)
			r.println(r.state.Name+" of House "+h.Display, schema.StyleGold)
			return
		}
		r.println("Your allegiance has not yet been sworn.", schema.StyleGold)
		return
	}
	fs := newFixture(r.env)
	target := fs.resolve(args[0])
	if body, ok := fs.files[target]; ok {
		r.println(body, schema.StyleDefault)
		return
	}
	if fs.isDir(target) {
		r.println("cat: "+args[0]+": Is a directory", schema.StyleRed)
		return
	}
	if fs.listed(target) {
		r.println("cat: "+args[0]+": Permission denied", schema.StyleRed)
		return
	}
	r.println("cat: "+args[0]+": No such file", schema.StyleRed)
}

func cmdPwd(r *reply, _ []string) {
	r.println("/home/"+r.state.User(), schema.StyleDefault)
}
