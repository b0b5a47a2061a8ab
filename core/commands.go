package core

import (
	"sort"
	"strings"
)

// Command identifies a handler in the dispatch table.
type Command int

const (
	CmdUnknown Command = iota
	CmdHelp
	CmdHouses
	CmdClear
	CmdAbout
	CmdReboot
	CmdShutdown
	CmdExit
	CmdHome
	CmdSwear
	CmdNameEntry
	CmdWhoami
	CmdID
	CmdHostname
	CmdUname
	CmdDate
	CmdUptime
	CmdPwd
	CmdLs
	CmdCat
	CmdNeofetch
	CmdHistory
	CmdPs
	CmdFree
	CmdDf
	CmdIfconfig
	CmdSudo
	CmdSu
	CmdMan
	CmdEcho
	CmdPing
	CmdWget
	CmdMatrix
	CmdHack
	CmdRickroll
	CmdCowsay
	CmdFiglet
	CmdSl
	CmdWhiteRabbit
	CmdConsequences
	CmdTool
	CmdHedge
)

var commandLabels = map[Command]string{
	CmdUnknown:      "unknown",
	CmdHelp:         "help",
	CmdHouses:       "houses",
	CmdClear:        "clear",
	CmdAbout:        "about",
	CmdReboot:       "reboot",
	CmdShutdown:     "shutdown",
	CmdExit:         "exit",
	CmdHome:         "home",
	CmdSwear:        "swear-allegiance",
	CmdNameEntry:    "name-entry",
	CmdWhoami:       "whoami",
	CmdID:           "id",
	CmdHostname:     "hostname",
	CmdUname:        "uname",
	CmdDate:         "date",
	CmdUptime:       "uptime",
	CmdPwd:          "pwd",
	CmdLs:           "ls",
	CmdCat:          "cat",
	CmdNeofetch:     "neofetch",
	CmdHistory:      "history",
	CmdPs:           "ps",
	CmdFree:         "free",
	CmdDf:           "df",
	CmdIfconfig:     "ifconfig",
	CmdSudo:         "sudo",
	CmdSu:           "su",
	CmdMan:          "man",
	CmdEcho:         "echo",
	CmdPing:         "ping",
	CmdWget:         "wget",
	CmdMatrix:       "matrix",
	CmdHack:         "hack",
	CmdRickroll:     "rickroll",
	CmdCowsay:       "cowsay",
	CmdFiglet:       "figlet",
	CmdSl:           "sl",
	CmdWhiteRabbit:  "whiterabbit",
	CmdConsequences: "consequences",
	CmdTool:         "tool",
	CmdHedge:        "dunkthelunk",
}

func (c Command) String() string {
	if label, ok := commandLabels[c]; ok {
		return label
	}
	return "unknown"
}

// aliases maps alternate spellings to their canonical table key.
var aliases = map[string]string{
	"swear":   "swear-allegiance",
	"logout":  "exit",
	"cmatrix": "matrix",
	"banner":  "figlet",
}

// toolNames are the fake pentest tools sharing the scripted tool handler.
var toolNames = []string{
	"nmap", "hydra", "msfconsole", "hashcat", "john", "nikto",
	"gobuster", "sqlmap", "airmon-ng", "airodump-ng", "kismet",
}

// commandTable maps canonical names to commands. Keys are unique.
var commandTable = buildCommandTable()

func buildCommandTable() map[string]Command {
	table := map[string]Command{}
	for cmd, label := range commandLabels {
		switch cmd {
		case CmdUnknown, CmdNameEntry, CmdTool:
			continue
		}
		table[label] = cmd
	}
	for _, tool := range toolNames {
		table[tool] = CmdTool
	}
	return table
}

// hiddenCommands are dispatchable but never listed by help.
var hiddenCommands = map[string]bool{
	"dunkthelunk": true,
}

// Lookup resolves a command token, case-insensitively and through aliases.
func Lookup(name string) (Command, bool) {
	key := normalizeAlias(strings.ToLower(name))
	cmd, ok := commandTable[key]
	return cmd, ok
}

func normalizeAlias(name string) string {
	if canonical, ok := aliases[name]; ok {
		return canonical
	}
	return name
}

// Names returns every dispatchable token including aliases, sorted.
func Names() []string {
	names := make([]string, 0, len(commandTable)+len(aliases))
	for name := range commandTable {
		names = append(names, name)
	}
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// HelpNames returns the tokens documented by help: everything but hidden commands.
func HelpNames() []string {
	all := Names()
	out := all[:0]
	for _, name := range all {
		if hiddenCommands[name] {
			continue
		}
		out = append(out, name)
	}
	return out
}
