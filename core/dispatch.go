package core

import (
	"fmt"
	"strings"

	"pkt.systems/ravenshell/schema"
)

// Result is everything a single input line produces.
type Result struct {
	Command Command
	// Name is the lower-cased command token as typed, before alias normalization.
	Name string
	Args []string
	// Echo is the typed input as it appears after the prompt. Hosts emit it first.
	Echo schema.Line
	// Clear asks the host to empty the sink after the echo and before Lines.
	Clear  bool
	Lines  []schema.Line
	State  schema.State
	Script *Script
	Err    error
}

type handlerFunc func(r *reply, args []string)

// reply accumulates a handler's output over a private copy of the state.
type reply struct {
	name   string
	env    Env
	state  schema.State
	lines  []schema.Line
	clear  bool
	script *Script
}

func (r *reply) println(text string, style schema.Style) {
	r.lines = append(r.lines, schema.SplitLines(text, style)...)
}

func (r *reply) blank() {
	r.lines = append(r.lines, schema.Blank())
}

func (r *reply) emit(lines ...schema.Line) {
	r.lines = append(r.lines, lines...)
}

func (r *reply) play(script *Script) {
	r.script = script
}

var handlers map[Command]handlerFunc

func init() {
	handlers = map[Command]handlerFunc{
		CmdHelp:         cmdHelp,
		CmdHouses:       func(r *reply, _ []string) { housesLines(r) },
		CmdClear:        func(r *reply, _ []string) { r.clear = true },
		CmdAbout:        cmdAbout,
		CmdReboot:       cmdReboot,
		CmdShutdown:     cmdShutdown,
		CmdExit:         cmdExit,
		CmdHome:         cmdHome,
		CmdSwear:        cmdSwear,
		CmdWhoami:       cmdWhoami,
		CmdID:           cmdID,
		CmdHostname:     cmdHostname,
		CmdUname:        cmdUname,
		CmdDate:         cmdDate,
		CmdUptime:       cmdUptime,
		CmdPwd:          cmdPwd,
		CmdLs:           cmdLs,
		CmdCat:          cmdCat,
		CmdNeofetch:     cmdNeofetch,
		CmdHistory:      cmdHistory,
		CmdPs:           cmdPs,
		CmdFree:         cmdFree,
		CmdDf:           cmdDf,
		CmdIfconfig:     cmdIfconfig,
		CmdSudo:         cmdSudo,
		CmdSu:           cmdSu,
		CmdMan:          cmdMan,
		CmdEcho:         cmdEcho,
		CmdPing:         cmdPing,
		CmdWget:         cmdWget,
		CmdMatrix:       cmdMatrix,
		CmdHack:         cmdHack,
		CmdRickroll:     cmdRickroll,
		CmdCowsay:       cmdCowsay,
		CmdFiglet:       cmdFiglet,
		CmdSl:           cmdSl,
		CmdWhiteRabbit:  cmdWhiteRabbit,
		CmdConsequences: cmdConsequences,
		CmdTool:         cmdTool,
		CmdHedge:        cmdHedge,
	}
}

// Dispatch interprets one raw input line against a session state. It is pure:
// the input state is never mutated, timers are never started. Timed output
// is returned as a Script for the host to play.
func Dispatch(state schema.State, raw string, env Env) Result {
	env = env.withDefaults()
	st := state.Clone()
	res := Result{
		Echo: schema.L(st.Prompt(env.Hostname)+raw, schema.StyleDefault),
	}

	if st.AwaitingName {
		r := &reply{env: env, state: st}
		nameEntry(r, raw)
		return r.result(res, CmdNameEntry)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		res.State = st
		return res
	}

	st.History = append([]string{trimmed}, st.History...)
	st.HistoryCursor = -1

	fields := strings.Fields(trimmed)
	name := strings.ToLower(fields[0])
	args := fields[1:]
	res.Name = name
	res.Args = args

	cmd, ok := Lookup(name)
	if !ok {
		res.State = st
		res.Lines = []schema.Line{schema.L(fmt.Sprintf("bash: %s: command not found", name), schema.StyleRed)}
		res.Err = fmt.Errorf("%w: %s", schema.ErrUnknownCommand, name)
		return res
	}
	r := &reply{name: name, env: env, state: st}
	handlers[cmd](r, args)
	return r.result(res, cmd)
}

func (r *reply) result(res Result, cmd Command) Result {
	res.Command = cmd
	res.Lines = r.lines
	res.Clear = r.clear
	res.State = r.state
	res.Script = r.script
	return res
}
