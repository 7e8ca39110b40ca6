// Package command turns a typed line into a Command and offers completions
// for partially typed lines.
//
// The grammar is small and closed: a line is either a builtin
// (clear, echo, help, life, fortune, matrix) or "git" followed by one of
// the git verbs. Arguments are never interpreted here; they are passed
// through verbatim for the executor to validate.
package command

// Kind identifies a command. The set is closed.
type Kind int

const (
	KindStatus Kind = iota
	KindCommit
	KindBranch
	KindCheckout
	KindSwitch
	KindSwitchBranch // switch -c <name>
	KindMerge
	KindRebase
	KindReset
	KindLog
	KindPush

	KindClear
	KindEcho
	KindHelp
	KindLife
	KindFortune
	KindMatrix
)

var kindNames = [...]string{
	KindStatus:       "status",
	KindCommit:       "commit",
	KindBranch:       "branch",
	KindCheckout:     "checkout",
	KindSwitch:       "switch",
	KindSwitchBranch: "switchBranch",
	KindMerge:        "merge",
	KindRebase:       "rebase",
	KindReset:        "reset",
	KindLog:          "log",
	KindPush:         "push",
	KindClear:        "clear",
	KindEcho:         "echo",
	KindHelp:         "help",
	KindLife:         "life",
	KindFortune:      "fortune",
	KindMatrix:       "matrix",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsBuiltin reports whether k runs without the git prefix.
func (k Kind) IsBuiltin() bool {
	return k >= KindClear
}

// Prefix is the keyword every repository command starts with.
const Prefix = "git"

// GitVerbs is the git vocabulary in display order.
var GitVerbs = []string{"status", "commit", "branch", "checkout", "switch", "merge", "rebase", "reset", "log", "push"}

// Builtins lists the commands that bypass the repository.
var Builtins = []string{"clear", "echo", "help", "life", "fortune", "matrix"}

var gitKinds = map[string]Kind{
	"status":   KindStatus,
	"commit":   KindCommit,
	"branch":   KindBranch,
	"checkout": KindCheckout,
	"switch":   KindSwitch,
	"merge":    KindMerge,
	"rebase":   KindRebase,
	"reset":    KindReset,
	"log":      KindLog,
	"push":     KindPush,
}

var builtinKinds = map[string]Kind{
	"clear":   KindClear,
	"echo":    KindEcho,
	"help":    KindHelp,
	"life":    KindLife,
	"fortune": KindFortune,
	"matrix":  KindMatrix,
}

// Command is a parsed input line.
type Command struct {
	Kind Kind
	Args []string
	Raw  string
}
