package command

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCommand is returned for lines outside the grammar.
var ErrInvalidCommand = errors.New("invalid command")

// Parse turns a raw line into a Command.
//
// Tokens after the command name are returned verbatim. "git switch -c <name>"
// becomes KindSwitchBranch; "git switch <name>" stays KindSwitch.
func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("%w: empty input", ErrInvalidCommand)
	}

	if parts[0] != Prefix {
		kind, ok := builtinKinds[parts[0]]
		if !ok {
			return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, parts[0])
		}
		return Command{Kind: kind, Args: parts[1:], Raw: line}, nil
	}

	if len(parts) < 2 {
		return Command{}, fmt.Errorf("%w: missing git subcommand", ErrInvalidCommand)
	}
	kind, ok := gitKinds[parts[1]]
	if !ok {
		return Command{}, fmt.Errorf("%w: git %q", ErrInvalidCommand, parts[1])
	}
	args := parts[2:]
	if kind == KindSwitch && len(args) > 0 && args[0] == "-c" {
		kind = KindSwitchBranch
	}
	return Command{Kind: kind, Args: args, Raw: line}, nil
}
