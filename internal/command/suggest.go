package command

import (
	"strings"
	"unicode"
)

// Suggest returns candidates for the token being typed at the end of input.
//
// Command names come first: "git" and the builtins for the first token, the
// git verbs for the second. After a verb, the fixed flag tokens are offered
// (-m, -c, --hard then HEAD~1), and branch names for checkout and merge.
// A candidate equal to the partial token is not repeated.
func Suggest(input string, branches []string) []string {
	parts := strings.Fields(input)
	trailing := input != "" && unicode.IsSpace(rune(input[len(input)-1]))

	if len(parts) == 0 {
		return append([]string{Prefix}, Builtins...)
	}

	if len(parts) == 1 && !trailing {
		if parts[0] == Prefix {
			return append([]string(nil), GitVerbs...)
		}
		return filterPrefix(append([]string{Prefix}, Builtins...), parts[0])
	}

	if parts[0] != Prefix {
		return nil
	}

	if len(parts) == 1 {
		return append([]string(nil), GitVerbs...)
	}
	if len(parts) == 2 && !trailing {
		return filterPrefix(GitVerbs, parts[1])
	}

	done := parts[2:]
	partial := ""
	if !trailing {
		partial = done[len(done)-1]
		done = done[:len(done)-1]
	}
	return filterPrefix(argCandidates(parts[1], done, branches), partial)
}

func argCandidates(verb string, done, branches []string) []string {
	switch verb {
	case "commit":
		if len(done) == 0 {
			return []string{"-m"}
		}
	case "switch":
		if len(done) == 0 {
			return []string{"-c"}
		}
	case "reset":
		if len(done) == 0 {
			return []string{"--hard"}
		}
		if len(done) == 1 && done[0] == "--hard" {
			return []string{"HEAD~1"}
		}
	case "checkout", "merge":
		if len(done) == 0 {
			return branches
		}
	}
	return nil
}

func filterPrefix(candidates []string, partial string) []string {
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, partial) && c != partial {
			out = append(out, c)
		}
	}
	return out
}

// Complete replaces the token being typed with suggestion and leaves the
// cursor after a space, ready for the next token. A bare "git" is kept,
// since its suggestions are verbs rather than replacements.
func Complete(input, suggestion string) string {
	if input == "" || unicode.IsSpace(rune(input[len(input)-1])) {
		return input + suggestion + " "
	}
	if strings.TrimSpace(input) == Prefix {
		return input + " " + suggestion + " "
	}
	i := strings.LastIndexFunc(input, unicode.IsSpace)
	return input[:i+1] + suggestion + " "
}
