// Package narrator turns commits and branch switches into short, snarky
// stories. Backends call an LLM; the Storyteller wraps a backend with a
// timeout, a rate limit, a cache and an offline fallback so that telling a
// story never fails.
package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"strings"
	"text/template"

	"github.com/tatianab/lifegit/internal/models"
)

//go:embed prompts/system.txt
var systemPrompt string

//go:embed prompts/commit.txt
var commitPrompt string

//go:embed prompts/checkout.txt
var checkoutPrompt string

var (
	commitTmpl   = template.Must(template.New("commit").Parse(commitPrompt))
	checkoutTmpl = template.Must(template.New("checkout").Parse(checkoutPrompt))
)

// LogPrefix marks a story in the game log.
const LogPrefix = "» "

var errEmptyStory = errors.New("narrator returned an empty story")

// Story is what a narrator is told about.
type Story struct {
	CurrentBranch string
	CurrentCommit models.Commit
	Branches      []models.Branch

	// Set when narrating a switch between branches.
	PreviousBranch  string
	PreviousCommits []models.Commit
}

// IsCheckout reports whether the story is about a branch switch.
func (s Story) IsCheckout() bool { return s.PreviousBranch != "" }

// Narrator produces a story. Implementations may fail; see Storyteller.
type Narrator interface {
	Narrate(ctx context.Context, s Story) (string, error)
}

// promptData is the flattened view templates render from.
type promptData struct {
	CurrentBranch    string
	Message          string
	BranchNames      string
	PreviousBranch   string
	PreviousMessages string
}

func newPromptData(s Story) promptData {
	names := make([]string, len(s.Branches))
	for i, b := range s.Branches {
		names[i] = b.Name
	}
	previous := "none"
	if len(s.PreviousCommits) > 0 {
		msgs := make([]string, len(s.PreviousCommits))
		for i, c := range s.PreviousCommits {
			msgs[i] = c.Message
		}
		previous = strings.Join(msgs, ", ")
	}
	return promptData{
		CurrentBranch:    s.CurrentBranch,
		Message:          s.CurrentCommit.Message,
		BranchNames:      strings.Join(names, ", "),
		PreviousBranch:   s.PreviousBranch,
		PreviousMessages: previous,
	}
}

// Prompt renders the user prompt for s.
func Prompt(s Story) (string, error) {
	tmpl := commitTmpl
	if s.IsCheckout() {
		tmpl = checkoutTmpl
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newPromptData(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
