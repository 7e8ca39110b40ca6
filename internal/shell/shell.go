// Package shell plays the game line by line, either interactively with line
// editing or from a script.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"

	"github.com/tatianab/lifegit/internal/command"
	"github.com/tatianab/lifegit/internal/engine"
	"github.com/tatianab/lifegit/internal/models"
	"github.com/tatianab/lifegit/internal/narrator"
)

// Session owns the repository between commands.
type Session struct {
	engine *engine.Engine
	teller *narrator.Storyteller
	repo   models.Repository
	out    io.Writer

	// Echo prints the "$ input" line. Scripts want it, a prompt does not.
	Echo bool

	errStyle    lipgloss.Style
	unlockStyle lipgloss.Style
	storyStyle  lipgloss.Style
	promptStyle lipgloss.Style
}

// New starts a session on a fresh repository. teller may be nil to skip narration.
func New(eng *engine.Engine, teller *narrator.Storyteller, out io.Writer) *Session {
	r := lipgloss.NewRenderer(out)
	return &Session{
		engine:      eng,
		teller:      teller,
		repo:        eng.NewRepository(),
		out:         out,
		errStyle:    r.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
		unlockStyle: r.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		storyStyle:  r.NewStyle().Italic(true),
		promptStyle: r.NewStyle().Foreground(lipgloss.Color("#5F87FF")).Bold(true),
	}
}

// Repository returns the current state.
func (s *Session) Repository() models.Repository { return s.repo }

// Welcome prints the log the repository starts with.
func (s *Session) Welcome() {
	s.print(s.repo.Log)
}

// Step applies one line and prints what it added to the log, narration included.
func (s *Session) Step(ctx context.Context, input string) engine.Outcome {
	before := len(s.repo.Log)
	out := s.engine.Apply(s.repo, input)
	s.repo = out.State

	if s.teller != nil && s.teller.Wants(out.Story) {
		story := strings.TrimSpace(s.teller.Tell(ctx, *out.Story))
		s.repo.AppendLog(narrator.LogPrefix+story, "")
	}

	if before > len(s.repo.Log) {
		before = 0
	}
	added := s.repo.Log[before:]
	if !s.Echo && len(added) > 0 && added[0] == "$ "+input {
		added = added[1:]
	}
	s.print(added)
	return out
}

// RunScript plays every non-blank line of r. Lines starting with # are comments.
func (s *Session) RunScript(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		n++
		out := s.Step(ctx, line)
		if out.Err != nil {
			log.Debug().Err(out.Err).Int("line", n).Msg("script command failed")
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return nil
}

// Interactive reads commands from the terminal until Ctrl+C or Ctrl+D.
// History lives for the session only.
func (s *Session) Interactive(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		var out []string
		for _, c := range command.Suggest(input, s.repo.BranchNames()) {
			out = append(out, command.Complete(input, c))
		}
		return out
	})

	s.Welcome()
	for {
		input, err := line.Prompt(s.prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		s.Step(ctx, input)
	}
}

func (s *Session) prompt() string {
	return fmt.Sprintf("[%s %d/%d] $ ", s.repo.CurrentBranch, s.repo.UnlockedCount(), engine.Target(s.repo))
}

func (s *Session) print(lines []string) {
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "$ "):
			l = s.promptStyle.Render(l)
		case strings.HasPrefix(l, narrator.LogPrefix):
			l = s.storyStyle.Render(l)
		case strings.HasPrefix(l, "error:"), strings.HasPrefix(l, "Warning:"):
			l = s.errStyle.Render(l)
		case strings.HasPrefix(l, "Achievement unlocked:"), l == models.GoalReachedLine:
			l = s.unlockStyle.Render(l)
		}
		fmt.Fprintln(s.out, l)
	}
}
