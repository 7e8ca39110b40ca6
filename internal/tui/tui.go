package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/tatianab/lifegit/internal/command"
	"github.com/tatianab/lifegit/internal/engine"
	"github.com/tatianab/lifegit/internal/models"
	"github.com/tatianab/lifegit/internal/narrator"
)

type sessionState int

const (
	statePlaying sessionState = iota
	stateNarrating
)

type model struct {
	state     sessionState
	engine    *engine.Engine
	teller    *narrator.Storyteller
	repo      models.Repository
	textInput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	markdown  *glamour.TermRenderer
	width     int
	height    int

	history []string
	histPos int

	// Tab completion cycles through suggestions for base.
	base        string
	suggestions []string
	suggestPos  int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	unlockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

func NewModel(eng *engine.Engine, teller *narrator.Storyteller, repo models.Repository) model {
	ti := textinput.New()
	ti.Placeholder = "git status"
	ti.Prompt = "$ "
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = helpStyle

	return model{
		state:     statePlaying,
		engine:    eng,
		teller:    teller,
		repo:      repo,
		textInput: ti,
		spinner:   sp,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type storyMsg struct {
	text string
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyPgUp, tea.KeyPgDown:
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd

		case tea.KeyTab:
			if m.state == statePlaying {
				m.complete()
			}
			return m, nil

		case tea.KeyUp, tea.KeyDown:
			if m.state == statePlaying {
				m.walkHistory(msg.Type == tea.KeyUp)
			}
			return m, nil

		case tea.KeyEnter:
			if m.state != statePlaying {
				return m, nil
			}
			input := strings.TrimSpace(m.textInput.Value())
			m.textInput.Reset()
			m.resetCompletion()
			if input == "" {
				return m, nil
			}
			m.history = append(m.history, input)
			m.histPos = len(m.history)
			return m, m.apply(input)
		}
		m.resetCompletion()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		logWidth := int(float64(msg.Width) * 0.75)
		if m.viewport.Width == 0 {
			m.viewport = viewport.New(logWidth, msg.Height-7)
		} else {
			m.viewport.Width = logWidth
			m.viewport.Height = msg.Height - 7
		}
		m.textInput.Width = max(10, logWidth-4)
		m.markdown = newMarkdown(logWidth)
		m.refresh()
		return m, nil

	case storyMsg:
		m.state = statePlaying
		m.repo.AppendLog(narrator.LogPrefix+strings.TrimSpace(msg.text), "")
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if m.state != stateNarrating {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply runs one command cycle and starts narration when there is a story to tell.
func (m *model) apply(input string) tea.Cmd {
	out := m.engine.Apply(m.repo, input)
	m.repo = out.State
	m.refresh()

	if m.teller == nil || !m.teller.Wants(out.Story) {
		return nil
	}
	m.state = stateNarrating
	return tea.Batch(m.spinner.Tick, m.tell(*out.Story))
}

func (m model) tell(s narrator.Story) tea.Cmd {
	teller := m.teller
	return func() tea.Msg {
		return storyMsg{text: teller.Tell(context.Background(), s)}
	}
}

func (m *model) complete() {
	if m.suggestions == nil {
		m.base = m.textInput.Value()
		m.suggestions = command.Suggest(m.base, m.repo.BranchNames())
		m.suggestPos = 0
		if len(m.suggestions) == 0 {
			m.suggestions = nil
			return
		}
	} else {
		m.suggestPos = (m.suggestPos + 1) % len(m.suggestions)
	}
	m.textInput.SetValue(command.Complete(m.base, m.suggestions[m.suggestPos]))
	m.textInput.CursorEnd()
}

func (m *model) resetCompletion() {
	m.base = ""
	m.suggestions = nil
	m.suggestPos = 0
}

func (m *model) walkHistory(back bool) {
	if len(m.history) == 0 {
		return
	}
	if back {
		m.histPos = max(0, m.histPos-1)
	} else {
		m.histPos = min(len(m.history), m.histPos+1)
	}
	if m.histPos == len(m.history) {
		m.textInput.Reset()
	} else {
		m.textInput.SetValue(m.history[m.histPos])
		m.textInput.CursorEnd()
	}
	m.resetCompletion()
}

func (m *model) refresh() {
	if m.viewport.Width == 0 {
		return
	}
	m.viewport.SetContent(m.renderLog())
	m.viewport.GotoBottom()
}

func (m model) View() string {
	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderState(),
	)

	var status string
	switch {
	case m.state == stateNarrating:
		status = m.spinner.View() + helpStyle.Render(" the narrator is thinking...")
	case len(m.suggestions) > 0:
		status = helpStyle.Render("Tab: " + strings.Join(m.suggestions, "  "))
	default:
		status = helpStyle.Render("Type help for commands. Tab completes, Up/Down walk history, Esc quits.")
	}

	return "\n" + lipgloss.JoinVertical(lipgloss.Left,
		mainView,
		"\n"+m.textInput.View(),
		"\n"+status,
	) + "\n"
}

func (m model) renderState() string {
	repo := m.repo

	branch := titleStyle.Render("BRANCH") + "\n" + repo.CurrentBranch + "\n\n"

	goal := titleStyle.Render("LIFE GOAL") + "\n" +
		fmt.Sprintf("%d / %d achievements\n\n", repo.UnlockedCount(), engine.Target(repo))

	achievements := titleStyle.Render("ACHIEVEMENTS") + "\n"
	for _, a := range repo.Achievements {
		mark := "[ ]"
		if a.Unlocked {
			mark = "[x]"
		}
		achievements += fmt.Sprintf("%s %s\n", mark, a.Title)
	}
	achievements += "\n"

	branches := titleStyle.Render("BRANCHES") + "\n"
	for _, name := range repo.BranchNames() {
		branches += "- " + name + "\n"
	}
	branches += "\n"

	banned := titleStyle.Render("BANNED") + "\n"
	if len(repo.BannedBranches) == 0 {
		banned += "(none)"
	} else {
		for _, name := range repo.BannedBranches {
			banned += "- " + name + "\n"
		}
	}

	content := branch + goal + achievements + branches + banned

	stateWidth := int(float64(m.width) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

func (m model) renderLog() string {
	width := m.viewport.Width
	var b strings.Builder
	for _, line := range m.repo.Log {
		switch {
		case strings.HasPrefix(line, "$ "):
			b.WriteString(userStyle.Width(width).Render(line))
		case strings.HasPrefix(line, narrator.LogPrefix):
			b.WriteString(m.renderStory(strings.TrimPrefix(line, narrator.LogPrefix), width))
		case strings.HasPrefix(line, "error:"), strings.HasPrefix(line, "Warning:"):
			b.WriteString(errorStyle.Width(width).Render(line))
		case strings.HasPrefix(line, "Achievement unlocked:"), line == models.GoalReachedLine:
			b.WriteString(unlockStyle.Width(width).Render(line))
		default:
			b.WriteString(gameStyle.Width(width).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m model) renderStory(text string, width int) string {
	if m.markdown != nil {
		out, err := m.markdown.Render(text)
		if err == nil {
			return strings.Trim(out, "\n")
		}
		log.Debug().Err(err).Msg("render story markdown")
	}
	return gameStyle.Italic(true).Width(width).Render(text)
}

func newMarkdown(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, width-4)),
	)
	if err != nil {
		log.Warn().Err(err).Msg("markdown renderer")
		return nil
	}
	return r
}

// Run plays the game in a full-screen terminal UI.
func Run(eng *engine.Engine, teller *narrator.Storyteller) error {
	p := tea.NewProgram(NewModel(eng, teller, eng.NewRepository()), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
