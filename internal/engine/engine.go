// Package engine applies commands to a repository value and evaluates the
// game signals that follow: branch deaths, achievements and the life goal.
package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tatianab/lifegit/internal/command"
	"github.com/tatianab/lifegit/internal/models"
	"github.com/tatianab/lifegit/internal/narrator"
)

// InvalidFormatLine is logged for input outside the grammar.
const InvalidFormatLine = "error: invalid command format, use a git command (type help for the list)"

// Rand is the randomness the engine draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Rules tune the game.
type Rules struct {
	DangerMarker          string  `toml:"danger_marker"`
	DeathChance           float64 `toml:"death_chance"`
	BranchMasterThreshold int     `toml:"branch_master_threshold"`
	ExplorerThreshold     int     `toml:"explorer_threshold"`
}

// DefaultRules returns the standard game rules.
func DefaultRules() Rules {
	return Rules{
		DangerMarker:          "dangerous",
		DeathChance:           0.3,
		BranchMasterThreshold: 3,
		ExplorerThreshold:     3,
	}
}

type Engine struct {
	rules Rules
	rand  Rand
	now   func() time.Time
	newID func() string
}

type Option func(*Engine)

func WithRules(r Rules) Option { return func(e *Engine) { e.rules = r } }

func WithRand(r Rand) Option { return func(e *Engine) { e.rand = r } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithIDs(newID func() string) Option { return func(e *Engine) { e.newID = newID } }

func New(opts ...Option) *Engine {
	e := &Engine{
		rules: DefaultRules(),
		now:   time.Now,
		newID: NewCommitID,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rand == nil {
		e.rand = NewRand(0)
	}
	return e
}

// Rules returns the rules the engine plays by.
func (e *Engine) Rules() Rules { return e.rules }

// NewRepository returns a fresh game state.
func (e *Engine) NewRepository() models.Repository {
	return models.NewRepository(e.newID(), e.now())
}

// NewCommitID returns a time-ordered UUIDv7 in compact hex.
func NewCommitID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

// NewRand returns a PCG source. A zero seed draws one from crypto/rand.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		var b [8]byte
		if _, err := crand.Read(b[:]); err == nil {
			seed = int64(binary.LittleEndian.Uint64(b[:]))
		} else {
			seed = time.Now().UnixNano()
		}
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1^0x9e3779b97f4a7c15))
}

// Outcome is the result of one command cycle.
type Outcome struct {
	State       models.Repository
	Command     command.Command
	Err         error
	Died        string
	Unlocked    []models.Achievement
	GoalReached bool
	// Story is set after a successful commit or checkout.
	Story *narrator.Story
}

// Apply runs one full cycle for a line of input: parse, execute, risk,
// achievements, goal. repo is not modified; the new state is in the outcome.
func (e *Engine) Apply(repo models.Repository, input string) Outcome {
	if strings.TrimSpace(input) == "" {
		return Outcome{State: repo}
	}

	state := repo.Clone()
	state.AppendLog("$ " + input)

	cmd, err := command.Parse(input)
	if err != nil {
		log.Debug().Err(err).Str("input", input).Msg("parse failed")
		state.AppendLog(InvalidFormatLine, "")
		return Outcome{State: state, Err: err}
	}

	res, err := e.Execute(state, cmd)
	if err != nil {
		log.Debug().Err(err).Str("command", cmd.Kind.String()).Msg("command rejected")
		state.AppendLog("error: "+err.Error(), "")
		return Outcome{State: state, Command: cmd, Err: err}
	}

	out := Outcome{Command: cmd}
	previous := state
	if res.Changed {
		state = res.State
	}
	if res.Message != "" {
		state.AppendLog(res.Message, "")
	}
	log.Debug().Str("command", cmd.Kind.String()).Bool("changed", res.Changed).Msg("command applied")

	if !res.Changed {
		out.State = state
		return out
	}

	switch cmd.Kind {
	case command.KindCommit:
		out.Story = commitStory(state)
		out.Died = e.EvaluateRisk(&state)
	case command.KindCheckout, command.KindSwitchBranch:
		out.Story = checkoutStory(previous, state)
	}

	out.Unlocked = e.EvaluateAchievements(&state, cmd)
	out.GoalReached = e.EvaluateGoal(&state)
	out.State = state
	return out
}

func commitStory(state models.Repository) *narrator.Story {
	cur, ok := state.Current()
	if !ok {
		return nil
	}
	head, _ := cur.Head()
	return &narrator.Story{
		CurrentBranch: cur.Name,
		CurrentCommit: head,
		Branches:      models.Repository{Branches: state.Branches}.Clone().Branches,
	}
}

func checkoutStory(previous, state models.Repository) *narrator.Story {
	prev, ok := previous.Current()
	if !ok || prev.Name == state.CurrentBranch {
		return nil
	}
	cur, ok := state.Current()
	if !ok {
		return nil
	}
	head, _ := cur.Head()
	recent := prev.Clone().Commits
	if len(recent) > 3 {
		recent = recent[:3]
	}
	return &narrator.Story{
		CurrentBranch:   cur.Name,
		CurrentCommit:   head,
		Branches:        models.Repository{Branches: state.Branches}.Clone().Branches,
		PreviousBranch:  prev.Name,
		PreviousCommits: recent,
	}
}
