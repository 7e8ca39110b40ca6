package engine

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/lifegit/internal/command"
	"github.com/tatianab/lifegit/internal/models"
)

// seqRand replays fixed values. Float64 and IntN each cycle through their own list.
type seqRand struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *seqRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *seqRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.ii%len(r.ints)]
	r.ii++
	return v % n
}

func newTestEngine(r Rand) *Engine {
	n := 0
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return New(
		WithRand(r),
		WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
		WithIDs(func() string {
			n++
			return fmt.Sprintf("commit%04d", n)
		}),
	)
}

// play applies each line in order and fails on any rejected command.
func play(t *testing.T, e *Engine, repo models.Repository, lines ...string) models.Repository {
	t.Helper()
	for _, line := range lines {
		out := e.Apply(repo, line)
		require.NoError(t, out.Err, line)
		repo = out.State
	}
	return repo
}

func mustBranch(t *testing.T, repo models.Repository, name string) models.Branch {
	t.Helper()
	b, ok := repo.Branch(name)
	require.True(t, ok, "branch %s missing", name)
	return b
}

func lastLines(repo models.Repository, n int) []string {
	if len(repo.Log) < n {
		return repo.Log
	}
	return repo.Log[len(repo.Log)-n:]
}

func TestCommitOnFreshState(t *testing.T) {
	e := newTestEngine(nil)
	repo := e.NewRepository()
	rootID := repo.Head

	out := e.Apply(repo, `git commit -m "hello"`)
	require.NoError(t, out.Err)

	main := mustBranch(t, out.State, "main")
	require.Len(t, main.Commits, 2)
	assert.Equal(t, "hello", main.Commits[0].Message)
	assert.Equal(t, []string{rootID}, main.Commits[0].ParentIDs)
	assert.Equal(t, main.Commits[0].ID, main.CurrentCommitID)
	assert.Equal(t, main.Commits[0].ID, out.State.Head)
	assert.Contains(t, out.State.Log, "[main "+main.Commits[0].ShortID()+"] hello")

	require.Len(t, out.Unlocked, 1)
	assert.Equal(t, "first_commit", out.Unlocked[0].ID)
	assert.True(t, out.State.Achievements[0].Unlocked)

	require.NotNil(t, out.Story)
	assert.Equal(t, "hello", out.Story.CurrentCommit.Message)
	assert.False(t, out.Story.IsCheckout())

	// The input repository is untouched.
	assert.Len(t, repo.Branches[0].Commits, 1)
	assert.False(t, repo.Achievements[0].Unlocked)
}

func TestFailedValidationLeavesStateAlone(t *testing.T) {
	inputs := []string{
		"git commit",
		"git commit hello",
		`git commit -m ""`,
		"git checkout nowhere",
		"git checkout",
		"git switch work",
		"git switch -c",
		"git merge nowhere",
		"git reset --hard HEAD~2",
		"git reset --hard",
		"git reset --hard HEAD~1 now",
		"git reset",
		"git branch main",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			e := newTestEngine(nil)
			repo := e.NewRepository()

			out := e.Apply(repo, input)
			require.ErrorIs(t, out.Err, ErrValidation)
			assert.Equal(t, repo.Branches, out.State.Branches)
			assert.Equal(t, repo.CurrentBranch, out.State.CurrentBranch)
			assert.Equal(t, repo.Head, out.State.Head)
			assert.Equal(t, repo.Achievements, out.State.Achievements)
			assert.Equal(t, []string{"$ " + input, "error: " + out.Err.Error(), ""}, out.State.Log[len(repo.Log):])
			assert.Nil(t, out.Story)
		})
	}
}

func TestParseFailure(t *testing.T) {
	e := newTestEngine(nil)
	repo := e.NewRepository()

	out := e.Apply(repo, "git stash")
	require.ErrorIs(t, out.Err, command.ErrInvalidCommand)
	assert.Equal(t, []string{"$ git stash", InvalidFormatLine, ""}, lastLines(out.State, 3))
	assert.Equal(t, repo.Branches, out.State.Branches)
}

func TestEmptyInputIsIgnored(t *testing.T) {
	e := newTestEngine(nil)
	repo := e.NewRepository()

	out := e.Apply(repo, "   ")
	assert.NoError(t, out.Err)
	assert.Equal(t, repo.Log, out.State.Log)
}

func TestResetDropsHead(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(), "git commit -m one", "git commit -m two")
	before := mustBranch(t, repo, "main")
	require.Len(t, before.Commits, 3)

	out := e.Apply(repo, "git reset --hard HEAD~1")
	require.NoError(t, out.Err)

	after := mustBranch(t, out.State, "main")
	assert.Equal(t, before.Commits[1:], after.Commits)
	assert.Equal(t, before.Commits[1].ID, out.State.Head)
	assert.Equal(t, before.Commits[1].ID, after.CurrentCommitID)
}

func TestResetNeedsTwoCommits(t *testing.T) {
	e := newTestEngine(nil)
	repo := e.NewRepository()

	out := e.Apply(repo, "git reset --hard HEAD~1")
	require.ErrorIs(t, out.Err, ErrValidation)
	assert.Equal(t, repo.Branches, out.State.Branches)
	assert.Equal(t, repo.Head, out.State.Head)
}

func TestBranchNamesAreGloballyUnique(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(), "git branch X", "git checkout main")

	out := e.Apply(repo, "git branch X")
	require.ErrorIs(t, out.Err, ErrValidation)
	assert.Contains(t, out.Err.Error(), "already exists")
}

func TestBranchDoesNotSwitch(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(), "git branch work")

	assert.Equal(t, "main", repo.CurrentBranch)
	work := mustBranch(t, repo, "work")
	main := mustBranch(t, repo, "main")
	assert.Equal(t, main.Commits, work.Commits)
	assert.Equal(t, main.CurrentCommitID, work.CurrentCommitID)
	assert.Contains(t, work.Description, "work")
	assert.Len(t, work.Options, 3)
}

func TestBranchHistoryIsCopiedByValue(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(),
		"git commit -m shared",
		"git branch copy",
		"git commit -m only-main",
		"git checkout copy",
		"git commit -m only-copy",
	)

	main := mustBranch(t, repo, "main")
	cp := mustBranch(t, repo, "copy")
	require.Len(t, main.Commits, 3)
	require.Len(t, cp.Commits, 3)
	assert.Equal(t, "only-main", main.Commits[0].Message)
	assert.Equal(t, "only-copy", cp.Commits[0].Message)
	assert.Equal(t, "shared", main.Commits[1].Message)
	assert.Equal(t, "shared", cp.Commits[1].Message)
	assert.Equal(t, []string{main.Commits[1].ID}, cp.Commits[0].ParentIDs)
}

func TestCheckoutSyncsHead(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(), "git switch -c work", "git commit -m working", "git checkout main")

	assert.Equal(t, "main", repo.CurrentBranch)
	assert.Equal(t, mustBranch(t, repo, "main").CurrentCommitID, repo.Head)
	assert.Contains(t, repo.Log, "Switched to branch main")
}

func TestSwitchCreatesAndSwitches(t *testing.T) {
	e := newTestEngine(nil)
	out := e.Apply(e.NewRepository(), "git switch -c work")
	require.NoError(t, out.Err)

	assert.Equal(t, "work", out.State.CurrentBranch)
	assert.Equal(t, mustBranch(t, out.State, "work").CurrentCommitID, out.State.Head)
	require.NotNil(t, out.Story)
	assert.Equal(t, "main", out.Story.PreviousBranch)
	assert.Equal(t, "work", out.Story.CurrentBranch)
}

func TestSwitchWithoutCreateFlagFails(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(), "git branch work")

	out := e.Apply(repo, "git switch work")
	require.ErrorIs(t, out.Err, ErrValidation)
	assert.Equal(t, "main", out.State.CurrentBranch)
}

func TestBannedNamesCannotBeReused(t *testing.T) {
	e := newTestEngine(nil)
	repo := e.NewRepository()
	repo.BannedBranches = []string{"dangerous"}

	for _, input := range []string{"git branch dangerous", "git switch -c dangerous", "git checkout dangerous"} {
		out := e.Apply(repo, input)
		require.ErrorIs(t, out.Err, ErrValidation, input)
		assert.Contains(t, out.Err.Error(), "banned")
	}
}

func TestReadOnlyCommands(t *testing.T) {
	e := newTestEngine(&seqRand{ints: []int{1}})
	repo := play(t, e, e.NewRepository(), "git commit -m hello", "git branch work")

	tests := []struct {
		input string
		want  string
	}{
		{input: "git status", want: "On branch main\nLatest commit: hello"},
		{input: "git branch", want: "* main\n  work"},
		{input: "echo hi there", want: "hi there"},
		{input: "life", want: flavor.Life[1]},
		{input: "fortune", want: flavor.Fortune[1]},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out := e.Apply(repo, tt.input)
			require.NoError(t, out.Err)
			assert.Equal(t, []string{"$ " + tt.input, tt.want, ""}, lastLines(out.State, 3))
			assert.Equal(t, repo.Achievements, out.State.Achievements)
			assert.Nil(t, out.Story)
		})
	}
}

func TestLog(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(), "git commit -m hello")

	res, err := e.Execute(repo, command.Command{Kind: command.KindLog})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	main := mustBranch(t, repo, "main")
	want := fmt.Sprintf("commit %s\nAuthor: You <you@life.com>\nDate:   %s\n\n    hello\n",
		main.Commits[0].ShortID(), main.Commits[0].Timestamp.Format(logDateLayout))
	assert.Equal(t, want+"\n"+fmt.Sprintf("commit %s\nAuthor: You <you@life.com>\nDate:   %s\n\n    %s\n",
		main.Commits[1].ShortID(), main.Commits[1].Timestamp.Format(logDateLayout), models.RootMessage), res.Message)
}

func TestInvariantViolationsFailClosed(t *testing.T) {
	e := newTestEngine(nil)
	repo := e.NewRepository()
	repo.CurrentBranch = "ghost"

	for _, kind := range []command.Kind{command.KindLog, command.KindCommit, command.KindReset} {
		args := map[command.Kind][]string{
			command.KindCommit: {"-m", "x"},
			command.KindReset:  {"--hard", "HEAD~1"},
		}[kind]
		_, err := e.Execute(repo, command.Command{Kind: kind, Args: args})
		require.ErrorIs(t, err, ErrInvariant, kind.String())
	}

	_, err := e.Execute(models.Repository{}, command.Command{Kind: command.KindBranch})
	require.ErrorIs(t, err, ErrInvariant)
}

func TestMergeRebasePushDoNotTouchGraph(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(), "git branch work")

	for _, input := range []string{"git merge work", "git rebase", "git push"} {
		out := e.Apply(repo, input)
		require.NoError(t, out.Err, input)
		assert.Equal(t, repo.Branches, out.State.Branches, input)
		assert.Equal(t, repo.Head, out.State.Head, input)
	}

	out := e.Apply(repo, "git merge work")
	assert.Contains(t, out.State.Log, "Merging work into main...\nResolve conflicts, then commit.")
}

func TestClearEmptiesLog(t *testing.T) {
	e := newTestEngine(nil)
	out := e.Apply(e.NewRepository(), "clear")
	require.NoError(t, out.Err)
	assert.Empty(t, out.State.Log)
}

func TestMatrix(t *testing.T) {
	e := newTestEngine(&seqRand{ints: []int{0, 1, 1}})
	res, err := e.Execute(e.NewRepository(), command.Command{Kind: command.KindMatrix})
	require.NoError(t, err)

	lines := strings.Split(res.Message, "\n")
	require.Len(t, lines, 10)
	for _, line := range lines {
		assert.Len(t, line, 50)
		for _, c := range line {
			assert.Contains(t, "01", string(c))
		}
	}
	assert.Equal(t, "011011", lines[0][:6])
}

func TestNewCommitIDIsTimeOrdered(t *testing.T) {
	a := NewCommitID()
	time.Sleep(2 * time.Millisecond)
	b := NewCommitID()
	assert.Len(t, a, 32)
	assert.Less(t, a, b)
}

func TestNewRandIsDeterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
