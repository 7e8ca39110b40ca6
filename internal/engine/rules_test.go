package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/lifegit/internal/models"
)

func unlockedIDs(as []models.Achievement) []string {
	var ids []string
	for _, a := range as {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestDangerousBranchDies(t *testing.T) {
	e := newTestEngine(&seqRand{floats: []float64{0.1}})
	repo := play(t, e, e.NewRepository(), "git switch -c dangerous-job")

	out := e.Apply(repo, "git commit -m risky")
	require.NoError(t, out.Err)

	assert.Equal(t, "dangerous-job", out.Died)
	assert.Equal(t, "main", out.State.CurrentBranch)
	assert.Equal(t, mustBranch(t, out.State, "main").CurrentCommitID, out.State.Head)
	assert.False(t, out.State.HasBranch("dangerous-job"))
	assert.Equal(t, []string{"dangerous-job"}, out.State.BannedBranches)
	assert.Contains(t, out.State.Log, "Warning: an accident happened on branch dangerous-job!")
	assert.Contains(t, out.State.Log, "Branch dangerous-job is banned forever.")
	assert.Empty(t, out.Unlocked)

	// The story is about the commit that was made, before the accident.
	require.NotNil(t, out.Story)
	assert.Equal(t, "dangerous-job", out.Story.CurrentBranch)
	assert.Equal(t, "risky", out.Story.CurrentCommit.Message)

	again := e.Apply(out.State, "git switch -c dangerous-job")
	require.ErrorIs(t, again.Err, ErrValidation)
}

func TestDangerousBranchSurvives(t *testing.T) {
	for _, roll := range []float64{0.3, 0.5, 0.99} {
		e := newTestEngine(&seqRand{floats: []float64{roll}})
		repo := play(t, e, e.NewRepository(), "git switch -c dangerous")

		out := e.Apply(repo, "git commit -m risky")
		require.NoError(t, out.Err)
		assert.Empty(t, out.Died, "roll %v", roll)
		assert.Equal(t, "dangerous", out.State.CurrentBranch)
		assert.Equal(t, []string{"first_commit", "survivor"}, unlockedIDs(out.Unlocked))
	}
}

func TestSafeBranchesNeverRoll(t *testing.T) {
	rules := DefaultRules()
	rules.DangerMarker = "ma"
	rules.DeathChance = 1
	e := New(WithRules(rules), WithRand(&seqRand{floats: []float64{0}}))

	// main matches the marker but can never die.
	repo := play(t, e, e.NewRepository(), "git commit -m safe")
	assert.Equal(t, "main", repo.CurrentBranch)
	assert.Empty(t, repo.BannedBranches)

	out := e.Apply(play(t, e, repo, "git switch -c mango"), "git commit -m ripe")
	require.NoError(t, out.Err)
	assert.Equal(t, "mango", out.Died)

	// Non-commit commands never roll.
	out = e.Apply(play(t, e, out.State, "git switch -c mama"), "git status")
	assert.Empty(t, out.Died)
	assert.True(t, out.State.HasBranch("mama"))
}

func TestNewBranchAchievementTags(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(), "git branch very-dangerous", "git branch calm")

	assert.Equal(t, []string{"survivor"}, mustBranch(t, repo, "very-dangerous").AchievementIDs)
	assert.Empty(t, mustBranch(t, repo, "calm").AchievementIDs)
	assert.Equal(t, []string{"first_commit", "branch_master", "time_traveler", "explorer"},
		mustBranch(t, repo, "main").AchievementIDs)
}

func TestBranchMaster(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(), "git branch a")

	out := e.Apply(repo, "git branch b")
	require.NoError(t, out.Err)
	assert.Equal(t, []string{"branch_master"}, unlockedIDs(out.Unlocked))
	assert.Contains(t, out.State.Log, "Achievement unlocked: Branch Master!")

	// One-way: losing branches does not lock it again.
	out.State.Branches = out.State.Branches[:1]
	out = e.Apply(out.State, "git merge main")
	assert.Empty(t, out.Unlocked)
	assert.Equal(t, 1, out.State.UnlockedCount())
}

func TestExplorer(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(), "git switch -c a", "git checkout main", "git checkout a", "git checkout main")
	assert.Equal(t, []string{"a", "main"}, VisitedBranches(repo))
	assert.False(t, repo.Achievements[4].Unlocked)

	out := e.Apply(repo, "git switch -c b")
	require.NoError(t, out.Err)
	assert.Contains(t, unlockedIDs(out.Unlocked), "explorer")
}

func TestTimeTravelerFinishesLife(t *testing.T) {
	e := newTestEngine(nil)
	repo := play(t, e, e.NewRepository(), "git commit -m oops")
	require.Equal(t, 1, repo.UnlockedCount())
	require.Equal(t, 2, Target(repo))

	out := e.Apply(repo, "git reset --hard HEAD~1")
	require.NoError(t, out.Err)
	assert.Equal(t, []string{"time_traveler"}, unlockedIDs(out.Unlocked))
	assert.True(t, out.GoalReached)

	// A new life: fresh graph and catalog, old log kept.
	assert.Equal(t, 0, out.State.UnlockedCount())
	assert.Equal(t, []string{"main"}, out.State.BranchNames())
	assert.Len(t, out.State.Branches[0].Commits, 1)
	assert.Equal(t, []string{"", models.GoalReachedLine, ""}, lastLines(out.State, 3))
	assert.Contains(t, out.State.Log, "$ git reset --hard HEAD~1")
	assert.Equal(t, []string{""}, out.State.LifeLog())

	// Log lines from the previous life do not unlock anything.
	next := e.Apply(out.State, "git branch fresh")
	require.NoError(t, next.Err)
	assert.Empty(t, next.Unlocked)
}

func TestUnlockTarget(t *testing.T) {
	tests := []struct {
		active, banned, want int
	}{
		{active: 0, banned: 0, want: 2},
		{active: 1, banned: 0, want: 2},
		{active: 4, banned: 0, want: 4},
		{active: 5, banned: 3, want: 3},
		{active: 2, banned: 9, want: 1},
		{active: 1, banned: 30, want: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UnlockTarget(tt.active, tt.banned), "active=%d banned=%d", tt.active, tt.banned)
	}
}

func TestEvaluateGoalResetsEverything(t *testing.T) {
	e := newTestEngine(nil)
	repo := e.NewRepository()
	repo.BannedBranches = []string{"x", "y", "z"}
	repo.Achievements[3].Unlocked = true
	oldLog := append([]string(nil), repo.Log...)
	require.Equal(t, 1, Target(repo))

	require.True(t, e.EvaluateGoal(&repo))
	assert.Empty(t, repo.BannedBranches)
	assert.Equal(t, 0, repo.UnlockedCount())
	assert.Equal(t, "main", repo.CurrentBranch)
	assert.Equal(t, repo.Branches[0].CurrentCommitID, repo.Head)
	assert.Equal(t, append(oldLog, "", models.GoalReachedLine, ""), repo.Log)
}

func TestEvaluateGoalBelowTarget(t *testing.T) {
	e := newTestEngine(nil)
	repo := e.NewRepository()
	repo.Achievements[0].Unlocked = true
	before := repo.Clone()

	assert.False(t, e.EvaluateGoal(&repo))
	assert.Equal(t, before, repo)
}
