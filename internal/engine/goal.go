package engine

import (
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/tatianab/lifegit/internal/models"
)

// UnlockTarget is the number of achievements needed to finish a life:
// two, plus one per two active branches, minus one per three deaths, at least one.
func UnlockTarget(active, banned int) int {
	return max(1, 2+active/2-banned/3)
}

// Target returns the unlock target for repo.
func Target(repo models.Repository) int {
	return UnlockTarget(len(repo.Branches), len(repo.BannedBranches))
}

// EvaluateGoal starts a new life when enough achievements are unlocked. The
// log carries over; everything else, the ban list included, starts fresh.
func (e *Engine) EvaluateGoal(repo *models.Repository) bool {
	target := Target(*repo)
	if repo.UnlockedCount() < target {
		return false
	}
	fresh := e.NewRepository()
	fresh.Log = append(slices.Clone(repo.Log), "", models.GoalReachedLine, "")
	log.Info().Int("target", target).Int("unlocked", repo.UnlockedCount()).Msg("life goal reached")
	*repo = fresh
	return true
}
