package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tatianab/lifegit/internal/models"
)

// IsDangerous reports whether commits on the named branch can kill it.
func (e *Engine) IsDangerous(name string) bool {
	return name != models.MainBranch && e.rules.DangerMarker != "" && strings.Contains(name, e.rules.DangerMarker)
}

// EvaluateRisk rolls once for the current branch after a commit. On death the
// branch is removed and banned and the player lands back on main. It modifies
// repo in place and returns the name of the branch that died, if any.
func (e *Engine) EvaluateRisk(repo *models.Repository) string {
	name := repo.CurrentBranch
	if !e.IsDangerous(name) {
		return ""
	}
	if e.rand.Float64() >= e.rules.DeathChance {
		return ""
	}

	repo.Branches = slices.DeleteFunc(repo.Branches, func(b models.Branch) bool { return b.Name == name })
	repo.BannedBranches = append(repo.BannedBranches, name)
	repo.CurrentBranch = models.MainBranch
	if main, ok := repo.Branch(models.MainBranch); ok {
		repo.Head = main.CurrentCommitID
	}
	repo.AppendLog(
		fmt.Sprintf("Warning: an accident happened on branch %s!", name),
		"You have been sent back to your main life.",
		fmt.Sprintf("Branch %s is banned forever.", name),
		"",
	)
	log.Info().Str("branch", name).Msg("branch died")
	return name
}
