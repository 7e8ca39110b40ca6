package engine

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tatianab/lifegit/internal/command"
	"github.com/tatianab/lifegit/internal/models"
)

type predicate func(e *Engine, repo models.Repository, cmd command.Command) bool

// Keyed by achievement ID. Catalog entries without a predicate never unlock.
var predicates = map[string]predicate{
	"first_commit": func(_ *Engine, repo models.Repository, _ command.Command) bool {
		for _, b := range repo.Branches {
			if len(b.Commits) > 1 {
				return true
			}
		}
		return false
	},
	"branch_master": func(e *Engine, repo models.Repository, _ command.Command) bool {
		return len(repo.Branches) >= e.rules.BranchMasterThreshold
	},
	"time_traveler": func(_ *Engine, repo models.Repository, _ command.Command) bool {
		for _, line := range repo.LifeLog() {
			if strings.HasPrefix(line, ResetPhrase) {
				return true
			}
		}
		return false
	},
	"survivor": func(e *Engine, repo models.Repository, cmd command.Command) bool {
		return cmd.Kind == command.KindCommit && e.IsDangerous(repo.CurrentBranch)
	},
	"explorer": func(e *Engine, repo models.Repository, _ command.Command) bool {
		return len(VisitedBranches(repo)) >= e.rules.ExplorerThreshold
	},
}

var switchedLine = regexp.MustCompile(`^Switched to (?:a new )?branch (\S+)$`)

// VisitedBranches returns the distinct branch names switched into during the
// current life, in first-visit order.
func VisitedBranches(repo models.Repository) []string {
	seen := make(map[string]bool)
	var names []string
	for _, line := range repo.LifeLog() {
		m := switchedLine.FindStringSubmatch(line)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		names = append(names, m[1])
	}
	return names
}

// EvaluateAchievements checks locked achievements in catalog order and unlocks
// those whose condition holds. It modifies repo in place and returns the newly
// unlocked achievements.
func (e *Engine) EvaluateAchievements(repo *models.Repository, cmd command.Command) []models.Achievement {
	var unlocked []models.Achievement
	for i := range repo.Achievements {
		a := &repo.Achievements[i]
		if a.Unlocked {
			continue
		}
		check, ok := predicates[a.ID]
		if !ok || !check(e, *repo, cmd) {
			continue
		}
		a.Unlocked = true
		unlocked = append(unlocked, *a)
		repo.AppendLog("Achievement unlocked: " + a.Title + "!")
		log.Info().Str("achievement", a.ID).Msg("achievement unlocked")
	}
	return unlocked
}
