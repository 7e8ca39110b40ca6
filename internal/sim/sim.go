// Package sim plays the game with a random player, for smoke testing rules.
package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/tatianab/lifegit/internal/engine"
	"github.com/tatianab/lifegit/internal/models"
)

var (
	messages = []string{
		"learn-go", "move-abroad", "adopt-a-cat", "quit-job", "run-a-marathon",
		"write-a-novel", "start-a-band", "go-back-to-school",
	}
	branchNames = []string{
		"career", "travel", "family", "startup", "dangerous-climb", "dangerous-stunts", "art",
	}
)

// Player picks the next command from the current state.
type Player struct {
	rand engine.Rand
}

func NewPlayer(r engine.Rand) *Player {
	return &Player{rand: r}
}

// Next returns a command that is usually, but not always, valid.
func (p *Player) Next(repo models.Repository) string {
	names := repo.BranchNames()
	switch p.rand.IntN(10) {
	case 0, 1, 2, 3:
		return fmt.Sprintf("git commit -m %s", messages[p.rand.IntN(len(messages))])
	case 4:
		return "git switch -c " + branchNames[p.rand.IntN(len(branchNames))]
	case 5:
		return "git branch " + branchNames[p.rand.IntN(len(branchNames))]
	case 6, 7:
		return "git checkout " + names[p.rand.IntN(len(names))]
	case 8:
		return "git reset --hard HEAD~1"
	default:
		return "git status"
	}
}

// Stats summarize a simulation.
type Stats struct {
	Turns    int
	Rejected int
	Deaths   int
	Unlocks  int
	Lives    int
}

// Run plays turns commands and reports each one to w.
func Run(ctx context.Context, eng *engine.Engine, player *Player, turns int, w io.Writer) (Stats, error) {
	repo := eng.NewRepository()
	var stats Stats
	for turn := 1; turn <= turns; turn++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		action := player.Next(repo)
		out := eng.Apply(repo, action)
		repo = out.State
		stats.Turns++

		fmt.Fprintf(w, "--- Turn %d ---\n", turn)
		fmt.Fprintf(w, "Player Action: %s\n", action)
		if out.Err != nil {
			stats.Rejected++
			fmt.Fprintf(w, "Rejected: %v\n", out.Err)
		}
		if out.Died != "" {
			stats.Deaths++
			fmt.Fprintf(w, "DIED: %s\n", out.Died)
		}
		for _, a := range out.Unlocked {
			stats.Unlocks++
			fmt.Fprintf(w, "UNLOCKED: %s\n", a.Title)
		}
		if out.GoalReached {
			stats.Lives++
			fmt.Fprintln(w, "Life goal reached, starting over.")
		}
		fmt.Fprintf(w, "Branch: %s, Branches: %v, Banned: %v, Goal: %d/%d\n\n",
			repo.CurrentBranch, repo.BranchNames(), repo.BannedBranches, repo.UnlockedCount(), engine.Target(repo))
	}
	fmt.Fprintf(w, "Simulation ended after %d turns: %d rejected, %d deaths, %d unlocks, %d lives completed.\n",
		stats.Turns, stats.Rejected, stats.Deaths, stats.Unlocks, stats.Lives)
	return stats, nil
}
