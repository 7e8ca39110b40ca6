package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tatianab/lifegit/internal/command"
	"github.com/tatianab/lifegit/internal/models"
)

// Messages whose wording other parts of the game depend on.
const (
	ResetPhrase   = "HEAD is now at"
	checkoutLine  = "Switched to branch %s"
	newBranchLine = "Switched to a new branch %s"
	logDateLayout = "Mon Jan 2 15:04:05 2006 -0700"
)

// Result is what a handler produced. State is meaningful only when Changed.
type Result struct {
	Message string
	State   models.Repository
	Changed bool
}

func unchanged(msg string) Result { return Result{Message: msg} }

func changed(msg string, state models.Repository) Result {
	return Result{Message: msg, State: state, Changed: true}
}

// Execute runs one command against repo. repo is never modified; a failed
// command returns an error and no state.
func (e *Engine) Execute(repo models.Repository, cmd command.Command) (Result, error) {
	switch cmd.Kind {
	case command.KindStatus:
		return e.status(repo)
	case command.KindCommit:
		return e.commit(repo, cmd.Args)
	case command.KindBranch:
		return e.branch(repo, cmd.Args)
	case command.KindCheckout:
		return e.checkout(repo, cmd.Args)
	case command.KindSwitch, command.KindSwitchBranch:
		return e.switchBranch(repo, cmd.Args)
	case command.KindMerge:
		return e.merge(repo, cmd.Args)
	case command.KindRebase:
		return changed("Rebasing...\nResolve conflicts, then commit.", repo.Clone()), nil
	case command.KindReset:
		return e.reset(repo, cmd.Args)
	case command.KindLog:
		return e.showLog(repo)
	case command.KindPush:
		return changed("Pushed your changes to life's remote.", repo.Clone()), nil
	case command.KindClear:
		next := repo.Clone()
		next.Log = []string{}
		return changed("", next), nil
	case command.KindEcho:
		return unchanged(strings.Join(cmd.Args, " ")), nil
	case command.KindHelp:
		return unchanged(helpText), nil
	case command.KindLife:
		return unchanged(e.pick(flavor.Life)), nil
	case command.KindFortune:
		return unchanged(e.pick(flavor.Fortune)), nil
	case command.KindMatrix:
		return unchanged(e.matrix()), nil
	}
	return Result{}, invariantf("unknown command %s", cmd.Kind)
}

func (e *Engine) status(repo models.Repository) (Result, error) {
	latest := "none"
	if cur, ok := repo.Current(); ok {
		if head, ok := cur.Head(); ok {
			latest = head.Message
		}
	}
	return unchanged(fmt.Sprintf("On branch %s\nLatest commit: %s", repo.CurrentBranch, latest)), nil
}

func (e *Engine) commit(repo models.Repository, args []string) (Result, error) {
	if len(args) < 2 || args[0] != "-m" {
		return Result{}, validationf(`usage: git commit -m "message"`)
	}
	msg := strings.TrimSuffix(strings.TrimPrefix(args[1], `"`), `"`)
	if msg == "" {
		return Result{}, validationf("aborting commit due to empty commit message")
	}

	next := repo.Clone()
	i := next.BranchIndex(next.CurrentBranch)
	if i < 0 {
		return Result{}, invariantf("current branch %s not found", repo.CurrentBranch)
	}

	c := models.Commit{
		ID:        e.newID(),
		Message:   msg,
		Timestamp: e.now(),
		ParentIDs: []string{repo.Head},
	}
	b := &next.Branches[i]
	b.Commits = append([]models.Commit{c}, b.Commits...)
	b.CurrentCommitID = c.ID
	next.Head = c.ID

	return changed(fmt.Sprintf("[%s %s] %s", b.Name, c.ShortID(), msg), next), nil
}

func (e *Engine) branch(repo models.Repository, args []string) (Result, error) {
	if len(repo.Branches) == 0 {
		return Result{}, invariantf("there are no branches")
	}
	if len(args) == 0 {
		lines := make([]string, len(repo.Branches))
		for i, b := range repo.Branches {
			if b.Name == repo.CurrentBranch {
				lines[i] = "* " + b.Name
			} else {
				lines[i] = "  " + b.Name
			}
		}
		return unchanged(strings.Join(lines, "\n")), nil
	}

	next, err := e.createBranch(repo, args[0])
	if err != nil {
		return Result{}, err
	}
	return changed("Created branch "+args[0], next), nil
}

// createBranch copies the current branch's history by value under a new name.
func (e *Engine) createBranch(repo models.Repository, name string) (models.Repository, error) {
	if repo.HasBranch(name) {
		return models.Repository{}, validationf("a branch named %s already exists", name)
	}
	if repo.IsBanned(name) {
		return models.Repository{}, validationf("branch %s is banned forever", name)
	}
	cur, ok := repo.Current()
	if !ok {
		return models.Repository{}, invariantf("current branch %s not found", repo.CurrentBranch)
	}

	nb := cur.Clone()
	nb.Name = name
	nb.Description = fmt.Sprintf("This is the %s branch, full of unknown challenges and opportunities.", name)
	nb.Options = []string{"Keep exploring", "Return to main", "Look for new opportunities"}
	nb.AchievementIDs = nil
	for _, a := range repo.Achievements {
		if a.Branch == name || (a.Branch == e.rules.DangerMarker && strings.Contains(name, e.rules.DangerMarker)) {
			nb.AchievementIDs = append(nb.AchievementIDs, a.ID)
		}
	}

	next := repo.Clone()
	next.Branches = append(next.Branches, nb)
	return next, nil
}

func (e *Engine) checkout(repo models.Repository, args []string) (Result, error) {
	if len(args) == 0 {
		return Result{}, validationf("usage: git checkout <branch>")
	}
	name := args[0]
	if repo.IsBanned(name) {
		return Result{}, validationf("branch %s is banned forever", name)
	}
	target, ok := repo.Branch(name)
	if !ok {
		return Result{}, validationf("branch %s does not exist", name)
	}

	next := repo.Clone()
	next.CurrentBranch = name
	next.Head = target.CurrentCommitID
	return changed(fmt.Sprintf(checkoutLine, name), next), nil
}

// switchBranch serves both switch forms. Without -c it always fails.
func (e *Engine) switchBranch(repo models.Repository, args []string) (Result, error) {
	if len(args) < 2 || args[0] != "-c" {
		return Result{}, validationf("usage: git switch -c <branch>")
	}
	name := args[1]
	next, err := e.createBranch(repo, name)
	if err != nil {
		return Result{}, err
	}
	nb, _ := next.Branch(name)
	next.CurrentBranch = name
	next.Head = nb.CurrentCommitID
	return changed(fmt.Sprintf(newBranchLine, name), next), nil
}

func (e *Engine) merge(repo models.Repository, args []string) (Result, error) {
	if len(args) == 0 {
		return Result{}, validationf("usage: git merge <branch>")
	}
	if !repo.HasBranch(args[0]) {
		return Result{}, validationf("branch %s does not exist", args[0])
	}
	msg := fmt.Sprintf("Merging %s into %s...\nResolve conflicts, then commit.", args[0], repo.CurrentBranch)
	return changed(msg, repo.Clone()), nil
}

func (e *Engine) reset(repo models.Repository, args []string) (Result, error) {
	if !slices.Equal(args, []string{"--hard", "HEAD~1"}) {
		return Result{}, validationf("unsupported reset arguments, use git reset --hard HEAD~1")
	}
	next := repo.Clone()
	i := next.BranchIndex(next.CurrentBranch)
	if i < 0 {
		return Result{}, invariantf("current branch %s not found", repo.CurrentBranch)
	}
	b := &next.Branches[i]
	if len(b.Commits) < 2 {
		return Result{}, validationf("cannot reset, not enough commits")
	}

	b.Commits = b.Commits[1:]
	b.CurrentCommitID = b.Commits[0].ID
	next.Head = b.CurrentCommitID
	return changed(fmt.Sprintf("%s %s %s", ResetPhrase, b.Commits[0].ShortID(), b.Commits[0].Message), next), nil
}

func (e *Engine) showLog(repo models.Repository) (Result, error) {
	cur, ok := repo.Current()
	if !ok {
		return Result{}, invariantf("current branch %s not found", repo.CurrentBranch)
	}
	entries := make([]string, len(cur.Commits))
	for i, c := range cur.Commits {
		entries[i] = fmt.Sprintf("commit %s\nAuthor: You <you@life.com>\nDate:   %s\n\n    %s\n",
			c.ShortID(), c.Timestamp.Format(logDateLayout), c.Message)
	}
	return unchanged(strings.Join(entries, "\n")), nil
}
