package models

import (
	"slices"
	"time"
)

// MainBranch is the branch every repository starts on and falls back to.
const MainBranch = "main"

// Commit is a single recorded life choice.
type Commit struct {
	ID        string    `yaml:"id"`
	Message   string    `yaml:"message"`
	Timestamp time.Time `yaml:"timestamp"`
	ParentIDs []string  `yaml:"parent_ids"` // empty only for the root commit
}

// ShortID returns the seven character form shown in logs.
// Commit IDs are time-ordered, so the tail carries the entropy.
func (c Commit) ShortID() string {
	if len(c.ID) <= 7 {
		return c.ID
	}
	return c.ID[len(c.ID)-7:]
}

// Branch is a named line of life with its own copy of history.
type Branch struct {
	Name            string   `yaml:"name"`
	CurrentCommitID string   `yaml:"current_commit_id"`
	Commits         []Commit `yaml:"commits"` // newest first
	Description     string   `yaml:"description"`
	Options         []string `yaml:"options"`
	AchievementIDs  []string `yaml:"achievement_ids,omitempty"`
}

// Head returns the newest commit on the branch.
func (b Branch) Head() (Commit, bool) {
	if len(b.Commits) == 0 {
		return Commit{}, false
	}
	return b.Commits[0], true
}

// Clone returns a copy of b that shares no slices with it.
func (b Branch) Clone() Branch {
	c := b
	c.Commits = make([]Commit, len(b.Commits))
	for i, commit := range b.Commits {
		commit.ParentIDs = slices.Clone(commit.ParentIDs)
		c.Commits[i] = commit
	}
	c.Options = slices.Clone(b.Options)
	c.AchievementIDs = slices.Clone(b.AchievementIDs)
	return c
}

// Achievement is a one-way unlockable goal.
type Achievement struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Branch      string `yaml:"branch"`
	Unlocked    bool   `yaml:"unlocked"`
}

// Repository is the whole game state.
type Repository struct {
	Branches       []Branch      `yaml:"branches"`
	CurrentBranch  string        `yaml:"current_branch"`
	Head           string        `yaml:"head"`
	Log            []string      `yaml:"log"`
	BannedBranches []string      `yaml:"banned_branches"`
	Achievements   []Achievement `yaml:"achievements"`
}

// Clone returns a deep copy of r.
func (r Repository) Clone() Repository {
	c := r
	c.Branches = make([]Branch, len(r.Branches))
	for i, b := range r.Branches {
		c.Branches[i] = b.Clone()
	}
	c.Log = slices.Clone(r.Log)
	c.BannedBranches = slices.Clone(r.BannedBranches)
	c.Achievements = slices.Clone(r.Achievements)
	return c
}

// BranchIndex returns the position of the named branch, or -1.
func (r Repository) BranchIndex(name string) int {
	return slices.IndexFunc(r.Branches, func(b Branch) bool { return b.Name == name })
}

// Branch looks up a branch by name.
func (r Repository) Branch(name string) (Branch, bool) {
	i := r.BranchIndex(name)
	if i < 0 {
		return Branch{}, false
	}
	return r.Branches[i], true
}

// Current returns the branch named by CurrentBranch.
func (r Repository) Current() (Branch, bool) {
	return r.Branch(r.CurrentBranch)
}

func (r Repository) HasBranch(name string) bool {
	return r.BranchIndex(name) >= 0
}

func (r Repository) IsBanned(name string) bool {
	return slices.Contains(r.BannedBranches, name)
}

// BranchNames lists active branch names in creation order.
func (r Repository) BranchNames() []string {
	names := make([]string, len(r.Branches))
	for i, b := range r.Branches {
		names[i] = b.Name
	}
	return names
}

// UnlockedCount counts unlocked achievements.
func (r Repository) UnlockedCount() int {
	n := 0
	for _, a := range r.Achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// AppendLog adds display lines to the log.
func (r *Repository) AppendLog(lines ...string) {
	r.Log = append(r.Log, lines...)
}

// LifeLog returns the log lines written since the last goal reset.
func (r Repository) LifeLog() []string {
	for i := len(r.Log) - 1; i >= 0; i-- {
		if r.Log[i] == GoalReachedLine {
			return r.Log[i+1:]
		}
	}
	return r.Log
}
