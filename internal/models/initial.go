package models

import (
	_ "embed"
	"fmt"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed achievements.yaml
var achievementsYAML []byte

// RootMessage is the message of the root commit on a fresh main branch.
const RootMessage = "Life begins"

// GoalReachedLine marks a goal reset in the log.
const GoalReachedLine = "Congratulations, you reached every life goal! Starting a new life."

var welcome = []string{
	"Welcome to Life Git!",
	"",
	"A text game where git commands steer your life.",
	"Every command shapes where you end up: new branches, new endings.",
	"",
	"Type help to list the commands, or start with git status.",
	"",
}

var catalog = mustLoadAchievements(achievementsYAML)

func mustLoadAchievements(data []byte) []Achievement {
	achievements, err := LoadAchievements(data)
	if err != nil {
		panic(err)
	}
	return achievements
}

// LoadAchievements parses an achievement catalog. Every entry starts locked.
func LoadAchievements(data []byte) ([]Achievement, error) {
	var achievements []Achievement
	if err := yaml.Unmarshal(data, &achievements); err != nil {
		return nil, fmt.Errorf("parse achievements: %w", err)
	}
	seen := make(map[string]bool, len(achievements))
	for i := range achievements {
		id := achievements[i].ID
		if id == "" {
			return nil, fmt.Errorf("achievement %d has no id", i)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate achievement %q", id)
		}
		seen[id] = true
		achievements[i].Unlocked = false
	}
	return achievements, nil
}

// DefaultAchievements returns a fresh, fully locked copy of the built-in catalog.
func DefaultAchievements() []Achievement {
	return slices.Clone(catalog)
}

// NewRepository builds the initial game state around a root commit.
func NewRepository(rootID string, at time.Time) Repository {
	root := Commit{
		ID:        rootID,
		Message:   RootMessage,
		Timestamp: at,
		ParentIDs: []string{},
	}
	achievements := DefaultAchievements()
	var mainTags []string
	for _, a := range achievements {
		if a.Branch == MainBranch {
			mainTags = append(mainTags, a.ID)
		}
	}
	return Repository{
		Branches: []Branch{{
			Name:            MainBranch,
			CurrentCommitID: root.ID,
			Commits:         []Commit{root},
			Description:     "Your main line of life, full of possibilities.",
			Options:         []string{"Learn a new skill", "Start a new job", "Build a new relationship"},
			AchievementIDs:  mainTags,
		}},
		CurrentBranch:  MainBranch,
		Head:           root.ID,
		Log:            slices.Clone(welcome),
		BannedBranches: []string{},
		Achievements:   achievements,
	}
}
