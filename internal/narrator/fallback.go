package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed stories.yaml
var storiesYAML []byte

// Picker chooses an index in [0, n).
type Picker interface {
	IntN(n int) int
}

// Fallback tells canned stories. It works offline and never fails on
// well-formed pools.
type Fallback struct {
	pick     Picker
	commit   []*template.Template
	checkout []*template.Template
}

type storyPools struct {
	Commit   []string `yaml:"commit"`
	Checkout []string `yaml:"checkout"`
}

// NewFallback loads the built-in story pools.
func NewFallback(pick Picker) (*Fallback, error) {
	return LoadFallback(storiesYAML, pick)
}

// LoadFallback parses story pools from YAML. Each pool needs at least one story.
func LoadFallback(data []byte, pick Picker) (*Fallback, error) {
	var pools storyPools
	if err := yaml.Unmarshal(data, &pools); err != nil {
		return nil, fmt.Errorf("parse stories: %w", err)
	}
	commit, err := parsePool("commit", pools.Commit)
	if err != nil {
		return nil, err
	}
	checkout, err := parsePool("checkout", pools.Checkout)
	if err != nil {
		return nil, err
	}
	return &Fallback{pick: pick, commit: commit, checkout: checkout}, nil
}

func parsePool(name string, stories []string) ([]*template.Template, error) {
	if len(stories) == 0 {
		return nil, fmt.Errorf("story pool %s is empty", name)
	}
	out := make([]*template.Template, len(stories))
	for i, s := range stories {
		t, err := template.New(fmt.Sprintf("%s-%d", name, i)).Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse %s story %d: %w", name, i, err)
		}
		out[i] = t
	}
	return out, nil
}

func (f *Fallback) Narrate(_ context.Context, s Story) (string, error) {
	pool := f.commit
	if s.IsCheckout() {
		pool = f.checkout
	}
	var buf bytes.Buffer
	if err := pool[f.pick.IntN(len(pool))].Execute(&buf, newPromptData(s)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
