package engine

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed flavor.yaml
var flavorYAML []byte

var flavor = mustLoadFlavor(flavorYAML)

type flavorPools struct {
	Life    []string `yaml:"life"`
	Fortune []string `yaml:"fortune"`
}

func mustLoadFlavor(data []byte) flavorPools {
	var p flavorPools
	if err := yaml.Unmarshal(data, &p); err != nil {
		panic(err)
	}
	return p
}

const helpText = `Git commands:
  git status                 show where your life stands
  git commit -m "message"    record a life choice
  git branch [name]          list branches or start a new line of life
  git checkout <name>        switch to another branch
  git switch -c <name>       create a branch and switch to it
  git merge <name>           merge another life choice
  git rebase                 rebase your life
  git reset --hard HEAD~1    undo your last choice
  git log                    show your life history
  git push                   push your changes to life's remote

Builtins:
  clear                      clear the terminal
  echo <text>                print text
  help                       show this help
  life                       a line of life wisdom
  fortune                    today's fortune
  matrix                     enter the matrix`

func (e *Engine) pick(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	return pool[e.rand.IntN(len(pool))]
}

func (e *Engine) matrix() string {
	const rows, cols = 10, 50
	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			b.WriteByte("01"[e.rand.IntN(2)])
		}
		if r < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
