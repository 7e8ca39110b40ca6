// Package cli wires configuration, logging, the engine and the narrator into
// the lifegit commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tatianab/lifegit/internal/config"
	"github.com/tatianab/lifegit/internal/engine"
	"github.com/tatianab/lifegit/internal/logging"
	"github.com/tatianab/lifegit/internal/narrator"
	"github.com/tatianab/lifegit/internal/shell"
	"github.com/tatianab/lifegit/internal/tui"
)

// app is what every command needs. Built once per invocation.
type app struct {
	rand   engine.Rand
	engine *engine.Engine
	teller *narrator.Storyteller
	logs   io.Closer
}

func newApp(ctx context.Context, cfg *config.Config, narrate bool) (*app, error) {
	logs, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	rng := engine.NewRand(cfg.Seed)
	a := &app{
		rand:   rng,
		engine: engine.New(engine.WithRules(cfg.Rules), engine.WithRand(rng)),
		logs:   logs,
	}
	if narrate {
		a.teller, err = newStoryteller(ctx, cfg, rng)
		if err != nil {
			logs.Close()
			return nil, err
		}
	}
	log.Debug().Str("narrator", cfg.Backend()).Int64("seed", cfg.Seed).Msg("game ready")
	return a, nil
}

func newStoryteller(ctx context.Context, cfg *config.Config, pick narrator.Picker) (*narrator.Storyteller, error) {
	fallback, err := narrator.NewFallback(pick)
	if err != nil {
		return nil, err
	}

	var backend narrator.Narrator
	switch cfg.Backend() {
	case config.NarratorGemini:
		g, err := narrator.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("creating gemini narrator: %w", err)
		}
		backend = g
	case config.NarratorOpenAI:
		backend = narrator.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}

	return narrator.NewStoryteller(backend, fallback, narrator.Options{
		Timeout:         cfg.NarrationTimeout,
		RPS:             cfg.NarrationRPS,
		CacheSize:       64,
		NarrateCheckout: cfg.NarrateCheckout,
	}), nil
}

func (a *app) Close() {
	if a.teller != nil {
		if err := a.teller.Close(); err != nil {
			log.Warn().Err(err).Msg("closing narrator")
		}
	}
	a.logs.Close()
}

// loadConfig is swapped in tests.
var loadConfig = config.LoadConfig

// NewRootCommand builds the lifegit command tree. Without a subcommand it plays.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "lifegit",
		Short: "A text game where git commands steer your life",
		Long: `lifegit is a terminal game. You type git commands and each one
changes the course of a simulated life: commits are choices, branches are
alternative lives, and branches named "dangerous" may not survive.

Commands:
  play      Play interactively (default)
  run       Play a script of commands
  simulate  Let a random player play`,
		SilenceUsage: true,
	}

	play := newPlayCommand()
	root.RunE = play.RunE
	root.Flags().AddFlagSet(play.Flags())

	root.AddCommand(play, newRunCommand(), newSimulateCommand())
	return root
}

// Execute runs the root command and exits on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPlayCommand() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if plain || !term.IsTerminal(int(os.Stdin.Fd())) {
				return shell.New(a.engine, a.teller, cmd.OutOrStdout()).Interactive(cmd.Context())
			}
			return tui.Run(a.engine, a.teller)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "use a plain prompt instead of the full-screen UI")
	return cmd
}
