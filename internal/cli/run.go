package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tatianab/lifegit/internal/shell"
	"github.com/tatianab/lifegit/internal/sim"
)

func newRunCommand() *cobra.Command {
	var (
		dump    bool
		narrate bool
	)
	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Play a script of commands, one per line (stdin when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, narrate)
			if err != nil {
				return err
			}
			defer a.Close()

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				in = f
			}

			out := cmd.OutOrStdout()
			s := shell.New(a.engine, a.teller, out)
			s.Echo = true
			s.Welcome()
			if err := s.RunScript(cmd.Context(), in); err != nil {
				return err
			}
			if dump {
				fmt.Fprintln(out, "---")
				return s.Repository().WriteSnapshot(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "print the final state as YAML")
	cmd.Flags().BoolVar(&narrate, "narrate", false, "narrate commits as the game would")
	return cmd
}

func newSimulateCommand() *cobra.Command {
	var (
		turns int
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Let a random player play and report what happens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if turns < 1 {
				return fmt.Errorf("turns must be at least 1, got %d", turns)
			}
			a, err := newApp(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = sim.Run(cmd.Context(), a.engine, sim.NewPlayer(a.rand), turns, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().IntVar(&turns, "turns", 10, "number of commands to play")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 picks one")
	return cmd
}
