package main

import (
	"footfit/internal/common/config"
	"footfit/internal/engine"
	"footfit/internal/tui"
	"footfit/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newWizardCmd() *cobra.Command {
	var missing, recompute string
	var seed uint64

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Run the three-step wizard in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctrl, err := newTerminalController(cfg, missing, recompute, seed)
			if err != nil {
				return err
			}
			return tui.Run(ctrl, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		},
	}
	cmd.Flags().StringVar(&missing, "missing-fields", "", "reject or default (overrides wizard.missing_fields)")
	cmd.Flags().StringVar(&recompute, "recompute", "", "transition or render (overrides wizard.recompute)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (overrides engine.seed)")
	return cmd
}

// newTerminalController builds a controller for a local session. Flags win
// over the config file.
func newTerminalController(cfg *config.Config, missing, recompute string, seed uint64) (*wizard.Controller, error) {
	if missing == "" {
		missing = cfg.Wizard.MissingFields
	}
	if recompute == "" {
		recompute = cfg.Wizard.Recompute
	}
	if seed == 0 {
		seed = cfg.Engine.Seed
	}
	opts, err := wizard.ParseOptions(missing, recompute)
	if err != nil {
		return nil, err
	}
	return wizard.New(uuid.NewString(), engine.NewSeeded(seed), opts), nil
}
