// Command footfit serves the footwear wizard over HTTP, runs it in the
// terminal, or computes a one-off recommendation from flags.
package main

import (
	"fmt"
	"os"

	"footfit/internal/common/config"
	"footfit/internal/common/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "footfit",
		Short: "Footwear recommendation wizard",
		Long: `footfit collects six profile answers in a three-step wizard and turns
them into a footwear recommendation: brand, material specification,
justification and a care tip.

The output is a general fit guideline. It is not a medical diagnostic.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default configs/config.yaml)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(),
		newRecommendCmd(),
		newWizardCmd(),
		newOptionsCmd(),
		newRegistryCmd(),
	)
	return root
}

// loadConfig reads --config when given, the default search path otherwise.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, service string) logger.Logger {
	return logger.NewFromConfig(cfg.Logging, service)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
