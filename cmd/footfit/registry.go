package main

import (
	"fmt"

	"footfit/pkg/registry"

	"github.com/spf13/cobra"
)

func newRegistryCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect the activity registry used by the worker manager",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "registry file (default registry_path from config)")

	resolve := func() (string, error) {
		if path != "" {
			return path, nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return "", err
		}
		return cfg.RegistryPath, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the registry for missing fields, bad IDs and duplicates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := resolve()
			if err != nil {
				return err
			}
			reg, err := registry.LoadRegistry(p)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return fmt.Errorf("registry validation failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d activities.\n", len(reg.Activities))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered task types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := resolve()
			if err != nil {
				return err
			}
			reg, err := registry.LoadRegistry(p)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			for _, a := range reg.Activities {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %-32s %s\n", a.TaskType, a.ID, a.ImplementationStatus)
			}
			return nil
		},
	})
	return cmd
}
