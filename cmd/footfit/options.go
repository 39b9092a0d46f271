package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"footfit/internal/models"

	"github.com/spf13/cobra"
)

type fieldOptions struct {
	Field   string   `json:"field"`
	Label   string   `json:"label"`
	Step    int      `json:"step"`
	Options []string `json:"options"`
}

func newOptionsCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the profile fields and their allowed values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOptions(cmd.OutOrStdout(), output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

func runOptions(w io.Writer, output string) error {
	list := make([]fieldOptions, 0, len(models.Fields))
	for _, f := range models.Fields {
		list = append(list, fieldOptions{
			Field:   string(f),
			Label:   f.Label(),
			Step:    int(f.Step()),
			Options: f.Options(),
		})
	}

	if output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	for _, fo := range list {
		if _, err := fmt.Fprintf(w, "step %d  %-20s %s\n", fo.Step, fo.Field, strings.Join(fo.Options, " | ")); err != nil {
			return err
		}
	}
	return nil
}
