package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"footfit/internal/common/errors"
	"footfit/internal/engine"
	"footfit/internal/export"
	"footfit/internal/models"

	"github.com/spf13/cobra"
)

func newRecommendCmd() *cobra.Command {
	var (
		values = make(map[models.Field]*string, len(models.Fields))
		seed   uint64
		output string
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Compute a recommendation from the six profile answers",
		Example: `  footfit recommend --age_group 26-35 --gender Female --weight_group 50-70kg \
    --activity_level High --foot_arch_type Flat --footwear_preference Running`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw := make(map[models.Field]string, len(values))
			for f, v := range values {
				raw[f] = *v
			}
			return runRecommend(cmd.OutOrStdout(), raw, seed, output)
		},
	}

	for _, f := range models.Fields {
		values[f] = cmd.Flags().String(string(f), "", fmt.Sprintf("%s (%s)", f.Label(), strings.Join(f.Options(), ", ")))
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for brand and tip (0 = clock)")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text or json")
	return cmd
}

func runRecommend(w io.Writer, raw map[models.Field]string, seed uint64, output string) error {
	profile, err := models.ParseProfile(raw)
	if err != nil {
		return err
	}
	if missing := profile.MissingFields(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = "--" + string(f)
		}
		return errors.NewMissingFieldError(names)
	}

	rec, err := engine.NewSeeded(seed).Compute(profile)
	if err != nil {
		return err
	}

	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Profile        models.UserProfile     `json:"profile"`
			Recommendation *models.Recommendation `json:"recommendation"`
		}{profile, rec})
	case "text", "":
		_, err := io.WriteString(w, export.Text(profile, *rec))
		return err
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
