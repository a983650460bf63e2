package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/posture/internal/check"
	"github.com/pankaj-dahiya-devops/posture/internal/checkpacks"
	"github.com/pankaj-dahiya-devops/posture/internal/models"
	"github.com/pankaj-dahiya-devops/posture/internal/output"
)

func newChecksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checks",
		Short: "Inspect the registered checks",
	}
	cmd.AddCommand(newChecksListCmd(a))
	return cmd
}

func newChecksListCmd(a *app) *cobra.Command {
	var (
		providers []string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every registered check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provs, err := parseProviders(providers)
			if err != nil {
				return err
			}

			var metas []models.CheckMetadata
			for _, c := range checkpacks.All(nil).Discover(check.Filter{Providers: provs}) {
				metas = append(metas, c.Metadata())
			}

			w := cmd.OutOrStdout()
			switch format {
			case "json":
				if metas == nil {
					metas = []models.CheckMetadata{}
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(metas); err != nil {
					return fmt.Errorf("encode checks: %w", err)
				}
			case "table":
				output.RenderCheckList(w, metas, a.colored(w))
			default:
				return fmt.Errorf("unknown format %q; valid values: table, json", format)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&providers, "provider", nil, "Only list checks for these providers")
	cmd.Flags().StringVar(&format, "format", "table", `Output format: "table" or "json"`)
	return cmd
}
