package commands

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

var errDegraded = errors.New("search engine is degraded")

func newHealthCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the search engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context(), func(ctx context.Context) error {
				if err := a.setup(ctx); err != nil {
					return err
				}
				d, err := a.open(ctx)
				if err != nil {
					return err
				}

				report := d.Health(ctx)
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
				if report["status"] != "healthy" {
					return errDegraded
				}
				return nil
			})
		},
	}
}
