package cli

import (
	"github.com/spf13/cobra"
)

func addArchive(topLevel *cobra.Command, a *App) {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Show recently deleted entries.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			entries, err := c.ListArchive(ctx)
			if err != nil {
				return err
			}
			printArchive(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addMonths(topLevel *cobra.Command, a *App) {
	cmd := &cobra.Command{
		Use:   "months",
		Short: "Show the per-month index.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			months, err := c.ListMonths(ctx)
			if err != nil {
				return err
			}
			printMonths(cmd.OutOrStdout(), months)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
