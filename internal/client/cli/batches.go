package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func addImport(topLevel *cobra.Command, a *App) {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import entries from an export file (\"-\" reads stdin).",
		Long: "Import entries from a text file of records separated by a line\n" +
			"holding only ~`~. Each record reads \"YYYY-MM-DD : content\".",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			b, err := c.ImportBatch(ctx, string(data))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries as %s\n", b.EntryCount, b.BatchID)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addBatches(topLevel *cobra.Command, a *App) {
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "List import batches.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			batches, err := c.ListBatches(ctx)
			if err != nil {
				return err
			}
			printBatches(cmd.OutOrStdout(), batches)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addUndo(topLevel *cobra.Command, a *App) {
	cmd := &cobra.Command{
		Use:   "undo <batch-id>",
		Short: "Delete every entry of an import batch, without archiving.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			n, err := c.DeleteBatch(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries of %s\n", n, args[0])
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addBulkDelete(topLevel *cobra.Command, a *App) {
	var (
		all      bool
		batchIDs []string
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "bulk-delete",
		Short: "Delete imported entries in bulk, archiving each.",
		Example: `
timeline bulk-delete --all
timeline bulk-delete --batch batch_1700000000000 --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(batchIDs) == 0 {
				return errors.New("either --all or --batch is required")
			}

			if !yes {
				answer, err := GetSimpleText(a.reader, "Type 'delete' to confirm", cmd.OutOrStdout())
				if err != nil {
					return err
				}
				if answer != "delete" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			n, err := c.BulkDelete(ctx, all, batchIDs)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entries\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "delete every imported entry")
	cmd.Flags().StringSliceVar(&batchIDs, "batch", nil, "delete entries of these batches")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	topLevel.AddCommand(cmd)
}
