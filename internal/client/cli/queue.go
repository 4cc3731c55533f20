package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/timeline/internal/api"
	"github.com/dmitrijs2005/timeline/internal/client/client"
	"github.com/spf13/cobra"
)

// queueAction performs one queue call.
type queueAction func(c client.Client, ctx context.Context) (*api.QueueStatus, error)

func addQueue(topLevel *cobra.Command, a *App) {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Control the background mood analysis.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(queueCommand(a, "start", "Start classifying pending entries.", client.Client.StartQueue))
	cmd.AddCommand(queueCommand(a, "stop", "Stop after the current batch.", client.Client.StopQueue))
	cmd.AddCommand(queueCommand(a, "status", "Show queue progress.", client.Client.QueueStatus))

	topLevel.AddCommand(cmd)
}

func queueCommand(a *App, use, short string, action queueAction) *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			st, err := action(c, ctx)
			cancel()
			if err != nil {
				return err
			}
			printQueueStatus(cmd.OutOrStdout(), st)

			for watch && st.Processing {
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(interval):
				}

				ctx, cancel := a.withTimeout(cmd.Context())
				st, err = c.QueueStatus(ctx)
				cancel()
				if err != nil {
					return err
				}
				printQueueStatus(cmd.OutOrStdout(), st)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep printing status until the queue is idle")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "status poll interval with --watch")
	return cmd
}
