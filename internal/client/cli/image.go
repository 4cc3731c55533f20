package cli

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/timeline/internal/netx"
	"github.com/spf13/cobra"
)

func addImage(topLevel *cobra.Command, a *App) {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Upload and fetch entry images.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an image and print its object key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			key, err := a.uploadImage(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "url <key>",
		Short: "Print a short-lived download URL.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			url, err := c.GetImageURL(ctx, args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	})

	var output string
	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Download an image to a file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			url, err := c.GetImageURL(ctx, args[0])
			if err != nil {
				return err
			}
			data, err := netx.DownloadImage(ctx, url)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %d bytes to %s\n", len(data), output)
			return nil
		},
	}
	get.Flags().StringVarP(&output, "output", "o", "image", "destination file")
	cmd.AddCommand(get)

	topLevel.AddCommand(cmd)
}
