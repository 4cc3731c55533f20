package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/timeline/internal/api"
	"github.com/dmitrijs2005/timeline/internal/netx"
	"github.com/spf13/cobra"
)

func addPing(topLevel *cobra.Command, a *App) {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			if err := c.Ping(ctx); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addLogin(topLevel *cobra.Command, a *App) {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an access token in the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := GetSecret("Access token", cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if token == "" {
				return errors.New("empty token")
			}

			a.config.AccessToken = token
			if err := a.config.Save(a.configPath); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Token saved.")
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

// parseDate accepts YYYY-MM-DD, read as local noon, or an RFC 3339 stamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t.Add(12 * time.Hour), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// uploadImage sends the file at path to object storage and returns its key.
func (a *App) uploadImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) > netx.MaxImageSize {
		return "", fmt.Errorf("%s is larger than %d bytes", path, netx.MaxImageSize)
	}

	c, err := a.client()
	if err != nil {
		return "", err
	}
	key, url, err := c.CreateImageUpload(ctx)
	if err != nil {
		return "", err
	}
	if err := netx.UploadImage(ctx, url, "", data); err != nil {
		return "", err
	}
	return key, nil
}

func addAdd(topLevel *cobra.Command, a *App) {
	var (
		date  string
		image string
	)

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add a journal entry.",
		Example: `
timeline add "Walked along the river"
timeline add --date 2024-03-10 --image river.jpg
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if text == "" {
				var err error
				text, err = GetMultiline(a.reader, "Entry text", cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}

			var createdAt *time.Time
			if date != "" {
				t, err := parseDate(date)
				if err != nil {
					return err
				}
				createdAt = &t
			}

			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			var imageRef string
			if image != "" {
				var err error
				if imageRef, err = a.uploadImage(ctx, image); err != nil {
					return err
				}
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			e, err := c.AddEntry(ctx, text, createdAt, imageRef)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", e.ID, e.DayKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date, YYYY-MM-DD or RFC 3339 (default now)")
	cmd.Flags().StringVar(&image, "image", "", "image file to attach")
	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command, a *App) {
	var (
		month string
		full  bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, newest first.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx, cancel := a.withTimeout(cmd.Context())
			defer cancel()

			entries, err := c.ListEntries(ctx)
			if err != nil {
				return err
			}
			if month != "" {
				entries = filterMonth(entries, month)
			}
			printEntries(cmd.OutOrStdout(), entries, full)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "only entries of this month, YYYY-MM")
	cmd.Flags().BoolVar(&full, "full", false, "show full text instead of the excerpt")
	topLevel.AddCommand(cmd)
}

func filterMonth(entries []api.Entry, month string) []api.Entry {
	out := make([]api.Entry, 0, len(entries))
	for _, e := range entries {
		if e.MonthKey == month {
			out = append(out, e)
		}
	}
	return out
}

func addDelete(topLevel *cobra.Command, a *App) {
	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete entries. Deleted entries are kept in the archive.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			for _, id := range args {
				ctx, cancel := a.withTimeout(cmd.Context())
				err := c.DeleteEntry(ctx, id)
				cancel()
				if err != nil {
					return fmt.Errorf("delete %s: %w", id, err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			}
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
