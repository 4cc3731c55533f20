package cli

import (
	"time"

	"github.com/dmitrijs2005/timeline/internal/client/config"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree around a.
func NewRootCommand(a *App) *cobra.Command {
	var (
		server  string
		token   string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:           "timeline",
		Short:         "Journal timeline on the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if server != "" {
				cfg.ServerEndpointAddr = server
			}
			if token != "" {
				cfg.AccessToken = token
			}
			if timeout > 0 {
				cfg.Timeout = timeout
			}
			a.config = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultFile+")")
	pf.StringVar(&server, "server", "", "server address, host:port")
	pf.StringVar(&token, "token", "", "access token")
	pf.DurationVar(&timeout, "timeout", 0, "per-call timeout")

	AddCommands(cmd, a)
	return cmd
}

func AddCommands(topLevel *cobra.Command, a *App) {
	addPing(topLevel, a)
	addLogin(topLevel, a)
	addAdd(topLevel, a)
	addList(topLevel, a)
	addDelete(topLevel, a)
	addImport(topLevel, a)
	addBatches(topLevel, a)
	addUndo(topLevel, a)
	addBulkDelete(topLevel, a)
	addArchive(topLevel, a)
	addMonths(topLevel, a)
	addQueue(topLevel, a)
	addImage(topLevel, a)
}
