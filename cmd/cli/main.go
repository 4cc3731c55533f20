package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/timeline/internal/client/cli"
	"github.com/fatih/color"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand(cli.NewApp())
	cmd.SetOut(color.Output)

	if err := cmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(color.Error, color.RedString("Error:"), err)
		stop()
		os.Exit(1)
	}

}
