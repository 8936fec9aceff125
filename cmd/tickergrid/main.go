package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tickergrid/internal/cli"
	apperr "github.com/matzehuels/tickergrid/pkg/errors"
)

// Exit codes.
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitInterrupt = 130
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	c := cli.New(stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SilenceErrors = true
	addVerboseFlag(c, root)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupt
	case apperr.IsClientError(err):
		fmt.Fprintln(stderr, "Error:", apperr.UserMessage(err))
		return exitUsage
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return exitFailure
	}
}

// addVerboseFlag registers --verbose and applies the log level ahead of the
// root's own pre-run, which installs the log hooks.
func addVerboseFlag(c *cli.CLI, root *cobra.Command) {
	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	next := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if next != nil {
			return next(cmd, args)
		}
		return nil
	}
}
