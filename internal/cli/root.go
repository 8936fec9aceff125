package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tickergrid/pkg/buildinfo"
	"github.com/matzehuels/tickergrid/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Tickergrid keeps stock dashboard layouts in shape",
		Long:         `Tickergrid serves and maintains the panel layout of a stock dashboard: it merges saved layouts with the current template, repairs broken ones and persists them per session.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.installHooks()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: ~/.config/tickergrid/config.toml)")
	flags.StringVar(&c.backend, "backend", "", "state backend: file, memory, redis, mongo, sqlite, none")
	flags.StringVar(&c.session, "session", "", "session id of the workspace (default: global)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// installHooks routes layout, persistence and HTTP events to the logger.
func (c *CLI) installHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetLayoutHooks(h)
	observability.SetPersistHooks(h)
	observability.SetHTTPHooks(h)
}
