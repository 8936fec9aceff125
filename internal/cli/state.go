package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/tickergrid/pkg/config"
	"github.com/matzehuels/tickergrid/pkg/state"
)

// stateCommand creates the persisted state management command.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage persisted workspaces",
	}

	cmd.AddCommand(c.statePathCommand())
	cmd.AddCommand(c.stateShowCommand())
	cmd.AddCommand(c.stateClearCommand())

	return cmd
}

func (c *CLI) statePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the workspace is stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, cfg, err := c.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			key, err := c.stateKey(cfg)
			if err != nil {
				return err
			}
			if fb, ok := state.Unwrap(b).(*state.FileBackend); ok {
				path, err := fb.Path(key)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", b.Name(), key)
			return nil
		},
	}
}

func (c *CLI) stateShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored workspace document",
		Long: `Print the document exactly as stored, without defaults or migration.
An empty document means nothing has been saved yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, cfg, err := c.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer b.Close()

			key, err := c.stateKey(cfg)
			if err != nil {
				return err
			}
			s, err := b.Load(cmd.Context(), key)
			if err != nil {
				return err
			}
			data, err := encodeState(s, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json, yaml")

	return cmd
}

// encodeState renders a stored document as JSON or YAML.
func encodeState(s *state.State, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case formatYAML:
		return yaml.Marshal(s)
	}
	return nil, fmt.Errorf("unknown format %q (want json or yaml)", format)
}

func (c *CLI) stateClearCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored workspace",
		Long: `Delete the stored document of the workspace selected by --session.

With --all, every workspace in the file backend's directory is removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, cfg, err := c.openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			if all {
				fb, ok := state.Unwrap(b).(*state.FileBackend)
				if !ok {
					return fmt.Errorf("--all needs the %s backend, not %s", config.BackendFile, b.Name())
				}
				n, err := fb.Clear(ctx)
				if err != nil {
					return err
				}
				printSuccess("Cleared %d workspaces", n)
				printDetail("Directory: %s", fb.Dir())
				return nil
			}

			key, err := c.stateKey(cfg)
			if err != nil {
				return err
			}
			if err := b.Delete(ctx, key); err != nil {
				return err
			}
			printSuccess("Cleared %s", key)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "clear every workspace (file backend only)")

	return cmd
}
