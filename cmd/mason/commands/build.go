package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...]",
		Short: "Build one or more targets",
		Long: "Build one or more targets in the order given, skipping work whose " +
			"sources, flags and results are unchanged since the last build.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No target specified; nothing to do.")
				return nil
			}

			opts := c.options(cmd)
			watch, _ := cmd.Flags().GetBool("watch")
			if watch {
				return c.app.Watch(cmd.Context(), c.source, args, opts)
			}
			return c.app.Build(cmd.Context(), c.source, args, opts)
		},
	}
	cmd.Flags().BoolP("watch", "w", false, "Keep running and rebuild the targets whenever one of their sources changes")
	return cmd
}
