package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the staleness cache",
		Long: "Remove the staleness cache, so the next build considers every " +
			"target outdated. Toolchain caches (Cargo, Docker) are not touched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context(), c.options(cmd))
		},
	}
}
