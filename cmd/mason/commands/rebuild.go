package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newShouldRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "should-rebuild <target>",
		Short: "Report through the exit code whether a target would rebuild",
		Long: "Report whether building the target would run at least one job: " +
			"exit 0 when it would, exit 1 when everything is up to date. " +
			"Run with --debug to see what makes the target outdated.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return zerr.With(domain.ErrInspectAmbiguous, "given", len(args))
			}

			needed, err := c.app.ShouldRebuild(cmd.Context(), c.source, args[0], c.options(cmd))
			if err != nil {
				return err
			}
			if !needed {
				return domain.ErrUpToDate
			}
			return nil
		},
	}
}
