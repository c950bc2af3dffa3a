package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
)

func (c *CLI) newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the targets of the catalog",
		Long: "List the targets of the catalog, split by whether this environment " +
			"has the tools to build them. Run with --debug to see target kinds and " +
			"the reason a target is unsupported.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := c.options(cmd)
			listing, err := c.app.List(cmd.Context(), c.source, opts)
			if err != nil {
				return err
			}

			printListing(cmd.OutOrStdout(), listing, opts.Debug)
			return nil
		},
	}
}

func printListing(w io.Writer, listing app.Listing, debug bool) {
	r := newRenderer(w)

	kindSuffix := func(status app.TargetStatus) string {
		if !debug {
			return ""
		}
		return r.faint(fmt.Sprintf(" (%s)", status.Kind))
	}

	if len(listing.Supported) > 0 {
		_, _ = fmt.Fprintln(w, "\nTargets supported by environment:")
		for _, status := range listing.Supported {
			_, _ = fmt.Fprintf(w, " - %s%s\n", r.ok(status.Name), kindSuffix(status))
			_, _ = fmt.Fprintln(w, wrapText(status.Description, 3, descriptionWidth, false))
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(listing.Unsupported) > 0 {
		_, _ = fmt.Fprintln(w, "\nTargets unsupported by environment:")
		for _, status := range listing.Unsupported {
			_, _ = fmt.Fprintf(w, " - %s%s\n", r.bad(status.Name), kindSuffix(status))
			_, _ = fmt.Fprintln(w, wrapText(status.Description, 3, descriptionWidth, false))
			if debug {
				_, _ = fmt.Fprintln(w, r.faint("   Reason:"))
				_, _ = fmt.Fprintln(w, r.faint(wrapText(status.Reason, 3, descriptionWidth, false)))
			}
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(listing.Supported) == 0 && len(listing.Unsupported) == 0 {
		_, _ = fmt.Fprintln(w, "\nNo targets found.")
		_, _ = fmt.Fprintln(w)
	}
}
