package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
	"go.trai.ch/mason/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <target>",
		Short: "Show details about a single target",
		Long: "Show a target's kind, sources, results, description, support " +
			"status and full dependency tree.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return zerr.With(domain.ErrInspectAmbiguous, "given", len(args))
			}

			inspection, err := c.app.Inspect(cmd.Context(), c.source, args[0], c.options(cmd))
			if err != nil {
				return err
			}

			printInspection(cmd.OutOrStdout(), inspection)
			return nil
		},
	}
}

func printInspection(w io.Writer, inspection app.Inspection) {
	r := newRenderer(w)

	property := func(label, value string) {
		_, _ = fmt.Fprintf(w, " %s %s %s\n", r.faint("-"), fmt.Sprintf("%-15s", label)+r.faint(":"), value)
	}
	pathList := func(paths []string, empty string) string {
		if len(paths) == 0 {
			return r.faint(empty)
		}
		quoted := make([]string, 0, len(paths))
		for _, path := range paths {
			quoted = append(quoted, r.bold("'"+path+"'"))
		}
		return wrapText(strings.Join(quoted, ", "), 20, descriptionWidth, true)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%s%s%s\n", r.bold("Target '"), r.accent(inspection.Name), r.bold("':"))
	property("Kind", r.bold(inspection.Kind))
	property("Source files", pathList(inspection.Sources, "<no sources>"))
	property("Result files", pathList(inspection.Results, "<no results>"))
	property("Description", wrapText(inspection.Description, 20, descriptionWidth, true))

	verdict := r.ok("yes")
	if !inspection.Supported {
		verdict = r.bad("no")
	}
	_, _ = fmt.Fprintf(w, " %s %s %s\n", r.faint("-"), fmt.Sprintf("%-15s", "Supported")+r.faint("?"), verdict)
	if !inspection.Supported {
		_, _ = fmt.Fprintf(w, "   %s Reason%s %s\n", r.faint("└>"), r.faint(":"),
			wrapText(inspection.Reason, 14, descriptionWidth, true))
	}

	_, _ = fmt.Fprintf(w, " %s Dependency tree%s\n", r.faint("-"), r.faint(":"))
	printTree(w, r, inspection.Tree)
	_, _ = fmt.Fprintln(w)
}

// printTree renders the dependency tree the way the build log refers to
// targets: the root highlighted, every edge one "└> " hop, siblings joined
// with "|" continuation rails.
func printTree(w io.Writer, r *renderer, root domain.DependencyNode) {
	type frame struct {
		indents []string
		node    domain.DependencyNode
	}

	rootName := root.Name
	stack := []frame{{nil, root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		arrow := ""
		if len(top.indents) > 0 {
			arrow = "└> "
		}
		rail := strings.Join(top.indents[:max(len(top.indents)-1, 0)], "")
		name := top.node.Name.String()
		if top.node.Name == rootName {
			name = r.accent(name)
		}
		_, _ = fmt.Fprintf(w, "   %s%s\n", r.faint(rail+arrow), name)

		// Push children in reverse so they pop in declaration order; every
		// child but the last leaves a rail for the siblings printed below it.
		children := top.node.Children
		for i := len(children) - 1; i >= 0; i-- {
			elem := "|  "
			if i == len(children)-1 {
				elem = "   "
			}
			indents := append(slices.Clone(top.indents), elem)
			stack = append(stack, frame{indents, children[i]})
		}
	}
}
