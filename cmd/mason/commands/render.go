package commands

import (
	"io"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/mason/internal/ui/output"
	"go.trai.ch/mason/internal/ui/style"
)

// descriptionWidth is the column at which listing and inspection text wraps.
const descriptionWidth = 100

// renderer styles the human-facing command output.
type renderer struct {
	out *termenv.Output
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{out: output.New(w)}
}

func (r *renderer) bold(s string) string {
	return r.out.String(s).Bold().String()
}

func (r *renderer) faint(s string) string {
	return r.out.String(s).Faint().String()
}

func (r *renderer) ok(s string) string {
	return r.out.String(s).Foreground(termenv.RGBColor(string(style.Green))).String()
}

func (r *renderer) bad(s string) string {
	return r.out.String(s).Foreground(termenv.RGBColor(string(style.Red))).String()
}

func (r *renderer) accent(s string) string {
	return r.out.String(s).Foreground(termenv.RGBColor(string(style.Ochre))).String()
}

// wrapText greedily wraps text to the given total width, prefixing every
// line with indent spaces. With skipFirst the first line carries no prefix,
// for content appended after a label.
func wrapText(text string, indent, width int, skipFirst bool) string {
	prefix := strings.Repeat(" ", indent)
	limit := width - indent
	if limit < 1 {
		limit = 1
	}

	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= limit:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}

	for i := range lines {
		if i == 0 && skipFirst {
			continue
		}
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
