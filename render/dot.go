package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pauldambra/causal-flows/causal"
)

// DOT renders a Graphviz digraph.
type DOT struct{}

// pointsPerInch converts display radius (in points) to Graphviz inches.
const pointsPerInch = 72.0

func (DOT) Name() string { return "dot" }

func (DOT) Render(w io.Writer, g *causal.Graph) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "digraph causal {")
	fmt.Fprintln(bw, "    node [shape=circle, fixedsize=true, style=filled, fillcolor=white]")
	fmt.Fprintln(bw, "    edge [style=dashed, penwidth=2]")
	for _, n := range g.Nodes {
		width := 2 * float64(DisplayRadius(n)) / pointsPerInch
		fmt.Fprintf(bw, "    %s [width=%.2f, tooltip=\"weight %d\"]\n", quoteID(n.Name), width, n.Weight)
	}
	for _, l := range g.Links {
		fmt.Fprintf(bw, "    %s -> %s [color=%s, label=%q]\n",
			quoteID(l.Source), quoteID(l.Target), StrokeColor(l.Polarity), l.Polarity.Marker())
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}

// quoteID wraps an identifier in DOT double quotes, escaping what DOT needs.
func quoteID(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, ch := range s {
		switch ch {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(ch)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
