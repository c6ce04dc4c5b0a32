package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pauldambra/causal-flows/causal"
)

// Text renders a terminal listing of nodes and links.
type Text struct {
	renderer *lipgloss.Renderer
}

// NewText returns a text renderer that picks its colour profile from the
// writer it renders to, so output to a pipe or buffer stays plain.
func NewText() *Text {
	return &Text{}
}

// NewTextFor returns a text renderer bound to an existing lipgloss renderer.
// The terminal editor uses this to keep colours when rendering into a string.
func NewTextFor(r *lipgloss.Renderer) *Text {
	return &Text{renderer: r}
}

func (*Text) Name() string { return "text" }

type textStyles struct {
	header    lipgloss.Style
	name      lipgloss.Style
	dim       lipgloss.Style
	increases lipgloss.Style
	decreases lipgloss.Style
}

func newTextStyles(r *lipgloss.Renderer) textStyles {
	return textStyles{
		header:    r.NewStyle().Bold(true).Underline(true),
		name:      r.NewStyle().Bold(true),
		dim:       r.NewStyle().Foreground(lipgloss.Color("241")),
		increases: r.NewStyle().Foreground(lipgloss.Color("#00FF99")),
		decreases: r.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
	}
}

func (t *Text) Render(w io.Writer, g *causal.Graph) error {
	_, err := io.WriteString(w, t.String(w, g))
	return err
}

// String renders g. When the Text has no bound renderer, w selects the colour
// profile; w may be nil, in which case output is plain.
func (t *Text) String(w io.Writer, g *causal.Graph) string {
	r := t.renderer
	if r == nil {
		if w == nil {
			w = io.Discard
		}
		r = lipgloss.NewRenderer(w)
	}
	st := newTextStyles(r)

	if g.Empty() {
		return st.dim.Render("(no relationships)") + "\n"
	}

	nameWidth := 0
	for _, n := range g.Nodes {
		if width := lipgloss.Width(n.Name); width > nameWidth {
			nameWidth = width
		}
	}

	var sb strings.Builder
	sb.WriteString(st.header.Render("NODES") + "\n")
	for _, n := range g.Nodes {
		pad := strings.Repeat(" ", nameWidth-lipgloss.Width(n.Name))
		weight := fmt.Sprintf("%+d", n.Weight)
		switch {
		case n.Weight > 0:
			weight = st.increases.Render(weight)
		case n.Weight < 0:
			weight = st.decreases.Render(weight)
		default:
			weight = st.dim.Render(" 0")
		}
		sb.WriteString("  " + st.name.Render(n.Name) + pad + "  " + weight + "\n")
	}

	sb.WriteString("\n" + st.header.Render("LINKS") + "\n")
	for _, l := range g.Links {
		arrow := "──" + l.Polarity.Marker() + "──▶"
		if l.Polarity == causal.Decreases {
			arrow = st.decreases.Render(arrow)
		} else {
			arrow = st.increases.Render(arrow)
		}
		sb.WriteString("  " + l.Source + " " + arrow + " " + l.Target + "\n")
	}
	return sb.String()
}
