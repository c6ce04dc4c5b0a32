// Package render turns a parsed causal graph into something a person can look
// at. Each Renderer targets one output format; the Registry maps format names
// to renderers so front ends can pick one from a flag or a query parameter.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pauldambra/causal-flows/causal"
)

// Renderer writes a graph in one output format.
type Renderer interface {
	Name() string
	Render(w io.Writer, g *causal.Graph) error
}

// DisplayPadding is added to a node's weight to get its drawn radius, so a
// node with weight zero is still visible.
const DisplayPadding = 30

// DisplayRadius returns the drawn radius for a node. Strongly decreased nodes
// bottom out at zero rather than going negative.
func DisplayRadius(n causal.Node) int {
	r := n.Weight + DisplayPadding
	if r < 0 {
		return 0
	}
	return r
}

// StrokeColor returns the link colour used by every renderer.
func StrokeColor(p causal.Polarity) string {
	if p == causal.Decreases {
		return "red"
	}
	return "green"
}

// Registry maps format names to renderers.
type Registry struct {
	renderers map[string]Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[string]Renderer)}
}

// Default returns a registry holding every built-in renderer.
func Default() *Registry {
	r := NewRegistry()
	r.Register(JSON{})
	r.Register(DOT{})
	r.Register(NewText())
	return r
}

// Register adds or replaces a renderer under its own name.
func (r *Registry) Register(renderer Renderer) {
	r.renderers[renderer.Name()] = renderer
}

// Lookup returns the renderer registered under name.
func (r *Registry) Lookup(name string) (Renderer, error) {
	if renderer, ok := r.renderers[name]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("unknown format %q (known: %s)", name, strings.Join(r.Names(), ", "))
}

// Names returns the registered format names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
