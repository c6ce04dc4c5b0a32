package render

import (
	"encoding/json"
	"io"

	"github.com/pauldambra/causal-flows/causal"
)

// JSON renders the node/link document consumed by force-layout front ends.
type JSON struct {
	Indent bool
}

// DocumentNode is one node entry. R is the drawn radius.
type DocumentNode struct {
	Name   string `json:"name"`
	Radius int    `json:"radius"`
	R      int    `json:"r"`
}

// DocumentLink is one link entry, coloured by polarity.
type DocumentLink struct {
	Edge   causal.Polarity `json:"edge"`
	Source string          `json:"source"`
	Target string          `json:"target"`
	Stroke string          `json:"stroke"`
}

// Document is the JSON payload written by the JSON renderer.
type Document struct {
	Nodes []DocumentNode `json:"nodes"`
	Links []DocumentLink `json:"links"`
}

func (JSON) Name() string { return "json" }

// NewDocument converts a graph into its JSON payload.
func NewDocument(g *causal.Graph) Document {
	doc := Document{
		Nodes: make([]DocumentNode, 0, len(g.Nodes)),
		Links: make([]DocumentLink, 0, len(g.Links)),
	}
	for _, n := range g.Nodes {
		doc.Nodes = append(doc.Nodes, DocumentNode{Name: n.Name, Radius: n.Weight, R: DisplayRadius(n)})
	}
	for _, l := range g.Links {
		doc.Links = append(doc.Links, DocumentLink{
			Edge:   l.Polarity,
			Source: l.Source,
			Target: l.Target,
			Stroke: StrokeColor(l.Polarity),
		})
	}
	return doc
}

func (j JSON) Render(w io.Writer, g *causal.Graph) error {
	enc := json.NewEncoder(w)
	if j.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(NewDocument(g))
}
