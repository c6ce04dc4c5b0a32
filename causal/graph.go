package causal

// WeightStep is how far one incoming relationship moves its target's weight.
const WeightStep = 5

// Relationship is one parsed, directed and signed edge.
type Relationship struct {
	Polarity Polarity `json:"edge"`
	Source   string   `json:"source"`
	Target   string   `json:"target"`
}

// Node is a deduplicated identifier with its accumulated weight.
type Node struct {
	Name   string `json:"name"`
	Weight int    `json:"radius"`
}

// Graph is the node set and ordered link list produced from one description.
// Links keep input line order. Node order is first-seen order, but callers
// should treat Nodes as a set.
type Graph struct {
	Nodes []Node         `json:"nodes"`
	Links []Relationship `json:"links"`
}

// Empty reports whether the graph holds no relationships.
func (g *Graph) Empty() bool {
	return len(g.Links) == 0
}

// NodeByName returns the node with the given name, or nil if not found.
func (g *Graph) NodeByName(name string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].Name == name {
			return &g.Nodes[i]
		}
	}
	return nil
}

// LinksFrom returns all links whose source is the given name.
func (g *Graph) LinksFrom(name string) []Relationship {
	var result []Relationship
	for _, l := range g.Links {
		if l.Source == name {
			result = append(result, l)
		}
	}
	return result
}

// LinksTo returns all links whose target is the given name.
func (g *Graph) LinksTo(name string) []Relationship {
	var result []Relationship
	for _, l := range g.Links {
		if l.Target == name {
			result = append(result, l)
		}
	}
	return result
}
