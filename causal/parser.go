package causal

import "strings"

// ParseRelationships parses every line of text and returns the valid
// statements in line order. Invalid lines are skipped. The result is never
// nil, so an empty description yields an empty slice.
func ParseRelationships(text string) []Relationship {
	links := make([]Relationship, 0)
	for _, line := range strings.Split(text, "\n") {
		if rel, ok := ParseLine(line); ok {
			links = append(links, rel)
		}
	}
	return links
}

// ParseGraph parses text and derives the weighted node set.
func ParseGraph(text string) *Graph {
	links := ParseRelationships(text)
	return &Graph{
		Nodes: Aggregate(links),
		Links: links,
	}
}

// Aggregate builds one Node per identifier in links. A node's weight is
// WeightStep times its incoming increases minus its incoming decreases;
// appearing as a source never moves it.
func Aggregate(links []Relationship) []Node {
	index := make(map[string]int)
	nodes := make([]Node, 0)

	ensure := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		index[name] = len(nodes)
		nodes = append(nodes, Node{Name: name})
		return index[name]
	}

	for _, l := range links {
		ensure(l.Source)
		t := ensure(l.Target)
		nodes[t].Weight += l.Polarity.Sign() * WeightStep
	}
	return nodes
}
