// Package causal parses causal-flow descriptions into a relationship graph.
//
// A description is free-form text with one statement per line. Each statement
// names a source, a polarity marker and a target:
//
//	coffee + alertness
//	"late nights" - alertness
//
// "+" means the source increases the target and "-" means it decreases it.
// Identifiers may be wrapped in double quotes so they can contain the marker
// characters themselves. The parser is best effort: lines that do not form a
// complete statement are dropped silently and never reported.
//
// The package has two layers:
//
//   - Line scanning: ParseLine turns a single line into a Relationship.
//   - Aggregation: ParseGraph collects the relationships of every line and
//     derives one weighted Node per identifier.
//
// Usage:
//
//	g := causal.ParseGraph(text)
//	for _, n := range g.Nodes {
//	    fmt.Println(n.Name, n.Weight)
//	}
//
// Every call allocates fresh structures, so concurrent callers need no
// coordination.
package causal
