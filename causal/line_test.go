package causal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineValid(t *testing.T) {
	tests := []struct {
		input string
		want  Relationship
	}{
		{"A+B", Relationship{Increases, "A", "B"}},
		{"B+A", Relationship{Increases, "B", "A"}},
		{"A-B", Relationship{Decreases, "A", "B"}},
		{"Tomato+B", Relationship{Increases, "Tomato", "B"}},
		{"Tomato sauce+B", Relationship{Increases, "Tomato sauce", "B"}},
		{"  spaced out  -  target  ", Relationship{Decreases, "spaced out", "target"}},
		{`"tomato sauce"+"brown sauce"`, Relationship{Increases, "tomato sauce", "brown sauce"}},
		{`"tomato + sauce"+"brown - sauce"`, Relationship{Increases, "tomato + sauce", "brown - sauce"}},
		{`"tomato + sauce"-"brown - sauce"`, Relationship{Decreases, "tomato + sauce", "brown - sauce"}},
		{"café+naïve", Relationship{Increases, "café", "naïve"}},
	}
	for _, tt := range tests {
		got, ok := ParseLine(tt.input)
		require.True(t, ok, "input: %s", tt.input)
		assert.Equal(t, tt.want, got, "input: %s", tt.input)
	}
}

func TestParseLineOnlyFirstMarkerSeparates(t *testing.T) {
	got, ok := ParseLine("A+B-C+D")
	require.True(t, ok)
	assert.Equal(t, Increases, got.Polarity)
	assert.Equal(t, "A", got.Source)
	assert.Equal(t, "B-C+D", got.Target)
}

func TestParseLineQuotesStrippedFromTarget(t *testing.T) {
	got, ok := ParseLine(`A-"x + y" more`)
	require.True(t, ok)
	assert.Equal(t, "x + y more", got.Target)
}

func TestParseLineUnterminatedQuote(t *testing.T) {
	// The open quote swallows the marker, so no separator is found.
	_, ok := ParseLine(`"A+B`)
	assert.False(t, ok)

	// An open quote after the separator only affects the target text.
	got, ok := ParseLine(`A+"B-C`)
	require.True(t, ok)
	assert.Equal(t, "B-C", got.Target)
}

func TestParseLineTrimsCarriageReturn(t *testing.T) {
	got, ok := ParseLine("A+B\r")
	require.True(t, ok)
	assert.Equal(t, "B", got.Target)
}

func TestParseLineInvalid(t *testing.T) {
	cases := []string{
		"",
		"A",
		"just some text",
		"+B",
		"-B",
		"B+",
		"B-   ",
		"   +   ",
		`""+B`,
		`"A+B"`,
	}
	for _, input := range cases {
		got, ok := ParseLine(input)
		assert.False(t, ok, "input: %q", input)
		assert.Equal(t, Relationship{}, got, "input: %q", input)
	}
}

func TestParseLineKeepsInvalidUTF8Bytes(t *testing.T) {
	got, ok := ParseLine("a\xff+b")
	require.True(t, ok)
	assert.Equal(t, "a\xff", got.Source)
	assert.Equal(t, "b", got.Target)

	got, ok = ParseLine("\"x\xe9+\"-caf\xe8 ")
	require.True(t, ok)
	assert.Equal(t, "x\xe9+", got.Source)
	assert.Equal(t, "caf\xe8", got.Target)
}

func TestParseGraphDistinctInvalidUTF8Names(t *testing.T) {
	g := ParseGraph("caf\xe9+x\ncaf\xe8+y")
	assert.Len(t, g.Nodes, 4)
	assert.ElementsMatch(t, []Node{
		{"caf\xe9", 0},
		{"x", 5},
		{"caf\xe8", 0},
		{"y", 5},
	}, g.Nodes)
}
