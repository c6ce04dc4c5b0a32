package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pauldambra/causal-flows/causal"
)

func TestRegistryDefault(t *testing.T) {
	r := Default()
	assert.Equal(t, []string{"dot", "json", "text"}, r.Names())

	for _, name := range r.Names() {
		renderer, err := r.Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, renderer.Name())
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	_, err := Default().Lookup("svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"svg"`)
	assert.Contains(t, err.Error(), "dot, json, text")
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(JSON{})
	r.Register(JSON{Indent: true})
	renderer, err := r.Lookup("json")
	require.NoError(t, err)
	assert.Equal(t, JSON{Indent: true}, renderer)
}

func TestDisplayRadius(t *testing.T) {
	assert.Equal(t, 30, DisplayRadius(causal.Node{Name: "A"}))
	assert.Equal(t, 45, DisplayRadius(causal.Node{Name: "A", Weight: 15}))
	assert.Equal(t, 0, DisplayRadius(causal.Node{Name: "A", Weight: -50}))
}

func TestJSONRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON{}.Render(&buf, causal.ParseGraph("A-B\nB+A")))

	assert.JSONEq(t, `{
		"nodes": [
			{"name": "A", "radius": 5, "r": 35},
			{"name": "B", "radius": -5, "r": 25}
		],
		"links": [
			{"edge": "decreases", "source": "A", "target": "B", "stroke": "red"},
			{"edge": "increases", "source": "B", "target": "A", "stroke": "green"}
		]
	}`, buf.String())
}

func TestJSONRenderEmptyGraphHasArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON{Indent: true}.Render(&buf, causal.ParseGraph("")))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []any{}, doc["nodes"])
	assert.Equal(t, []any{}, doc["links"])
}

func TestDOTRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DOT{}.Render(&buf, causal.ParseGraph("A+B\nB-C")))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph causal {\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `"A" [width=0.83, tooltip="weight 0"]`)
	assert.Contains(t, out, `"B" [width=0.97, tooltip="weight 5"]`)
	assert.Contains(t, out, `"A" -> "B" [color=green, label="+"]`)
	assert.Contains(t, out, `"B" -> "C" [color=red, label="-"]`)
}

func TestDOTRenderEscapesIdentifiers(t *testing.T) {
	g := &causal.Graph{
		Nodes: []causal.Node{{Name: `say "hi"`}, {Name: `back\slash`, Weight: 5}},
		Links: []causal.Relationship{{Polarity: causal.Increases, Source: `say "hi"`, Target: `back\slash`}},
	}
	var buf bytes.Buffer
	require.NoError(t, DOT{}.Render(&buf, g))
	assert.Contains(t, buf.String(), `"say \"hi\"" -> "back\\slash"`)
}

func TestTextRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewText().Render(&buf, causal.ParseGraph("coffee+alertness\nsleep-alertness")))
	out := buf.String()

	assert.Contains(t, out, "NODES")
	assert.Contains(t, out, "LINKS")
	assert.Contains(t, out, "coffee")
	assert.Contains(t, out, "sleep")
	assert.Contains(t, out, "coffee ──+──▶ alertness")
	assert.Contains(t, out, "sleep ──-──▶ alertness")
}

func TestTextRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewText().Render(&buf, causal.ParseGraph("nothing here")))
	assert.Equal(t, "(no relationships)\n", buf.String())
}

func TestTextStringWithoutWriter(t *testing.T) {
	out := NewText().String(nil, causal.ParseGraph("A+B"))
	assert.Contains(t, out, "A ──+──▶ B")
}
