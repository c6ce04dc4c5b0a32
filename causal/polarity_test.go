package causal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolarityForMarker(t *testing.T) {
	p, ok := PolarityForMarker('+')
	require.True(t, ok)
	assert.Equal(t, Increases, p)

	p, ok = PolarityForMarker('-')
	require.True(t, ok)
	assert.Equal(t, Decreases, p)

	_, ok = PolarityForMarker('*')
	assert.False(t, ok)
	_, ok = PolarityForMarker(0)
	assert.False(t, ok)
}

func TestPolarityStrings(t *testing.T) {
	assert.Equal(t, "increases", Increases.String())
	assert.Equal(t, "decreases", Decreases.String())
	assert.Equal(t, "unknown", Polarity(7).String())
	assert.Equal(t, "+", Increases.Marker())
	assert.Equal(t, "-", Decreases.Marker())
}

func TestRelationshipJSONShape(t *testing.T) {
	data, err := json.Marshal(Relationship{Decreases, "A", "B"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"edge":"decreases","source":"A","target":"B"}`, string(data))

	var rel Relationship
	require.NoError(t, json.Unmarshal([]byte(`{"edge":"increases","source":"x","target":"y"}`), &rel))
	assert.Equal(t, Relationship{Increases, "x", "y"}, rel)
}

func TestPolarityJSONRejectsUnknown(t *testing.T) {
	var p Polarity
	assert.Error(t, json.Unmarshal([]byte(`"sideways"`), &p))

	_, err := json.Marshal(Polarity(9))
	assert.Error(t, err)
}

func TestGraphJSONShape(t *testing.T) {
	data, err := json.Marshal(ParseGraph("A+B"))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"nodes": [{"name":"A","radius":0},{"name":"B","radius":5}],
		"links": [{"edge":"increases","source":"A","target":"B"}]
	}`, string(data))
}
