package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeParse(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"parse", "--no-persist"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseStdinJSON(t *testing.T) {
	out, err := executeParse(t, "A-B\nB+A\nB+C\nD+C\nE+C", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Nodes []struct {
			Name   string `json:"name"`
			Radius int    `json:"radius"`
		} `json:"nodes"`
		Links []json.RawMessage `json:"links"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Links, 5)

	weights := map[string]int{}
	for _, n := range doc.Nodes {
		weights[n.Name] = n.Radius
	}
	assert.Equal(t, map[string]int{"A": 5, "B": -5, "C": 15, "D": 0, "E": 0}, weights)
}

func TestParseFileDOT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flows.txt")
	require.NoError(t, os.WriteFile(path, []byte(`"tomato + sauce"-"brown - sauce"`), 0o644))

	out, err := executeParse(t, "", "--format", "dot", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"tomato + sauce" -> "brown - sauce" [color=red, label="-"]`)
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := executeParse(t, "A+B", "--format", "png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestParseMissingFile(t *testing.T) {
	_, err := executeParse(t, "", "--format", "text", filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading description file")
}

func TestWatchFormatFromEnvironment(t *testing.T) {
	initConfig()
	t.Setenv("CAUSALFLOW_FORMAT", "dot")

	r, err := formatRenderer(watchCmd)
	require.NoError(t, err)
	assert.Equal(t, "dot", r.Name())
}

func TestFormatFlagOverridesEnvironment(t *testing.T) {
	initConfig()
	t.Setenv("CAUSALFLOW_FORMAT", "dot")

	flag := watchCmd.Flags().Lookup("format")
	require.NoError(t, flag.Value.Set("json"))
	flag.Changed = true
	t.Cleanup(func() {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	})

	r, err := formatRenderer(watchCmd)
	require.NoError(t, err)
	assert.Equal(t, "json", r.Name())
}
