package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGraph(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   []string
	}{
		{"tree", []string{"Parking Facility", "DISPONIBLE", "COMPLET"}},
		{"", []string{"Parking Facility"}},
		{"mermaid", []string{"stateDiagram-v2", "[*] --> DISPONIBLE", "parking_plein"}},
		{"dot", []string{"digraph", "doublecircle"}},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			t.Parallel()
			out, err := renderGraph(tt.format)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		_, err := renderGraph("svg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "svg")
	})
}

func TestGraphCmd(t *testing.T) {
	out, err := runApp(t, "graph", "--format", "mermaid")
	require.NoError(t, err)
	assert.Contains(t, out, "stateDiagram-v2")

	_, err = runApp(t, "graph", "-f", "png")
	require.Error(t, err)
}
