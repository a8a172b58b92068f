package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotSizesAreIndependent(t *testing.T) {
	root := newRootCmd()

	tests := []struct {
		cmd           string
		width, height string
	}{
		{"plot", "80", "12"},
		{"history", "60", "10"},
		{"view", "100", "32"},
		{"snapshot", "100", "32"},
	}
	for _, tt := range tests {
		t.Run(tt.cmd, func(t *testing.T) {
			cmd, _, err := root.Find([]string{tt.cmd})
			require.NoError(t, err)
			assert.Equal(t, tt.width, cmd.Flags().Lookup("width").DefValue)
			assert.Equal(t, tt.height, cmd.Flags().Lookup("height").DefValue)
		})
	}

	// registration order must not leak one command's defaults into another
	assert.Equal(t, 80, plotWidth)
	assert.Equal(t, 12, plotHeight)
	assert.Equal(t, 60, historyWidth)
	assert.Equal(t, 10, historyHeight)
}

func TestPlotWidthDoesNotResizeCanvas(t *testing.T) {
	root := newRootCmd()
	cmd, _, err := root.Find([]string{"plot"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags([]string{"--width", "40"}))

	cfg, _, err := setup(cmd)
	require.NoError(t, err)
	assert.Equal(t, 40, plotWidth)
	assert.Equal(t, 100, cfg.View.Width, "canvas keeps its default")

	view, _, err := root.Find([]string{"view"})
	require.NoError(t, err)
	require.NoError(t, view.ParseFlags([]string{"--width", "120"}))
	cfg, _, err = setup(view)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.View.Width)
}
