package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tilegrid/internal/config"
	"github.com/bnema/tilegrid/internal/domain/entity"
)

func demoConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Logging.EnableFileLog = false
	cfg.Layout.DividerPx = 0
	cfg.Reconcile.IntervalMs = 5
	return cfg
}

func TestRunDemo_JSONReport(t *testing.T) {
	var out bytes.Buffer
	err := runDemo(context.Background(), &out, demoOptions{
		Config: demoConfig(),
		Width:  120,
		Height: 40,
		JSON:   true,
	})
	require.NoError(t, err)

	var report demoReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))

	root := report.Layout
	assert.Equal(t, entity.KindRow.String(), root.Kind)
	require.Len(t, root.Children, 2)
	require.Len(t, root.Breakpoints, 1)
	assert.InDelta(t, 0.6, root.Breakpoints[0], 1e-9)

	docs, logs := root.Children[0], root.Children[1]
	assert.Equal(t, "docs", docs.Locator)
	assert.Equal(t, "logs", logs.Locator)
	assert.Equal(t, 120, docs.Rect.W+logs.Rect.W)
	assert.InDelta(t, 72, docs.Rect.W, 1)

	require.Len(t, report.Surfaces, 2)
	byLocator := map[string]entity.Rect{}
	for _, s := range report.Surfaces {
		assert.True(t, s.Visible, s.Locator)
		byLocator[s.Locator] = s.Rect
	}
	assert.Equal(t, docs.Rect, byLocator["docs"])
	assert.Equal(t, logs.Rect, byLocator["logs"])
}

func TestRunDemo_TextReport(t *testing.T) {
	var out bytes.Buffer
	err := runDemo(context.Background(), &out, demoOptions{
		Config: demoConfig(),
		Width:  80,
		Height: 20,
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Layout")
	assert.Contains(t, text, "Surfaces")
	assert.Contains(t, text, "docs")
	assert.Contains(t, text, "logs")
	assert.NotContains(t, text, "shell")
}

func TestRunDemo_RejectsEmptyDisplay(t *testing.T) {
	var out bytes.Buffer
	err := runDemo(context.Background(), &out, demoOptions{Config: demoConfig()})
	assert.ErrorIs(t, err, entity.ErrInvalidGeometry)
}
