package projection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tilegrid/internal/domain/entity"
	"github.com/bnema/tilegrid/internal/domain/projection"
)

func buildNested() (*entity.Node, *entity.Node) {
	col := entity.NewContainer(entity.AxisVertical,
		[]*entity.Node{{ID: "b", Kind: entity.KindTile}, {ID: "c", Kind: entity.KindTile}},
		[]float64{0.25})
	col.ID = "col"
	root := entity.NewContainer(entity.AxisHorizontal,
		[]*entity.Node{{ID: "a", Kind: entity.KindTile}, col},
		[]float64{0.6})
	root.ID = "row"
	return root, col
}

func TestWeights(t *testing.T) {
	root, _ := buildNested()

	w := projection.Weights(root)

	require.Len(t, w, 5)
	assert.Equal(t, 1.0, w["row"].Main)
	assert.InDelta(t, 0.6, w["a"].Main, 1e-12)
	assert.InDelta(t, 0.4, w["col"].Main, 1e-12)
	assert.Equal(t, entity.AxisHorizontal, w["col"].Axis)
	assert.InDelta(t, 0.25, w["b"].Main, 1e-12)
	assert.InDelta(t, 0.75, w["c"].Main, 1e-12)
	assert.Equal(t, entity.AxisVertical, w["c"].Axis)
	assert.Equal(t, 1.0, w["c"].Cross)
}

func TestRects_TileWithoutGaps(t *testing.T) {
	root, _ := buildNested()

	rects := projection.Rects(root, entity.Rect{X: 10, Y: 20, W: 1001, H: 400})

	assert.Equal(t, entity.Rect{X: 10, Y: 20, W: 601, H: 400}, rects["a"])
	assert.Equal(t, entity.Rect{X: 611, Y: 20, W: 400, H: 400}, rects["col"])
	assert.Equal(t, entity.Rect{X: 611, Y: 20, W: 400, H: 100}, rects["b"])
	assert.Equal(t, entity.Rect{X: 611, Y: 120, W: 400, H: 300}, rects["c"])
}

func TestBreakpoints_RoundTrip(t *testing.T) {
	tests := [][]float64{
		{0.5},
		{0.3, 0.7},
		{0.1, 0.2, 0.9},
		{0.333333, 0.5, 0.999},
	}

	for _, bps := range tests {
		shares := projection.Shares(bps)
		require.Len(t, shares, len(bps)+1)
		got := projection.Breakpoints(shares)
		require.Len(t, got, len(bps))
		for i := range bps {
			assert.InDelta(t, bps[i], got[i], 1e-9)
		}
	}
}

func TestBreakpoints_FromProjectedWeights(t *testing.T) {
	root := entity.NewContainer(entity.AxisHorizontal, []*entity.Node{
		{ID: "a", Kind: entity.KindTile},
		{ID: "b", Kind: entity.KindTile},
		{ID: "c", Kind: entity.KindTile},
	}, []float64{0.3, 0.7})

	w := projection.Weights(root)
	shares := []float64{w["a"].Main, w["b"].Main, w["c"].Main}

	got := projection.Breakpoints(shares)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.3, got[0], 1e-9)
	assert.InDelta(t, 0.7, got[1], 1e-9)
}

func TestFraction(t *testing.T) {
	r := entity.Rect{X: 100, Y: 0, W: 200, H: 50}

	f, ok := projection.Fraction(r, entity.Point{X: 150, Y: 10}, entity.AxisHorizontal)
	require.True(t, ok)
	assert.InDelta(t, 0.25, f, 1e-12)

	f, ok = projection.Fraction(r, entity.Point{X: 500, Y: 10}, entity.AxisHorizontal)
	require.True(t, ok)
	assert.Equal(t, 1.0, f)

	_, ok = projection.Fraction(entity.Rect{W: 0, H: 10}, entity.Point{}, entity.AxisHorizontal)
	assert.False(t, ok)
}
