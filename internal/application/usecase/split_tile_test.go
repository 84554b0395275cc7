package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tilegrid/internal/domain/entity"
)

func TestSplitTile_RootTileRight(t *testing.T) {
	ctx := context.Background()
	tree := entity.NewTree(newTile("T1"))
	uc := NewSplitTileUseCase(seqIDs("T2", "R"), DefaultLayoutOptions())

	out, err := uc.Execute(ctx, SplitTileInput{
		Tree:      tree,
		TileID:    "T1",
		Direction: entity.DirectionRight,
		Fraction:  ptr(0.5),
	})

	require.NoError(t, err)
	require.NoError(t, tree.Validate())
	root := tree.Root()
	assert.Equal(t, entity.KindRow, root.Kind)
	assert.Equal(t, []entity.NodeID{"T1", "T2"}, childIDs(root))
	assert.Equal(t, []float64{0.5}, root.Breakpoints)
	assert.True(t, out.CreatedContainer)
	assert.Empty(t, out.NewTile.Locator, "new tiles are unprovisioned")
	assert.True(t, root.Style.Root)
	assert.False(t, root.Children[0].Style.Root)
}

func TestSplitTile_TowardStartPutsNewTileFirst(t *testing.T) {
	ctx := context.Background()
	tree := entity.NewTree(newTile("T1"))
	uc := NewSplitTileUseCase(seqIDs("T2", "C"), DefaultLayoutOptions())

	_, err := uc.Execute(ctx, SplitTileInput{
		Tree:      tree,
		TileID:    "T1",
		Direction: entity.DirectionUp,
		Fraction:  ptr(0.25),
	})

	require.NoError(t, err)
	root := tree.Root()
	assert.Equal(t, entity.KindColumn, root.Kind)
	assert.Equal(t, []entity.NodeID{"T2", "T1"}, childIDs(root))
	assert.Equal(t, []float64{0.25}, root.Breakpoints)
}

func TestSplitTile_SplicesIntoSameAxisParent(t *testing.T) {
	tests := []struct {
		name      string
		direction entity.Direction
		fraction  float64
		wantIDs   []entity.NodeID
		wantBPs   []float64
	}{
		{
			name:      "right of middle tile",
			direction: entity.DirectionRight,
			fraction:  0.5,
			wantIDs:   []entity.NodeID{"T1", "T2", "N", "T3"},
			wantBPs:   []float64{0.3, 0.5, 0.7},
		},
		{
			name:      "left of middle tile",
			direction: entity.DirectionLeft,
			fraction:  0.25,
			wantIDs:   []entity.NodeID{"T1", "N", "T2", "T3"},
			wantBPs:   []float64{0.3, 0.4, 0.7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			tree := entity.NewTree(newRow("R", []float64{0.3, 0.7}, newTile("T1"), newTile("T2"), newTile("T3")))
			uc := NewSplitTileUseCase(seqIDs("N"), DefaultLayoutOptions())

			out, err := uc.Execute(ctx, SplitTileInput{
				Tree:      tree,
				TileID:    "T2",
				Direction: tt.direction,
				Fraction:  ptr(tt.fraction),
			})

			require.NoError(t, err)
			require.NoError(t, tree.Validate())
			assert.False(t, out.CreatedContainer)
			assert.Equal(t, tt.wantIDs, childIDs(tree.Root()))
			require.Len(t, tree.Root().Breakpoints, len(tt.wantBPs))
			for i, bp := range tt.wantBPs {
				assert.InDelta(t, bp, tree.Root().Breakpoints[i], 1e-12)
			}
		})
	}
}

func TestSplitTile_OrthogonalWrapsInPlace(t *testing.T) {
	ctx := context.Background()
	tree := entity.NewTree(newRow("R", []float64{0.3, 0.7}, newTile("T1"), newTile("T2"), newTile("T3")))
	uc := NewSplitTileUseCase(seqIDs("N", "COL"), DefaultLayoutOptions())

	out, err := uc.Execute(ctx, SplitTileInput{
		Tree:      tree,
		TileID:    "T2",
		Direction: entity.DirectionDown,
		Fraction:  ptr(0.6),
	})

	require.NoError(t, err)
	require.NoError(t, tree.Validate())
	root := tree.Root()
	assert.Equal(t, []entity.NodeID{"T1", "COL", "T3"}, childIDs(root))
	assert.Equal(t, []float64{0.3, 0.7}, root.Breakpoints, "parent breakpoints untouched")
	assert.Equal(t, out.Container, root.Children[1])
	assert.Equal(t, entity.KindColumn, out.Container.Kind)
	assert.Equal(t, []entity.NodeID{"T2", "N"}, childIDs(out.Container))
	assert.Equal(t, root, out.Container.Parent)
}

func TestSplitTile_FractionClamped(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"zero", 0, DefaultSplitEpsilon},
		{"one", 1, 1 - DefaultSplitEpsilon},
		{"inside", 0.4, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := entity.NewTree(newTile("T1"))
			uc := NewSplitTileUseCase(nil, DefaultLayoutOptions())

			out, err := uc.Execute(context.Background(), SplitTileInput{
				Tree:      tree,
				TileID:    "T1",
				Direction: entity.DirectionRight,
				Fraction:  ptr(tt.raw),
			})

			require.NoError(t, err)
			assert.InDelta(t, tt.want, out.Fraction, 1e-12)
			assert.InDelta(t, tt.want, tree.Root().Breakpoints[0], 1e-12)
			require.NoError(t, tree.Validate())
		})
	}
}

func TestSplitTile_PointerAgainstMeasuredAnchor(t *testing.T) {
	target := newTile("T1")
	target.Anchor = &entity.Rect{X: 100, Y: 0, W: 400, H: 300}
	tree := entity.NewTree(target)
	uc := NewSplitTileUseCase(nil, DefaultLayoutOptions())

	out, err := uc.Execute(context.Background(), SplitTileInput{
		Tree:      tree,
		TileID:    "T1",
		Direction: entity.DirectionRight,
		Pointer:   &entity.Point{X: 400, Y: 10},
	})

	require.NoError(t, err)
	assert.InDelta(t, 0.75, out.Fraction, 1e-12)
}

func TestSplitTile_UnmeasuredTargetUsesDefaultFraction(t *testing.T) {
	tree := entity.NewTree(newTile("T1"))
	uc := NewSplitTileUseCase(nil, DefaultLayoutOptions())

	out, err := uc.Execute(context.Background(), SplitTileInput{
		Tree:      tree,
		TileID:    "T1",
		Direction: entity.DirectionDown,
		Pointer:   &entity.Point{X: 10, Y: 10},
	})

	require.NoError(t, err)
	assert.Equal(t, DefaultSplitFraction, out.Fraction)
}

func TestSplitTile_UnknownTargetIsNoOp(t *testing.T) {
	tree := entity.NewTree(newRow("R", []float64{0.5}, newTile("T1"), newTile("T2")))
	uc := NewSplitTileUseCase(nil, DefaultLayoutOptions())

	out, err := uc.Execute(context.Background(), SplitTileInput{
		Tree:      tree,
		TileID:    "missing",
		Direction: entity.DirectionRight,
	})

	require.ErrorIs(t, err, entity.ErrTileNotFound)
	assert.Nil(t, out)
	assert.Equal(t, []entity.NodeID{"T1", "T2"}, childIDs(tree.Root()))
	assert.Equal(t, 2, tree.TileCount())
	require.NoError(t, tree.Validate())
}

func TestSplitTile_InvalidDirection(t *testing.T) {
	tree := entity.NewTree(newTile("T1"))
	uc := NewSplitTileUseCase(nil, DefaultLayoutOptions())

	_, err := uc.Execute(context.Background(), SplitTileInput{
		Tree:      tree,
		TileID:    "T1",
		Direction: "diagonal",
	})

	require.Error(t, err)
	assert.Equal(t, entity.KindTile, tree.Root().Kind)
}
