package codegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_Contains(t *testing.T) {
	sel := NewBlockSelection(Point{1, 1}, Point{3, 4})
	sel = sel.Union(NewCellSelection(Point{10, 10}))
	sel.Rows = append(sel.Rows, 20)
	sel.Cols = append(sel.Cols, 30)

	assert.True(t, sel.Contains(Point{1, 1}))
	assert.True(t, sel.Contains(Point{3, 4}))
	assert.True(t, sel.Contains(Point{2, 3}))
	assert.True(t, sel.Contains(Point{10, 10}))
	assert.True(t, sel.Contains(Point{20, 999}), "row selector spans every column")
	assert.True(t, sel.Contains(Point{999, 30}), "column selector spans every row")

	assert.False(t, sel.Contains(Point{0, 0}))
	assert.False(t, sel.Contains(Point{4, 4}))
	assert.False(t, sel.Contains(Point{10, 11}))
}

func TestSelection_Empty(t *testing.T) {
	var sel Selection
	assert.True(t, sel.Empty())
	assert.False(t, sel.Contains(Point{0, 0}))

	_, ok := sel.BoundingBox()
	assert.False(t, ok)

	count := 0
	for range sel.CellsIn(Shape{10, 10, 1}, 0) {
		count++
	}
	assert.Zero(t, count)
}

func TestSelection_BoundingBox(t *testing.T) {
	sel := NewBlockSelection(Point{2, 3}, Point{5, 6})
	sel = sel.Union(NewCellSelection(Point{0, 9}))

	box, ok := sel.BoundingBox()
	require.True(t, ok)
	assert.Equal(t, Point{0, 3}, box.TopLeft)
	assert.Equal(t, Point{5, 9}, box.BottomRight)
}

func TestSelection_ShiftPreservesMembership(t *testing.T) {
	sel := NewBlockSelection(Point{1, 1}, Point{4, 4})
	sel = sel.Union(NewCellSelection(Point{7, 2}))

	shifted := sel.Shift(3, -1)
	for _, p := range []Point{{1, 1}, {4, 4}, {2, 3}, {7, 2}, {0, 0}, {5, 5}} {
		assert.Equal(t, sel.Contains(p), shifted.Contains(Point{p.Row + 3, p.Col - 1}),
			"membership of %v must be preserved under shift", p)
	}
}

func TestSelection_ShiftAllowsNegative(t *testing.T) {
	sel := NewCellSelection(Point{1, 1}).Shift(-5, -5)
	assert.True(t, sel.Contains(Point{-4, -4}))
}

func TestSelection_Intersection(t *testing.T) {
	t.Run("overlapping blocks", func(t *testing.T) {
		a := NewBlockSelection(Point{0, 0}, Point{4, 4})
		b := NewBlockSelection(Point{2, 2}, Point{8, 8})
		got := a.Intersection(b)
		require.Len(t, got.BlockTL, 1)
		assert.Equal(t, Point{2, 2}, got.BlockTL[0])
		assert.Equal(t, Point{4, 4}, got.BlockBR[0])
	})

	t.Run("disjoint blocks are empty", func(t *testing.T) {
		a := NewBlockSelection(Point{0, 0}, Point{1, 1})
		b := NewBlockSelection(Point{5, 5}, Point{6, 6})
		assert.True(t, a.Intersection(b).Empty())
	})

	t.Run("identical single cells", func(t *testing.T) {
		a := NewCellSelection(Point{3, 3})
		b := NewCellSelection(Point{3, 3})
		got := a.Intersection(b)
		p, ok := got.SingleCell()
		require.True(t, ok)
		assert.Equal(t, Point{3, 3}, p)
	})

	t.Run("distinct single cells are empty", func(t *testing.T) {
		a := NewCellSelection(Point{3, 3})
		b := NewCellSelection(Point{3, 4})
		assert.True(t, a.Intersection(b).Empty())
	})

	t.Run("cell inside block survives", func(t *testing.T) {
		a := NewCellSelection(Point{2, 2})
		b := NewBlockSelection(Point{0, 0}, Point{4, 4})
		got := a.Intersection(b)
		p, ok := got.SingleCell()
		require.True(t, ok)
		assert.Equal(t, Point{2, 2}, p)
	})
}

func TestSelection_SingleCell(t *testing.T) {
	p, ok := NewCellSelection(Point{2, 5}).SingleCell()
	assert.True(t, ok)
	assert.Equal(t, Point{2, 5}, p)

	p, ok = NewBlockSelection(Point{1, 1}, Point{1, 1}).SingleCell()
	assert.True(t, ok)
	assert.Equal(t, Point{1, 1}, p)

	_, ok = NewBlockSelection(Point{1, 1}, Point{2, 1}).SingleCell()
	assert.False(t, ok)

	_, ok = NewCellSelection(Point{0, 0}).Union(NewCellSelection(Point{1, 1})).SingleCell()
	assert.False(t, ok)
}

func TestSelection_CellsInDedupesAndClips(t *testing.T) {
	sel := NewBlockSelection(Point{0, 0}, Point{2, 2})
	sel = sel.Union(NewCellSelection(Point{1, 1}))     // inside the block
	sel = sel.Union(NewCellSelection(Point{100, 100})) // outside the shape
	sel = sel.Union(NewBlockSelection(Point{1, 1}, Point{3, 3}))

	seen := make(map[Coordinate]int)
	for c := range sel.CellsIn(Shape{Rows: 3, Cols: 3, Tables: 2}, 1) {
		seen[c]++
	}
	assert.Len(t, seen, 9, "3x3 shape bounds the union")
	for c, n := range seen {
		assert.Equal(t, 1, n, "coordinate %v yielded more than once", c)
		assert.Equal(t, 1, c.Table)
	}
}

func TestSelection_CellsInRestartable(t *testing.T) {
	sel := NewBlockSelection(Point{0, 0}, Point{1, 1})
	seq := sel.CellsIn(Shape{4, 4, 1}, 0)

	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	assert.Equal(t, 4, first)
	assert.Equal(t, first, second)
}

func TestSelection_InsertExtendsStraddlingBlocks(t *testing.T) {
	sel := NewBlockSelection(Point{2, 0}, Point{6, 3})

	got := sel.insert(4, 2, AxisRow)
	require.Len(t, got.BlockTL, 1)
	assert.Equal(t, Point{2, 0}, got.BlockTL[0], "start before the edit is untouched")
	assert.Equal(t, Point{8, 3}, got.BlockBR[0], "straddled block is extended")

	got = sel.insert(0, 3, AxisRow)
	assert.Equal(t, Point{5, 0}, got.BlockTL[0], "block fully past the edit moves")
	assert.Equal(t, Point{9, 3}, got.BlockBR[0])
}

func TestSelection_DeleteTruncatesAndDrops(t *testing.T) {
	sel := NewBlockSelection(Point{2, 0}, Point{6, 3})
	sel = sel.Union(NewCellSelection(Point{4, 1}))
	sel = sel.Union(NewCellSelection(Point{9, 1}))

	got := sel.insert(3, -2, AxisRow)
	require.Len(t, got.BlockTL, 1)
	assert.Equal(t, Point{2, 0}, got.BlockTL[0])
	assert.Equal(t, Point{4, 3}, got.BlockBR[0], "straddled block is truncated")
	assert.Equal(t, []Point{{7, 1}}, got.Cells, "cell in range dropped, later cell shifted")

	// A block wholly inside the deleted range vanishes.
	inner := NewBlockSelection(Point{3, 0}, Point{4, 0})
	assert.True(t, inner.insert(3, -2, AxisRow).Empty())
}

func TestSelection_BorderDerivations(t *testing.T) {
	sel := NewBlockSelection(Point{1, 1}, Point{3, 4})

	bottom := sel.BottomBorderCells(true)
	require.Len(t, bottom.BlockTL, 1)
	assert.Equal(t, Point{3, 1}, bottom.BlockTL[0])
	assert.Equal(t, Point{3, 4}, bottom.BlockBR[0])

	right := sel.RightBorderCells(true)
	require.Len(t, right.BlockTL, 1)
	assert.Equal(t, Point{1, 4}, right.BlockTL[0])
	assert.Equal(t, Point{3, 4}, right.BlockBR[0])

	assert.Equal(t, sel, sel.BottomBorderCells(false), "every-cell rule keeps the selection")
}
