package codegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellAttributes_Defaults(t *testing.T) {
	a := NewCellAttributes()
	attrs := a.At(NewCoordinate(0, 0, 0))

	assert.Nil(t, attrs[AttrBgColor])
	assert.Equal(t, FontWeightNormal, attrs[AttrFontWeight])
	assert.Equal(t, false, attrs[AttrFrozen])
	assert.Equal(t, AlignTop, attrs[AttrVerticalAlign])
	assert.Equal(t, JustifyLeft, attrs[AttrJustification])
	assert.Equal(t, RendererText, attrs[AttrRenderer])
	assert.Equal(t, 0, attrs[AttrBorderWidthBottom])
}

func TestCellAttributes_OverlayLaterEntryWins(t *testing.T) {
	a := NewCellAttributes()
	red := Color{R: 255}
	blue := Color{B: 255}

	a.Append(NewBlockSelection(Point{0, 0}, Point{1, 1}), 0, AttrDiff{AttrBgColor: red})
	a.Append(NewCellSelection(Point{1, 1}), 0, AttrDiff{AttrBgColor: blue})

	assert.Equal(t, red, a.At(NewCoordinate(0, 0, 0))[AttrBgColor])
	assert.Equal(t, blue, a.At(NewCoordinate(1, 1, 0))[AttrBgColor])
}

func TestCellAttributes_OverlayMergesNonConflictingKeys(t *testing.T) {
	a := NewCellAttributes()
	sel := NewBlockSelection(Point{0, 0}, Point{2, 2})

	a.Append(sel, 0, AttrDiff{AttrFontWeight: FontWeightBold, AttrUnderline: true})
	a.Append(sel, 0, AttrDiff{AttrFontWeight: FontWeightNormal, AttrLocked: true})

	attrs := a.At(NewCoordinate(1, 1, 0))
	assert.Equal(t, FontWeightNormal, attrs[AttrFontWeight], "later entry wins on conflict")
	assert.Equal(t, true, attrs[AttrUnderline], "earlier non-conflicting key survives")
	assert.Equal(t, true, attrs[AttrLocked])
}

func TestCellAttributes_TableScoping(t *testing.T) {
	a := NewCellAttributes()
	sel := NewCellSelection(Point{0, 0})

	a.Append(sel, 1, AttrDiff{AttrLocked: true})

	assert.Equal(t, false, a.At(NewCoordinate(0, 0, 0))[AttrLocked])
	assert.Equal(t, true, a.At(NewCoordinate(0, 0, 1))[AttrLocked])

	entries := a.ForTable(1)
	require.Len(t, entries, 1)
	assert.Empty(t, a.ForTable(0))
}

func TestCellAttributes_CacheInvalidatedOnAppend(t *testing.T) {
	a := NewCellAttributes()
	coord := NewCoordinate(2, 2, 0)

	assert.Equal(t, false, a.At(coord)[AttrLocked])

	// The memoized result must not survive a log append.
	a.Append(NewCellSelection(Point{2, 2}), 0, AttrDiff{AttrLocked: true})
	assert.Equal(t, true, a.At(coord)[AttrLocked])
}

func TestCellAttributes_MergingCell(t *testing.T) {
	a := NewCellAttributes()
	area := MergeArea{Top: 1, Left: 1, Bottom: 3, Right: 4}
	a.Append(NewBlockSelection(Point{1, 1}, Point{3, 4}), 0, AttrDiff{AttrMergeArea: area})

	anchor, ok := a.MergingCell(NewCoordinate(2, 3, 0))
	require.True(t, ok)
	assert.Equal(t, NewCoordinate(1, 1, 0), anchor)

	anchor, ok = a.MergingCell(NewCoordinate(1, 1, 0))
	require.True(t, ok, "the anchor itself resolves to itself")
	assert.Equal(t, NewCoordinate(1, 1, 0), anchor)

	_, ok = a.MergingCell(NewCoordinate(0, 0, 0))
	assert.False(t, ok)

	_, ok = a.MergingCell(NewCoordinate(2, 3, 1))
	assert.False(t, ok, "merge is scoped to its table")
}

func TestCellAttributes_Truncate(t *testing.T) {
	a := NewCellAttributes()
	a.Append(NewCellSelection(Point{0, 0}), 0, AttrDiff{AttrLocked: true})
	require.Equal(t, 1, a.Len())

	a.Truncate()
	assert.Zero(t, a.Len())
	assert.Equal(t, false, a.At(NewCoordinate(0, 0, 0))[AttrLocked])
}

func TestCellAttributes_AppendCopiesDiff(t *testing.T) {
	a := NewCellAttributes()
	diff := AttrDiff{AttrLocked: true}
	a.Append(NewCellSelection(Point{0, 0}), 0, diff)

	diff[AttrLocked] = false
	assert.Equal(t, true, a.At(NewCoordinate(0, 0, 0))[AttrLocked],
		"mutating the caller's diff must not change the log")
}

func TestCellAttributes_InsertShiftRows(t *testing.T) {
	a := NewCellAttributes()
	a.Append(NewBlockSelection(Point{0, 0}, Point{1, 1}), 0, AttrDiff{AttrLocked: true})
	a.Append(NewCellSelection(Point{5, 0}), 0, AttrDiff{AttrUnderline: true})
	a.Append(NewCellSelection(Point{5, 0}), 1, AttrDiff{AttrUnderline: true})

	a.insertShift(3, 2, AxisRow, 0)

	assert.Equal(t, true, a.At(NewCoordinate(0, 0, 0))[AttrLocked],
		"selection entirely before the edit is unchanged")
	assert.Equal(t, false, a.At(NewCoordinate(5, 0, 0))[AttrUnderline])
	assert.Equal(t, true, a.At(NewCoordinate(7, 0, 0))[AttrUnderline])
	assert.Equal(t, true, a.At(NewCoordinate(5, 0, 1))[AttrUnderline],
		"other tables are untouched by a row edit")
}

func TestCellAttributes_InsertShiftTables(t *testing.T) {
	a := NewCellAttributes()
	a.Append(NewCellSelection(Point{0, 0}), 0, AttrDiff{AttrLocked: true})
	a.Append(NewCellSelection(Point{0, 0}), 2, AttrDiff{AttrUnderline: true})

	a.insertShift(1, 1, AxisTable, 0)
	assert.Equal(t, true, a.At(NewCoordinate(0, 0, 0))[AttrLocked])
	assert.Equal(t, true, a.At(NewCoordinate(0, 0, 3))[AttrUnderline])

	a.insertShift(0, -1, AxisTable, 0)
	assert.Equal(t, false, a.At(NewCoordinate(0, 0, 0))[AttrLocked],
		"entries of a deleted table are dropped")
	assert.Equal(t, true, a.At(NewCoordinate(0, 0, 2))[AttrUnderline])
}

func TestCellAttributes_MergeAreaTracksShift(t *testing.T) {
	a := NewCellAttributes()
	area := MergeArea{Top: 2, Left: 0, Bottom: 3, Right: 1}
	a.Append(NewBlockSelection(Point{2, 0}, Point{3, 1}), 0, AttrDiff{AttrMergeArea: area})

	a.insertShift(0, 2, AxisRow, 0)

	anchor, ok := a.MergingCell(NewCoordinate(4, 0, 0))
	require.True(t, ok)
	assert.Equal(t, NewCoordinate(4, 0, 0), anchor)
}

func TestCellAttributes_MergeAreaTruncatesOnDelete(t *testing.T) {
	a := NewCellAttributes()
	area := MergeArea{Top: 1, Left: 0, Bottom: 3, Right: 2}
	a.Append(NewBlockSelection(Point{1, 0}, Point{3, 2}), 0, AttrDiff{AttrMergeArea: area})

	a.insertShift(2, -2, AxisRow, 0)

	e := a.Entries()[0]
	assert.Equal(t, []Point{{1, 0}}, e.Selection.BlockTL)
	assert.Equal(t, []Point{{1, 2}}, e.Selection.BlockBR)
	// The area's bottom edge must truncate with the selection, not stay one
	// row past it.
	assert.Equal(t, MergeArea{Top: 1, Left: 0, Bottom: 1, Right: 2}, e.Diff[AttrMergeArea])
}

func TestCellAttributes_MergeAreaDroppedByDelete(t *testing.T) {
	a := NewCellAttributes()
	area := MergeArea{Top: 0, Left: 1, Bottom: 2, Right: 2}
	a.Append(NewBlockSelection(Point{0, 1}, Point{2, 2}), 0, AttrDiff{AttrMergeArea: area})

	a.insertShift(1, -3, AxisCol, 0)

	e := a.Entries()[0]
	assert.NotContains(t, e.Diff, AttrMergeArea)
	_, ok := a.MergingCell(NewCoordinate(0, 1, 0))
	assert.False(t, ok)
}
