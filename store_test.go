package codegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellStore_RoundTrip(t *testing.T) {
	s := NewCellStore()
	coord := NewCoordinate(1, 2, 0)

	_, ok := s.Get(coord)
	assert.False(t, ok)

	s.Set(coord, "1 + 1")
	code, ok := s.Get(coord)
	require.True(t, ok)
	assert.Equal(t, "1 + 1", code)
	assert.True(t, s.Contains(coord))
	assert.Equal(t, 1, s.Len())

	s.Set(coord, "2 + 2")
	code, _ = s.Get(coord)
	assert.Equal(t, "2 + 2", code, "set overwrites")
}

func TestCellStore_PopDistinguishesAbsence(t *testing.T) {
	s := NewCellStore()
	coord := NewCoordinate(0, 0, 0)

	_, err := s.Pop(coord)
	assert.ErrorIs(t, err, ErrNotPresent)

	s.Set(coord, "x")
	code, err := s.Pop(coord)
	require.NoError(t, err)
	assert.Equal(t, "x", code)
	assert.False(t, s.Contains(coord), "pop removes the key entirely")

	_, err = s.Pop(coord)
	assert.ErrorIs(t, err, ErrNotPresent)
}

func TestCellStore_SortedCoords(t *testing.T) {
	s := NewCellStore()
	s.Set(NewCoordinate(1, 0, 1), "a")
	s.Set(NewCoordinate(0, 5, 0), "b")
	s.Set(NewCoordinate(0, 2, 0), "c")
	s.Set(NewCoordinate(2, 0, 0), "d")

	assert.Equal(t, []Coordinate{
		{0, 2, 0}, {0, 5, 0}, {2, 0, 0}, {1, 0, 1},
	}, s.SortedCoords())
}

func TestCellStore_InsertShiftRowsScopedToTable(t *testing.T) {
	s := NewCellStore()
	s.Set(NewCoordinate(0, 0, 0), "keep")
	s.Set(NewCoordinate(2, 0, 0), "move")
	s.Set(NewCoordinate(2, 0, 1), "other table")

	s.insertShift(1, 2, AxisRow, 0)

	assert.True(t, s.Contains(NewCoordinate(0, 0, 0)))
	assert.False(t, s.Contains(NewCoordinate(2, 0, 0)))
	assert.True(t, s.Contains(NewCoordinate(4, 0, 0)))
	assert.True(t, s.Contains(NewCoordinate(2, 0, 1)))
}

func TestCellStore_DeleteShiftDropsRange(t *testing.T) {
	s := NewCellStore()
	s.Set(NewCoordinate(0, 0, 0), "before")
	s.Set(NewCoordinate(3, 0, 0), "inside")
	s.Set(NewCoordinate(6, 0, 0), "after")

	s.insertShift(2, -3, AxisRow, 0)

	assert.True(t, s.Contains(NewCoordinate(0, 0, 0)))
	assert.Equal(t, 2, s.Len(), "cell inside the deleted rows is gone")
	code, ok := s.Get(NewCoordinate(3, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "after", code)
}

func TestCellStore_TableShiftSpansStore(t *testing.T) {
	s := NewCellStore()
	s.Set(NewCoordinate(0, 0, 0), "t0")
	s.Set(NewCoordinate(0, 0, 2), "t2")

	s.insertShift(1, 1, AxisTable, 0)
	assert.True(t, s.Contains(NewCoordinate(0, 0, 0)))
	assert.True(t, s.Contains(NewCoordinate(0, 0, 3)))

	s.insertShift(0, -1, AxisTable, 0)
	assert.False(t, s.Contains(NewCoordinate(0, 0, 0)))
	assert.True(t, s.Contains(NewCoordinate(0, 0, 2)))
}

func TestCellStore_Clip(t *testing.T) {
	s := NewCellStore()
	s.Set(NewCoordinate(0, 0, 0), "in")
	s.Set(NewCoordinate(5, 0, 0), "out")

	s.clip(Shape{Rows: 3, Cols: 3, Tables: 1})
	assert.True(t, s.Contains(NewCoordinate(0, 0, 0)))
	assert.Equal(t, 1, s.Len())
}
