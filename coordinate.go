// Package codegrid implements a sparse, multi-table grid of code cells with
// lazy memoized evaluation, a layered cell-attribute overlay, and structural
// edits (row/column/table insert and delete) that keep code, cached results,
// and attribute selections consistent.
package codegrid

import "fmt"

// Coordinate identifies a single cell as (row, column, table), all 0-based.
type Coordinate struct {
	Row   int
	Col   int
	Table int
}

// NewCoordinate creates a Coordinate.
func NewCoordinate(row, col, table int) Coordinate {
	return Coordinate{Row: row, Col: col, Table: table}
}

// String formats the coordinate as "(row, col, table)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.Row, c.Col, c.Table)
}

// Axis selects the dimension a structural edit operates on.
type Axis uint8

const (
	AxisRow Axis = iota
	AxisCol
	AxisTable
)

func (a Axis) String() string {
	switch a {
	case AxisRow:
		return "row"
	case AxisCol:
		return "column"
	case AxisTable:
		return "table"
	}
	return fmt.Sprintf("axis(%d)", uint8(a))
}

// Shape is the extent of a grid: number of rows, columns, and tables.
type Shape struct {
	Rows   int
	Cols   int
	Tables int
}

// DefaultMaxShape bounds grid growth unless overridden with WithMaxShape.
// The limits mirror common spreadsheet ceilings.
var DefaultMaxShape = Shape{Rows: 1_000_000, Cols: 100_000, Tables: 100}

// Contains reports whether c lies inside the shape.
func (s Shape) Contains(c Coordinate) bool {
	return c.Row >= 0 && c.Row < s.Rows &&
		c.Col >= 0 && c.Col < s.Cols &&
		c.Table >= 0 && c.Table < s.Tables
}

// Valid reports whether every extent is at least 1.
func (s Shape) Valid() bool {
	return s.Rows >= 1 && s.Cols >= 1 && s.Tables >= 1
}

// Fits reports whether s lies within max on every axis.
func (s Shape) Fits(max Shape) bool {
	return s.Rows <= max.Rows && s.Cols <= max.Cols && s.Tables <= max.Tables
}

// Extent returns the shape's size along the given axis.
func (s Shape) Extent(axis Axis) int {
	switch axis {
	case AxisRow:
		return s.Rows
	case AxisCol:
		return s.Cols
	case AxisTable:
		return s.Tables
	}
	return 0
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.Rows, s.Cols, s.Tables)
}
