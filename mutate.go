package codegrid

import "fmt"

// Structural edits. Each operation validates completely before touching any
// store, then applies the shift in a fixed order: cell store, result cache,
// attribute selections, row/column sizes, and finally the shape. A non-nil
// error therefore always means nothing changed.

// InsertRows inserts count rows at the given position in one table. Cells,
// cached frozen results, attribute selections, and row heights at or below
// the position move down.
func (g *Grid) InsertRows(at, count, table int) error {
	return g.insert(at, count, AxisRow, table)
}

// InsertCols inserts count columns at the given position in one table.
func (g *Grid) InsertCols(at, count, table int) error {
	return g.insert(at, count, AxisCol, table)
}

// InsertTables inserts count tables at the given position. Table indices
// shift across the whole grid.
func (g *Grid) InsertTables(at, count int) error {
	return g.insert(at, count, AxisTable, 0)
}

// DeleteRows deletes count rows at the given position in one table. Cells
// inside the removed rows are dropped; everything below moves up. Deleting
// every row of the table is rejected with ErrLastOfAxis.
func (g *Grid) DeleteRows(at, count, table int) error {
	return g.delete(at, count, AxisRow, table)
}

// DeleteCols deletes count columns at the given position in one table.
func (g *Grid) DeleteCols(at, count, table int) error {
	return g.delete(at, count, AxisCol, table)
}

// DeleteTables deletes count tables at the given position.
func (g *Grid) DeleteTables(at, count int) error {
	return g.delete(at, count, AxisTable, 0)
}

func (g *Grid) insert(at, count int, axis Axis, table int) error {
	extent, err := g.validateEdit(at, count, axis, table)
	if err != nil {
		return err
	}
	if at > extent {
		return fmt.Errorf("insert %d %s(s) at %d of %d: %w", count, axis, at, extent, ErrOutOfBounds)
	}
	grown := g.shape
	switch axis {
	case AxisRow:
		grown.Rows += count
	case AxisCol:
		grown.Cols += count
	case AxisTable:
		grown.Tables += count
	}
	if !grown.Fits(g.opts.maxShape) {
		return fmt.Errorf("insert %d %s(s): shape %v exceeds maximum %v: %w",
			count, axis, grown, g.opts.maxShape, ErrShapeExceeded)
	}

	g.store.insertShift(at, count, axis, table)
	g.cache.insertShift(at, count, axis, table)
	g.attrs.insertShift(at, count, axis, table)
	g.shiftSizes(at, count, axis, table)
	g.shape = grown
	return nil
}

func (g *Grid) delete(at, count int, axis Axis, table int) error {
	extent, err := g.validateEdit(at, count, axis, table)
	if err != nil {
		return err
	}
	if at >= extent || at+count > extent {
		return fmt.Errorf("delete %d %s(s) at %d of %d: %w", count, axis, at, extent, ErrOutOfBounds)
	}
	if count >= extent {
		return fmt.Errorf("delete %d of %d %s(s): %w", count, extent, axis, ErrLastOfAxis)
	}
	shrunk := g.shape
	switch axis {
	case AxisRow:
		shrunk.Rows -= count
	case AxisCol:
		shrunk.Cols -= count
	case AxisTable:
		shrunk.Tables -= count
	}

	g.store.insertShift(at, -count, axis, table)
	g.cache.insertShift(at, -count, axis, table)
	g.attrs.insertShift(at, -count, axis, table)
	g.shiftSizes(at, -count, axis, table)
	g.shape = shrunk
	return nil
}

func (g *Grid) validateEdit(at, count int, axis Axis, table int) (extent int, err error) {
	switch axis {
	case AxisRow, AxisCol, AxisTable:
	default:
		return 0, fmt.Errorf("axis %d: %w", axis, ErrBadAxis)
	}
	if axis != AxisTable && (table < 0 || table >= g.shape.Tables) {
		return 0, fmt.Errorf("edit in table %d of %d: %w", table, g.shape.Tables, ErrOutOfBounds)
	}
	if at < 0 || count < 1 {
		return 0, fmt.Errorf("edit at %d count %d: %w", at, count, ErrOutOfBounds)
	}
	return g.shape.Extent(axis), nil
}

// shiftSizes relabels row-height and column-width keys alongside the edit.
// Rows scoped to the table move for a row edit; a table edit moves both maps
// across all tables; a column edit moves the width map only.
func (g *Grid) shiftSizes(at, count int, axis Axis, table int) {
	switch axis {
	case AxisRow:
		shifted := make(map[RowTab]float64, len(g.rowHeights))
		for k, v := range g.rowHeights {
			if k.Table != table {
				shifted[k] = v
				continue
			}
			if idx, ok := shiftIndex(k.Row, at, count); ok {
				shifted[RowTab{Row: idx, Table: k.Table}] = v
			}
		}
		g.rowHeights = shifted
	case AxisCol:
		shifted := make(map[ColTab]float64, len(g.colWidths))
		for k, v := range g.colWidths {
			if k.Table != table {
				shifted[k] = v
				continue
			}
			if idx, ok := shiftIndex(k.Col, at, count); ok {
				shifted[ColTab{Col: idx, Table: k.Table}] = v
			}
		}
		g.colWidths = shifted
	case AxisTable:
		heights := make(map[RowTab]float64, len(g.rowHeights))
		for k, v := range g.rowHeights {
			if idx, ok := shiftIndex(k.Table, at, count); ok {
				heights[RowTab{Row: k.Row, Table: idx}] = v
			}
		}
		g.rowHeights = heights
		widths := make(map[ColTab]float64, len(g.colWidths))
		for k, v := range g.colWidths {
			if idx, ok := shiftIndex(k.Table, at, count); ok {
				widths[ColTab{Col: k.Col, Table: idx}] = v
			}
		}
		g.colWidths = widths
	}
}

// shiftIndex maps an index across an insert (count > 0) or delete
// (count < 0) at position at. The second return is false when the index
// falls inside a deleted range.
func shiftIndex(v, at, count int) (int, bool) {
	if count >= 0 {
		if v >= at {
			return v + count, true
		}
		return v, true
	}
	n := -count
	if v >= at && v < at+n {
		return 0, false
	}
	if v >= at+n {
		return v - n, true
	}
	return v, true
}
