package codegrid

import "sort"

// CellStore is a sparse mapping from coordinates to cell code. Absence of a
// key means an empty cell; empty cells are never materialized.
type CellStore struct {
	cells map[Coordinate]string
}

// NewCellStore creates an empty store.
func NewCellStore() *CellStore {
	return &CellStore{cells: make(map[Coordinate]string)}
}

// Get returns the code at coord and whether an entry exists.
func (s *CellStore) Get(coord Coordinate) (string, bool) {
	code, ok := s.cells[coord]
	return code, ok
}

// Set stores code at coord, creating or overwriting the entry.
func (s *CellStore) Set(coord Coordinate, code string) {
	s.cells[coord] = code
}

// Pop removes the entry at coord and returns its previous code. Removing an
// absent coordinate reports ErrNotPresent so callers can tell a real delete
// from a no-op.
func (s *CellStore) Pop(coord Coordinate) (string, error) {
	code, ok := s.cells[coord]
	if !ok {
		return "", ErrNotPresent
	}
	delete(s.cells, coord)
	return code, nil
}

// Contains reports whether coord holds code.
func (s *CellStore) Contains(coord Coordinate) bool {
	_, ok := s.cells[coord]
	return ok
}

// Len returns the number of occupied cells.
func (s *CellStore) Len() int {
	return len(s.cells)
}

// SortedCoords returns every occupied coordinate ordered by table, then
// row-major within each table.
func (s *CellStore) SortedCoords() []Coordinate {
	coords := make([]Coordinate, 0, len(s.cells))
	for c := range s.cells {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		a, b := coords[i], coords[j]
		if a.Table != b.Table {
			return a.Table < b.Table
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return coords
}

// insertShift relabels keys for count rows or columns inserted at the given
// position in one table, or tables inserted across the whole store. A
// negative count deletes: keys inside the removed range are dropped and keys
// past it move down. Callers validate bounds before calling.
func (s *CellStore) insertShift(at, count int, axis Axis, table int) {
	shifted := make(map[Coordinate]string, len(s.cells))
	for coord, code := range s.cells {
		if axis != AxisTable && coord.Table != table {
			shifted[coord] = code
			continue
		}
		v := coordAxis(coord, axis)
		if count >= 0 {
			if v >= at {
				v += count
			}
		} else {
			n := -count
			if v >= at && v < at+n {
				continue // cell removed with its rows/columns/tables
			}
			if v >= at+n {
				v -= n
			}
		}
		shifted[setCoordAxis(coord, axis, v)] = code
	}
	s.cells = shifted
}

// clip drops every entry outside the shape.
func (s *CellStore) clip(shape Shape) {
	for coord := range s.cells {
		if !shape.Contains(coord) {
			delete(s.cells, coord)
		}
	}
}

// clear removes every entry.
func (s *CellStore) clear() {
	s.cells = make(map[Coordinate]string)
}

func coordAxis(c Coordinate, axis Axis) int {
	switch axis {
	case AxisRow:
		return c.Row
	case AxisCol:
		return c.Col
	}
	return c.Table
}

func setCoordAxis(c Coordinate, axis Axis, v int) Coordinate {
	switch axis {
	case AxisRow:
		c.Row = v
	case AxisCol:
		c.Col = v
	case AxisTable:
		c.Table = v
	}
	return c
}
