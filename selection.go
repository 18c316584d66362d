package codegrid

import (
	"iter"
)

// Point is a 2-D cell position inside one table. Table scoping is carried by
// whatever owns the Selection (e.g. an attribute log entry).
type Point struct {
	Row int
	Col int
}

// Block is a rectangle of cells, both corners inclusive.
type Block struct {
	TopLeft     Point
	BottomRight Point
}

// Contains reports whether p lies inside the block.
func (b Block) Contains(p Point) bool {
	return p.Row >= b.TopLeft.Row && p.Row <= b.BottomRight.Row &&
		p.Col >= b.TopLeft.Col && p.Col <= b.BottomRight.Col
}

// Selection is a set of cells expressed as rectangular blocks, whole-row and
// whole-column selectors, and individual cells. BlockTL and BlockBR are
// parallel: entry i of each together defines one rectangle, and the two
// slices must always have equal length.
type Selection struct {
	BlockTL []Point
	BlockBR []Point
	Rows    []int
	Cols    []int
	Cells   []Point
}

// NewBlockSelection selects the rectangle spanned by two corners.
func NewBlockSelection(topLeft, bottomRight Point) Selection {
	return Selection{
		BlockTL: []Point{topLeft},
		BlockBR: []Point{bottomRight},
	}
}

// NewCellSelection selects a single cell.
func NewCellSelection(p Point) Selection {
	return Selection{Cells: []Point{p}}
}

// Empty reports whether the selection selects nothing.
func (s Selection) Empty() bool {
	return len(s.BlockTL) == 0 && len(s.Rows) == 0 &&
		len(s.Cols) == 0 && len(s.Cells) == 0
}

// Contains reports whether p falls in any block, row or column selector, or
// the individual cell set.
func (s Selection) Contains(p Point) bool {
	for i := range s.BlockTL {
		if (Block{TopLeft: s.BlockTL[i], BottomRight: s.BlockBR[i]}).Contains(p) {
			return true
		}
	}
	for _, r := range s.Rows {
		if p.Row == r {
			return true
		}
	}
	for _, c := range s.Cols {
		if p.Col == c {
			return true
		}
	}
	for _, cell := range s.Cells {
		if cell == p {
			return true
		}
	}
	return false
}

// BoundingBox returns the smallest block containing every selected cell.
// Row and column selectors contribute only along their own axis. The second
// return is false for an empty selection.
func (s Selection) BoundingBox() (Block, bool) {
	if s.Empty() {
		return Block{}, false
	}
	const big = int(^uint(0) >> 1)
	minR, minC := big, big
	maxR, maxC := -big-1, -big-1

	grow := func(p Point) {
		minR, maxR = min(minR, p.Row), max(maxR, p.Row)
		minC, maxC = min(minC, p.Col), max(maxC, p.Col)
	}
	for i := range s.BlockTL {
		grow(s.BlockTL[i])
		grow(s.BlockBR[i])
	}
	for _, p := range s.Cells {
		grow(p)
	}
	for _, r := range s.Rows {
		minR, maxR = min(minR, r), max(maxR, r)
	}
	for _, c := range s.Cols {
		minC, maxC = min(minC, c), max(maxC, c)
	}
	return Block{TopLeft: Point{minR, minC}, BottomRight: Point{maxR, maxC}}, true
}

// Union returns a selection containing every cell of s and other. Components
// are concatenated; duplicates are harmless for membership and are deduped
// during iteration.
func (s Selection) Union(other Selection) Selection {
	return Selection{
		BlockTL: append(append([]Point{}, s.BlockTL...), other.BlockTL...),
		BlockBR: append(append([]Point{}, s.BlockBR...), other.BlockBR...),
		Rows:    append(append([]int{}, s.Rows...), other.Rows...),
		Cols:    append(append([]int{}, s.Cols...), other.Cols...),
		Cells:   append(append([]Point{}, s.Cells...), other.Cells...),
	}
}

// Intersection returns the overlap of s and other as a new selection: each
// block/block pair contributes its overlap rectangle when one exists, and a
// cell survives when the other selection contains it.
func (s Selection) Intersection(other Selection) Selection {
	var out Selection

	for i := range s.BlockTL {
		a := Block{TopLeft: s.BlockTL[i], BottomRight: s.BlockBR[i]}
		for j := range other.BlockTL {
			b := Block{TopLeft: other.BlockTL[j], BottomRight: other.BlockBR[j]}
			tl := Point{max(a.TopLeft.Row, b.TopLeft.Row), max(a.TopLeft.Col, b.TopLeft.Col)}
			br := Point{min(a.BottomRight.Row, b.BottomRight.Row), min(a.BottomRight.Col, b.BottomRight.Col)}
			if tl.Row <= br.Row && tl.Col <= br.Col {
				out.BlockTL = append(out.BlockTL, tl)
				out.BlockBR = append(out.BlockBR, br)
			}
		}
	}
	for _, p := range s.Cells {
		if other.Contains(p) {
			out.Cells = append(out.Cells, p)
		}
	}
	for _, p := range other.Cells {
		if s.Contains(p) && !out.Contains(p) {
			out.Cells = append(out.Cells, p)
		}
	}
	return out
}

// Shift translates every block corner, selector index, and cell by the given
// deltas. Negative resulting positions are permitted; clipping is the
// caller's concern.
func (s Selection) Shift(dRow, dCol int) Selection {
	shiftPoints := func(ps []Point) []Point {
		out := make([]Point, len(ps))
		for i, p := range ps {
			out[i] = Point{p.Row + dRow, p.Col + dCol}
		}
		return out
	}
	shiftInts := func(xs []int, d int) []int {
		out := make([]int, len(xs))
		for i, x := range xs {
			out[i] = x + d
		}
		return out
	}
	return Selection{
		BlockTL: shiftPoints(s.BlockTL),
		BlockBR: shiftPoints(s.BlockBR),
		Rows:    shiftInts(s.Rows, dRow),
		Cols:    shiftInts(s.Cols, dCol),
		Cells:   shiftPoints(s.Cells),
	}
}

// SingleCell returns the one cell the selection reduces to, if it does:
// either exactly one individual cell and no blocks, or exactly one 1x1 block
// and no cells (row/column selectors always span more than one cell).
func (s Selection) SingleCell() (Point, bool) {
	if len(s.Rows) > 0 || len(s.Cols) > 0 {
		return Point{}, false
	}
	switch {
	case len(s.Cells) == 1 && len(s.BlockTL) == 0:
		return s.Cells[0], true
	case len(s.Cells) == 0 && len(s.BlockTL) == 1 && s.BlockTL[0] == s.BlockBR[0]:
		return s.BlockTL[0], true
	}
	return Point{}, false
}

// CellsIn iterates every selected cell inside the shape for the given table,
// blocks first then individual cells, without yielding a cell twice. The
// returned sequence is restartable.
func (s Selection) CellsIn(shape Shape, table int) iter.Seq[Coordinate] {
	return func(yield func(Coordinate) bool) {
		seen := make(map[Point]struct{})
		emit := func(p Point) bool {
			if p.Row < 0 || p.Row >= shape.Rows || p.Col < 0 || p.Col >= shape.Cols {
				return true
			}
			if _, ok := seen[p]; ok {
				return true
			}
			seen[p] = struct{}{}
			return yield(Coordinate{Row: p.Row, Col: p.Col, Table: table})
		}
		for i := range s.BlockTL {
			tl, br := s.BlockTL[i], s.BlockBR[i]
			for r := max(tl.Row, 0); r <= min(br.Row, shape.Rows-1); r++ {
				for c := max(tl.Col, 0); c <= min(br.Col, shape.Cols-1); c++ {
					if !emit(Point{r, c}) {
						return
					}
				}
			}
		}
		for _, r := range s.Rows {
			for c := 0; c < shape.Cols; c++ {
				if !emit(Point{r, c}) {
					return
				}
			}
		}
		for _, c := range s.Cols {
			for r := 0; r < shape.Rows; r++ {
				if !emit(Point{r, c}) {
					return
				}
			}
		}
		for _, p := range s.Cells {
			if !emit(p) {
				return
			}
		}
	}
}

// insert adjusts the selection for count rows or columns inserted at the
// given position: everything at or past the position moves by count, and
// blocks straddling the position are extended. A negative count performs the
// matching delete adjustment, truncating straddling blocks and dropping
// blocks and cells that vanish entirely.
func (s Selection) insert(at, count int, axis Axis) Selection {
	if axis != AxisRow && axis != AxisCol {
		return s
	}
	get := func(p Point) int {
		if axis == AxisRow {
			return p.Row
		}
		return p.Col
	}
	set := func(p Point, v int) Point {
		if axis == AxisRow {
			p.Row = v
		} else {
			p.Col = v
		}
		return p
	}

	var out Selection
	for i := range s.BlockTL {
		tl, br := s.BlockTL[i], s.BlockBR[i]
		lo, hi := get(tl), get(br)
		if count >= 0 {
			if lo >= at {
				lo += count
			}
			if hi >= at {
				hi += count
			}
		} else {
			n := -count
			lo = deletePos(lo, at, n)
			hi = deletePosEnd(hi, at, n)
			if hi < lo {
				continue // block fell entirely inside the deleted range
			}
		}
		out.BlockTL = append(out.BlockTL, set(tl, lo))
		out.BlockBR = append(out.BlockBR, set(br, hi))
	}
	for _, p := range s.Cells {
		v := get(p)
		if count >= 0 {
			if v >= at {
				v += count
			}
		} else {
			n := -count
			if v >= at && v < at+n {
				continue
			}
			if v >= at+n {
				v -= n
			}
		}
		out.Cells = append(out.Cells, set(p, v))
	}
	idx := s.Rows
	keep := s.Cols
	if axis == AxisCol {
		idx, keep = s.Cols, s.Rows
	}
	var shifted []int
	for _, v := range idx {
		if count >= 0 {
			if v >= at {
				v += count
			}
		} else {
			n := -count
			if v >= at && v < at+n {
				continue
			}
			if v >= at+n {
				v -= n
			}
		}
		shifted = append(shifted, v)
	}
	if axis == AxisRow {
		out.Rows, out.Cols = shifted, append([]int{}, keep...)
	} else {
		out.Cols, out.Rows = shifted, append([]int{}, keep...)
	}
	return out
}

// deletePos maps a block start position across a delete of n at position at.
func deletePos(v, at, n int) int {
	switch {
	case v >= at+n:
		return v - n
	case v >= at:
		return at
	}
	return v
}

// deletePosEnd maps a block end position across the same delete.
func deletePosEnd(v, at, n int) int {
	switch {
	case v >= at+n:
		return v - n
	case v >= at:
		return at - 1
	}
	return v
}

// BottomBorderCells derives the selection of cells that receive a bottom
// border. With outerOnly, only each block's bottom edge row qualifies;
// otherwise every selected cell does. Individual cells always qualify.
func (s Selection) BottomBorderCells(outerOnly bool) Selection {
	if !outerOnly {
		return s
	}
	var out Selection
	for i := range s.BlockTL {
		tl, br := s.BlockTL[i], s.BlockBR[i]
		out.BlockTL = append(out.BlockTL, Point{br.Row, tl.Col})
		out.BlockBR = append(out.BlockBR, br)
	}
	out.Cells = append(out.Cells, s.Cells...)
	out.Rows = append(out.Rows, s.Rows...)
	return out
}

// RightBorderCells derives the selection of cells that receive a right
// border, analogous to BottomBorderCells.
func (s Selection) RightBorderCells(outerOnly bool) Selection {
	if !outerOnly {
		return s
	}
	var out Selection
	for i := range s.BlockTL {
		tl, br := s.BlockTL[i], s.BlockBR[i]
		out.BlockTL = append(out.BlockTL, Point{tl.Row, br.Col})
		out.BlockBR = append(out.BlockBR, br)
	}
	out.Cells = append(out.Cells, s.Cells...)
	out.Cols = append(out.Cols, s.Cols...)
	return out
}
