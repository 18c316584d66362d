package codegrid

import "fmt"

// RowTab keys a row height: a row within one table.
type RowTab struct {
	Row   int
	Table int
}

// ColTab keys a column width: a column within one table.
type ColTab struct {
	Col   int
	Table int
}

// Grid is the cell engine: a sparse code store, a memoized result cache,
// and a layered attribute overlay sharing one shape bound, mutated together
// by the structural operations in this package.
type Grid struct {
	shape Shape
	opts  *Options

	store *CellStore
	cache *ResultCache
	attrs *CellAttributes

	rowHeights map[RowTab]float64
	colWidths  map[ColTab]float64

	macros    string
	namespace map[string]any
}

// NewGrid creates a grid with the given shape. The shape must have at least
// one row, column, and table and fit the configured maximum.
func NewGrid(shape Shape, opts ...Option) (*Grid, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if !shape.Valid() {
		return nil, fmt.Errorf("shape %v: every extent must be at least 1: %w", shape, ErrOutOfBounds)
	}
	if !shape.Fits(o.maxShape) {
		return nil, fmt.Errorf("shape %v exceeds maximum %v: %w", shape, o.maxShape, ErrShapeExceeded)
	}
	ns := o.namespace
	if ns == nil {
		ns = make(map[string]any)
	}
	return &Grid{
		shape:      shape,
		opts:       o,
		store:      NewCellStore(),
		cache:      NewResultCache(),
		attrs:      NewCellAttributes(),
		rowHeights: make(map[RowTab]float64),
		colWidths:  make(map[ColTab]float64),
		namespace:  ns,
	}, nil
}

// Shape returns the current grid extent.
func (g *Grid) Shape() Shape {
	return g.shape
}

// SetShape clears the grid and reshapes it. Unlike structural edits, this is
// a full reset: all code, results, attributes, and sizes are dropped. The
// namespace survives; use Reset to drop it too.
func (g *Grid) SetShape(shape Shape) error {
	if !shape.Valid() {
		return fmt.Errorf("shape %v: every extent must be at least 1: %w", shape, ErrOutOfBounds)
	}
	if !shape.Fits(g.opts.maxShape) {
		return fmt.Errorf("shape %v exceeds maximum %v: %w", shape, g.opts.maxShape, ErrShapeExceeded)
	}
	g.shape = shape
	g.store.clear()
	g.cache.Clear()
	g.cache.ClearFrozen()
	g.attrs.Truncate()
	g.rowHeights = make(map[RowTab]float64)
	g.colWidths = make(map[ColTab]float64)
	return nil
}

// Reset clears everything including macros and the global namespace,
// keeping only the shape.
func (g *Grid) Reset() {
	shape := g.shape
	_ = g.SetShape(shape)
	g.macros = ""
	g.namespace = make(map[string]any)
}

// Code returns the code at coord and whether the cell is occupied.
func (g *Grid) Code(coord Coordinate) (string, bool) {
	return g.store.Get(coord)
}

// HasCode reports whether coord is occupied.
func (g *Grid) HasCode(coord Coordinate) bool {
	return g.store.Contains(coord)
}

// SetCode stores code at coord and invalidates the cell's cached result.
func (g *Grid) SetCode(coord Coordinate, code string) error {
	if !g.shape.Contains(coord) {
		return fmt.Errorf("set code at %v in shape %v: %w", coord, g.shape, ErrOutOfBounds)
	}
	g.store.Set(coord, code)
	g.cache.Invalidate(coord)
	return nil
}

// PopCode removes the cell at coord and returns its previous code. Popping
// an empty cell reports ErrNotPresent.
func (g *Grid) PopCode(coord Coordinate) (string, error) {
	if !g.shape.Contains(coord) {
		return "", fmt.Errorf("pop code at %v in shape %v: %w", coord, g.shape, ErrOutOfBounds)
	}
	code, err := g.store.Pop(coord)
	if err != nil {
		return "", err
	}
	g.cache.Invalidate(coord)
	return code, nil
}

// OccupiedCoords returns every occupied coordinate in table, row-major order.
func (g *Grid) OccupiedCoords() []Coordinate {
	return g.store.SortedCoords()
}

// Result evaluates the cell at coord lazily: a cached or frozen result is
// returned without evaluation, otherwise the evaluator runs the cell's code
// and the outcome, value or captured error, is cached. An empty cell yields
// the zero Result.
func (g *Grid) Result(coord Coordinate) Result {
	code, ok := g.store.Get(coord)
	if !ok {
		if r, hit := g.cache.Peek(coord); hit {
			return r
		}
		return Result{}
	}
	if g.opts.evaluator == nil {
		if r, ok := g.cache.Peek(coord); ok && g.cache.IsFrozen(coord) {
			return r
		}
		return Result{Value: code}
	}
	return g.cache.GetOrEvaluate(coord, code, g.opts.evaluator, g.env())
}

// FormattedResult renders the result at coord for display, applying the
// configured maximum result length.
func (g *Grid) FormattedResult(coord Coordinate) string {
	out := g.Result(coord).String()
	if max := g.opts.maxResultLen; max > 0 {
		runes := []rune(out)
		if len(runes) > max {
			out = string(runes[:max])
		}
	}
	return out
}

// InvalidateResult drops the cached result at coord so the next read
// re-evaluates. Idempotent.
func (g *Grid) InvalidateResult(coord Coordinate) {
	g.cache.Invalidate(coord)
}

// InvalidateAll drops every cached result, for example after a change to
// the global namespace that any cell's code may reference. Frozen snapshots
// stay pinned. The attribute query caches are dropped with it.
func (g *Grid) InvalidateAll() {
	g.cache.Clear()
	g.attrs.InvalidateCaches()
}

// AppendAttrs layers an attribute diff over a selection in one table.
func (g *Grid) AppendAttrs(sel Selection, table int, diff AttrDiff) error {
	if table < 0 || table >= g.shape.Tables {
		return fmt.Errorf("append attributes for table %d of %d: %w", table, g.shape.Tables, ErrOutOfBounds)
	}
	g.attrs.Append(sel, table, diff)
	return nil
}

// EffectiveAttrs resolves the cell's attributes through the overlay.
func (g *Grid) EffectiveAttrs(coord Coordinate) AttrDiff {
	return g.attrs.At(coord)
}

// AttrEntries returns the attribute log in insertion order.
func (g *Grid) AttrEntries() []AttrEntry {
	return g.attrs.Entries()
}

// MergingCell returns the anchor of the merged block containing coord.
func (g *Grid) MergingCell(coord Coordinate) (Coordinate, bool) {
	return g.attrs.MergingCell(coord)
}

// MergeCells marks the block as one merged region anchored at its top-left.
func (g *Grid) MergeCells(block Block, table int) error {
	area := MergeArea{
		Top:    block.TopLeft.Row,
		Left:   block.TopLeft.Col,
		Bottom: block.BottomRight.Row,
		Right:  block.BottomRight.Col,
	}
	return g.AppendAttrs(NewBlockSelection(block.TopLeft, block.BottomRight), table,
		AttrDiff{AttrMergeArea: area})
}

// UnmergeCells clears the merge marking over the block.
func (g *Grid) UnmergeCells(block Block, table int) error {
	return g.AppendAttrs(NewBlockSelection(block.TopLeft, block.BottomRight), table,
		AttrDiff{AttrMergeArea: nil})
}

// Freeze pins the cell's current result: it is evaluated once now and
// subsequent reads return the snapshot without evaluating, until Thaw or
// RefreshFrozen. The frozen attribute is layered on so renderers can mark
// the cell.
func (g *Grid) Freeze(coord Coordinate) error {
	if !g.shape.Contains(coord) {
		return fmt.Errorf("freeze %v in shape %v: %w", coord, g.shape, ErrOutOfBounds)
	}
	code, _ := g.store.Get(coord)
	if g.opts.evaluator != nil {
		g.cache.RefreshFrozen(coord, code, g.opts.evaluator, g.env())
	} else {
		g.cache.pin(coord, Result{Value: code})
	}
	g.attrs.Append(NewCellSelection(Point{coord.Row, coord.Col}), coord.Table,
		AttrDiff{AttrFrozen: true})
	return nil
}

// Thaw unpins the cell so it rejoins normal lazy evaluation.
func (g *Grid) Thaw(coord Coordinate) error {
	if !g.shape.Contains(coord) {
		return fmt.Errorf("thaw %v in shape %v: %w", coord, g.shape, ErrOutOfBounds)
	}
	g.cache.Thaw(coord)
	g.attrs.Append(NewCellSelection(Point{coord.Row, coord.Col}), coord.Table,
		AttrDiff{AttrFrozen: false})
	return nil
}

// IsFrozen reports whether coord holds a pinned snapshot.
func (g *Grid) IsFrozen(coord Coordinate) bool {
	return g.cache.IsFrozen(coord)
}

// RefreshFrozen re-evaluates a frozen cell on demand and updates the pinned
// snapshot. This is the only way a frozen cell's visible result changes.
func (g *Grid) RefreshFrozen(coord Coordinate) (Result, error) {
	if !g.cache.IsFrozen(coord) {
		return Result{}, fmt.Errorf("refresh frozen %v: %w", coord, ErrNotPresent)
	}
	code, _ := g.store.Get(coord)
	if g.opts.evaluator == nil {
		r := Result{Value: code}
		g.cache.pin(coord, r)
		return r, nil
	}
	return g.cache.RefreshFrozen(coord, code, g.opts.evaluator, g.env()), nil
}

// Namespace returns the global namespace shared by all evaluations.
// Callers that mutate it must InvalidateAll afterwards.
func (g *Grid) Namespace() map[string]any {
	return g.namespace
}

// Macros returns the grid's macro source.
func (g *Grid) Macros() string {
	return g.macros
}

// SetMacros replaces the macro source without executing it.
func (g *Grid) SetMacros(src string) {
	g.macros = src
}

// ExecMacros runs the macro source through the evaluator. A result that is
// a string-keyed map is merged into the global namespace. Every cached
// result is dropped afterwards since any cell may reference the namespace.
func (g *Grid) ExecMacros() Result {
	if g.macros == "" || g.opts.evaluator == nil {
		return Result{}
	}
	r := g.cache.evaluate(Coordinate{}, g.macros, g.opts.evaluator, g.env())
	if bindings, ok := r.Value.(map[string]any); ok {
		for k, v := range bindings {
			g.namespace[k] = v
		}
	}
	g.InvalidateAll()
	return r
}

// RowHeight returns the explicit height for a row, if one is set.
func (g *Grid) RowHeight(row, table int) (float64, bool) {
	h, ok := g.rowHeights[RowTab{Row: row, Table: table}]
	return h, ok
}

// SetRowHeight records an explicit row height.
func (g *Grid) SetRowHeight(row, table int, height float64) {
	g.rowHeights[RowTab{Row: row, Table: table}] = height
}

// ColWidth returns the explicit width for a column, if one is set.
func (g *Grid) ColWidth(col, table int) (float64, bool) {
	w, ok := g.colWidths[ColTab{Col: col, Table: table}]
	return w, ok
}

// SetColWidth records an explicit column width.
func (g *Grid) SetColWidth(col, table int, width float64) {
	g.colWidths[ColTab{Col: col, Table: table}] = width
}

// RowHeights returns a copy of every explicit row height.
func (g *Grid) RowHeights() map[RowTab]float64 {
	out := make(map[RowTab]float64, len(g.rowHeights))
	for k, v := range g.rowHeights {
		out[k] = v
	}
	return out
}

// ColWidths returns a copy of every explicit column width.
func (g *Grid) ColWidths() map[ColTab]float64 {
	out := make(map[ColTab]float64, len(g.colWidths))
	for k, v := range g.colWidths {
		out[k] = v
	}
	return out
}

// env builds the evaluation environment: the shared namespace plus a
// resolver that recursively evaluates referenced cells through the cache.
func (g *Grid) env() *Env {
	return &Env{
		Namespace: g.namespace,
		Resolve:   g.Result,
	}
}
