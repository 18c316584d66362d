package codegrid

// CellCode pairs a coordinate with code for bulk operations.
type CellCode struct {
	Coord Coordinate
	Code  string
}

// CancelProbe is consulted between units of work during bulk operations.
// Returning true aborts the remaining units; completed units stay committed.
type CancelProbe func() bool

// BulkResult reports the outcome of one unit of a bulk operation.
type BulkResult struct {
	Coord Coordinate
	Err   error
}

// BulkSetCode sets many cells at once, typically for paste or import. Each
// cell is attempted independently and reported in order, so a caller can
// batch the successes into one undoable unit. A nil probe never cancels.
// On cancellation the results cover only the attempted cells and the
// returned error is ErrCanceled; everything already set stays committed.
func (g *Grid) BulkSetCode(cells []CellCode, probe CancelProbe) ([]BulkResult, error) {
	results := make([]BulkResult, 0, len(cells))
	for _, cc := range cells {
		if probe != nil && probe() {
			return results, ErrCanceled
		}
		results = append(results, BulkResult{Coord: cc.Coord, Err: g.SetCode(cc.Coord, cc.Code)})
	}
	return results, nil
}

// BulkAppendAttrs layers many attribute entries in order, with the same
// cancellation contract as BulkSetCode. Log order is preserved, so a
// canceled run leaves a consistent overlay prefix.
func (g *Grid) BulkAppendAttrs(entries []AttrEntry, probe CancelProbe) ([]BulkResult, error) {
	results := make([]BulkResult, 0, len(entries))
	for _, e := range entries {
		if probe != nil && probe() {
			return results, ErrCanceled
		}
		err := g.AppendAttrs(e.Selection, e.Table, e.Diff)
		results = append(results, BulkResult{Err: err})
	}
	return results, nil
}
