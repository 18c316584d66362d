package codegrid

import "errors"

// Validation and lookup failures returned by the grid's public API. All of
// them reject the operation before any store is touched, so a non-nil error
// always means the model is unchanged.
var (
	// ErrOutOfBounds is returned when a coordinate or edit position lies
	// outside the grid's current shape.
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrShapeExceeded is returned when an insert or reshape would grow the
	// grid past its configured maximum shape.
	ErrShapeExceeded = errors.New("maximum grid shape exceeded")

	// ErrLastOfAxis is returned when a delete would remove every row, column,
	// or table on an axis; the grid must keep at least one of each.
	ErrLastOfAxis = errors.New("cannot remove last row, column, or table")

	// ErrBadAxis is returned for an axis value outside row/column/table.
	ErrBadAxis = errors.New("invalid axis")

	// ErrNotPresent is returned by Pop-style operations when there was
	// nothing to remove at the coordinate.
	ErrNotPresent = errors.New("no entry at coordinate")

	// ErrCanceled is returned by bulk operations when the caller's
	// cancellation probe fired; completed units stay committed.
	ErrCanceled = errors.New("operation canceled")
)
