package codegrid

import "fmt"

// Result is the outcome of evaluating one cell: a value or a captured
// evaluation error, never both. Evaluation failures are ordinary results;
// they are stored, cached, and rendered, and they never propagate as Go
// errors through the grid API.
type Result struct {
	Value any
	Err   error
}

// IsError reports whether the result is a captured evaluation failure.
func (r Result) IsError() bool {
	return r.Err != nil
}

// String renders the result for display. Errors render with an "#ERROR"
// prefix so they are distinguishable from legitimate string values.
func (r Result) String() string {
	if r.Err != nil {
		return "#ERROR: " + r.Err.Error()
	}
	if r.Value == nil {
		return ""
	}
	return fmt.Sprint(r.Value)
}

// Env is the read-only view handed to the Evaluator for each call: the
// grid's global namespace plus a resolver so cell code can reference other
// cells' results.
type Env struct {
	// Namespace holds globals shared by every cell evaluation, including
	// names bound by macro execution.
	Namespace map[string]any

	// Resolve returns the evaluated result of another cell. Recursive
	// resolution is permitted; bounding cycles is the Evaluator's concern.
	Resolve func(Coordinate) Result
}

// Evaluator runs untrusted cell code. Implementations must capture every
// failure, including panics and recursion bounds, into the returned
// Result's Err; nothing may propagate past this boundary.
type Evaluator interface {
	Eval(coord Coordinate, code string, env *Env) Result
}

// ResultCache memoizes evaluated cell results. A separate frozen map pins
// results for cells marked frozen: reads of a frozen cell return the pinned
// snapshot and never trigger evaluation until RefreshFrozen.
type ResultCache struct {
	results map[Coordinate]Result
	frozen  map[Coordinate]Result
}

// NewResultCache creates an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{
		results: make(map[Coordinate]Result),
		frozen:  make(map[Coordinate]Result),
	}
}

// GetOrEvaluate returns the cached result for coord, filling the cache by
// invoking ev on a miss. A frozen snapshot, if present, wins over both the
// cache and evaluation.
func (c *ResultCache) GetOrEvaluate(coord Coordinate, code string, ev Evaluator, env *Env) Result {
	if r, ok := c.frozen[coord]; ok {
		return r
	}
	if r, ok := c.results[coord]; ok {
		return r
	}
	r := c.evaluate(coord, code, ev, env)
	c.results[coord] = r
	return r
}

// Peek returns the cached result without evaluating on a miss.
func (c *ResultCache) Peek(coord Coordinate) (Result, bool) {
	if r, ok := c.frozen[coord]; ok {
		return r, true
	}
	r, ok := c.results[coord]
	return r, ok
}

// Invalidate drops the normal cache entry for coord. Frozen snapshots are
// untouched; they only change through RefreshFrozen or Thaw. Invalidating
// an absent entry is a no-op.
func (c *ResultCache) Invalidate(coord Coordinate) {
	delete(c.results, coord)
}

// Clear drops every normal cache entry. Frozen snapshots survive; a full
// reset additionally calls ClearFrozen.
func (c *ResultCache) Clear() {
	c.results = make(map[Coordinate]Result)
}

// ClearFrozen drops every frozen snapshot.
func (c *ResultCache) ClearFrozen() {
	c.frozen = make(map[Coordinate]Result)
}

// IsFrozen reports whether coord holds a pinned snapshot.
func (c *ResultCache) IsFrozen(coord Coordinate) bool {
	_, ok := c.frozen[coord]
	return ok
}

// RefreshFrozen re-evaluates coord unconditionally and pins the new result.
// This is the only path that updates a frozen snapshot.
func (c *ResultCache) RefreshFrozen(coord Coordinate, code string, ev Evaluator, env *Env) Result {
	r := c.evaluate(coord, code, ev, env)
	c.frozen[coord] = r
	return r
}

// pin stores a snapshot directly, for callers that already hold the result.
func (c *ResultCache) pin(coord Coordinate, r Result) {
	c.frozen[coord] = r
}

// Thaw removes the pinned snapshot so coord rejoins the normal
// evaluate-and-cache cycle.
func (c *ResultCache) Thaw(coord Coordinate) {
	delete(c.frozen, coord)
	delete(c.results, coord)
}

// insertShift relabels frozen-snapshot keys alongside a structural edit and
// clears the normal cache, which a structural edit invalidates wholesale.
func (c *ResultCache) insertShift(at, count int, axis Axis, table int) {
	c.Clear()
	shifted := make(map[Coordinate]Result, len(c.frozen))
	for coord, r := range c.frozen {
		if axis != AxisTable && coord.Table != table {
			shifted[coord] = r
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
				continue
			}
			if v >= at+n {
				v -= n
			}
		}
		shifted[setCoordAxis(coord, axis, v)] = r
	}
	c.frozen = shifted
}

func (c *ResultCache) evaluate(coord Coordinate, code string, ev Evaluator, env *Env) (r Result) {
	// The Evaluator contract forbids panics, but cell code is untrusted and
	// the cache is the last line before the host; a violation becomes a
	// captured error result rather than a crash.
	defer func() {
		if rec := recover(); rec != nil {
			r = Result{Err: fmt.Errorf("evaluator panic: %v", rec)}
		}
	}()
	return ev.Eval(coord, code, env)
}
