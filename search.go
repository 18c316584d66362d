package codegrid

import (
	"fmt"
	"regexp"
	"strings"
)

// FindOptions controls FindNextMatch.
type FindOptions struct {
	// Backward scans toward earlier coordinates instead of later ones.
	Backward bool

	// MatchResult matches against the evaluated result's string form
	// instead of the cell's code text.
	MatchResult bool

	// WholeWord requires the pattern to match a whole word.
	WholeWord bool

	// CaseSensitive disables case folding.
	CaseSensitive bool

	// Regex treats the pattern as a regular expression.
	Regex bool
}

// FindNextMatch scans the occupied cells in table order, row-major within
// each table, starting just after (or before, with Backward) the start
// coordinate, wrapping around the full occupied set once. It returns the
// first matching coordinate. A regular-expression pattern that fails to
// compile is reported as an error; an exhausted scan returns found == false.
func (g *Grid) FindNextMatch(start Coordinate, pattern string, opts FindOptions) (coord Coordinate, found bool, err error) {
	match, err := compileMatcher(pattern, opts)
	if err != nil {
		return Coordinate{}, false, err
	}

	coords := g.store.SortedCoords()
	if len(coords) == 0 {
		return Coordinate{}, false, nil
	}

	// after is the index of the first occupied coordinate strictly past
	// start. Forward scans begin there; backward scans begin one earlier.
	// start itself, if occupied, is visited last in the wrap.
	after := len(coords)
	for i, c := range coords {
		if coordLess(start, c) {
			after = i
			break
		}
	}
	begin, step := after, 1
	if opts.Backward {
		begin, step = after-1, -1
		if safe(coords, after-1) == start {
			begin--
		}
	}

	n := len(coords)
	for k := 0; k < n; k++ {
		c := coords[((begin+k*step)%n+n)%n]
		text, _ := g.store.Get(c)
		if opts.MatchResult {
			text = g.Result(c).String()
		}
		if match(text) {
			return c, true, nil
		}
	}
	return Coordinate{}, false, nil
}

func safe(coords []Coordinate, i int) Coordinate {
	if i < 0 || i >= len(coords) {
		return Coordinate{Row: -1, Col: -1, Table: -1}
	}
	return coords[i]
}

func coordLess(a, b Coordinate) bool {
	if a.Table != b.Table {
		return a.Table < b.Table
	}
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}

// compileMatcher builds the text predicate for one search. Non-regex
// patterns are quoted, so whole-word and case options reduce to a single
// regexp in all but the plain substring case.
func compileMatcher(pattern string, opts FindOptions) (func(string) bool, error) {
	if !opts.Regex && !opts.WholeWord {
		if opts.CaseSensitive {
			return func(s string) bool { return strings.Contains(s, pattern) }, nil
		}
		folded := strings.ToLower(pattern)
		return func(s string) bool {
			return strings.Contains(strings.ToLower(s), folded)
		}, nil
	}

	expr := pattern
	if !opts.Regex {
		expr = regexp.QuoteMeta(pattern)
	}
	if opts.WholeWord {
		expr = `\b(?:` + expr + `)\b`
	}
	if !opts.CaseSensitive {
		expr = `(?i)` + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile search pattern %q: %w", pattern, err)
	}
	return re.MatchString, nil
}
