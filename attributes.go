package codegrid

// AttrKey names a cell attribute.
type AttrKey string

// Recognized attribute keys.
const (
	AttrBgColor           AttrKey = "bgcolor"
	AttrTextColor         AttrKey = "textcolor"
	AttrTextFont          AttrKey = "textfont"
	AttrPointSize         AttrKey = "pointsize"
	AttrFontWeight        AttrKey = "fontweight"
	AttrFontStyle         AttrKey = "fontstyle"
	AttrUnderline         AttrKey = "underline"
	AttrStrikethrough     AttrKey = "strikethrough"
	AttrLocked            AttrKey = "locked"
	AttrAngle             AttrKey = "angle"
	AttrVerticalAlign     AttrKey = "vertical_align"
	AttrJustification     AttrKey = "justification"
	AttrRenderer          AttrKey = "renderer"
	AttrMergeArea         AttrKey = "merge_area"
	AttrFrozen            AttrKey = "frozen"
	AttrButtonCell        AttrKey = "button_cell"
	AttrBorderColorBottom AttrKey = "bordercolor_bottom"
	AttrBorderColorRight  AttrKey = "bordercolor_right"
	AttrBorderWidthBottom AttrKey = "borderwidth_bottom"
	AttrBorderWidthRight  AttrKey = "borderwidth_right"
)

// Attribute value vocabularies.
const (
	FontWeightNormal = "normal"
	FontWeightBold   = "bold"
	FontStyleNormal  = "normal"
	FontStyleItalic  = "italic"

	AlignTop    = "align_top"
	AlignCenter = "align_center"
	AlignBottom = "align_bottom"

	JustifyLeft   = "justify_left"
	JustifyCenter = "justify_center"
	JustifyRight  = "justify_right"
	JustifyFill   = "justify_fill"

	RendererText       = "text"
	RendererMarkup     = "markup"
	RendererImage      = "image"
	RendererMatplotlib = "matplotlib"
)

// Color is an RGB triple used for background, text, and border colors.
type Color struct {
	R, G, B uint8
}

// MergeArea is the inclusive extent of a merged block within one table.
type MergeArea struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Bottom int `json:"bottom"`
	Right  int `json:"right"`
}

// AttrDiff is a partial attribute assignment: only the keys present
// override whatever lies underneath in the overlay.
type AttrDiff map[AttrKey]any

// DefaultAttrs returns the attribute values a cell has with an empty log.
// Color- and font-valued keys default to nil (inherit from the theme).
func DefaultAttrs() AttrDiff {
	return AttrDiff{
		AttrBgColor:           nil,
		AttrTextColor:         nil,
		AttrTextFont:          nil,
		AttrPointSize:         nil,
		AttrFontWeight:        FontWeightNormal,
		AttrFontStyle:         FontStyleNormal,
		AttrUnderline:         false,
		AttrStrikethrough:     false,
		AttrLocked:            false,
		AttrAngle:             0.0,
		AttrVerticalAlign:     AlignTop,
		AttrJustification:     JustifyLeft,
		AttrRenderer:          RendererText,
		AttrMergeArea:         nil,
		AttrFrozen:            false,
		AttrButtonCell:        false,
		AttrBorderColorBottom: nil,
		AttrBorderColorRight:  nil,
		AttrBorderWidthBottom: 0,
		AttrBorderWidthRight:  0,
	}
}

// AttrEntry is one layer of the overlay: a diff applied to a selection
// within one table.
type AttrEntry struct {
	Selection Selection
	Table     int
	Diff      AttrDiff
}

// CellAttributes is an ordered, append-only log of attribute entries.
// Resolving a cell scans the log in insertion order and merges matching
// diffs over the defaults, so later entries win on conflicting keys.
// The log grows without bound; superseded entries are never coalesced
// because callers (undo, persistence) rely on the recorded order.
type CellAttributes struct {
	entries []AttrEntry

	pointCache map[Coordinate]AttrDiff
	tableCache map[int][]AttrEntry
}

// NewCellAttributes creates an empty attribute log.
func NewCellAttributes() *CellAttributes {
	return &CellAttributes{
		pointCache: make(map[Coordinate]AttrDiff),
		tableCache: make(map[int][]AttrEntry),
	}
}

// Append adds an entry on top of the overlay and drops the query caches.
func (a *CellAttributes) Append(sel Selection, table int, diff AttrDiff) {
	copied := make(AttrDiff, len(diff))
	for k, v := range diff {
		copied[k] = v
	}
	a.entries = append(a.entries, AttrEntry{Selection: sel, Table: table, Diff: copied})
	a.InvalidateCaches()
}

// Len returns the number of log entries.
func (a *CellAttributes) Len() int {
	return len(a.entries)
}

// Entries returns the log in insertion order. The slice is shared;
// callers must not mutate it.
func (a *CellAttributes) Entries() []AttrEntry {
	return a.entries
}

// At resolves the effective attributes of a cell. The result starts from
// DefaultAttrs and applies every matching entry in log order. Resolved
// results are memoized until the next Append or cache invalidation.
// Out-of-bound coordinates are the caller's error to prevent; At does not
// clamp.
func (a *CellAttributes) At(coord Coordinate) AttrDiff {
	if cached, ok := a.pointCache[coord]; ok {
		return cached
	}
	attrs := DefaultAttrs()
	p := Point{Row: coord.Row, Col: coord.Col}
	for _, e := range a.ForTable(coord.Table) {
		if e.Selection.Contains(p) {
			for k, v := range e.Diff {
				attrs[k] = v
			}
		}
	}
	a.pointCache[coord] = attrs
	return attrs
}

// ForTable returns the entries scoped to one table, in log order, memoized.
func (a *CellAttributes) ForTable(table int) []AttrEntry {
	if cached, ok := a.tableCache[table]; ok {
		return cached
	}
	var out []AttrEntry
	for _, e := range a.entries {
		if e.Table == table {
			out = append(out, e)
		}
	}
	a.tableCache[table] = out
	return out
}

// MergingCell returns the top-left anchor of the merge region containing
// coord, so edits and navigation inside a merged block resolve to the
// anchor. The second return is false when the cell is not merged.
func (a *CellAttributes) MergingCell(coord Coordinate) (Coordinate, bool) {
	area, ok := a.At(coord)[AttrMergeArea].(MergeArea)
	if !ok {
		return Coordinate{}, false
	}
	if coord.Row < area.Top || coord.Row > area.Bottom ||
		coord.Col < area.Left || coord.Col > area.Right {
		return Coordinate{}, false
	}
	return Coordinate{Row: area.Top, Col: area.Left, Table: coord.Table}, true
}

// Truncate empties the log. This is the reset primitive.
func (a *CellAttributes) Truncate() {
	a.entries = nil
	a.InvalidateCaches()
}

// InvalidateCaches drops the point and table query caches. Called on every
// Append, on freeze-state changes, and on global result-cache clears.
func (a *CellAttributes) InvalidateCaches() {
	a.pointCache = make(map[Coordinate]AttrDiff)
	a.tableCache = make(map[int][]AttrEntry)
}

// insertShift adjusts every entry for a structural edit: count rows or
// columns inserted at the given position in one table (negative count
// deletes), or tables inserted at a position (table axis ignores the table
// argument and shifts entry scoping across the whole log).
func (a *CellAttributes) insertShift(at, count int, axis Axis, table int) {
	switch axis {
	case AxisRow, AxisCol:
		for i, e := range a.entries {
			if e.Table != table {
				continue
			}
			a.entries[i].Selection = e.Selection.insert(at, count, axis)
		}
	case AxisTable:
		n := count
		if n >= 0 {
			for i, e := range a.entries {
				if e.Table >= at {
					a.entries[i].Table += n
				}
			}
		} else {
			n = -n
			kept := a.entries[:0]
			for _, e := range a.entries {
				if e.Table >= at && e.Table < at+n {
					continue
				}
				if e.Table >= at+n {
					e.Table -= n
				}
				kept = append(kept, e)
			}
			a.entries = kept
		}
	}
	// Merge areas are stored as absolute coordinates inside the diff and
	// must track the same shift as their selections.
	if axis == AxisRow || axis == AxisCol {
		for i, e := range a.entries {
			if e.Table != table {
				continue
			}
			area, ok := e.Diff[AttrMergeArea].(MergeArea)
			if !ok {
				continue
			}
			if axis == AxisRow {
				area.Top = shiftAreaStart(area.Top, at, count)
				area.Bottom = shiftAreaEnd(area.Bottom, at, count)
			} else {
				area.Left = shiftAreaStart(area.Left, at, count)
				area.Right = shiftAreaEnd(area.Right, at, count)
			}
			if area.Bottom < area.Top || area.Right < area.Left {
				// The whole area fell inside a deleted range.
				delete(a.entries[i].Diff, AttrMergeArea)
				continue
			}
			a.entries[i].Diff[AttrMergeArea] = area
		}
	}
	a.InvalidateCaches()
}

// shiftAreaStart and shiftAreaEnd map a merge area's edges across an
// insert (count > 0) or delete (count < 0) at position at. On a delete the
// leading edge clamps to at and the trailing edge to at-1, the same
// truncation a selection block undergoes.
func shiftAreaStart(v, at, count int) int {
	if count >= 0 {
		if v >= at {
			return v + count
		}
		return v
	}
	return deletePos(v, at, -count)
}

func shiftAreaEnd(v, at, count int) int {
	if count >= 0 {
		if v >= at {
			return v + count
		}
		return v
	}
	return deletePosEnd(v, at, -count)
}
