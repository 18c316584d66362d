package gridio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/javajack/codegrid"
)

// Write streams the grid to w in save-file form. Cells are written in
// table/row-major order and size maps in sorted key order so output is
// deterministic; the attribute section preserves log order exactly.
func Write(w io.Writer, g *codegrid.Grid) error {
	bw := bufio.NewWriter(w)

	shape := g.Shape()
	fmt.Fprintf(bw, "%s\n%s\n", sectionVersion, Version)
	fmt.Fprintf(bw, "%s\n%d\t%d\t%d\n", sectionShape, shape.Rows, shape.Cols, shape.Tables)

	fmt.Fprintln(bw, sectionGrid)
	for _, coord := range g.OccupiedCoords() {
		code, _ := g.Code(coord)
		fmt.Fprintf(bw, "%d\t%d\t%d\t%s\n", coord.Row, coord.Col, coord.Table, strconv.Quote(code))
	}

	fmt.Fprintln(bw, sectionAttributes)
	for _, e := range g.AttrEntries() {
		sel, err := json.Marshal(toWireSelection(e.Selection))
		if err != nil {
			return fmt.Errorf("write selection: %w", err)
		}
		diff, err := encodeDiff(e.Diff)
		if err != nil {
			return fmt.Errorf("write attribute diff: %w", err)
		}
		fmt.Fprintf(bw, "%s\t%d\t%s\n", sel, e.Table, diff)
	}

	fmt.Fprintln(bw, sectionRowHeights)
	heights := g.RowHeights()
	for _, k := range sortedRowTabs(heights) {
		fmt.Fprintf(bw, "%d\t%d\t%s\n", k.Row, k.Table,
			strconv.FormatFloat(heights[k], 'g', -1, 64))
	}

	fmt.Fprintln(bw, sectionColWidths)
	widths := g.ColWidths()
	for _, k := range sortedColTabs(widths) {
		fmt.Fprintf(bw, "%d\t%d\t%s\n", k.Col, k.Table,
			strconv.FormatFloat(widths[k], 'g', -1, 64))
	}

	fmt.Fprintln(bw, sectionMacros)
	if macros := g.Macros(); macros != "" {
		fmt.Fprintln(bw, macros)
	}

	return bw.Flush()
}

func sortedRowTabs(m map[codegrid.RowTab]float64) []codegrid.RowTab {
	keys := make([]codegrid.RowTab, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Table != keys[j].Table {
			return keys[i].Table < keys[j].Table
		}
		return keys[i].Row < keys[j].Row
	})
	return keys
}

func sortedColTabs(m map[codegrid.ColTab]float64) []codegrid.ColTab {
	keys := make([]codegrid.ColTab, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Table != keys[j].Table {
			return keys[i].Table < keys[j].Table
		}
		return keys[i].Col < keys[j].Col
	})
	return keys
}
