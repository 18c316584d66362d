// Package xlsx imports xlsx workbooks into a codegrid.Grid and exports a
// grid back out, driving the grid through its public API only. Sheets map
// to tables in order. On import, numeric and boolean cell texts become code
// literals, formulas are kept as code verbatim, and plain text is quoted so
// evaluation yields the original string.
package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/javajack/codegrid"
)

// Import reshapes the grid to fit the workbook and streams every cell in.
// The probe is consulted per cell with the usual bulk contract: committed
// cells stay, remaining cells are skipped, and ErrCanceled is returned.
func Import(r io.Reader, g *codegrid.Grid, probe codegrid.CancelProbe) error {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("workbook has no sheets")
	}

	var cells []codegrid.CellCode
	shape := codegrid.Shape{Rows: 1, Cols: 1, Tables: len(sheets)}

	for table, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		shape.Rows = max(shape.Rows, len(rows))
		for rowIdx, row := range rows {
			shape.Cols = max(shape.Cols, len(row))
			for colIdx, text := range row {
				if text == "" {
					continue
				}
				name, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if err != nil {
					return fmt.Errorf("cell name for (%d, %d): %w", rowIdx, colIdx, err)
				}
				code := cellCode(f, sheet, name, text)
				cells = append(cells, codegrid.CellCode{
					Coord: codegrid.NewCoordinate(rowIdx, colIdx, table),
					Code:  code,
				})
			}
		}
	}

	if err := g.SetShape(shape); err != nil {
		return fmt.Errorf("reshape grid to %v: %w", shape, err)
	}
	results, err := g.BulkSetCode(cells, probe)
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Err != nil {
			return fmt.Errorf("import cell %v: %w", res.Coord, res.Err)
		}
	}
	return nil
}

// cellCode converts one workbook cell into grid code.
func cellCode(f *excelize.File, sheet, name, text string) string {
	if formula, err := f.GetCellFormula(sheet, name); err == nil && formula != "" {
		return formula
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return text
	}
	if text == "TRUE" {
		return "true"
	}
	if text == "FALSE" {
		return "false"
	}
	return strconv.Quote(text)
}

// Export renders the grid into a new workbook, one sheet per table. Cell
// results are written as values (error results as their display string),
// merge areas become merged cells, and the basic font and fill attributes
// are carried over as styles.
func Export(g *codegrid.Grid) (*excelize.File, error) {
	f := excelize.NewFile()
	shape := g.Shape()

	for table := 0; table < shape.Tables; table++ {
		sheet := sheetName(table)
		if table == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return nil, fmt.Errorf("rename first sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet, err)
		}
	}

	for _, coord := range g.OccupiedCoords() {
		sheet := sheetName(coord.Table)
		name, err := excelize.CoordinatesToCellName(coord.Col+1, coord.Row+1)
		if err != nil {
			return nil, fmt.Errorf("cell name for %v: %w", coord, err)
		}
		r := g.Result(coord)
		var value any = r.Value
		if r.IsError() {
			value = r.String()
		}
		if err := f.SetCellValue(sheet, name, value); err != nil {
			return nil, fmt.Errorf("write cell %v: %w", coord, err)
		}
		if err := applyStyle(f, sheet, name, g.EffectiveAttrs(coord)); err != nil {
			return nil, fmt.Errorf("style cell %v: %w", coord, err)
		}
	}

	// Merge areas resolve through the overlay, so apply the log in order:
	// a later unmerge entry undoes an earlier merge.
	for _, e := range g.AttrEntries() {
		area, ok := e.Diff[codegrid.AttrMergeArea].(codegrid.MergeArea)
		sheet := sheetName(e.Table)
		if !ok {
			if _, nulled := e.Diff[codegrid.AttrMergeArea]; nulled {
				if err := unmergeEntry(f, sheet, e); err != nil {
					return nil, err
				}
			}
			continue
		}
		topLeft, err := excelize.CoordinatesToCellName(area.Left+1, area.Top+1)
		if err != nil {
			return nil, fmt.Errorf("merge anchor: %w", err)
		}
		bottomRight, err := excelize.CoordinatesToCellName(area.Right+1, area.Bottom+1)
		if err != nil {
			return nil, fmt.Errorf("merge extent: %w", err)
		}
		if err := f.MergeCell(sheet, topLeft, bottomRight); err != nil {
			return nil, fmt.Errorf("merge %s:%s: %w", topLeft, bottomRight, err)
		}
	}

	return f, nil
}

func sheetName(table int) string {
	return fmt.Sprintf("Table%d", table+1)
}

func unmergeEntry(f *excelize.File, sheet string, e codegrid.AttrEntry) error {
	box, ok := e.Selection.BoundingBox()
	if !ok {
		return nil
	}
	topLeft, err := excelize.CoordinatesToCellName(box.TopLeft.Col+1, box.TopLeft.Row+1)
	if err != nil {
		return fmt.Errorf("unmerge anchor: %w", err)
	}
	bottomRight, err := excelize.CoordinatesToCellName(box.BottomRight.Col+1, box.BottomRight.Row+1)
	if err != nil {
		return fmt.Errorf("unmerge extent: %w", err)
	}
	if err := f.UnmergeCell(sheet, topLeft, bottomRight); err != nil {
		return fmt.Errorf("unmerge %s:%s: %w", topLeft, bottomRight, err)
	}
	return nil
}

// applyStyle carries font weight and style, underline, strikethrough, and
// background color into the workbook. Default-valued attributes produce no
// style so untouched cells stay clean.
func applyStyle(f *excelize.File, sheet, name string, attrs codegrid.AttrDiff) error {
	var (
		font    excelize.Font
		hasFont bool
		style   excelize.Style
		has     bool
	)
	if attrs[codegrid.AttrFontWeight] == codegrid.FontWeightBold {
		font.Bold = true
		hasFont = true
	}
	if attrs[codegrid.AttrFontStyle] == codegrid.FontStyleItalic {
		font.Italic = true
		hasFont = true
	}
	if attrs[codegrid.AttrUnderline] == true {
		font.Underline = "single"
		hasFont = true
	}
	if attrs[codegrid.AttrStrikethrough] == true {
		font.Strike = true
		hasFont = true
	}
	if family, ok := attrs[codegrid.AttrTextFont].(string); ok && family != "" {
		font.Family = family
		hasFont = true
	}
	if size, ok := attrs[codegrid.AttrPointSize].(float64); ok && size > 0 {
		font.Size = size
		hasFont = true
	}
	if c, ok := attrs[codegrid.AttrTextColor].(codegrid.Color); ok {
		font.Color = hexColor(c)
		hasFont = true
	}
	if hasFont {
		style.Font = &font
		has = true
	}
	if c, ok := attrs[codegrid.AttrBgColor].(codegrid.Color); ok {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{hexColor(c)}}
		has = true
	}
	if !has {
		return nil
	}
	styleID, err := f.NewStyle(&style)
	if err != nil {
		return fmt.Errorf("build style: %w", err)
	}
	return f.SetCellStyle(sheet, name, name, styleID)
}

func hexColor(c codegrid.Color) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
