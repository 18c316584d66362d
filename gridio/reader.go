package gridio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/javajack/codegrid"
)

// Read streams a save file from r into the grid through its public mutation
// API. The grid is reshaped from the file's [shape] section, which clears
// whatever it held before; records after that are applied one line at a
// time, preserving attribute log order. A version above Version is rejected.
func Read(r io.Reader, g *codegrid.Grid) error {
	rd := &reader{grid: g}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.HasPrefix(line, "[") && rd.isSection(line) {
			rd.section = line
			continue
		}
		if err := rd.apply(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read save file: %w", err)
	}
	if rd.macros.Len() > 0 {
		g.SetMacros(strings.TrimSuffix(rd.macros.String(), "\n"))
	}
	return nil
}

type reader struct {
	grid    *codegrid.Grid
	section string
	macros  strings.Builder
}

func (rd *reader) isSection(line string) bool {
	switch line {
	case sectionVersion, sectionShape, sectionGrid, sectionAttributes,
		sectionRowHeights, sectionColWidths, sectionMacros:
		return true
	}
	return false
}

func (rd *reader) apply(line string) error {
	switch rd.section {
	case sectionVersion:
		return rd.readVersion(line)
	case sectionShape:
		return rd.readShape(line)
	case sectionGrid:
		return rd.readCell(line)
	case sectionAttributes:
		return rd.readAttrs(line)
	case sectionRowHeights:
		return rd.readRowHeight(line)
	case sectionColWidths:
		return rd.readColWidth(line)
	case sectionMacros:
		rd.macros.WriteString(line)
		rd.macros.WriteByte('\n')
		return nil
	case "":
		return fmt.Errorf("content before first section header")
	}
	return nil
}

func (rd *reader) readVersion(line string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return fmt.Errorf("parse version %q: %w", line, err)
	}
	max, _ := strconv.ParseFloat(Version, 64)
	if v > max {
		return fmt.Errorf("save file version %g unsupported (> %s)", v, Version)
	}
	return nil
}

func (rd *reader) readShape(line string) error {
	fields := strings.Split(line, "\t")
	if len(fields) != 3 {
		return fmt.Errorf("shape line needs 3 fields, got %d", len(fields))
	}
	nums, err := atois(fields)
	if err != nil {
		return fmt.Errorf("parse shape: %w", err)
	}
	return rd.grid.SetShape(codegrid.Shape{Rows: nums[0], Cols: nums[1], Tables: nums[2]})
}

func (rd *reader) readCell(line string) error {
	fields := strings.SplitN(line, "\t", 4)
	if len(fields) != 4 {
		return fmt.Errorf("grid line needs 4 fields, got %d", len(fields))
	}
	nums, err := atois(fields[:3])
	if err != nil {
		return fmt.Errorf("parse cell coordinate: %w", err)
	}
	code, err := strconv.Unquote(fields[3])
	if err != nil {
		return fmt.Errorf("unquote cell code: %w", err)
	}
	return rd.grid.SetCode(codegrid.NewCoordinate(nums[0], nums[1], nums[2]), code)
}

func (rd *reader) readAttrs(line string) error {
	fields := strings.SplitN(line, "\t", 3)
	if len(fields) != 3 {
		return fmt.Errorf("attribute line needs 3 fields, got %d", len(fields))
	}
	var sel wireSelection
	if err := json.Unmarshal([]byte(fields[0]), &sel); err != nil {
		return fmt.Errorf("parse selection: %w", err)
	}
	table, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("parse attribute table: %w", err)
	}
	diff, err := decodeDiff([]byte(fields[2]))
	if err != nil {
		return fmt.Errorf("parse attribute diff: %w", err)
	}
	return rd.grid.AppendAttrs(sel.selection(), table, diff)
}

func (rd *reader) readRowHeight(line string) error {
	row, table, size, err := sizeLine(line)
	if err != nil {
		return fmt.Errorf("parse row height: %w", err)
	}
	rd.grid.SetRowHeight(row, table, size)
	return nil
}

func (rd *reader) readColWidth(line string) error {
	col, table, size, err := sizeLine(line)
	if err != nil {
		return fmt.Errorf("parse column width: %w", err)
	}
	rd.grid.SetColWidth(col, table, size)
	return nil
}

func sizeLine(line string) (index, table int, size float64, err error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("size line needs 3 fields, got %d", len(fields))
	}
	if index, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, 0, err
	}
	if table, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, 0, err
	}
	if size, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return 0, 0, 0, err
	}
	return index, table, size, nil
}

func atois(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
