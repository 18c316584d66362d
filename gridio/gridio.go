// Package gridio reads and writes the line-oriented grid save format. The
// format is sectioned: a version header, the shape, one line per occupied
// cell, one line per attribute-log entry (order preserved, since the
// attribute log is an ordered overlay), explicit row heights and column
// widths, and finally the macro source. All I/O streams through the grid's
// public mutation API one record at a time.
package gridio

import (
	"encoding/json"
	"fmt"

	"github.com/javajack/codegrid"
)

// Version is the newest save-format version this package understands.
const Version = "1.0"

// Section headers, in the order the writer emits them.
const (
	sectionVersion    = "[codegrid save file version]"
	sectionShape      = "[shape]"
	sectionGrid       = "[grid]"
	sectionAttributes = "[attributes]"
	sectionRowHeights = "[row_heights]"
	sectionColWidths  = "[col_widths]"
	sectionMacros     = "[macros]"
)

// wireSelection mirrors codegrid.Selection for JSON framing.
type wireSelection struct {
	BlockTL []wirePoint `json:"block_tl"`
	BlockBR []wirePoint `json:"block_br"`
	Rows    []int       `json:"rows,omitempty"`
	Cols    []int       `json:"cols,omitempty"`
	Cells   []wirePoint `json:"cells,omitempty"`
}

type wirePoint struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func toWireSelection(s codegrid.Selection) wireSelection {
	return wireSelection{
		BlockTL: toWirePoints(s.BlockTL),
		BlockBR: toWirePoints(s.BlockBR),
		Rows:    s.Rows,
		Cols:    s.Cols,
		Cells:   toWirePoints(s.Cells),
	}
}

func (w wireSelection) selection() codegrid.Selection {
	return codegrid.Selection{
		BlockTL: fromWirePoints(w.BlockTL),
		BlockBR: fromWirePoints(w.BlockBR),
		Rows:    w.Rows,
		Cols:    w.Cols,
		Cells:   fromWirePoints(w.Cells),
	}
}

func toWirePoints(ps []codegrid.Point) []wirePoint {
	out := make([]wirePoint, len(ps))
	for i, p := range ps {
		out[i] = wirePoint{Row: p.Row, Col: p.Col}
	}
	return out
}

func fromWirePoints(ws []wirePoint) []codegrid.Point {
	if len(ws) == 0 {
		return nil
	}
	out := make([]codegrid.Point, len(ws))
	for i, w := range ws {
		out[i] = codegrid.Point{Row: w.Row, Col: w.Col}
	}
	return out
}

type wireColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// encodeDiff frames an attribute diff as JSON with string keys.
func encodeDiff(diff codegrid.AttrDiff) ([]byte, error) {
	out := make(map[string]any, len(diff))
	for k, v := range diff {
		switch tv := v.(type) {
		case codegrid.Color:
			out[string(k)] = wireColor{R: tv.R, G: tv.G, B: tv.B}
		default:
			out[string(k)] = v
		}
	}
	return json.Marshal(out)
}

// decodeDiff parses a framed diff back into typed attribute values.
// Unrecognized keys survive as raw JSON-decoded values so future attributes
// round-trip.
func decodeDiff(data []byte) (codegrid.AttrDiff, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	diff := make(codegrid.AttrDiff, len(raw))
	for name, msg := range raw {
		key := codegrid.AttrKey(name)
		v, err := decodeAttrValue(key, msg)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		diff[key] = v
	}
	return diff, nil
}

func decodeAttrValue(key codegrid.AttrKey, msg json.RawMessage) (any, error) {
	if string(msg) == "null" {
		return nil, nil
	}
	switch key {
	case codegrid.AttrBgColor, codegrid.AttrTextColor,
		codegrid.AttrBorderColorBottom, codegrid.AttrBorderColorRight:
		var c wireColor
		if err := json.Unmarshal(msg, &c); err != nil {
			return nil, err
		}
		return codegrid.Color{R: c.R, G: c.G, B: c.B}, nil

	case codegrid.AttrMergeArea:
		var area codegrid.MergeArea
		if err := json.Unmarshal(msg, &area); err != nil {
			return nil, err
		}
		return area, nil

	case codegrid.AttrUnderline, codegrid.AttrStrikethrough,
		codegrid.AttrLocked, codegrid.AttrFrozen:
		var b bool
		if err := json.Unmarshal(msg, &b); err != nil {
			return nil, err
		}
		return b, nil

	case codegrid.AttrButtonCell:
		// false or the button's label text
		var b bool
		if err := json.Unmarshal(msg, &b); err == nil {
			return b, nil
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, err
		}
		return s, nil

	case codegrid.AttrBorderWidthBottom, codegrid.AttrBorderWidthRight:
		var n int
		if err := json.Unmarshal(msg, &n); err != nil {
			return nil, err
		}
		return n, nil

	case codegrid.AttrAngle, codegrid.AttrPointSize:
		var f float64
		if err := json.Unmarshal(msg, &f); err != nil {
			return nil, err
		}
		return f, nil

	case codegrid.AttrTextFont, codegrid.AttrFontWeight, codegrid.AttrFontStyle,
		codegrid.AttrVerticalAlign, codegrid.AttrJustification, codegrid.AttrRenderer:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return nil, err
		}
		return s, nil
	}

	var v any
	if err := json.Unmarshal(msg, &v); err != nil {
		return nil, err
	}
	return v, nil
}
