// Package coefficient builds the competence → coefficient table used to
// correct statement values.
package coefficient

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type CellKind int

const (
	CellText CellKind = iota
	CellNumber
)

// Cell is one spreadsheet value: either text as typed, or a number the
// source already stored as numeric.
type Cell struct {
	Kind   CellKind
	Text   string
	Number decimal.Decimal
}

func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

func NumberCell(d decimal.Decimal) Cell {
	return Cell{Kind: CellNumber, Number: d, Text: d.String()}
}

// Sheet is a header row plus data rows. Columns are addressed by position.
type Sheet struct {
	Header []string
	Rows   [][]Cell
}

// Columns is the column count declared by the header.
func (s *Sheet) Columns() int {
	if s == nil {
		return 0
	}
	return len(s.Header)
}

func cellAt(row []Cell, idx int) Cell {
	if idx < 0 || idx >= len(row) {
		return TextCell("")
	}
	return row[idx]
}

var plainNumberRegex = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

// typeColumns turns untyped text rows into cells. A column is numeric when
// every non-empty value in it is a plain number, the way spreadsheet tools
// infer column types on import. "1,0500" keeps a column textual.
func typeColumns(rows [][]string) [][]Cell {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	numeric := make([]bool, width)
	for col := 0; col < width; col++ {
		seen := false
		numeric[col] = true
		for _, row := range rows {
			if col >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[col])
			if v == "" {
				continue
			}
			seen = true
			if !plainNumberRegex.MatchString(v) {
				numeric[col] = false
				break
			}
		}
		numeric[col] = numeric[col] && seen
	}

	out := make([][]Cell, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for col, raw := range row {
			v := strings.TrimSpace(raw)
			if numeric[col] && v != "" {
				if d, err := decimal.NewFromString(v); err == nil {
					cells[col] = NumberCell(d)
					continue
				}
			}
			cells[col] = TextCell(v)
		}
		out[i] = cells
	}
	return out
}
