package coefficient

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/calculadora-judicial/correction-service/calculator"
	"github.com/calculadora-judicial/correction-service/dto"
)

// CompetenceLayout formats a date as a competence key.
const CompetenceLayout = "01/2006"

// monthFirstLayouts is tried on every row before anything else.
var monthFirstLayouts = []string{"1/2/2006"}

// flexibleLayouts is only used when no row parses month-first.
var flexibleLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2006/1/2",
	"1-2-2006",
	"2-1-2006",
	"2.1.2006",
	"1/2/06",
	"1/2006",
	"2006-01",
	"Jan/2006",
	"Jan 2006",
	"January 2006",
}

// Table maps competence keys to coefficients. It is never modified after
// Build returns.
type Table struct {
	coefficients map[string]decimal.Decimal
}

var _ calculator.CoefficientSource = (*Table)(nil)

// NewTable copies m into a new table.
func NewTable(m map[string]decimal.Decimal) *Table {
	t := &Table{coefficients: make(map[string]decimal.Decimal, len(m))}
	for k, v := range m {
		t.coefficients[k] = v
	}
	return t
}

// Lookup returns the coefficient for competence, 1 when it is not mapped.
func (t *Table) Lookup(competence string) decimal.Decimal {
	if c, ok := t.Get(competence); ok {
		return c
	}
	return calculator.DefaultCoefficient
}

func (t *Table) Get(competence string) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Decimal{}, false
	}
	c, ok := t.coefficients[competence]
	return c, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.coefficients)
}

// Build reads column 1 as dates and column 2 as coefficients. Rows that do
// not parse are dropped and reported; a later row replaces an earlier one
// with the same competence.
func Build(sheet *Sheet) (*Table, []dto.RowParseError, error) {
	if sheet.Columns() < 2 {
		return nil, nil, &dto.InputFormatError{Reason: "expected at least two columns (date, coefficient)"}
	}

	dates, parsed := parseDates(sheet.Rows, monthFirstLayouts)
	if parsed == 0 {
		dates, parsed = parseDates(sheet.Rows, flexibleLayouts)
	}
	if parsed == 0 && len(sheet.Rows) > 0 {
		return nil, nil, &dto.InputFormatError{Reason: "no row of the first column holds a recognisable date"}
	}

	table := &Table{coefficients: make(map[string]decimal.Decimal, len(sheet.Rows))}
	var warnings []dto.RowParseError

	for i, row := range sheet.Rows {
		rowNum := i + 2 // 1-indexed plus header

		if dates[i].IsZero() {
			warnings = append(warnings, dto.RowParseError{
				Row:     rowNum,
				Column:  "date",
				Message: "unrecognised date",
				RawData: cellAt(row, 0).Text,
			})
			continue
		}

		coef, err := parseCoefficient(cellAt(row, 1))
		if err != nil {
			warnings = append(warnings, dto.RowParseError{
				Row:     rowNum,
				Column:  "coefficient",
				Message: err.Error(),
				RawData: cellAt(row, 1).Text,
			})
			continue
		}

		table.coefficients[dates[i].Format(CompetenceLayout)] = coef
	}

	return table, warnings, nil
}

// parseDates returns one date per row (zero when unparseable) and how many
// rows parsed.
func parseDates(rows [][]Cell, layouts []string) ([]time.Time, int) {
	dates := make([]time.Time, len(rows))
	parsed := 0
	for i, row := range rows {
		if t, ok := parseDate(cellAt(row, 0), layouts); ok {
			dates[i] = t
			parsed++
		}
	}
	return dates, parsed
}

func parseDate(c Cell, layouts []string) (time.Time, bool) {
	if c.Kind == CellNumber {
		// numeric cells in the date column are spreadsheet serial dates
		serial, _ := c.Number.Float64()
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil || serial <= 0 {
			return time.Time{}, false
		}
		return t, true
	}

	s := strings.TrimSpace(c.Text)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCoefficient accepts "1.234,5678" style text or an already numeric cell.
func parseCoefficient(c Cell) (decimal.Decimal, error) {
	var coef decimal.Decimal
	if c.Kind == CellNumber {
		coef = c.Number
	} else {
		s := strings.TrimSpace(c.Text)
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("invalid number: %q", c.Text)
		}
		coef = d
	}
	if !coef.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("coefficient must be positive: %s", coef)
	}
	return coef, nil
}
