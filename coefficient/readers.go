package coefficient

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gocarina/gocsv"
	"github.com/shakinm/xlsReader/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/calculadora-judicial/correction-service/dto"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Read picks a reader from the file extension.
func Read(filename string, data []byte) (*Sheet, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv", ".txt":
		return ReadCSV(bytes.NewReader(data))
	case ".xlsx", ".xlsm":
		return ReadXLSX(bytes.NewReader(data))
	case ".xls":
		return ReadXLS(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", dto.ErrUnsupportedSheetFormat, ext)
	}
}

// csvRow holds the two positional columns of a coefficient csv.
type csvRow struct {
	Date        string `csv:"date"`
	Coefficient string `csv:"coefficient"`
}

// fixedWidthReader pads or cuts every record to width fields so rows map
// onto csvRow by position.
type fixedWidthReader struct {
	r     *csv.Reader
	width int
}

func (f *fixedWidthReader) Read() ([]string, error) {
	rec, err := f.r.Read()
	if err != nil {
		return nil, err
	}
	out := make([]string, f.width)
	copy(out, rec)
	return out, nil
}

func (f *fixedWidthReader) ReadAll() ([][]string, error) {
	var all [][]string
	for {
		rec, err := f.Read()
		if errors.Is(err, io.EOF) {
			return all, nil
		}
		if err != nil {
			return nil, err
		}
		all = append(all, rec)
	}
}

// ReadCSV reads a delimited text file. The delimiter is sniffed from the
// header line; input that is not valid UTF-8 is decoded as Windows-1252.
func ReadCSV(r io.Reader) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode csv: %w", err)
		}
		data = decoded
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, &dto.InputFormatError{Reason: "file is empty"}
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	sheet := &Sheet{Header: trimAll(header)}
	if sheet.Columns() < 2 {
		return sheet, nil
	}

	var rows []csvRow
	err = gocsv.UnmarshalCSVWithoutHeaders(&fixedWidthReader{r: reader, width: 2}, &rows)
	if err != nil && !errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	raw := make([][]string, len(rows))
	for i, row := range rows {
		raw[i] = []string{row.Date, row.Coefficient}
	}
	sheet.Rows = typeColumns(raw)
	return sheet, nil
}

// sniffDelimiter counts candidate separators on the first non-blank line.
// Ties go to ';', the usual separator of Brazilian spreadsheets.
func sniffDelimiter(text string) rune {
	first := ""
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			first = line
			break
		}
	}

	best, bestCount := ';', strings.Count(first, ";")
	for _, c := range []rune{',', '\t', '|'} {
		if n := strings.Count(first, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// ReadXLSX reads the first worksheet. Cells stored as strings stay text;
// everything else that parses as a number is numeric, which is how dates
// saved as real spreadsheet dates arrive.
func ReadXLSX(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &dto.InputFormatError{Reason: "workbook has no sheets"}
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, &dto.InputFormatError{Reason: "sheet is empty"}
	}

	sheet := &Sheet{Header: trimAll(rows[0])}
	for i, row := range rows[1:] {
		cells := make([]Cell, len(row))
		for j, v := range row {
			axis, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, axis)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell %s: %w", axis, err)
			}
			cells[j] = xlsxCell(strings.TrimSpace(v), typ)
		}
		sheet.Rows = append(sheet.Rows, cells)
	}
	return sheet, nil
}

func xlsxCell(v string, typ excelize.CellType) Cell {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return TextCell(v)
	}
	if v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return NumberCell(d)
		}
	}
	return TextCell(v)
}

// ReadXLS reads the first sheet of a legacy BIFF workbook. The format gives
// us strings only, so column types are inferred as for csv.
func ReadXLS(r io.ReadSeeker) (*Sheet, error) {
	wb, err := xls.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xls: %w", err)
	}
	ws, err := wb.GetSheet(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read xls sheet: %w", err)
	}

	var raw [][]string
	for _, row := range ws.GetRows() {
		cols := row.GetCols()
		values := make([]string, len(cols))
		for i, c := range cols {
			values[i] = strings.TrimSpace(c.GetString())
		}
		raw = append(raw, values)
	}
	if len(raw) == 0 {
		return nil, &dto.InputFormatError{Reason: "sheet is empty"}
	}

	return &Sheet{Header: raw[0], Rows: typeColumns(raw[1:])}, nil
}

func trimAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
