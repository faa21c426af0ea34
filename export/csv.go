// Package export renders result tables as CSV downloads and display strings.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"github.com/calculadora-judicial/correction-service/dto"
)

// Separator is the field separator of exported files.
const Separator = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvRecord struct {
	Competence            string `csv:"Competência"`
	Kind                  string `csv:"Tipo"`
	Origin                string `csv:"Origem"`
	OriginalValue         string `csv:"Valor Original"`
	CorrectionValue       string `csv:"Valor da Correção"`
	CorrectedValue        string `csv:"Valor Corrigido"`
	CorrectedValueDoubled string `csv:"Valor Corrigido em Dobro"`
	Coefficient           string `csv:"Coeficiente"`
	Observation           string `csv:"Observação"`
}

// WriteCSV writes records with a UTF-8 BOM, ';' separators and decimal
// commas so spreadsheet tools in pt-BR locales open it directly.
func WriteCSV(w io.Writer, records []dto.TransactionRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	rows := make([]csvRecord, len(records))
	for i, r := range records {
		rows[i] = csvRecord{
			Competence:            r.Competence,
			Kind:                  string(r.Kind),
			Origin:                r.Origin,
			OriginalValue:         DecimalComma(r.OriginalValue),
			CorrectionValue:       DecimalComma(r.CorrectionValue),
			CorrectedValue:        DecimalComma(r.CorrectedValue),
			CorrectedValueDoubled: DecimalComma(r.CorrectedValueDoubled),
			Coefficient:           DecimalComma(r.Coefficient),
			Observation:           r.Observation,
		}
	}

	writer := csv.NewWriter(w)
	writer.Comma = Separator
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

// DecimalComma prints d at full precision with ',' as decimal separator.
func DecimalComma(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

// Filename is the download name for a term's table.
func Filename(term string) string {
	return "calculo_" + strings.ReplaceAll(strings.TrimSpace(term), " ", "_") + ".csv"
}
