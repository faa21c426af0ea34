package export

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/calculadora-judicial/correction-service/dto"
)

// CoefficientPlaces is how many decimals a coefficient shows on screen.
const CoefficientPlaces = 7

var brl = money.NewFormatter(2, ",", ".", "R$", "$ 1")

// FormatBRL renders d as "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	return brl.Format(d.Shift(2).Round(0).IntPart())
}

// FormatCoefficient renders c with seven decimals and a decimal comma.
func FormatCoefficient(c decimal.Decimal) string {
	return strings.Replace(c.StringFixed(CoefficientPlaces), ".", ",", 1)
}

func Display(r dto.TransactionRecord) dto.RecordDisplay {
	return dto.RecordDisplay{
		OriginalValue:         FormatBRL(r.OriginalValue),
		CorrectionValue:       FormatBRL(r.CorrectionValue),
		CorrectedValue:        FormatBRL(r.CorrectedValue),
		CorrectedValueDoubled: FormatBRL(r.CorrectedValueDoubled),
		Coefficient:           FormatCoefficient(r.Coefficient),
	}
}

// BuildResponse turns a calculation result into the JSON payload, one table
// per term in the order the terms were given.
func BuildResponse(result *dto.CalculationResult, now time.Time) dto.CalculationResponse {
	resp := dto.CalculationResponse{
		DocumentType:       result.DocumentType,
		Terms:              []string{},
		Tables:             []dto.TermTable{},
		CoefficientsLoaded: result.CoefficientsLoaded,
		RowWarnings:        result.RowWarnings,
		Pages:              result.Pages,
		ProcessedAt:        now.UTC().Format(time.RFC3339),
	}
	if resp.RowWarnings == nil {
		resp.RowWarnings = []dto.RowParseError{}
	}

	if result.Results != nil {
		resp.Terms = result.Results.Terms()
		for _, term := range resp.Terms {
			records := result.Results.Records(term)
			table := dto.TermTable{
				Term:    term,
				Count:   len(records),
				Records: make([]dto.RecordResponse, len(records)),
			}
			for i, r := range records {
				table.Records[i] = dto.RecordResponse{
					TransactionRecord: r,
					Devolution:        r.IsDevolution(),
					Display:           Display(r),
				}
			}
			resp.Tables = append(resp.Tables, table)
		}
		resp.FoundAny = result.Results.Total() > 0
	}
	if !resp.FoundAny {
		resp.Message = dto.NoResultsMessage
	}
	return resp
}
