// Package calculator applies a monetary-correction coefficient to a value.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/calculadora-judicial/correction-service/dto"
)

// Places is the rounding precision of every computed value.
const Places = 2

// DefaultCoefficient applies to competences missing from the table.
var DefaultCoefficient = decimal.NewFromInt(1)

// CoefficientSource resolves a competence key ("MM/YYYY") to a coefficient.
// Implementations must be total: unknown keys yield DefaultCoefficient.
type CoefficientSource interface {
	Lookup(competence string) decimal.Decimal
}

type Result struct {
	Correction decimal.Decimal
	Corrected  decimal.Decimal
	Doubled    decimal.Decimal
}

// Calculate returns corrected = round(v*c), correction = round(corrected-v)
// and doubled = round(corrected*2). Rounding is half away from zero.
func Calculate(value, coefficient decimal.Decimal) Result {
	corrected := value.Mul(coefficient).Round(Places)
	return Result{
		Correction: corrected.Sub(value).Round(Places),
		Corrected:  corrected,
		Doubled:    corrected.Mul(decimal.NewFromInt(2)).Round(Places),
	}
}

// Debit builds the record for a charge found on a statement line.
func Debit(competence, origin string, value, coefficient decimal.Decimal) dto.TransactionRecord {
	res := Calculate(value, coefficient)
	return dto.TransactionRecord{
		Competence:            competence,
		Kind:                  dto.KindDebit,
		Origin:                origin,
		OriginalValue:         value,
		CorrectionValue:       res.Correction,
		CorrectedValue:        res.Corrected,
		CorrectedValueDoubled: res.Doubled,
		Coefficient:           coefficient,
		Observation:           dto.NoObservation,
	}
}

// Devolution builds the record for a credit matched under a debit search.
// A reversal is reported but never corrected.
func Devolution(competence, origin string, value, coefficient decimal.Decimal) dto.TransactionRecord {
	return dto.TransactionRecord{
		Competence:            competence,
		Kind:                  dto.KindCredit,
		Origin:                origin,
		OriginalValue:         value,
		CorrectionValue:       decimal.Zero,
		CorrectedValue:        decimal.Zero,
		CorrectedValueDoubled: decimal.Zero,
		Coefficient:           coefficient,
		Observation:           dto.DevolutionObservation,
	}
}
