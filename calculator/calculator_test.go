package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/calculadora-judicial/correction-service/dto"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		coefficient string
		corrected   string
		correction  string
		doubled     string
	}{
		{"plain", "150.00", "1.05", "157.50", "7.50", "315.00"},
		{"identity", "99.99", "1", "99.99", "0", "199.98"},
		{"rounds half up", "10.01", "1.0005", "10.02", "0.01", "20.04"},
		{"long coefficient", "1234.56", "1.2345678", "1524.15", "289.59", "3048.30"},
		{"zero value", "0", "1.5", "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Calculate(dec(tt.value), dec(tt.coefficient))
			assertDecimal(t, tt.corrected, res.Corrected)
			assertDecimal(t, tt.correction, res.Correction)
			assertDecimal(t, tt.doubled, res.Doubled)
		})
	}
}

func TestCalculateFormulasHold(t *testing.T) {
	values := []string{"0.01", "1.99", "45.00", "1234.56", "98765.43"}
	coefficients := []string{"1", "1.0000001", "1.05", "2.3456789", "0.9876543"}

	for _, v := range values {
		for _, c := range coefficients {
			value, coef := dec(v), dec(c)
			res := Calculate(value, coef)

			assert.True(t, res.Corrected.Equal(value.Mul(coef).Round(2)), "%s x %s", v, c)
			assert.True(t, res.Correction.Equal(res.Corrected.Sub(value).Round(2)), "%s x %s", v, c)
			assert.True(t, res.Doubled.Equal(res.Corrected.Mul(decimal.NewFromInt(2)).Round(2)), "%s x %s", v, c)
		}
	}
}

func TestDebit(t *testing.T) {
	rec := Debit("01/2023", dto.OriginINSS, dec("150"), dec("1.05"))

	assert.Equal(t, dto.KindDebit, rec.Kind)
	assert.Equal(t, "01/2023", rec.Competence)
	assert.Equal(t, dto.NoObservation, rec.Observation)
	assertDecimal(t, "157.50", rec.CorrectedValue)
	assertDecimal(t, "7.50", rec.CorrectionValue)
	assertDecimal(t, "315.00", rec.CorrectedValueDoubled)
	assertDecimal(t, "1.05", rec.Coefficient)
	assert.False(t, rec.IsDevolution())
}

func TestDevolutionIgnoresCoefficient(t *testing.T) {
	rec := Devolution("03/2023", "ESTORNO ASPECIR...", dec("50"), dec("1.9"))

	assert.Equal(t, dto.KindCredit, rec.Kind)
	assert.Equal(t, dto.DevolutionObservation, rec.Observation)
	assertDecimal(t, "50", rec.OriginalValue)
	assertDecimal(t, "0", rec.CorrectedValue)
	assertDecimal(t, "0", rec.CorrectionValue)
	assertDecimal(t, "0", rec.CorrectedValueDoubled)
	assertDecimal(t, "1.9", rec.Coefficient)
	assert.True(t, rec.IsDevolution())
}
