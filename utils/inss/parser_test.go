package inss

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calculadora-judicial/correction-service/dto"
)

type fixedCoefficients map[string]decimal.Decimal

func (f fixedCoefficients) Lookup(competence string) decimal.Decimal {
	if c, ok := f[competence]; ok {
		return c
	}
	return decimal.NewFromInt(1)
}

var coefficients = fixedCoefficients{
	"01/2023": decimal.RequireFromString("1.05"),
	"02/2023": decimal.RequireFromString("1.06"),
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestExtractAppliesCompetenceAfterHeader(t *testing.T) {
	page := `HISTORICO DE CREDITOS
Competência/Período   Período
01/2023
104 CONSIGNACAO EMPRESTIMO BANCARIO 1.412,00 87,40
CARTAO CONSIGNADO 150,00`

	rs := Extract([]string{page}, []string{"CARTAO"}, coefficients)

	recs := rs.Records("CARTAO")
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, "01/2023", rec.Competence)
	assert.Equal(t, dto.KindDebit, rec.Kind)
	assert.Equal(t, dto.OriginINSS, rec.Origin)
	assert.Equal(t, dto.NoObservation, rec.Observation)
	assertDecimal(t, "150.00", rec.OriginalValue)
	assertDecimal(t, "1.05", rec.Coefficient)
	assertDecimal(t, "157.50", rec.CorrectedValue)
	assertDecimal(t, "7.50", rec.CorrectionValue)
	assertDecimal(t, "315.00", rec.CorrectedValueDoubled)
}

func TestExtractBeforeAnyHeaderIsUnidentified(t *testing.T) {
	page := `CARTAO RMC 30,00
COMPETENCIA PERIODO
02/2023
CARTAO RMC 30,00`

	recs := Extract([]string{page}, []string{"CARTAO"}, coefficients).Records("CARTAO")

	require.Len(t, recs, 2)
	assert.Equal(t, dto.UnidentifiedCompetence, recs[0].Competence)
	assertDecimal(t, "1", recs[0].Coefficient)
	assertDecimal(t, "30.00", recs[0].CorrectedValue)
	assert.Equal(t, "02/2023", recs[1].Competence)
	assertDecimal(t, "31.80", recs[1].CorrectedValue)
}

func TestCompetenceOnlyChangesAfterHeader(t *testing.T) {
	page := `COMPETENCIA/PERIODO
01/2023
CARTAO 10,00
02/2023
CARTAO 10,00`

	recs := Extract([]string{page}, []string{"CARTAO"}, coefficients).Records("CARTAO")

	require.Len(t, recs, 2)
	assert.Equal(t, "01/2023", recs[0].Competence)
	assert.Equal(t, "01/2023", recs[1].Competence)
}

func TestHeaderLineNeverMatchesTerm(t *testing.T) {
	page := `CARTAO COMPETENCIA PERIODO 99,00
01/2023 CARTAO 12,00`

	recs := Extract([]string{page}, []string{"CARTAO"}, coefficients).Records("CARTAO")

	require.Len(t, recs, 1)
	assert.Equal(t, "01/2023", recs[0].Competence)
	assertDecimal(t, "12.00", recs[0].OriginalValue)
}

func TestFirstMatchingTermWins(t *testing.T) {
	page := `EMPRESTIMO SOBRE CARTAO 20,00
EMPRESTIMO PESSOAL 40,00`

	rs := Extract([]string{page}, []string{"CARTAO", "EMPRESTIMO"}, coefficients)

	require.Len(t, rs.Records("CARTAO"), 1)
	require.Len(t, rs.Records("EMPRESTIMO"), 1)
	assertDecimal(t, "20.00", rs.Records("CARTAO")[0].OriginalValue)
	assertDecimal(t, "40.00", rs.Records("EMPRESTIMO")[0].OriginalValue)
	assert.Equal(t, 2, rs.Total())
}

func TestMissingAmountDefaultsToZero(t *testing.T) {
	recs := Extract([]string{"cartao consignado"}, []string{"CARTAO"}, coefficients).Records("CARTAO")

	require.Len(t, recs, 1)
	assertDecimal(t, "0", recs[0].OriginalValue)
	assertDecimal(t, "0", recs[0].CorrectedValue)
}

func TestEmptyPagesKeepState(t *testing.T) {
	pages := []string{
		"COMPETENCIA PERIODO",
		"",
		"   ",
		"02/2023\nCARTAO 100,00",
	}

	recs := Extract(pages, []string{"CARTAO"}, coefficients).Records("CARTAO")

	require.Len(t, recs, 1)
	assert.Equal(t, "02/2023", recs[0].Competence)
	assertDecimal(t, "106.00", recs[0].CorrectedValue)
}

func TestNoMatchesYieldsEmptyTables(t *testing.T) {
	rs := Extract([]string{"nada aqui 10,00"}, []string{"CARTAO", "EMPRESTIMO"}, coefficients)

	assert.Equal(t, []string{"CARTAO", "EMPRESTIMO"}, rs.Terms())
	assert.Empty(t, rs.Records("CARTAO"))
	assert.Zero(t, rs.Total())
}

func TestStep(t *testing.T) {
	state := NewState()

	state, m := Step(state, "COMPETENCIA PERIODO", []string{"CARTAO"})
	assert.Nil(t, m)
	assert.True(t, state.AwaitingDate)

	state, m = Step(state, "sem data", []string{"CARTAO"})
	assert.Nil(t, m)
	assert.True(t, state.AwaitingDate)

	state, m = Step(state, "03/2023", []string{"CARTAO"})
	assert.Nil(t, m)
	assert.False(t, state.AwaitingDate)
	assert.Equal(t, "03/2023", state.Competence)
}

func TestExtractIsDeterministic(t *testing.T) {
	pages := []string{"COMPETENCIA PERIODO\n01/2023\nCARTAO 150,00\nEMPRESTIMO 1.000,00 200,00"}
	terms := []string{"CARTAO", "EMPRESTIMO"}

	first := Extract(pages, terms, coefficients)
	second := Extract(pages, terms, coefficients)

	assert.Equal(t, first, second)
}

func TestExtractNormalisesTerms(t *testing.T) {
	page := "COMPETENCIA/PERIODO\n01/2023\nCARTAO CONSIGNADO 150,00"

	rs := Extract([]string{page}, []string{" cartao", "Cartao", "emprestimo"}, coefficients)

	assert.Equal(t, []string{"CARTAO", "EMPRESTIMO"}, rs.Terms())
	recs := rs.Records("CARTAO")
	require.Len(t, recs, 1)
	assert.Equal(t, "01/2023", recs[0].Competence)
	assertDecimal(t, "157.50", recs[0].CorrectedValue)
}

func TestExtractCompetenceAfterNonBreakingSpace(t *testing.T) {
	page := "Competência/Período\n01/2023\u00a0Benefício\nCARTAO 100,00"

	recs := Extract([]string{page}, []string{"CARTAO"}, coefficients).Records("CARTAO")

	require.Len(t, recs, 1)
	assert.Equal(t, "01/2023", recs[0].Competence)
}
