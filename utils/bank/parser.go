// Package bank extracts charges from bank statement text where each
// transaction row ends with its value and the running balance.
package bank

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/calculadora-judicial/correction-service/calculator"
	"github.com/calculadora-judicial/correction-service/dto"
	"github.com/calculadora-judicial/correction-service/utils"
)

// State is carried across lines and pages.
type State struct {
	Competence      string
	PreviousBalance *decimal.Decimal
}

func NewState() State {
	return State{Competence: dto.UnidentifiedCompetence}
}

// Line is one statement line with its neighbours on the same page.
type Line struct {
	Text     string
	Previous string
	Next     string
	HasPrev  bool
	HasNext  bool
}

// Row is a transaction row recognised on a line.
type Row struct {
	Competence  string
	Kind        dto.TransactionKind
	Value       decimal.Decimal
	Balance     decimal.Decimal
	Description string
}

type Parser struct {
	Classifiers []Classifier
}

func NewParser() *Parser {
	return &Parser{Classifiers: DefaultClassifiers}
}

// Step advances the state over one line. It returns a Row only for lines
// holding at least two amounts: the transaction value and the balance.
func (p *Parser) Step(state State, line Line) (State, *Row) {
	text := strings.TrimSpace(line.Text)

	if competence, ok := utils.FindFullDateCompetence(text); ok {
		state.Competence = competence
	}

	amounts := utils.FindSignedAmounts(text)
	if len(amounts) < 2 {
		return state, nil
	}
	value := amounts[len(amounts)-2]
	balance := amounts[len(amounts)-1].Value

	kind := Classify(Observation{
		Value:           value,
		Balance:         balance,
		PreviousBalance: state.PreviousBalance,
		Line:            text,
		PreviousLine:    line.Previous,
	}, p.Classifiers)

	state.PreviousBalance = &balance

	return state, &Row{
		Competence:  state.Competence,
		Kind:        kind,
		Value:       value.Value,
		Balance:     balance,
		Description: describe(text, line),
	}
}

// describe joins the previous line, the row and the next line unless the next
// line is itself a transaction row.
func describe(text string, line Line) string {
	desc := text
	if line.HasPrev {
		desc = strings.TrimSpace(line.Previous) + " | " + desc
	}
	if line.HasNext && utils.CountAmounts(line.Next) < 2 {
		desc += " | " + strings.TrimSpace(line.Next)
	}
	return desc
}

// Extract scans pages in order. Neighbouring lines never cross a page break.
func (p *Parser) Extract(pages []string, terms []string, coefficients calculator.CoefficientSource) *dto.ResultSet {
	terms = dto.NormalizeTerms(terms)
	results := dto.NewResultSet(terms)
	state := NewState()

	for _, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		lines := utils.SplitLines(page)
		for j := range lines {
			line := Line{Text: lines[j]}
			if j > 0 {
				line.Previous, line.HasPrev = lines[j-1], true
			}
			if j < len(lines)-1 {
				line.Next, line.HasNext = lines[j+1], true
			}

			var row *Row
			state, row = p.Step(state, line)
			if row == nil {
				continue
			}

			term, ok := utils.MatchTerm(row.Description, terms)
			if !ok {
				continue
			}
			results.Add(term, buildRecord(row, coefficients))
		}
	}

	return results
}

func buildRecord(row *Row, coefficients calculator.CoefficientSource) dto.TransactionRecord {
	origin := utils.Truncate(row.Description, utils.OriginMaxLength)
	coefficient := coefficients.Lookup(row.Competence)
	if row.Kind == dto.KindCredit {
		return calculator.Devolution(row.Competence, origin, row.Value, coefficient)
	}
	return calculator.Debit(row.Competence, origin, row.Value, coefficient)
}

// Extract runs the default parser.
func Extract(pages []string, terms []string, coefficients calculator.CoefficientSource) *dto.ResultSet {
	return NewParser().Extract(pages, terms, coefficients)
}
