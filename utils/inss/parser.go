// Package inss extracts benefit discounts from INSS statement text.
//
// The statement prints a "Competência/Período" label and, on a later line,
// the MM/YYYY it refers to. Every discount line after that belongs to that
// competence until the next label.
package inss

import (
	"strings"

	"github.com/calculadora-judicial/correction-service/calculator"
	"github.com/calculadora-judicial/correction-service/dto"
	"github.com/calculadora-judicial/correction-service/utils"
)

// State is carried from line to line across every page of a document.
type State struct {
	Competence   string
	AwaitingDate bool
}

func NewState() State {
	return State{Competence: dto.UnidentifiedCompetence}
}

// Match is a discount line attributed to a search term.
type Match struct {
	Term       string
	Competence string
	Amount     utils.Amount
}

// Step advances the state over one trimmed line and reports the term the line
// matched, if any. Competence header lines never match a term.
func Step(state State, line string, terms []string) (State, *Match) {
	if utils.IsCompetenceHeader(line) {
		state.AwaitingDate = true
		return state, nil
	}

	if state.AwaitingDate {
		if competence, ok := utils.FindCompetence(line); ok {
			state.Competence = competence
			state.AwaitingDate = false
		}
	}

	term, ok := utils.MatchTerm(line, terms)
	if !ok {
		return state, nil
	}

	// the right-most amount is the net discount; base values come first
	return state, &Match{
		Term:       term,
		Competence: state.Competence,
		Amount:     utils.LastAmount(line),
	}
}

// Extract scans pages in order and returns one debit record per matching
// line. Empty pages are skipped without touching the state.
func Extract(pages []string, terms []string, coefficients calculator.CoefficientSource) *dto.ResultSet {
	terms = dto.NormalizeTerms(terms)
	results := dto.NewResultSet(terms)
	state := NewState()

	for _, page := range pages {
		if strings.TrimSpace(page) == "" {
			continue
		}
		for _, raw := range utils.SplitLines(page) {
			var match *Match
			state, match = Step(state, strings.TrimSpace(raw), terms)
			if match == nil {
				continue
			}
			coefficient := coefficients.Lookup(match.Competence)
			results.Add(match.Term, calculator.Debit(match.Competence, dto.OriginINSS, match.Amount.Value, coefficient))
		}
	}

	return results
}
