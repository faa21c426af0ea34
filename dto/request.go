package dto

import (
	"strings"
)

// CalculationRequest carries one upload: a statement, a coefficient table and
// the terms to look for. Nothing in it outlives the request.
type CalculationRequest struct {
	DocumentType     DocumentType
	Terms            []string
	Statement        []byte
	StatementName    string
	Password         string
	Coefficients     []byte
	CoefficientsName string
}

// Validate performs basic validation on the request
func (r *CalculationRequest) Validate() error {
	if !r.DocumentType.Valid() {
		return ErrUnsupportedDocumentType
	}
	if len(NormalizeTerms(r.Terms)) == 0 {
		return ErrNoTerms
	}
	if len(r.Statement) == 0 {
		return ErrEmptyDocument
	}
	if len(r.Coefficients) == 0 {
		return &InputFormatError{Reason: "coefficient file is empty"}
	}
	return nil
}

// ParseTerms splits a comma separated list into normalised terms.
func ParseTerms(raw string) []string {
	return NormalizeTerms(strings.Split(raw, ","))
}

// NormalizeTerms trims and upper-cases terms, dropping blanks and repeats,
// so matching is case-insensitive and result keys are stable.
func NormalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
