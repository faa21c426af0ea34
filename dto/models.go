package dto

import (
	"github.com/shopspring/decimal"
)

type DocumentType string

const (
	DocTypeINSS DocumentType = "inss"
	DocTypeBank DocumentType = "bank"
)

// Valid reports whether the document type has an extraction engine.
func (d DocumentType) Valid() bool {
	return d == DocTypeINSS || d == DocTypeBank
}

type TransactionKind string

const (
	KindDebit  TransactionKind = "Débito"
	KindCredit TransactionKind = "Crédito"
)

const (
	// UnidentifiedCompetence marks records found before any competence was seen.
	UnidentifiedCompetence = "Não identificada"

	NoObservation         = "-"
	DevolutionObservation = "DEVOLUÇÃO (ignorado no cálculo)"

	OriginINSS = "INSS"
)

// TransactionRecord is one matched statement line with its correction applied.
// Records are built once by an extraction engine and never mutated.
type TransactionRecord struct {
	Competence            string          `json:"competencia"`
	Kind                  TransactionKind `json:"tipo"`
	Origin                string          `json:"origem"`
	OriginalValue         decimal.Decimal `json:"valor_original"`
	CorrectionValue       decimal.Decimal `json:"valor_correcao"`
	CorrectedValue        decimal.Decimal `json:"valor_corrigido"`
	CorrectedValueDoubled decimal.Decimal `json:"valor_corrigido_dobro"`
	Coefficient           decimal.Decimal `json:"coeficiente"`
	Observation           string          `json:"observacao"`
}

// IsDevolution reports whether the record was zeroed as a reversal.
func (r TransactionRecord) IsDevolution() bool {
	return r.Kind == KindCredit && r.Observation == DevolutionObservation
}

// ResultSet groups records by search term, keeping the caller's term order
// and the document scan order inside each term.
type ResultSet struct {
	terms   []string
	records map[string][]TransactionRecord
}

func NewResultSet(terms []string) *ResultSet {
	rs := &ResultSet{
		terms:   make([]string, 0, len(terms)),
		records: make(map[string][]TransactionRecord, len(terms)),
	}
	for _, t := range terms {
		if _, ok := rs.records[t]; ok {
			continue
		}
		rs.terms = append(rs.terms, t)
		rs.records[t] = []TransactionRecord{}
	}
	return rs
}

func (rs *ResultSet) Add(term string, rec TransactionRecord) {
	if _, ok := rs.records[term]; !ok {
		rs.terms = append(rs.terms, term)
	}
	rs.records[term] = append(rs.records[term], rec)
}

// Terms returns the search terms in caller order.
func (rs *ResultSet) Terms() []string {
	out := make([]string, len(rs.terms))
	copy(out, rs.terms)
	return out
}

// Records returns the records found for term, nil if the term is unknown.
func (rs *ResultSet) Records(term string) []TransactionRecord {
	return rs.records[term]
}

func (rs *ResultSet) Has(term string) bool {
	_, ok := rs.records[term]
	return ok
}

// Total counts records across every term.
func (rs *ResultSet) Total() int {
	n := 0
	for _, recs := range rs.records {
		n += len(recs)
	}
	return n
}
