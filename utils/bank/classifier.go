package bank

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/calculadora-judicial/correction-service/dto"
	"github.com/calculadora-judicial/correction-service/utils"
)

// Observation is what a classifier may look at for one transaction row.
type Observation struct {
	Value           utils.Amount
	Balance         decimal.Decimal
	PreviousBalance *decimal.Decimal
	Line            string
	PreviousLine    string
}

// Classifier decides debit or credit, or reports ok=false when inconclusive.
type Classifier interface {
	Classify(obs Observation) (kind dto.TransactionKind, ok bool)
}

type ClassifierFunc func(obs Observation) (dto.TransactionKind, bool)

func (f ClassifierFunc) Classify(obs Observation) (dto.TransactionKind, bool) {
	return f(obs)
}

// CreditKeywords mark credits when neither the sign nor the balance tells.
var CreditKeywords = []string{"RESGATE", "INSS", "REM", "TED", "DOC", "CREDITO", "SALARIO"}

// SignClassifier: an explicit "-" on the value is a debit.
var SignClassifier = ClassifierFunc(func(obs Observation) (dto.TransactionKind, bool) {
	if obs.Value.Negative {
		return dto.KindDebit, true
	}
	return "", false
})

// BalanceDeltaClassifier compares the running balance with the previous row.
// An unchanged balance is inconclusive.
var BalanceDeltaClassifier = ClassifierFunc(func(obs Observation) (dto.TransactionKind, bool) {
	if obs.PreviousBalance == nil {
		return "", false
	}
	delta := obs.Balance.Sub(*obs.PreviousBalance).Round(2)
	switch delta.Sign() {
	case 1:
		return dto.KindCredit, true
	case -1:
		return dto.KindDebit, true
	}
	return "", false
})

// KeywordClassifier looks for credit keywords on the row and the line above.
func KeywordClassifier(keywords []string) Classifier {
	return ClassifierFunc(func(obs Observation) (dto.TransactionKind, bool) {
		block := strings.ToUpper(obs.Line) + " " + strings.ToUpper(obs.PreviousLine)
		for _, kw := range keywords {
			if strings.Contains(block, kw) {
				return dto.KindCredit, true
			}
		}
		return "", false
	})
}

// DefaultClassifiers is the tie-break order: sign, balance delta, keywords.
var DefaultClassifiers = []Classifier{
	SignClassifier,
	BalanceDeltaClassifier,
	KeywordClassifier(CreditKeywords),
}

// Classify runs classifiers in order; a row nobody decides is a debit.
func Classify(obs Observation, classifiers []Classifier) dto.TransactionKind {
	for _, c := range classifiers {
		if kind, ok := c.Classify(obs); ok {
			return kind
		}
	}
	return dto.KindDebit
}
