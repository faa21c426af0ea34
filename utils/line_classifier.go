package utils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// "09/2023" standing alone between blanks or line edges. PDF text often
	// separates with U+00A0, which \s does not cover.
	competenceValueRegex = regexp.MustCompile(`(?:^|[\s\p{Z}])(\d{2}/\d{4})(?:[\s\p{Z}]|$)`)

	// Brazilian currency numerals: 1.234,56 / 45,00, optionally signed.
	amountRegex       = regexp.MustCompile(`\d{1,3}(?:\.\d{3})*,\d{2}`)
	signedAmountRegex = regexp.MustCompile(`-?\d{1,3}(?:\.\d{3})*,\d{2}`)

	fullDateRegex = regexp.MustCompile(`(\d{2})/(\d{2})/(\d{4})`)
)

// Amount is a monetary token found on a line. Value is always non-negative;
// the sign, when the pattern allowed one, is kept in Negative.
type Amount struct {
	Raw      string
	Value    decimal.Decimal
	Negative bool
}

// ZeroAmount is used when a matched line carries no monetary token.
var ZeroAmount = Amount{Raw: "0,00", Value: decimal.Zero}

// IsCompetenceHeader detects the "Competência/Período" style label that
// announces the competence printed on a following line.
func IsCompetenceHeader(line string) bool {
	upper := strings.ToUpper(line)
	return strings.Contains(upper, "COMPET") && strings.Contains(upper, "PER")
}

// FindCompetence returns the first standalone MM/YYYY token of the line.
func FindCompetence(line string) (string, bool) {
	m := competenceValueRegex.FindStringSubmatch(line)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// FindFullDateCompetence derives MM/YYYY from the first DD/MM/YYYY of the line.
func FindFullDateCompetence(line string) (string, bool) {
	m := fullDateRegex.FindStringSubmatch(line)
	if len(m) < 4 {
		return "", false
	}
	return m[2] + "/" + m[3], true
}

// FindAmounts returns every unsigned currency numeral, left to right.
func FindAmounts(line string) []Amount {
	return collectAmounts(amountRegex.FindAllString(line, -1))
}

// FindSignedAmounts is FindAmounts but keeps a leading "-" as the sign.
func FindSignedAmounts(line string) []Amount {
	return collectAmounts(signedAmountRegex.FindAllString(line, -1))
}

// CountAmounts counts unsigned currency numerals without converting them.
func CountAmounts(line string) int {
	return len(amountRegex.FindAllStringIndex(line, -1))
}

// LastAmount returns the right-most amount on the line, ZeroAmount if none.
func LastAmount(line string) Amount {
	amounts := FindAmounts(line)
	if len(amounts) == 0 {
		return ZeroAmount
	}
	return amounts[len(amounts)-1]
}

// ParseAmount converts a token such as "-1.234,56" into an Amount.
func ParseAmount(raw string) (Amount, error) {
	negative := strings.Contains(raw, "-")
	s := strings.ReplaceAll(raw, "-", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	value, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Raw: raw, Value: value, Negative: negative}, nil
}

func collectAmounts(tokens []string) []Amount {
	amounts := make([]Amount, 0, len(tokens))
	for _, tok := range tokens {
		a, err := ParseAmount(tok)
		if err != nil {
			// unreachable for regex matches, skip rather than guess
			continue
		}
		amounts = append(amounts, a)
	}
	return amounts
}

// MatchTerm returns the first term contained in text, ignoring case. The term
// is returned as given. A line contributes to at most one term, so callers
// stop at the first hit.
func MatchTerm(text string, terms []string) (string, bool) {
	upper := strings.ToUpper(text)
	for _, term := range terms {
		if strings.Contains(upper, strings.ToUpper(term)) {
			return term, true
		}
	}
	return "", false
}
