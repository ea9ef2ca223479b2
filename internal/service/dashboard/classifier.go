package dashboard

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Status is the closed set the free-text payment/workflow statuses collapse
// into. The values double as canonical labels: classifying a canonical
// label yields itself.
type Status string

const (
	StatusPaid   Status = "paid"
	StatusUnpaid Status = "unpaid"
	StatusOther  Status = "other"
)

// Patterns are checked in order; the negated forms must come before the
// bare "paid"/"payé" substrings they contain.
var statusPatterns = []struct {
	needle string
	status Status
}{
	{"unpaid", StatusUnpaid},
	{"not paid", StatusUnpaid},
	{"non paye", StatusUnpaid},
	{"impaye", StatusUnpaid},
	{"non regle", StatusUnpaid},
	{"paid", StatusPaid},
	{"paye", StatusPaid},
	{"regle", StatusPaid},
	{"solde", StatusPaid},
}

// ClassifyStatus maps arbitrary status text to exactly one category. It is
// total: empty or unrecognized input is StatusOther.
func ClassifyStatus(raw string) Status {
	s := normalizeStatus(raw)
	for _, p := range statusPatterns {
		if strings.Contains(s, p.needle) {
			return p.status
		}
	}
	return StatusOther
}

// normalizeStatus lowercases, strips diacritics ("Payé" and "paye" must
// compare equal) and collapses runs of whitespace.
func normalizeStatus(s string) string {
	s = strings.ToLower(s)
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}
