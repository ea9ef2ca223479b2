package dashboard

import (
	"time"

	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
)

// The console API is not consistent about date formats: newer records carry
// RFC3339 timestamps, older ones plain dates, a few exports use a space
// instead of the T.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate parses a record date string. A record whose date cannot be
// parsed is a data-quality issue, not a fault: the ok result is false and
// the caller drops the record from every window and bucket.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Per-collection date rules. Each collection decides which field anchors a
// record in time.

func clientDate(c records.Client) (time.Time, bool) {
	return parseDate(c.CreatedAt)
}

// Weigh tickets prefer the entry timestamp; legacy tickets only logged the
// exit.
func ticketDate(t records.WeighTicket) (time.Time, bool) {
	if ts, ok := parseDate(t.CreatedAt); ok {
		return ts, true
	}
	return parseDate(t.ExitAt)
}

func transferDate(t records.StockTransfer) (time.Time, bool) {
	return parseDate(t.Date)
}

func ledgerDate(e records.LedgerEntry) (time.Time, bool) {
	return parseDate(e.Date)
}

// windowRecords keeps the records whose date both parses and falls inside
// the window. The input slice is never mutated.
func windowRecords[T any](in []T, w Window, dateOf func(T) (time.Time, bool)) []T {
	out := make([]T, 0, len(in))
	for _, r := range in {
		t, ok := dateOf(r)
		if !ok || !w.Contains(t) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// windowedBatch holds the four collections that are filtered wholesale.
// Employees are not here: their attendance is windowed day by day inside
// the payroll calculator while the rate fields stay untouched.
type windowedBatch struct {
	clients   []records.Client
	tickets   []records.WeighTicket
	transfers []records.StockTransfer
	ledger    []records.LedgerEntry
}

func windowBatch(b records.Batch, w Window) windowedBatch {
	return windowedBatch{
		clients:   windowRecords(b.Clients, w, clientDate),
		tickets:   windowRecords(b.Tickets, w, ticketDate),
		transfers: windowRecords(b.Transfers, w, transferDate),
		ledger:    windowRecords(b.Ledger, w, ledgerDate),
	}
}
