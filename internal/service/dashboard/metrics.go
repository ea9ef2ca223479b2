package dashboard

import (
	"math"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
)

// Every KPI has its own parameter record so tweaking one card's filter can
// never leak into another card. All reducers are pure and total: they never
// mutate the windowed collection, never error, and coerce missing or
// non-finite numerics to 0.

type OilProducedParams struct {
	MinYield float64
}

type NetOliveParams struct {
	MinQuality float64
}

type AverageYieldParams struct {
	Min float64
	Max float64
}

type PaymentRateParams struct {
	// IncludeUnclassified counts clients whose status classifies as
	// StatusOther in the denominator.
	IncludeUnclassified bool
}

type LedgerBalanceParams struct {
	// Type restricts the sums to one entry type, records.EntryCredit or
	// records.EntryDebit. Empty means both.
	Type string
}

type DiscrepancyParams struct {
	// Min drops clients whose (epsilon-zeroed) discrepancy is below the
	// threshold.
	Min float64
	// Epsilon is the magnitude under which a discrepancy is treated as
	// exactly 0 so floating-point noise never reports as a real gap.
	// Zero or negative falls back to DefaultDiscrepancyEpsilon.
	Epsilon float64
}

type TicketRevenueParams struct {
	// Status keeps only tickets classifying into the given category.
	// Empty means all tickets.
	Status Status
}

type StockFlowParams struct {
	// Type restricts to records.StockOlive or records.StockOil. Empty
	// means both.
	Type string
}

type PayrollParams struct {
	IncludeOvertime bool
}

// DefaultDiscrepancyEpsilon suppresses float noise in oil-discrepancy sums.
// The exact threshold carries no domain meaning and is overridable per
// request and via config.
const DefaultDiscrepancyEpsilon = 1e-9

// MetricParams is the keyed per-metric filter state of one dashboard
// session.
type MetricParams struct {
	OilProduced   OilProducedParams
	NetOlive      NetOliveParams
	AverageYield  AverageYieldParams
	PaymentRate   PaymentRateParams
	LedgerBalance LedgerBalanceParams
	Discrepancy   DiscrepancyParams
	TicketRevenue TicketRevenueParams
	StockFlow     StockFlowParams
	Payroll       PayrollParams
}

// DefaultMetricParams mirrors the filter defaults of the dashboard cards.
func DefaultMetricParams() MetricParams {
	return MetricParams{
		AverageYield: AverageYieldParams{Min: 0, Max: 100},
		Discrepancy:  DiscrepancyParams{Epsilon: DefaultDiscrepancyEpsilon},
		Payroll:      PayrollParams{IncludeOvertime: true},
	}
}

// OilProduced sums oil quantity over clients whose yield is at least
// MinYield. A missing yield counts as 0.
func OilProduced(clients []records.Client, p OilProducedParams) float64 {
	var total float64
	for _, c := range clients {
		if c.Yield.Or0() < p.MinYield {
			continue
		}
		total += c.OilQty.Or0()
	}
	return total
}

// NetOliveProduced sums net olive weight over clients whose quality ratio
// is at least MinQuality.
func NetOliveProduced(clients []records.Client, p NetOliveParams) float64 {
	var total float64
	for _, c := range clients {
		if c.Quality.Or0() < p.MinQuality {
			continue
		}
		total += c.NetOlive.Or0()
	}
	return total
}

// AverageYield is the arithmetic mean of yield over clients whose yield is
// numeric and lies within [Min, Max]. Clients without a numeric yield are
// not part of the population. The mean of an empty set is 0, not NaN.
func AverageYield(clients []records.Client, p AverageYieldParams) float64 {
	var sum float64
	var n int
	for _, c := range clients {
		if !c.Yield.Valid {
			continue
		}
		v := sanitize(c.Yield.Value)
		if v < p.Min || v > p.Max {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// PaymentRateResult is the paid-vs-total card.
type PaymentRateResult struct {
	Paid    int     `json:"paid"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// PaymentRate classifies each client's status and reports how many are
// paid out of the counted population.
func PaymentRate(clients []records.Client, p PaymentRateParams) PaymentRateResult {
	var res PaymentRateResult
	for _, c := range clients {
		st := ClassifyStatus(c.Status)
		if st == StatusOther && !p.IncludeUnclassified {
			continue
		}
		res.Total++
		if st == StatusPaid {
			res.Paid++
		}
	}
	if res.Total > 0 {
		res.Percent = float64(res.Paid) / float64(res.Total) * 100
	}
	return res
}

// LedgerBalanceResult is the cash card: credits, debits and their exact
// difference.
type LedgerBalanceResult struct {
	Credits float64 `json:"credits"`
	Debits  float64 `json:"debits"`
	Balance float64 `json:"balance"`
}

// LedgerBalance sums the cash register by entry type. Sums are carried in
// decimal so the balance is exactly credits minus debits even for amounts
// that do not add cleanly in binary floating point. Restricting Type to one
// side forces the other side to 0.
func LedgerBalance(entries []records.LedgerEntry, p LedgerBalanceParams) LedgerBalanceResult {
	credits, debits := decimal.Zero, decimal.Zero
	for _, e := range entries {
		if p.Type != "" && e.EntryType != p.Type {
			continue
		}
		amount := decimal.NewFromFloat(e.Amount.Or0())
		switch e.EntryType {
		case records.EntryCredit:
			credits = credits.Add(amount)
		case records.EntryDebit:
			debits = debits.Add(amount)
		}
	}
	return LedgerBalanceResult{
		Credits: credits.InexactFloat64(),
		Debits:  debits.InexactFloat64(),
		Balance: credits.Sub(debits).InexactFloat64(),
	}
}

// clientPaymentMotif spots cash entries written for a client settling a
// pressing. Cashiers write the motif by hand; this is a best-effort match,
// not a join.
var clientPaymentMotif = regexp.MustCompile(`(?i)client|vente|reglement`)

// ClientCreditsFromSales sums credit entries whose motif looks like a
// client payment.
func ClientCreditsFromSales(entries []records.LedgerEntry) float64 {
	total := decimal.Zero
	for _, e := range entries {
		if e.EntryType != records.EntryCredit {
			continue
		}
		if !clientPaymentMotif.MatchString(normalizeStatus(e.Motif)) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(e.Amount.Or0()))
	}
	return total.InexactFloat64()
}

// DiscrepancySum totals the absolute oil discrepancies. Magnitudes below
// epsilon are treated as exactly 0 before the Min threshold applies.
func DiscrepancySum(clients []records.Client, p DiscrepancyParams) float64 {
	eps := p.Epsilon
	if eps <= 0 {
		eps = DefaultDiscrepancyEpsilon
	}
	var total float64
	for _, c := range clients {
		v := math.Abs(c.OilGap.Or0())
		if v < eps {
			v = 0
		}
		if v < p.Min {
			continue
		}
		total += v
	}
	return total
}

// TicketRevenue sums weigh-ticket amounts, optionally restricted to one
// payment status category.
func TicketRevenue(tickets []records.WeighTicket, p TicketRevenueParams) float64 {
	total := decimal.Zero
	for _, t := range tickets {
		if p.Status != "" && ClassifyStatus(t.Status) != p.Status {
			continue
		}
		total = total.Add(decimal.NewFromFloat(t.TotalAmount.Or0()))
	}
	return total.InexactFloat64()
}

// StockFlowResult splits transferred quantities by stock type.
type StockFlowResult struct {
	Olive float64 `json:"olive"`
	Oil   float64 `json:"oil"`
}

// StockFlow sums transfer quantities per stock type. Restricting Type
// leaves the other side at 0.
func StockFlow(transfers []records.StockTransfer, p StockFlowParams) StockFlowResult {
	var res StockFlowResult
	for _, t := range transfers {
		if p.Type != "" && t.StockType != p.Type {
			continue
		}
		switch t.StockType {
		case records.StockOlive:
			res.Olive += t.Quantity.Or0()
		case records.StockOil:
			res.Oil += t.Quantity.Or0()
		}
	}
	return res
}

// BoxCount sums the crates handed out to clients.
func BoxCount(clients []records.Client) float64 {
	var total float64
	for _, c := range clients {
		total += c.BoxCount.Or0()
	}
	return total
}
