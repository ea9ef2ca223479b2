package dashboard

import (
	"strconv"
	"time"

	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
)

// ResolvedWindow echoes the canonical window back to the frontend so it can
// render the active filters without re-deriving them.
type ResolvedWindow struct {
	From        string      `json:"from,omitempty"`
	To          string      `json:"to,omitempty"`
	Year        string      `json:"year"`  // "all" or e.g. "2024"
	Month       string      `json:"month"` // "all" or "1".."12"
	Granularity Granularity `json:"granularity"`
	Mode        Mode        `json:"mode"`
}

func resolvedWindowDTO(c Controls, w Window) ResolvedWindow {
	dto := ResolvedWindow{
		Year:        "all",
		Month:       "all",
		Granularity: w.Granularity,
		Mode:        c.Mode,
	}
	if w.Year != 0 {
		dto.Year = strconv.Itoa(w.Year)
	}
	if w.Year != 0 && w.Month != 0 {
		dto.Month = strconv.Itoa(int(w.Month))
	}
	if w.From != nil {
		dto.From = w.From.Format(time.RFC3339)
	}
	if w.To != nil {
		dto.To = w.To.Format(time.RFC3339)
	}
	return dto
}

// SummaryMetrics holds every KPI card of the dashboard.
type SummaryMetrics struct {
	OilProduced    float64             `json:"oil_produced"`
	NetOlive       float64             `json:"net_olive"`
	AverageYield   float64             `json:"average_yield"`
	PaymentRate    PaymentRateResult   `json:"payment_rate"`
	Ledger         LedgerBalanceResult `json:"ledger"`
	ClientCredits  float64             `json:"client_credits"`
	DiscrepancySum float64             `json:"discrepancy_sum"`
	TicketRevenue  float64             `json:"ticket_revenue"`
	Stock          StockFlowResult     `json:"stock"`
	BoxCount       float64             `json:"box_count"`
	Payroll        PayrollResult       `json:"payroll"`
}

// CashflowSeries pairs credits and debits on one shared label axis (the
// union of their non-empty buckets, 0-filled).
type CashflowSeries struct {
	Labels  []string  `json:"labels"`
	Credits []float64 `json:"credits"`
	Debits  []float64 `json:"debits"`
}

// SummaryCharts holds the four chart series, all produced by the same
// bucketing contract.
type SummaryCharts struct {
	OilProduction Series         `json:"oil_production"`
	TicketWeights Series         `json:"ticket_weights"`
	StockMovement Series         `json:"stock_movement"`
	Cashflow      CashflowSeries `json:"cashflow"`
}

// SummaryResponse is the full dashboard recompute for one committed set of
// window controls and metric parameters.
type SummaryResponse struct {
	SnapshotID string         `json:"snapshot_id,omitempty"`
	Loading    bool           `json:"loading"`
	Window     ResolvedWindow `json:"window"`
	Metrics    SummaryMetrics `json:"metrics"`
	Charts     SummaryCharts  `json:"charts"`
}

// MetricResponse wraps a single KPI for the per-card endpoint.
type MetricResponse struct {
	Name   string         `json:"name"`
	Window ResolvedWindow `json:"window"`
	Result any            `json:"result"`
}

// SeriesResponse wraps a single chart series.
type SeriesResponse struct {
	Name   string         `json:"name"`
	Window ResolvedWindow `json:"window"`
	Series any            `json:"series"`
}

// StatusResponse reports the dashboard session: whether a refresh is in
// flight, which snapshot the engine is computing against, and the last
// refresh error if the data shown is stale.
type StatusResponse struct {
	Loading    bool           `json:"loading"`
	SnapshotID string         `json:"snapshot_id,omitempty"`
	FetchedAt  string         `json:"fetched_at,omitempty"`
	Error      string         `json:"error,omitempty"`
	Counts     records.Counts `json:"counts"`
}
