package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
)

// Service owns the dashboard session: the last committed snapshot of the
// five collections and nothing else. Every computation is a pure function
// of that snapshot plus the parameters of the request, so identical inputs
// always produce identical output and nothing is cached across refreshes.
//
// The snapshot is swapped atomically under the mutex; a computation either
// sees the previous batch whole or the new batch whole, never a mix.
type Service struct {
	source  records.Source
	logger  *slog.Logger
	epsilon float64

	mu         sync.RWMutex
	batch      records.Batch
	snapshotID string
	fetchedAt  time.Time
	loading    bool
	lastErr    error
}

func NewService(source records.Source, logger *slog.Logger, discrepancyEpsilon float64) *Service {
	if discrepancyEpsilon <= 0 {
		discrepancyEpsilon = DefaultDiscrepancyEpsilon
	}
	return &Service{
		source:  source,
		logger:  logger,
		epsilon: discrepancyEpsilon,
	}
}

// Refresh fetches a new batch from the source and commits it atomically.
// A failed fetch leaves the previous snapshot in place; the error is kept
// and surfaced by Status so the frontend can show stale data with a
// "failed to refresh" indication. A partial fetch (some collections empty)
// is committed and remembered as a warning.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrRefreshInFlight
	}
	s.loading = true
	s.mu.Unlock()

	batch, err := s.source.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastErr = err

	if err != nil && errors.Is(err, records.ErrNoData) {
		s.logger.Error("dashboard refresh failed, keeping previous snapshot", slog.String("error", err.Error()))
		return err
	}

	s.batch = batch
	s.snapshotID = uuid.NewString()
	s.fetchedAt = time.Now()
	if err != nil {
		s.logger.Warn("dashboard refresh committed with degraded collections", slog.String("error", err.Error()))
	} else {
		s.logger.Info("dashboard snapshot committed",
			slog.String("snapshot_id", s.snapshotID),
			slog.Int("clients", len(batch.Clients)),
			slog.Int("tickets", len(batch.Tickets)),
			slog.Int("transfers", len(batch.Transfers)),
			slog.Int("ledger", len(batch.Ledger)),
			slog.Int("employees", len(batch.Employees)),
		)
	}
	return err
}

// Status reports the session state.
func (s *Service) Status() StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := StatusResponse{
		Loading:    s.loading,
		SnapshotID: s.snapshotID,
		Counts:     s.batch.Counts(),
	}
	if !s.fetchedAt.IsZero() {
		res.FetchedAt = s.fetchedAt.Format(time.RFC3339)
	}
	if s.lastErr != nil {
		res.Error = s.lastErr.Error()
	}
	return res
}

// snapshot reads the committed batch and session flags in one locked step.
func (s *Service) snapshot() (records.Batch, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch, s.snapshotID, s.loading
}

// Summary recomputes all KPIs and chart series for one committed set of
// controls and metric parameters.
func (s *Service) Summary(controls Controls, params MetricParams) SummaryResponse {
	if params.Discrepancy.Epsilon <= 0 {
		params.Discrepancy.Epsilon = s.epsilon
	}
	batch, snapshotID, loading := s.snapshot()
	res := computeAll(batch, controls, params, time.Now())
	res.SnapshotID = snapshotID
	res.Loading = loading
	return res
}

// Metric recomputes a single KPI by name.
func (s *Service) Metric(name string, controls Controls, params MetricParams) (MetricResponse, error) {
	if params.Discrepancy.Epsilon <= 0 {
		params.Discrepancy.Epsilon = s.epsilon
	}
	batch, _, _ := s.snapshot()
	w := Resolve(controls, time.Now())
	wb := windowBatch(batch, w)

	var result any
	switch name {
	case "oil-produced":
		result = OilProduced(wb.clients, params.OilProduced)
	case "net-olive":
		result = NetOliveProduced(wb.clients, params.NetOlive)
	case "average-yield":
		result = AverageYield(wb.clients, params.AverageYield)
	case "payment-rate":
		result = PaymentRate(wb.clients, params.PaymentRate)
	case "ledger-balance":
		result = LedgerBalance(wb.ledger, params.LedgerBalance)
	case "client-credits":
		result = ClientCreditsFromSales(wb.ledger)
	case "discrepancy-sum":
		result = DiscrepancySum(wb.clients, params.Discrepancy)
	case "ticket-revenue":
		result = TicketRevenue(wb.tickets, params.TicketRevenue)
	case "stock-flow":
		result = StockFlow(wb.transfers, params.StockFlow)
	case "box-count":
		result = BoxCount(wb.clients)
	case "payroll":
		result = PayrollAccrual(batch.Employees, wb.ledger, w, params.Payroll)
	default:
		return MetricResponse{}, ErrUnknownMetric
	}

	return MetricResponse{
		Name:   name,
		Window: resolvedWindowDTO(controls, w),
		Result: result,
	}, nil
}

// Series recomputes a single chart series by name.
func (s *Service) Series(name string, controls Controls) (SeriesResponse, error) {
	batch, _, _ := s.snapshot()
	w := Resolve(controls, time.Now())
	wb := windowBatch(batch, w)

	var series any
	switch name {
	case "oil":
		series = bucketSeries(wb.clients, clientDate, w.Granularity, func(c records.Client) float64 { return c.OilQty.Or0() })
	case "tickets":
		series = bucketSeries(wb.tickets, ticketDate, w.Granularity, func(t records.WeighTicket) float64 { return t.NetWeight.Or0() })
	case "stock":
		series = bucketSeries(wb.transfers, transferDate, w.Granularity, func(t records.StockTransfer) float64 { return t.Quantity.Or0() })
	case "cashflow":
		series = cashflowSeries(wb.ledger, w.Granularity)
	default:
		return SeriesResponse{}, ErrUnknownSeries
	}

	return SeriesResponse{
		Name:   name,
		Window: resolvedWindowDTO(controls, w),
		Series: series,
	}, nil
}

// computeAll is the whole recompute pipeline as one pure function: resolve
// the window once, filter the five collections against it, then reduce
// every KPI and chart series independently. The presentation layer calls
// this on every committed parameter change instead of tracking a dependency
// graph.
func computeAll(batch records.Batch, controls Controls, params MetricParams, now time.Time) SummaryResponse {
	w := Resolve(controls, now)
	wb := windowBatch(batch, w)

	return SummaryResponse{
		Window: resolvedWindowDTO(controls, w),
		Metrics: SummaryMetrics{
			OilProduced:    OilProduced(wb.clients, params.OilProduced),
			NetOlive:       NetOliveProduced(wb.clients, params.NetOlive),
			AverageYield:   AverageYield(wb.clients, params.AverageYield),
			PaymentRate:    PaymentRate(wb.clients, params.PaymentRate),
			Ledger:         LedgerBalance(wb.ledger, params.LedgerBalance),
			ClientCredits:  ClientCreditsFromSales(wb.ledger),
			DiscrepancySum: DiscrepancySum(wb.clients, params.Discrepancy),
			TicketRevenue:  TicketRevenue(wb.tickets, params.TicketRevenue),
			Stock:          StockFlow(wb.transfers, params.StockFlow),
			BoxCount:       BoxCount(wb.clients),
			Payroll:        PayrollAccrual(batch.Employees, wb.ledger, w, params.Payroll),
		},
		Charts: SummaryCharts{
			OilProduction: bucketSeries(wb.clients, clientDate, w.Granularity, func(c records.Client) float64 { return c.OilQty.Or0() }),
			TicketWeights: bucketSeries(wb.tickets, ticketDate, w.Granularity, func(t records.WeighTicket) float64 { return t.NetWeight.Or0() }),
			StockMovement: bucketSeries(wb.transfers, transferDate, w.Granularity, func(t records.StockTransfer) float64 { return t.Quantity.Or0() }),
			Cashflow:      cashflowSeries(wb.ledger, w.Granularity),
		},
	}
}

// cashflowSeries buckets credits and debits separately, then aligns both on
// the union label axis.
func cashflowSeries(ledger []records.LedgerEntry, g Granularity) CashflowSeries {
	var creditEntries, debitEntries []records.LedgerEntry
	for _, e := range ledger {
		switch e.EntryType {
		case records.EntryCredit:
			creditEntries = append(creditEntries, e)
		case records.EntryDebit:
			debitEntries = append(debitEntries, e)
		}
	}
	amount := func(e records.LedgerEntry) float64 { return e.Amount.Or0() }
	credits := bucketSeries(creditEntries, ledgerDate, g, amount)
	debits := bucketSeries(debitEntries, ledgerDate, g, amount)

	labels, aligned := mergeAxes(credits, debits)
	return CashflowSeries{Labels: labels, Credits: aligned[0], Debits: aligned[1]}
}
