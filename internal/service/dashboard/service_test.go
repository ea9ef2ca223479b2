package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
)

// stubSource returns a scripted sequence of fetch results.
type stubSource struct {
	results []fetchResult
	calls   int
	block   chan struct{} // when set, Fetch waits on it
}

type fetchResult struct {
	batch records.Batch
	err   error
}

func (s *stubSource) Fetch(ctx context.Context) (records.Batch, error) {
	if s.block != nil {
		<-s.block
	}
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	return s.results[i].batch, s.results[i].err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBatch(nClients int) records.Batch {
	b := records.Batch{}
	for i := 0; i < nClients; i++ {
		b.Clients = append(b.Clients, records.Client{
			ID:        fmt.Sprintf("c%d", i),
			CreatedAt: "2024-01-10",
			OilQty:    records.Num(10),
		})
	}
	return b
}

func TestService_RefreshCommitsSnapshot(t *testing.T) {
	src := &stubSource{results: []fetchResult{{batch: testBatch(3)}}}
	svc := NewService(src, testLogger(), 0)

	require.NoError(t, svc.Refresh(context.Background()))

	st := svc.Status()
	assert.False(t, st.Loading)
	assert.NotEmpty(t, st.SnapshotID)
	assert.NotEmpty(t, st.FetchedAt)
	assert.Empty(t, st.Error)
	assert.Equal(t, 3, st.Counts.Clients)
}

func TestService_FailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	src := &stubSource{results: []fetchResult{
		{batch: testBatch(3)},
		{err: fmt.Errorf("all endpoints down: %w", records.ErrNoData)},
	}}
	svc := NewService(src, testLogger(), 0)

	require.NoError(t, svc.Refresh(context.Background()))
	first := svc.Status()

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, records.ErrNoData))

	st := svc.Status()
	assert.Equal(t, first.SnapshotID, st.SnapshotID, "previous snapshot stays committed")
	assert.Equal(t, 3, st.Counts.Clients)
	assert.NotEmpty(t, st.Error)
}

func TestService_PartialRefreshCommitsDegradedBatch(t *testing.T) {
	partial := testBatch(2)
	src := &stubSource{results: []fetchResult{
		{batch: testBatch(5)},
		{batch: partial, err: fmt.Errorf("ledger endpoint down: %w", records.ErrPartialFetch)},
	}}
	svc := NewService(src, testLogger(), 0)

	require.NoError(t, svc.Refresh(context.Background()))
	first := svc.Status()

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, records.ErrPartialFetch))

	st := svc.Status()
	assert.NotEqual(t, first.SnapshotID, st.SnapshotID, "degraded batch still commits")
	assert.Equal(t, 2, st.Counts.Clients)
}

func TestService_SnapshotIDChangesPerCommit(t *testing.T) {
	src := &stubSource{results: []fetchResult{{batch: testBatch(1)}}}
	svc := NewService(src, testLogger(), 0)

	require.NoError(t, svc.Refresh(context.Background()))
	id1 := svc.Status().SnapshotID
	require.NoError(t, svc.Refresh(context.Background()))
	id2 := svc.Status().SnapshotID

	assert.NotEqual(t, id1, id2)
}

func TestService_ConcurrentRefreshRejected(t *testing.T) {
	src := &stubSource{
		results: []fetchResult{{batch: testBatch(1)}},
		block:   make(chan struct{}),
	}
	svc := NewService(src, testLogger(), 0)

	done := make(chan error, 1)
	go func() { done <- svc.Refresh(context.Background()) }()

	require.Eventually(t, func() bool { return svc.Status().Loading }, time.Second, time.Millisecond)

	assert.ErrorIs(t, svc.Refresh(context.Background()), ErrRefreshInFlight)

	close(src.block)
	require.NoError(t, <-done)
	assert.False(t, svc.Status().Loading)
}

func TestService_SummaryScenarioEndToEnd(t *testing.T) {
	batch := records.Batch{
		Clients: []records.Client{
			{CreatedAt: "2024-01-10", Yield: records.Num(80), OilQty: records.Num(10), Status: "payé"},
			{CreatedAt: "2024-02-10", Yield: records.Num(92), OilQty: records.Num(20), Status: "non payé"},
			{CreatedAt: "2023-06-01", Yield: records.Num(99), OilQty: records.Num(500)}, // outside window
		},
		Ledger: []records.LedgerEntry{
			{Date: "2024-01-15", EntryType: records.EntryCredit, Amount: records.Num(100)},
			{Date: "2024-01-20", EntryType: records.EntryDebit, Amount: records.Num(40)},
			{Date: "2024-02-02", EntryType: records.EntryDebit, Amount: records.Num(15)},
		},
	}
	src := &stubSource{results: []fetchResult{{batch: batch}}}
	svc := NewService(src, testLogger(), 0)
	require.NoError(t, svc.Refresh(context.Background()))

	controls := SetYear(Controls{}, 2024)
	res := svc.Summary(controls, DefaultMetricParams())

	assert.Equal(t, 30.0, res.Metrics.OilProduced)
	assert.Equal(t, 86.0, res.Metrics.AverageYield)
	assert.Equal(t, 100.0, res.Metrics.Ledger.Credits)
	assert.Equal(t, 55.0, res.Metrics.Ledger.Debits)
	assert.Equal(t, 45.0, res.Metrics.Ledger.Balance)
	assert.Equal(t, 1, res.Metrics.PaymentRate.Paid)
	assert.Equal(t, 2, res.Metrics.PaymentRate.Total)

	assert.Equal(t, []string{"2024-01", "2024-02"}, res.Charts.OilProduction.Labels)
	assert.Equal(t, []float64{10, 20}, res.Charts.OilProduction.Values)

	// Cashflow shares one axis; February has no credits.
	assert.Equal(t, []string{"2024-01", "2024-02"}, res.Charts.Cashflow.Labels)
	assert.Equal(t, []float64{100, 0}, res.Charts.Cashflow.Credits)
	assert.Equal(t, []float64{40, 15}, res.Charts.Cashflow.Debits)

	assert.Equal(t, "2024", res.Window.Year)
	assert.Equal(t, "all", res.Window.Month)
}

func TestService_MetricUnknownName(t *testing.T) {
	svc := NewService(&stubSource{results: []fetchResult{{}}}, testLogger(), 0)

	_, err := svc.Metric("no-such-metric", Controls{}, DefaultMetricParams())
	assert.ErrorIs(t, err, ErrUnknownMetric)

	_, err = svc.Series("no-such-series", Controls{})
	assert.ErrorIs(t, err, ErrUnknownSeries)
}

func TestService_MetricByName(t *testing.T) {
	src := &stubSource{results: []fetchResult{{batch: testBatch(2)}}}
	svc := NewService(src, testLogger(), 0)
	require.NoError(t, svc.Refresh(context.Background()))

	res, err := svc.Metric("oil-produced", SetYear(Controls{}, 2024), DefaultMetricParams())
	require.NoError(t, err)
	assert.Equal(t, "oil-produced", res.Name)
	assert.Equal(t, 20.0, res.Result)
}

func TestService_IdenticalInputsIdenticalOutputs(t *testing.T) {
	batch := testBatch(4)
	controls := SetYear(Controls{}, 2024)
	params := DefaultMetricParams()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	a := computeAll(batch, controls, params, now)
	b := computeAll(batch, controls, params, now)

	assert.Equal(t, a, b)
}
