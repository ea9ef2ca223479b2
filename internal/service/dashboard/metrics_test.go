package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
)

// Three intakes for 2024, one with an unusable yield ("n/a" decodes as a
// missing Quantity).
func yieldTestClients() []records.Client {
	return []records.Client{
		{CreatedAt: "2024-01-10", Yield: records.Num(80), OilQty: records.Num(10)},
		{CreatedAt: "2024-02-10", Yield: records.Num(92), OilQty: records.Num(20)},
		{CreatedAt: "2024-03-10", OilQty: records.Num(5)}, // yield missing
	}
}

func TestOilProduced_MinYieldThreshold(t *testing.T) {
	clients := windowRecords(yieldTestClients(), Window{Year: 2024}, clientDate)

	got := OilProduced(clients, OilProducedParams{MinYield: 85})

	// Only the 92% client passes; the missing yield counts as 0.
	assert.Equal(t, 20.0, got)
}

func TestOilProduced_NoThresholdSumsAll(t *testing.T) {
	got := OilProduced(yieldTestClients(), OilProducedParams{})
	assert.Equal(t, 35.0, got)
}

func TestAverageYield_MissingYieldsAreNotPopulation(t *testing.T) {
	clients := windowRecords(yieldTestClients(), Window{Year: 2024}, clientDate)

	got := AverageYield(clients, AverageYieldParams{Min: 0, Max: 100})

	// (80+92)/2, not (80+92+0)/3.
	assert.Equal(t, 86.0, got)
}

func TestAverageYield_RangeFilter(t *testing.T) {
	got := AverageYield(yieldTestClients(), AverageYieldParams{Min: 85, Max: 100})
	assert.Equal(t, 92.0, got)
}

func TestAverageYield_EmptyPopulationIsZero(t *testing.T) {
	assert.Equal(t, 0.0, AverageYield(nil, AverageYieldParams{Max: 100}))
	assert.Equal(t, 0.0, AverageYield(yieldTestClients(), AverageYieldParams{Min: 99, Max: 100}))
}

func TestNetOliveProduced_QualityThreshold(t *testing.T) {
	clients := []records.Client{
		{NetOlive: records.Num(1000), Quality: records.Num(70)},
		{NetOlive: records.Num(400), Quality: records.Num(40)},
		{NetOlive: records.Num(250)}, // quality missing, counts as 0
	}

	assert.Equal(t, 1650.0, NetOliveProduced(clients, NetOliveParams{}))
	assert.Equal(t, 1000.0, NetOliveProduced(clients, NetOliveParams{MinQuality: 50}))
}

func TestPaymentRate(t *testing.T) {
	clients := []records.Client{
		{Status: "payé"},
		{Status: "non payé"},
		{Status: "en cours"},
		{Status: "réglé"},
	}

	strict := PaymentRate(clients, PaymentRateParams{})
	assert.Equal(t, 2, strict.Paid)
	assert.Equal(t, 3, strict.Total)
	assert.InDelta(t, 66.666, strict.Percent, 0.01)

	inclusive := PaymentRate(clients, PaymentRateParams{IncludeUnclassified: true})
	assert.Equal(t, 2, inclusive.Paid)
	assert.Equal(t, 4, inclusive.Total)
	assert.Equal(t, 50.0, inclusive.Percent)
}

func TestPaymentRate_EmptyIsZeroNotNaN(t *testing.T) {
	res := PaymentRate(nil, PaymentRateParams{})
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0.0, res.Percent)
}

func TestLedgerBalance(t *testing.T) {
	entries := []records.LedgerEntry{
		{EntryType: records.EntryCredit, Amount: records.Num(100)},
		{EntryType: records.EntryDebit, Amount: records.Num(40)},
		{EntryType: records.EntryDebit, Amount: records.Num(15)},
	}

	res := LedgerBalance(entries, LedgerBalanceParams{})

	assert.Equal(t, 100.0, res.Credits)
	assert.Equal(t, 55.0, res.Debits)
	assert.Equal(t, 45.0, res.Balance)
}

func TestLedgerBalance_TypeRestrictionForcesOtherSideZero(t *testing.T) {
	entries := []records.LedgerEntry{
		{EntryType: records.EntryCredit, Amount: records.Num(100)},
		{EntryType: records.EntryDebit, Amount: records.Num(40)},
	}

	credits := LedgerBalance(entries, LedgerBalanceParams{Type: records.EntryCredit})
	assert.Equal(t, 100.0, credits.Credits)
	assert.Equal(t, 0.0, credits.Debits)
	assert.Equal(t, 100.0, credits.Balance)

	debits := LedgerBalance(entries, LedgerBalanceParams{Type: records.EntryDebit})
	assert.Equal(t, 0.0, debits.Credits)
	assert.Equal(t, 40.0, debits.Debits)
	assert.Equal(t, -40.0, debits.Balance)
}

// Amounts like 0.1 and 0.2 do not add cleanly in binary floating point; the
// balance must still come out exact.
func TestLedgerBalance_ExactDecimalArithmetic(t *testing.T) {
	entries := []records.LedgerEntry{
		{EntryType: records.EntryCredit, Amount: records.Num(0.1)},
		{EntryType: records.EntryCredit, Amount: records.Num(0.2)},
		{EntryType: records.EntryDebit, Amount: records.Num(0.3)},
	}

	res := LedgerBalance(entries, LedgerBalanceParams{})

	assert.Equal(t, 0.0, res.Balance)
}

func TestClientCreditsFromSales(t *testing.T) {
	entries := []records.LedgerEntry{
		{EntryType: records.EntryCredit, Amount: records.Num(300), Motif: "Règlement client Ahmed"},
		{EntryType: records.EntryCredit, Amount: records.Num(120), Motif: "vente huile"},
		{EntryType: records.EntryCredit, Amount: records.Num(999), Motif: "subvention"},
		{EntryType: records.EntryDebit, Amount: records.Num(50), Motif: "client remboursé"},
	}

	assert.Equal(t, 420.0, ClientCreditsFromSales(entries))
}

func TestDiscrepancySum(t *testing.T) {
	clients := []records.Client{
		{OilGap: records.Num(2.5)},
		{OilGap: records.Num(-1.5)},
		{OilGap: records.Num(1e-12)}, // float noise, zeroed by epsilon
		{},                           // missing gap
	}

	assert.Equal(t, 4.0, DiscrepancySum(clients, DiscrepancyParams{Epsilon: DefaultDiscrepancyEpsilon}))
}

func TestDiscrepancySum_MinThreshold(t *testing.T) {
	clients := []records.Client{
		{OilGap: records.Num(2.5)},
		{OilGap: records.Num(-1.5)},
		{OilGap: records.Num(0.4)},
	}

	got := DiscrepancySum(clients, DiscrepancyParams{Min: 1, Epsilon: DefaultDiscrepancyEpsilon})

	assert.Equal(t, 4.0, got)
}

func TestDiscrepancySum_CustomEpsilon(t *testing.T) {
	clients := []records.Client{{OilGap: records.Num(0.005)}}

	assert.Equal(t, 0.0, DiscrepancySum(clients, DiscrepancyParams{Epsilon: 0.01}))
	assert.Equal(t, 0.005, DiscrepancySum(clients, DiscrepancyParams{Epsilon: 0.001}))
}

func TestTicketRevenue(t *testing.T) {
	tickets := []records.WeighTicket{
		{TotalAmount: records.Num(500), Status: "payé"},
		{TotalAmount: records.Num(300), Status: "non payé"},
		{TotalAmount: records.Num(200), Status: "brouillon"},
	}

	assert.Equal(t, 1000.0, TicketRevenue(tickets, TicketRevenueParams{}))
	assert.Equal(t, 500.0, TicketRevenue(tickets, TicketRevenueParams{Status: StatusPaid}))
	assert.Equal(t, 300.0, TicketRevenue(tickets, TicketRevenueParams{Status: StatusUnpaid}))
	assert.Equal(t, 200.0, TicketRevenue(tickets, TicketRevenueParams{Status: StatusOther}))
}

func TestStockFlow(t *testing.T) {
	transfers := []records.StockTransfer{
		{StockType: records.StockOlive, Quantity: records.Num(1200)},
		{StockType: records.StockOlive, Quantity: records.Num(800)},
		{StockType: records.StockOil, Quantity: records.Num(150)},
	}

	both := StockFlow(transfers, StockFlowParams{})
	assert.Equal(t, 2000.0, both.Olive)
	assert.Equal(t, 150.0, both.Oil)

	oilOnly := StockFlow(transfers, StockFlowParams{Type: records.StockOil})
	assert.Equal(t, 0.0, oilOnly.Olive)
	assert.Equal(t, 150.0, oilOnly.Oil)
}

func TestBoxCount(t *testing.T) {
	clients := []records.Client{
		{BoxCount: records.Num(12)},
		{BoxCount: records.Num(8)},
		{}, // missing counts as 0
	}

	assert.Equal(t, 20.0, BoxCount(clients))
}

func TestDefaultMetricParams(t *testing.T) {
	p := DefaultMetricParams()

	assert.Equal(t, 100.0, p.AverageYield.Max)
	assert.Equal(t, DefaultDiscrepancyEpsilon, p.Discrepancy.Epsilon)
	assert.True(t, p.Payroll.IncludeOvertime)
}
