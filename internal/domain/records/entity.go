package records

// The five raw collections of the mill console. They arrive from the data
// source exactly as the console API serves them: dates as strings (possibly
// empty or malformed), numbers possibly missing. Nothing here is validated;
// the aggregation engine decides what a usable record is.

// Client is one intake dossier: a farmer's olives received, pressed and
// settled.
type Client struct {
	ID        string   `json:"_id"`
	Name      string   `json:"nomPrenom"`
	CreatedAt string   `json:"createdAt"`
	NetOlive  Quantity `json:"qteNette"`   // net olive weight received (kg)
	OilQty    Quantity `json:"qteHuile"`   // oil produced (L)
	Yield     Quantity `json:"nisba"`      // yield ratio (%)
	Quality   Quantity `json:"kattou3"`    // quality ratio (%)
	BoxCount  Quantity `json:"nbCaisses"`  // crates handed out
	OilGap    Quantity `json:"ecartHuile"` // measured vs expected oil discrepancy (L)
	Status    string   `json:"status"`     // free-text payment status
}

// WeighTicket is a weigh-station slip ("fitoura") for a truck passing the
// scale. The entry timestamp is authoritative; older tickets only carry the
// exit timestamp.
type WeighTicket struct {
	ID          string   `json:"_id"`
	CreatedAt   string   `json:"createdAt"`
	ExitAt      string   `json:"dateSortie"`
	NetWeight   Quantity `json:"poidsNet"`
	TotalAmount Quantity `json:"montantTotal"`
	Status      string   `json:"status"` // free-text workflow status
}

// Stock transfer types.
const (
	StockOlive = "olive"
	StockOil   = "oil"
)

// StockTransfer is a movement of olives or oil in or out of the mill's
// storage.
type StockTransfer struct {
	ID        string   `json:"_id"`
	Date      string   `json:"dateTransfert"`
	Quantity  Quantity `json:"quantite"`
	StockType string   `json:"stockType"` // StockOlive or StockOil
}

// Ledger entry types.
const (
	EntryCredit = "credit"
	EntryDebit  = "debit"
)

// LedgerEntry is one line of the cash register ("caisse"). Motif is free
// text written by the cashier and is the only hint of what the money was
// for.
type LedgerEntry struct {
	ID        string   `json:"_id"`
	Date      string   `json:"date"`
	Amount    Quantity `json:"montant"`
	EntryType string   `json:"type"` // EntryCredit or EntryDebit
	Motif     string   `json:"motif"`
}

// AttendanceDay is one worked day of an employee, with any overtime hours
// logged for that day.
type AttendanceDay struct {
	Date          string   `json:"date"`
	OvertimeHours Quantity `json:"heuresSup"`
}

// Employee is a mill worker together with their attendance sheet. Worked
// days and the separately tracked paid days are bundled in the same
// document by the console API.
type Employee struct {
	ID         string          `json:"_id"`
	Name       string          `json:"nomPrenom"`
	DailyRate  Quantity        `json:"prixJour"`
	HourlyRate Quantity        `json:"prixHeure"`
	Attendance []AttendanceDay `json:"jours"`
	PaidDates  []string        `json:"joursPayes"`
}

// Batch is one atomically-committed snapshot of all five collections. The
// dashboard never reads collections from two different fetches.
type Batch struct {
	Clients   []Client
	Tickets   []WeighTicket
	Transfers []StockTransfer
	Ledger    []LedgerEntry
	Employees []Employee
}

// Counts reports how many records each collection of the batch holds.
type Counts struct {
	Clients   int `json:"clients"`
	Tickets   int `json:"tickets"`
	Transfers int `json:"transfers"`
	Ledger    int `json:"ledger"`
	Employees int `json:"employees"`
}

func (b Batch) Counts() Counts {
	return Counts{
		Clients:   len(b.Clients),
		Tickets:   len(b.Tickets),
		Transfers: len(b.Transfers),
		Ledger:    len(b.Ledger),
		Employees: len(b.Employees),
	}
}
