package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
	"github.com/Ihebbac/ma3sra-backend-go/internal/pkg/database"
)

// Source reads the five collections straight from the mill's database, for
// deployments where the dashboard runs next to it instead of going through
// the console API. Each collection degrades independently: a failed query
// yields that collection empty and is reported in the returned error.
type Source struct {
	db *database.DB
}

func NewSource(db *database.DB) *Source {
	return &Source{db: db}
}

func (s *Source) Fetch(ctx context.Context) (records.Batch, error) {
	var batch records.Batch
	errs := make([]error, 0, 5)

	var err error
	if batch.Clients, err = s.fetchClients(ctx); err != nil {
		errs = append(errs, fmt.Errorf("clients: %w", err))
	}
	if batch.Tickets, err = s.fetchTickets(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tickets: %w", err))
	}
	if batch.Transfers, err = s.fetchTransfers(ctx); err != nil {
		errs = append(errs, fmt.Errorf("transfers: %w", err))
	}
	if batch.Ledger, err = s.fetchLedger(ctx); err != nil {
		errs = append(errs, fmt.Errorf("ledger: %w", err))
	}
	if batch.Employees, err = s.fetchEmployees(ctx); err != nil {
		errs = append(errs, fmt.Errorf("employees: %w", err))
	}

	switch {
	case len(errs) == 5:
		return records.Batch{}, fmt.Errorf("%w: %w", records.ErrNoData, errors.Join(errs...))
	case len(errs) > 0:
		return batch, fmt.Errorf("%w: %w", records.ErrPartialFetch, errors.Join(errs...))
	default:
		return batch, nil
	}
}

func (s *Source) fetchClients(ctx context.Context) ([]records.Client, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, nom_prenom, created_at::text,
		       qte_nette, qte_huile, nisba, kattou3, nb_caisses, ecart_huile,
		       COALESCE(status, '')
		FROM clients
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.Client
	for rows.Next() {
		var c records.Client
		var createdAt *string
		var netOlive, oilQty, yield, quality, boxCount, oilGap *float64
		if err := rows.Scan(&c.ID, &c.Name, &createdAt,
			&netOlive, &oilQty, &yield, &quality, &boxCount, &oilGap,
			&c.Status); err != nil {
			return nil, err
		}
		c.CreatedAt = textOr(createdAt)
		c.NetOlive = qty(netOlive)
		c.OilQty = qty(oilQty)
		c.Yield = qty(yield)
		c.Quality = qty(quality)
		c.BoxCount = qty(boxCount)
		c.OilGap = qty(oilGap)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Source) fetchTickets(ctx context.Context) ([]records.WeighTicket, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, created_at::text, date_sortie::text,
		       poids_net, montant_total, COALESCE(status, '')
		FROM fitouras
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.WeighTicket
	for rows.Next() {
		var t records.WeighTicket
		var createdAt, exitAt *string
		var netWeight, totalAmount *float64
		if err := rows.Scan(&t.ID, &createdAt, &exitAt, &netWeight, &totalAmount, &t.Status); err != nil {
			return nil, err
		}
		t.CreatedAt = textOr(createdAt)
		t.ExitAt = textOr(exitAt)
		t.NetWeight = qty(netWeight)
		t.TotalAmount = qty(totalAmount)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Source) fetchTransfers(ctx context.Context) ([]records.StockTransfer, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, date_transfert::text, quantite, stock_type
		FROM transactions
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.StockTransfer
	for rows.Next() {
		var t records.StockTransfer
		var date *string
		var quantity *float64
		if err := rows.Scan(&t.ID, &date, &quantity, &t.StockType); err != nil {
			return nil, err
		}
		t.Date = textOr(date)
		t.Quantity = qty(quantity)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Source) fetchLedger(ctx context.Context) ([]records.LedgerEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, date::text, montant, type, COALESCE(motif, '')
		FROM caisse
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []records.LedgerEntry
	for rows.Next() {
		var e records.LedgerEntry
		var date *string
		var amount *float64
		if err := rows.Scan(&e.ID, &date, &amount, &e.EntryType, &e.Motif); err != nil {
			return nil, err
		}
		e.Date = textOr(date)
		e.Amount = qty(amount)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Source) fetchEmployees(ctx context.Context) ([]records.Employee, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, nom_prenom, prix_jour, prix_heure
		FROM employes
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]int)
	var out []records.Employee
	for rows.Next() {
		var e records.Employee
		var dailyRate, hourlyRate *float64
		if err := rows.Scan(&e.ID, &e.Name, &dailyRate, &hourlyRate); err != nil {
			return nil, err
		}
		e.DailyRate = qty(dailyRate)
		e.HourlyRate = qty(hourlyRate)
		byID[e.ID] = len(out)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := s.db.Query(ctx, `
		SELECT employe_id, day::text, heures_sup
		FROM employe_jours
	`)
	if err != nil {
		return nil, err
	}
	defer dayRows.Close()
	for dayRows.Next() {
		var employeeID string
		var day *string
		var overtime *float64
		if err := dayRows.Scan(&employeeID, &day, &overtime); err != nil {
			return nil, err
		}
		if i, ok := byID[employeeID]; ok {
			out[i].Attendance = append(out[i].Attendance, records.AttendanceDay{
				Date:          textOr(day),
				OvertimeHours: qty(overtime),
			})
		}
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	paidRows, err := s.db.Query(ctx, `
		SELECT employe_id, day::text
		FROM employe_jours_payes
	`)
	if err != nil {
		return nil, err
	}
	defer paidRows.Close()
	for paidRows.Next() {
		var employeeID string
		var day *string
		if err := paidRows.Scan(&employeeID, &day); err != nil {
			return nil, err
		}
		if i, ok := byID[employeeID]; ok {
			out[i].PaidDates = append(out[i].PaidDates, textOr(day))
		}
	}
	return out, paidRows.Err()
}

func qty(v *float64) records.Quantity {
	if v == nil {
		return records.Quantity{}
	}
	return records.Num(*v)
}

func textOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
