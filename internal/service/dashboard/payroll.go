package dashboard

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
)

// EmployeeAccrual is one employee's wages due for the window.
type EmployeeAccrual struct {
	EmployeeID    string  `json:"employee_id"`
	Name          string  `json:"name"`
	DaysWorked    int     `json:"days_worked"`
	DaysPaid      int     `json:"days_paid"`
	OvertimeHours float64 `json:"overtime_hours"`
	AmountDue     float64 `json:"amount_due"`
}

// PayrollResult is the payroll KPI: wages accrued in the window against
// what the cash register shows as paid out to employees.
type PayrollResult struct {
	TotalDue  float64           `json:"total_due"`
	TotalPaid float64           `json:"total_paid"`
	Remaining float64           `json:"remaining"`
	Employees []EmployeeAccrual `json:"employees"`
}

// employeePaymentMotif spots debit entries paying a worker. The cash
// register has no employee foreign key; reconciling wages to the ledger by
// motif text is an approximation inherited from how the mill actually
// operates, and TotalPaid must be read accordingly.
var employeePaymentMotif = regexp.MustCompile(`(?i)salaire|paie|ouvrier|employe`)

// PayrollAccrual computes wages due from attendance and wages paid from the
// windowed ledger.
//
// Only the day-membership test is windowed: an employee's rates apply
// whole, and every employee appears in the breakdown even with zero days in
// the window. amountDue = daysWorked x dailyRate + overtimeHours x
// hourlyRate, overtime only when the toggle is on.
func PayrollAccrual(employees []records.Employee, windowedLedger []records.LedgerEntry, w Window, p PayrollParams) PayrollResult {
	res := PayrollResult{Employees: make([]EmployeeAccrual, 0, len(employees))}

	totalDue := decimal.Zero
	for _, emp := range employees {
		var days int
		var overtime float64
		for _, d := range emp.Attendance {
			t, ok := parseDate(d.Date)
			if !ok || !w.Contains(t) {
				continue
			}
			days++
			if p.IncludeOvertime {
				overtime += d.OvertimeHours.Or0()
			}
		}

		var paid int
		for _, d := range emp.PaidDates {
			t, ok := parseDate(d)
			if !ok || !w.Contains(t) {
				continue
			}
			paid++
		}

		due := decimal.NewFromFloat(emp.DailyRate.Or0()).Mul(decimal.NewFromInt(int64(days))).
			Add(decimal.NewFromFloat(emp.HourlyRate.Or0()).Mul(decimal.NewFromFloat(sanitize(overtime))))
		totalDue = totalDue.Add(due)

		res.Employees = append(res.Employees, EmployeeAccrual{
			EmployeeID:    emp.ID,
			Name:          emp.Name,
			DaysWorked:    days,
			DaysPaid:      paid,
			OvertimeHours: overtime,
			AmountDue:     due.InexactFloat64(),
		})
	}

	totalPaid := decimal.Zero
	for _, e := range windowedLedger {
		if e.EntryType != records.EntryDebit {
			continue
		}
		if !employeePaymentMotif.MatchString(normalizeStatus(e.Motif)) {
			continue
		}
		totalPaid = totalPaid.Add(decimal.NewFromFloat(e.Amount.Or0()))
	}

	res.TotalDue = totalDue.InexactFloat64()
	res.TotalPaid = totalPaid.InexactFloat64()
	res.Remaining = totalDue.Sub(totalPaid).InexactFloat64()
	return res
}
