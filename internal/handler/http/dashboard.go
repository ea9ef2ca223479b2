package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
	"github.com/Ihebbac/ma3sra-backend-go/internal/handler/http/response"
	"github.com/Ihebbac/ma3sra-backend-go/internal/pkg/validator"
	"github.com/Ihebbac/ma3sra-backend-go/internal/service/dashboard"
)

type DashboardHandler interface {
	// Summary returns every KPI and chart series for the requested window
	Summary(w http.ResponseWriter, r *http.Request)
	// Metric returns a single KPI by name
	Metric(w http.ResponseWriter, r *http.Request)
	// Series returns a single chart series by name
	Series(w http.ResponseWriter, r *http.Request)
	// Refresh re-fetches the five collections from the data source
	Refresh(w http.ResponseWriter, r *http.Request)
	// Status reports loading/error/snapshot state of the session
	Status(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	service *dashboard.Service
}

func NewDashboardHandler(service *dashboard.Service) DashboardHandler {
	return &dashboardHandlerImpl{service: service}
}

// Summary handles GET /dashboard/summary
func (h *dashboardHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	controls, err := parseControls(r.URL.Query(), time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	params, err := parseMetricParams(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, h.service.Summary(controls, params))
}

// Metric handles GET /dashboard/metrics/{name}
func (h *dashboardHandlerImpl) Metric(w http.ResponseWriter, r *http.Request) {
	controls, err := parseControls(r.URL.Query(), time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	params, err := parseMetricParams(r.URL.Query())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.service.Metric(chi.URLParam(r, "name"), controls, params)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Series handles GET /dashboard/series/{name}
func (h *dashboardHandlerImpl) Series(w http.ResponseWriter, r *http.Request) {
	controls, err := parseControls(r.URL.Query(), time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.service.Series(chi.URLParam(r, "name"), controls)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Refresh handles POST /dashboard/refresh
func (h *dashboardHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	err := h.service.Refresh(r.Context())
	// A partial fetch still committed a snapshot; report it as a degraded
	// success rather than a failure.
	if err != nil && !errors.Is(err, records.ErrPartialFetch) {
		response.HandleError(w, err)
		return
	}
	msg := "snapshot refreshed"
	if err != nil {
		msg = "snapshot refreshed with degraded collections"
	}
	response.SuccessWithMessage(w, msg, h.service.Status())
}

// Status handles GET /dashboard/status
func (h *dashboardHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Status())
}

var (
	quickRanges   = []string{"today", "thisMonth", "thisYear", "all"}
	granularities = []string{"day", "month", "year"}
	ledgerTypes   = []string{"credit", "debit", "all"}
	statusNames   = []string{"paid", "unpaid", "other", "all"}
	stockTypes    = []string{"olive", "oil", "all"}
)

// parseControls replays the window edits encoded in the query onto the
// default controls: the quick preset first, then each explicit field, so
// the coupling rules of the controls reducer apply in the same order the
// dashboard widgets would fire them. Malformed from/to dates pass through
// untouched (the resolver treats them as unbounded); everything else is
// validated here at the boundary.
func parseControls(q url.Values, now time.Time) (dashboard.Controls, error) {
	var verrs validator.ValidationErrors
	c := dashboard.DefaultControls(now)

	if quick := q.Get("quick"); quick != "" {
		if !validator.IsInSlice(quick, quickRanges) {
			verrs = append(verrs, validator.ValidationError{Field: "quick", Message: "must be one of today, thisMonth, thisYear, all"})
		} else {
			c = dashboard.ApplyQuick(c, dashboard.QuickRange(quick), now)
		}
	}
	if y := q.Get("year"); y != "" {
		switch {
		case y == "all":
			c = dashboard.SetYear(c, 0)
		case validator.IsNumeric(y):
			n, _ := strconv.Atoi(y)
			c = dashboard.SetYear(c, n)
		default:
			verrs = append(verrs, validator.ValidationError{Field: "year", Message: "must be a year or 'all'"})
		}
	}
	if m := q.Get("month"); m != "" {
		switch {
		case m == "all":
			c = dashboard.SetMonth(c, 0)
		case validator.IsNumeric(m):
			n, _ := strconv.Atoi(m)
			if n < 1 || n > 12 {
				verrs = append(verrs, validator.ValidationError{Field: "month", Message: "must be 1-12 or 'all'"})
			} else {
				c = dashboard.SetMonth(c, time.Month(n))
			}
		default:
			verrs = append(verrs, validator.ValidationError{Field: "month", Message: "must be 1-12 or 'all'"})
		}
	}
	if from, ok := q["from"]; ok && len(from) > 0 {
		c = dashboard.SetFrom(c, from[0])
	}
	if to, ok := q["to"]; ok && len(to) > 0 {
		c = dashboard.SetTo(c, to[0])
	}
	if g := q.Get("granularity"); g != "" {
		if !validator.IsInSlice(g, granularities) {
			verrs = append(verrs, validator.ValidationError{Field: "granularity", Message: "must be one of day, month, year"})
		} else {
			c = dashboard.SetGranularity(c, dashboard.Granularity(g))
		}
	}

	if len(verrs) > 0 {
		return dashboard.Controls{}, verrs
	}
	return c, nil
}

// parseMetricParams reads the per-card filter parameters. Every card has
// its own keys so tweaking one never affects another.
func parseMetricParams(q url.Values) (dashboard.MetricParams, error) {
	var verrs validator.ValidationErrors
	p := dashboard.DefaultMetricParams()

	parseFloat := func(key string, dst *float64) {
		v := q.Get(key)
		if v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			verrs = append(verrs, validator.ValidationError{Field: key, Message: "must be a number"})
			return
		}
		*dst = f
	}
	parseBool := func(key string, dst *bool) {
		v := q.Get(key)
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			verrs = append(verrs, validator.ValidationError{Field: key, Message: "must be a boolean"})
			return
		}
		*dst = b
	}

	parseFloat("min_yield", &p.OilProduced.MinYield)
	parseFloat("min_quality", &p.NetOlive.MinQuality)
	parseFloat("yield_min", &p.AverageYield.Min)
	parseFloat("yield_max", &p.AverageYield.Max)
	parseFloat("discrepancy_min", &p.Discrepancy.Min)
	parseFloat("discrepancy_epsilon", &p.Discrepancy.Epsilon)
	parseBool("include_unclassified", &p.PaymentRate.IncludeUnclassified)
	parseBool("include_overtime", &p.Payroll.IncludeOvertime)

	if v := q.Get("ledger_type"); v != "" {
		if !validator.IsInSlice(v, ledgerTypes) {
			verrs = append(verrs, validator.ValidationError{Field: "ledger_type", Message: "must be credit, debit or all"})
		} else if v != "all" {
			p.LedgerBalance.Type = v
		}
	}
	if v := q.Get("ticket_status"); v != "" {
		if !validator.IsInSlice(v, statusNames) {
			verrs = append(verrs, validator.ValidationError{Field: "ticket_status", Message: "must be paid, unpaid, other or all"})
		} else if v != "all" {
			p.TicketRevenue.Status = dashboard.Status(v)
		}
	}
	if v := q.Get("stock_type"); v != "" {
		if !validator.IsInSlice(v, stockTypes) {
			verrs = append(verrs, validator.ValidationError{Field: "stock_type", Message: "must be olive, oil or all"})
		} else if v != "all" {
			p.StockFlow.Type = v
		}
	}

	if len(verrs) > 0 {
		return dashboard.MetricParams{}, verrs
	}
	return p, nil
}
