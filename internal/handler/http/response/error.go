package response

import (
	"errors"
	"net/http"

	"github.com/Ihebbac/ma3sra-backend-go/internal/domain/records"
	"github.com/Ihebbac/ma3sra-backend-go/internal/pkg/validator"
	"github.com/Ihebbac/ma3sra-backend-go/internal/service/dashboard"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Dashboard session errors
	case errors.Is(err, dashboard.ErrUnknownMetric):
		NotFound(w, "Unknown metric")
	case errors.Is(err, dashboard.ErrUnknownSeries):
		NotFound(w, "Unknown series")
	case errors.Is(err, dashboard.ErrRefreshInFlight):
		Conflict(w, "A refresh is already in progress")

	// Data source errors. A complete fetch failure keeps the previous
	// snapshot visible; a partial one committed what it could.
	case errors.Is(err, records.ErrNoData):
		ServiceUnavailable(w, "Failed to refresh: no collection could be fetched, previous data kept")
	case errors.Is(err, records.ErrPartialFetch):
		ServiceUnavailable(w, "Refreshed with degraded collections: "+err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
