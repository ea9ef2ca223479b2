package dashboard

import "errors"

var (
	ErrRefreshInFlight = errors.New("a refresh is already in progress")
	ErrUnknownMetric   = errors.New("unknown metric")
	ErrUnknownSeries   = errors.New("unknown series")
)
