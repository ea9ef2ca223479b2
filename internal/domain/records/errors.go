package records

import "errors"

var (
	ErrNoData       = errors.New("no collection could be fetched")
	ErrPartialFetch = errors.New("some collections failed to refresh")
)
