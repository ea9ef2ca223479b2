package records

import "context"

// Source fetches the five collections from wherever the mill keeps them
// (the console HTTP API, or its database directly).
//
// A Source degrades per collection: when one collection cannot be
// retrieved it comes back as an empty slice and the returned error reports
// it (wrapping ErrPartialFetch), while the other collections are still
// returned. Only when nothing at all could be fetched does the error wrap
// ErrNoData, in which case the batch must not replace previously committed
// data.
type Source interface {
	Fetch(ctx context.Context) (Batch, error)
}
