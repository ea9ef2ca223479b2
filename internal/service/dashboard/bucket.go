package dashboard

import (
	"maps"
	"math"
	"slices"
	"time"
)

// Series is one chart series: bucket labels in ascending chronological
// order and the reduced value per bucket. Buckets with no members are not
// materialized; consumers needing a shared axis across several series merge
// them with mergeAxes.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// bucketLabel formats the calendar bucket a timestamp belongs to. The
// zero-padded forms sort lexicographically in chronological order, which is
// the only ordering guarantee consumers rely on.
func bucketLabel(t time.Time, g Granularity) string {
	switch g {
	case GranularityYear:
		return t.Format("2006")
	case GranularityDay:
		return t.Format("2006-01-02")
	default:
		return t.Format("2006-01")
	}
}

// sanitize coerces NaN and ±Inf to 0 at the point of reduction so numeric
// noise never propagates into a chart or KPI.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// bucketSeries groups an already-windowed collection into calendar buckets
// at the given granularity and sums valueOf over each bucket. Records whose
// date does not parse are dropped, same as everywhere else.
func bucketSeries[T any](in []T, dateOf func(T) (time.Time, bool), g Granularity, valueOf func(T) float64) Series {
	totals := make(map[string]float64)
	for _, r := range in {
		t, ok := dateOf(r)
		if !ok {
			continue
		}
		totals[bucketLabel(t, g)] += sanitize(valueOf(r))
	}
	labels := slices.Sorted(maps.Keys(totals))
	values := make([]float64, len(labels))
	for i, l := range labels {
		values[i] = totals[l]
	}
	return Series{Labels: labels, Values: values}
}

// mergeAxes aligns several sparse series onto one shared label axis: the
// union of their labels, sorted. A series with no bucket for a shared label
// contributes 0 there.
func mergeAxes(series ...Series) (labels []string, aligned [][]float64) {
	set := make(map[string]struct{})
	for _, s := range series {
		for _, l := range s.Labels {
			set[l] = struct{}{}
		}
	}
	labels = slices.Sorted(maps.Keys(set))

	aligned = make([][]float64, len(series))
	for i, s := range series {
		byLabel := make(map[string]float64, len(s.Labels))
		for j, l := range s.Labels {
			byLabel[l] = s.Values[j]
		}
		row := make([]float64, len(labels))
		for j, l := range labels {
			row[j] = byLabel[l]
		}
		aligned[i] = row
	}
	return labels, aligned
}
