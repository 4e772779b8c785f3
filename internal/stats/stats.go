// Package stats computes the latency aggregates reported per service:
// summary statistics over time-to-first-byte samples and means per
// audio-duration bucket.
package stats

import (
	"math"
	"sort"
)

// Summary holds aggregate statistics over a set of latency observations.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
	P50    float64
	P90    float64
	P95    float64
	P99    float64
}

// Summarize computes a Summary over values. A nil or empty input yields the
// zero Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var sq float64
	for _, v := range sorted {
		d := v - mean
		sq += d * d
	}

	return Summary{
		Count:  len(sorted),
		Mean:   mean,
		Median: percentile(sorted, 50),
		Std:    math.Sqrt(sq / float64(len(sorted))),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P50:    percentile(sorted, 50),
		P90:    percentile(sorted, 90),
		P95:    percentile(sorted, 95),
		P99:    percentile(sorted, 99),
	}
}

// percentile interpolates linearly between the two nearest ranks of an
// already sorted slice.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// BucketLabels are the duration buckets used when breaking latency down by
// sample length, in display order.
var BucketLabels = []string{"0-2s", "2-5s", "5-10s", "10s+"}

func bucketFor(duration float64) string {
	switch {
	case duration < 2:
		return BucketLabels[0]
	case duration < 5:
		return BucketLabels[1]
	case duration < 10:
		return BucketLabels[2]
	}
	return BucketLabels[3]
}

// ByDurationBucket returns the mean of values grouped by the duration bucket
// of the corresponding sample. values and durations must be parallel slices;
// extra entries on either side are ignored.
func ByDurationBucket(values, durations []float64) map[string]float64 {
	n := len(values)
	if len(durations) < n {
		n = len(durations)
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := 0; i < n; i++ {
		b := bucketFor(durations[i])
		sums[b] += values[i]
		counts[b]++
	}

	out := make(map[string]float64, len(sums))
	for b, sum := range sums {
		out[b] = sum / float64(counts[b])
	}
	return out
}
