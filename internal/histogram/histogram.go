// Package histogram implements a bounded, mergeable latency histogram.
//
// The bin array is fixed size and pre-allocated once; Add, Merge, and
// Percentile never allocate, so a worker's histogram lives on its stats
// buffer for the life of the process and is cheap to reset between
// reporting intervals.
package histogram

// NumBins is the number of addressable latency buckets: one bin per
// millisecond from 0 through MaxMillis inclusive, plus one overflow bin.
const (
	MaxMillis   = 10_000
	OverflowBin = MaxMillis + 1
	NumBins     = OverflowBin + 1 // 10,002
)

// Histogram is a fixed-size array of per-millisecond sample counts.
// The zero value is ready to use.
type Histogram struct {
	bins  [NumBins]uint64
	total uint64
}

// Add records one sample of the given latency in milliseconds. Negative
// samples clamp to bin 0; samples above MaxMillis land in the overflow bin.
func (h *Histogram) Add(ms int64) {
	idx := ms
	switch {
	case idx < 0:
		idx = 0
	case idx > MaxMillis:
		idx = OverflowBin
	}
	h.bins[idx]++
	h.total++
}

// Reset zeroes every bin and the total count, in bin-index order so the
// cost is linear and predictable (no map/slice reallocation).
func (h *Histogram) Reset() {
	for i := range h.bins {
		h.bins[i] = 0
	}
	h.total = 0
}

// Count returns the total number of samples recorded.
func (h *Histogram) Count() uint64 {
	return h.total
}

// MergeFrom adds every bin (and the total) of other into h. It never
// reallocates; it is safe to call repeatedly to fold many worker
// histograms into one reporter-owned accumulator.
func (h *Histogram) MergeFrom(other *Histogram) {
	if other == nil {
		return
	}
	for i := range h.bins {
		h.bins[i] += other.bins[i]
	}
	h.total += other.total
}

// Percentile returns the bin index containing the p-th percentile sample,
// for p in (0, 1]. target = ceil(p * count), clamped to [1, count]; bins
// are scanned in ascending index order and the first bin whose cumulative
// count reaches target is returned. Returns (0, false) when the histogram
// is empty.
func (h *Histogram) Percentile(p float64) (int, bool) {
	if h.total == 0 {
		return 0, false
	}
	target := ceilMul(p, h.total)
	if target < 1 {
		target = 1
	}
	if target > h.total {
		target = h.total
	}

	var cumulative uint64
	for i, c := range h.bins {
		cumulative += c
		if cumulative >= target {
			return i, true
		}
	}
	// Unreachable when total is accurate, but keep the last bin as a
	// defensive fallback rather than panicking on a corrupted histogram.
	return OverflowBin, true
}

// ceilMul computes ceil(p * count): the product is taken in float64 and
// rounded up by truncating to an integer and adding one when a fractional
// part remains. A non-positive p yields 1.
func ceilMul(p float64, count uint64) uint64 {
	if p <= 0 {
		return 1
	}
	product := p * float64(count)
	target := uint64(product)
	if float64(target) < product {
		target++
	}
	return target
}
