package simulation

// Bin is one equal-width bucket of the FTE distribution. Frequency is the
// percentage of all trials that landed in it.
type Bin struct {
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Midpoint  float64 `json:"midpoint"`
	Count     int     `json:"count"`
	Frequency float64 `json:"frequency"`
}

// Histogram tracks the FTE distribution over equal-width bins.
type Histogram []Bin

// BuildHistogram spreads sorted values over bins equal-width bins spanning
// [min, max]. The max value lands in the last bin. When every value is equal
// all of them land in the first bin.
func BuildHistogram(sorted []float64, bins int) Histogram {
	if len(sorted) == 0 || bins <= 0 {
		return nil
	}

	lo, hi := sorted[0], sorted[len(sorted)-1]
	width := (hi - lo) / float64(bins)

	h := make(Histogram, bins)
	for i := range h {
		h[i].Lower = lo + float64(i)*width
		h[i].Upper = lo + float64(i+1)*width
		h[i].Midpoint = lo + (float64(i)+0.5)*width
	}
	h[bins-1].Upper = hi

	for _, v := range sorted {
		idx := 0
		if width > 0 {
			idx = int((v - lo) / width)
		}
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		h[idx].Count++
	}

	total := float64(len(sorted))
	for i := range h {
		h[i].Frequency = float64(h[i].Count) / total * 100
	}
	return h
}

// Mode returns the midpoint of the most populated bin. Ties go to the lower bin.
func (h Histogram) Mode() float64 {
	if len(h) == 0 {
		return 0
	}
	best := 0
	for i := range h {
		if h[i].Count > h[best].Count {
			best = i
		}
	}
	return h[best].Midpoint
}
