package sampling

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
)

// Distribution names the shape used to draw a variate from a ProbabilityRange.
type Distribution string

const (
	Normal     Distribution = "normal"
	Uniform    Distribution = "uniform"
	Triangular Distribution = "triangular"
)

// ProbabilityRange describes the bounds and shape of an uncertain quantity.
type ProbabilityRange struct {
	Min          float64      `json:"min" yaml:"min"`
	Max          float64      `json:"max" yaml:"max"`
	MostLikely   *float64     `json:"most_likely,omitempty" yaml:"most_likely,omitempty"`
	Distribution Distribution `json:"distribution" yaml:"distribution" jsonschema:"one of normal, uniform or triangular"`
}

// Point returns a degenerate range pinned to v.
func Point(v float64) ProbabilityRange {
	return ProbabilityRange{Min: v, Max: v, MostLikely: &v, Distribution: Uniform}
}

// Validate rejects malformed ranges and unknown distribution tags.
func (r ProbabilityRange) Validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return apperr.Configuration("range", "bounds must be finite, got [%v, %v]", r.Min, r.Max)
	}
	if r.Min > r.Max {
		return apperr.Configuration("range", "min %.4f is greater than max %.4f", r.Min, r.Max)
	}
	if r.MostLikely != nil {
		ml := *r.MostLikely
		if ml < r.Min || ml > r.Max {
			return apperr.Configuration("range", "most likely %.4f lies outside [%.4f, %.4f]", ml, r.Min, r.Max)
		}
	}
	switch r.Distribution {
	case Normal, Uniform, Triangular:
		return nil
	default:
		return apperr.ConfigurationWrap(apperr.ErrUnknownDistribution, "distribution", "%q is not one of normal, uniform, triangular", r.Distribution)
	}
}

// Mode returns MostLikely or the midpoint when it is absent.
func (r ProbabilityRange) Mode() float64 {
	if r.MostLikely != nil {
		return *r.MostLikely
	}
	return (r.Min + r.Max) / 2
}

// Clamp pulls v into [Min, Max]. NaN maps to the mode.
func (r ProbabilityRange) Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return r.Mode()
	case v < r.Min:
		return r.Min
	case v > r.Max:
		return r.Max
	}
	return v
}

func (r ProbabilityRange) String() string {
	return fmt.Sprintf("%s[%.4g, %.4g, mode %.4g]", r.Distribution, r.Min, r.Max, r.Mode())
}

// Source is the random stream behind a Sampler. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// NewSource returns a seeded stream, or a time-seeded one when seed is 0.
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Sampler draws variates from probability ranges. A Sampler is not safe for
// concurrent use; give each goroutine its own.
type Sampler struct {
	src Source
}

func NewSampler(src Source) *Sampler {
	return &Sampler{src: src}
}

// Sample draws one variate from r. The range is assumed to be validated.
//
// The normal shape uses mean (min+max)/2 and std-dev (max-min)/6 and clamps the
// draw onto [min, max]. Clamping moves tail mass onto the bounds instead of
// resampling; downstream percentiles rely on that shape, so keep it a truncation.
func (s *Sampler) Sample(r ProbabilityRange) float64 {
	if r.Max == r.Min {
		return r.Min
	}

	switch r.Distribution {
	case Normal:
		mean := (r.Min + r.Max) / 2
		stdDev := (r.Max - r.Min) / 6
		return r.Clamp(mean + stdDev*s.StandardNormal())
	case Triangular:
		return s.triangular(r.Min, r.Max, r.Mode())
	default:
		return r.Min + s.src.Float64()*(r.Max-r.Min)
	}
}

// StandardNormal draws from N(0,1) with the Box-Muller transform.
func (s *Sampler) StandardNormal() float64 {
	u1 := s.src.Float64()
	for u1 == 0 {
		u1 = s.src.Float64()
	}
	u2 := s.src.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Gaussian draws from N(mean, stdDev) without clamping.
func (s *Sampler) Gaussian(mean, stdDev float64) float64 {
	return mean + stdDev*s.StandardNormal()
}

func (s *Sampler) triangular(lo, hi, mode float64) float64 {
	u := s.src.Float64()
	span := hi - lo
	f := (mode - lo) / span
	if u < f {
		return lo + math.Sqrt(u*span*(mode-lo))
	}
	return hi - math.Sqrt((1-u)*span*(hi-mode))
}
