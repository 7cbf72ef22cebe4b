package simulation

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/sampling"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/stats"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

const (
	HistogramBins = 50

	cancelCheckEvery = 1024
)

// Settings are the run knobs. Seed 0 draws a fresh seed from the clock.
type Settings struct {
	Iterations      int     `json:"iterations"`
	ConfidenceLevel float64 `json:"confidence_level"`
	Workers         int     `json:"workers"`
	Seed            int64   `json:"seed,omitempty"`
}

// Inputs are the Monte Carlo inputs: settings plus the variable model.
type Inputs struct {
	Settings
	Variables VariableSet `json:"variables"`
}

// Validate fails fast on configuration defects before any trial runs.
func (in Inputs) Validate() error {
	if in.Iterations <= 0 {
		return apperr.Configuration("iterations", "iterations must be positive, got %d", in.Iterations)
	}
	if in.ConfidenceLevel <= 0 || in.ConfidenceLevel >= 100 || math.IsNaN(in.ConfidenceLevel) {
		return apperr.Configuration("confidence_level", "confidence level must be between 0 and 100, got %v", in.ConfidenceLevel)
	}
	return in.Variables.Validate()
}

// Trial is the outcome of one iteration. Duration is the single-stream time in
// working days to clear one month of work: 22 x sqrt(FTE).
type Trial struct {
	Iteration int     `json:"iteration"`
	FTE       float64 `json:"fte"`
	Duration  float64 `json:"duration"`
	Values    Sample  `json:"values"`
}

type Statistics struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P10    float64 `json:"p10"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	P90    float64 `json:"p90"`
}

type ConfidenceInterval struct {
	Level float64 `json:"level"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Output is the MonteCarloOutput. Trials is kept for the scenario evaluator and
// left out of serialized payloads.
type Output struct {
	Iterations         int                `json:"iterations"`
	Statistics         Statistics         `json:"statistics"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	Histogram          Histogram          `json:"histogram"`
	Anomalies          int                `json:"anomalies"`
	Variables          VariableSet        `json:"variables"`
	Trials             []Trial            `json:"-"`
}

// Model is the deterministic part of the workload a run varies around.
type Model struct {
	Coverage     float64
	Coefficients *catalog.WorkTypeCoefficients
}

// Engine performs the Monte-Carlo simulation.
type Engine struct {
	model Model
}

func NewEngine(model Model) *Engine {
	return &Engine{model: model}
}

// Run executes exactly in.Iterations trials split across in.Workers goroutines.
// Each worker owns its sampler and writes a disjoint slice of the trial
// vector, so no state is shared. Cancelling ctx abandons the run.
func (e *Engine) Run(ctx context.Context, in Inputs) (*Output, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	n := in.Iterations
	workers := in.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	seed := in.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	trials := make([]Trial, n)
	anomalies := make([]int, workers)
	fallback := e.pointFTE(in.Variables)
	// with every variable disabled the run replays the point estimate exactly
	noisy := in.Variables.anyEnabled()
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			s := sampling.NewSampler(sampling.NewSource(seed + int64(w)))
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				t, bad := e.trial(s, in.Variables, fallback, noisy)
				t.Iteration = i
				trials[i] = t
				anomalies[w] += bad
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := summarize(trials, in)
	for _, a := range anomalies {
		out.Anomalies += a
	}
	if out.Anomalies > 0 {
		log.Warn().Int("anomalies", out.Anomalies).Int("iterations", n).Msg("Clamped non-finite samples during simulation")
	}
	log.Debug().
		Int("iterations", n).
		Int("workers", workers).
		Float64("p50", out.Statistics.Median).
		Float64("p90", out.Statistics.P90).
		Dur("elapsed", time.Since(start)).
		Msg("Monte Carlo run complete")

	return out, nil
}

func (e *Engine) trial(s *sampling.Sampler, vs VariableSet, fallback float64, noisy bool) (Trial, int) {
	bad := 0
	draw := func(v Variable) float64 {
		if !v.Enabled {
			return v.BaseValue
		}
		x := s.Sample(v.Range)
		if math.IsNaN(x) || math.IsInf(x, 0) {
			bad++
			x = v.Range.Clamp(clampInf(x, v.Range))
		}
		return x
	}

	sample := Sample{
		WorkloadVolume:   draw(vs.WorkloadVolume),
		ComplexityFactor: draw(vs.ComplexityFactor),
		ServiceFactor:    draw(vs.ServiceFactor),
		AutomationFactor: draw(vs.AutomationFactor),
		UtilizationRate:  draw(vs.UtilizationRate),
	}

	// N(1, variance) x riskMultiplier, the normal part truncated at three sigma
	// like every normal draw. Off when nothing varies.
	noise := 1.0
	if c := e.model.Coefficients; c != nil && noisy {
		sigma := c.VarianceLevel
		bounds := sampling.ProbabilityRange{Min: math.Max(0, 1-3*sigma), Max: 1 + 3*sigma}
		noise = bounds.Clamp(s.Gaussian(1, sigma)) * c.RiskMultiplier
	}

	fte := e.fte(sample, noise)
	if math.IsNaN(fte) || math.IsInf(fte, 0) {
		bad++
		fte = fallback
	}
	return Trial{FTE: fte, Duration: workload.WorkingDaysPerMonth * math.Sqrt(fte), Values: sample}, bad
}

func (e *Engine) fte(s Sample, noise float64) float64 {
	f := workload.Factors{
		Complexity:          s.ComplexityFactor,
		ServiceLevel:        s.ServiceFactor,
		Coverage:            e.model.Coverage,
		AutomationReduction: s.AutomationFactor,
	}
	hours := workload.RequiredHours(s.WorkloadVolume, f, e.model.Coefficients, noise)
	util := workload.EffectiveUtilization(s.UtilizationRate, e.model.Coefficients)
	return workload.FTE(hours, util)
}

// pointFTE is the FTE with every variable at its base value. It replaces a
// trial whose result is not finite.
func (e *Engine) pointFTE(vs VariableSet) float64 {
	fte := e.fte(Sample{
		WorkloadVolume:   vs.WorkloadVolume.BaseValue,
		ComplexityFactor: vs.ComplexityFactor.BaseValue,
		ServiceFactor:    vs.ServiceFactor.BaseValue,
		AutomationFactor: vs.AutomationFactor.BaseValue,
		UtilizationRate:  vs.UtilizationRate.BaseValue,
	}, 1)
	if math.IsNaN(fte) || math.IsInf(fte, 0) {
		return 1
	}
	return fte
}

func clampInf(x float64, r sampling.ProbabilityRange) float64 {
	switch {
	case math.IsInf(x, 1):
		return r.Max
	case math.IsInf(x, -1):
		return r.Min
	}
	return x
}

func summarize(trials []Trial, in Inputs) *Output {
	values := make([]float64, len(trials))
	for i, t := range trials {
		values[i] = t.FTE
	}
	sort.Float64s(values)

	mean := stats.Mean(values)
	hist := BuildHistogram(values, HistogramBins)
	alpha := (100 - in.ConfidenceLevel) / 2

	return &Output{
		Iterations: len(trials),
		Statistics: Statistics{
			Mean:   mean,
			Median: stats.PercentileSorted(values, 50),
			Mode:   hist.Mode(),
			StdDev: stats.PopulationStdDev(values, mean),
			Min:    values[0],
			Max:    values[len(values)-1],
			P10:    stats.PercentileSorted(values, 10),
			P25:    stats.PercentileSorted(values, 25),
			P75:    stats.PercentileSorted(values, 75),
			P90:    stats.PercentileSorted(values, 90),
		},
		ConfidenceInterval: ConfidenceInterval{
			Level: in.ConfidenceLevel,
			Lower: stats.PercentileSorted(values, alpha),
			Upper: stats.PercentileSorted(values, 100-alpha),
		},
		Histogram: hist,
		Variables: in.Variables,
		Trials:    trials,
	}
}
