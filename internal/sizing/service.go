// Package sizing runs the whole headcount pipeline for one sub-function:
// inputs, baseline, Monte Carlo, scenario evaluation and MVO selection, all
// against a single inputs snapshot.
package sizing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/baseline"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/mvo"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/scenario"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/simulation"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

// Options are the service-wide Monte Carlo defaults. A Request may override
// iterations, confidence and seed per call. AcceptableRisk, when positive,
// replaces the built-in default for answers that leave it unset.
type Options struct {
	Iterations      int
	ConfidenceLevel float64
	Workers         int
	Seed            int64
	AcceptableRisk  float64
}

func DefaultOptions() Options {
	return Options{Iterations: 10000, ConfidenceLevel: 90, Workers: 1}
}

// Comparison lines the baseline up against the MVO and the simulated spread.
type Comparison struct {
	BaselineHeadcount int             `json:"baseline_headcount"`
	MVOHeadcount      int             `json:"mvo_headcount"`
	HeadcountDelta    int             `json:"headcount_delta"`
	BaselineRisk      float64         `json:"baseline_risk"`
	MVORisk           float64         `json:"mvo_risk"`
	CostDifference    decimal.Decimal `json:"cost_difference"`
	TimeDifference    float64         `json:"time_difference"`
	P50FTE            float64         `json:"p50_fte"`
	P90FTE            float64         `json:"p90_fte"`
	ConfidenceLevel   float64         `json:"confidence_level"`
	CostPerFTE        decimal.Decimal `json:"cost_per_fte"`
	Currency          string          `json:"currency,omitempty"`
}

// SynchronizedResults is every output for one sub-function, computed from the
// embedded Inputs snapshot. It serializes to JSON as-is.
type SynchronizedResults struct {
	RunID        uuid.UUID                    `json:"run_id"`
	GeneratedAt  time.Time                    `json:"generated_at"`
	Inputs       workload.Inputs              `json:"inputs"`
	Coefficients catalog.WorkTypeCoefficients `json:"coefficients"`
	Settings     simulation.Settings          `json:"settings"`
	Baseline     baseline.Result              `json:"baseline"`
	MonteCarlo   *simulation.Output           `json:"monte_carlo"`
	MVO          *mvo.Result                  `json:"mvo"`
	Comparison   Comparison                   `json:"comparison"`
}

// Outcome is what RecomputeAsync delivers.
type Outcome struct {
	Results *SynchronizedResults
	Err     error
}

type Service struct {
	catalog *catalog.Catalog
	costs   catalog.CostLookup
	opts    Options
}

// NewService wires the pipeline. A nil costs falls back to the rate table
// bundled with the catalog.
func NewService(c *catalog.Catalog, costs catalog.CostLookup, opts Options) *Service {
	if costs == nil {
		if rt := c.Costs(); rt != nil {
			costs = rt
		}
	}
	return &Service{catalog: c, costs: costs, opts: opts}
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Baseline resolves answers and returns only the deterministic estimate.
func (s *Service) Baseline(answers workload.Answers) (workload.Inputs, baseline.Result, error) {
	in, coeff, err := s.withDefaults(answers).Resolve(s.catalog)
	if err != nil {
		return workload.Inputs{}, baseline.Result{}, err
	}
	res, err := baseline.Compute(in, coeff)
	if err != nil {
		return workload.Inputs{}, baseline.Result{}, err
	}
	return in, res, nil
}

// Recompute runs the full pipeline from scratch. Nothing is cached between
// calls; every sub-result is derived from one resolved Inputs value.
func (s *Service) Recompute(ctx context.Context, req Request) (*SynchronizedResults, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in, coeff, err := s.withDefaults(req.Answers).Resolve(s.catalog)
	if err != nil {
		return nil, err
	}
	settings := s.settings(req)

	base, err := baseline.Compute(in, coeff)
	if err != nil {
		return nil, err
	}

	vars := simulation.DefaultVariables(in)
	if err := vars.Apply(req.Variables); err != nil {
		return nil, err
	}
	engine := simulation.NewEngine(simulation.Model{
		Coverage:     workload.ComputeFactors(in).Coverage,
		Coefficients: &coeff,
	})
	mc, err := engine.Run(ctx, simulation.Inputs{Settings: settings, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("monte carlo: %w", err)
	}

	if s.costs == nil {
		return nil, apperr.ConfigurationWrap(apperr.ErrMissingCostRate, "costs", "no cost lookup configured")
	}
	rate, err := s.costs.CostPerFTE(in.RoleKey, in.EmploymentType)
	if err != nil {
		return nil, err
	}

	candidates := scenario.Candidates(base.Headcount, mc.Statistics, coeff, in.TargetDeadlineDays)
	rows, err := scenario.Evaluate(mc.Trials, candidates, scenario.Config{
		MinHeadcountRule:   coeff.MinHeadcountRule,
		TargetDeadlineDays: in.TargetDeadlineDays,
		AcceptableRisk:     in.AcceptableRisk,
		CostPerFTE:         rate,
		Budget:             decimal.NewFromFloat(in.Budget),
	})
	if err != nil {
		return nil, fmt.Errorf("scenarios: %w", err)
	}

	currency := s.currency()
	sel, err := mvo.Select(rows, base.Headcount, mvo.Options{
		WorkTypeID:      coeff.ID,
		ConfidenceLevel: settings.ConfidenceLevel,
		AcceptableRisk:  in.AcceptableRisk,
		Priority:        in.Priority,
		Mix:             in.Mix,
		Currency:        currency,
	})
	if err != nil {
		return nil, fmt.Errorf("mvo: %w", err)
	}

	res := &SynchronizedResults{
		RunID:        uuid.New(),
		GeneratedAt:  time.Now().UTC(),
		Inputs:       in,
		Coefficients: coeff,
		Settings:     settings,
		Baseline:     base,
		MonteCarlo:   mc,
		MVO:          sel,
		Comparison: Comparison{
			BaselineHeadcount: sel.Comparison.BaselineHeadcount,
			MVOHeadcount:      sel.Comparison.MVOHeadcount,
			HeadcountDelta:    sel.Comparison.HeadcountDelta,
			BaselineRisk:      sel.Comparison.BaselineRisk,
			MVORisk:           sel.Comparison.MVORisk,
			CostDifference:    sel.Comparison.CostDifference,
			TimeDifference:    sel.Comparison.TimeDifference,
			P50FTE:            mc.Statistics.Median,
			P90FTE:            mc.Statistics.P90,
			ConfidenceLevel:   settings.ConfidenceLevel,
			CostPerFTE:        rate,
			Currency:          currency,
		},
	}

	log.Info().
		Str("run_id", res.RunID.String()).
		Str("work_type", coeff.ID).
		Int("iterations", settings.Iterations).
		Int("baseline", base.Headcount).
		Int("mvo", sel.RecommendedHeadcount).
		Bool("no_viable_solution", sel.NoViableSolution).
		Msg("Sizing complete")

	return res, nil
}

// RecomputeAsync runs Recompute on its own goroutine and delivers exactly one
// Outcome. Cancel ctx to abandon the run; the channel is buffered so an
// abandoned result never blocks the worker.
func (s *Service) RecomputeAsync(ctx context.Context, req Request) <-chan Outcome {
	ch := make(chan Outcome, 1)
	go func() {
		defer close(ch)
		res, err := s.Recompute(ctx, req)
		ch <- Outcome{Results: res, Err: err}
	}()
	return ch
}

func (s *Service) withDefaults(a workload.Answers) workload.Answers {
	if a.AcceptableRisk == nil && s.opts.AcceptableRisk > 0 {
		risk := s.opts.AcceptableRisk
		a.AcceptableRisk = &risk
	}
	return a
}

func (s *Service) settings(req Request) simulation.Settings {
	st := simulation.Settings{
		Iterations:      s.opts.Iterations,
		ConfidenceLevel: s.opts.ConfidenceLevel,
		Workers:         s.opts.Workers,
		Seed:            s.opts.Seed,
	}
	if req.Iterations != 0 {
		st.Iterations = req.Iterations
	}
	if req.ConfidenceLevel != 0 {
		st.ConfidenceLevel = req.ConfidenceLevel
	}
	if req.Seed != 0 {
		st.Seed = req.Seed
	}
	return st
}

func (s *Service) currency() string {
	if rt, ok := s.costs.(*catalog.RateTable); ok && rt != nil {
		return rt.Currency
	}
	return ""
}
