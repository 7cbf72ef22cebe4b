// Package scenario replays one set of Monte Carlo trials against a range of
// candidate headcounts and scores each one for deadline risk and cost.
package scenario

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/simulation"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/stats"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

const (
	MaxCandidates = 200

	candidateMargin = 2
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Bucket maps a failure risk percentage onto low (<=10), medium (<=25) or high.
func Bucket(risk float64) RiskLevel {
	switch {
	case risk <= 10:
		return RiskLow
	case risk <= 25:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// HeadcountTestResult scores one candidate headcount. Durations are working
// days; costs are in the rate table currency.
type HeadcountTestResult struct {
	Headcount               int             `json:"headcount"`
	Iterations              int             `json:"iterations"`
	AvgDuration             float64         `json:"avg_duration"`
	MinDuration             float64         `json:"min_duration"`
	MaxDuration             float64         `json:"max_duration"`
	P50Duration             float64         `json:"p50_duration"`
	P75Duration             float64         `json:"p75_duration"`
	P90Duration             float64         `json:"p90_duration"`
	AvgCost                 decimal.Decimal `json:"avg_cost"`
	MinCost                 decimal.Decimal `json:"min_cost"`
	MaxCost                 decimal.Decimal `json:"max_cost"`
	DeadlineMetProbability  float64         `json:"deadline_met_probability"`
	FailureRisk             float64         `json:"failure_risk"`
	WithinBudgetProbability float64         `json:"within_budget_probability"`
	RiskLevel               RiskLevel       `json:"risk_level"`
	Rejected                bool            `json:"rejected"`
	RejectionReason         string          `json:"rejection_reason,omitempty"`
	MinHeadcountApplied     bool            `json:"min_headcount_applied"`
	MinHeadcountValue       int             `json:"min_headcount_value,omitempty"`
}

// Config carries the constraints every candidate is tested against.
// TargetDeadlineDays 0 means no deadline; Budget 0 means no budget.
type Config struct {
	MinHeadcountRule   int
	TargetDeadlineDays float64
	AcceptableRisk     float64
	CostPerFTE         decimal.Decimal
	Budget             decimal.Decimal
}

// Candidates returns the ascending headcounts worth testing: from a little
// below the smallest plausible team to a little above the headcount at which
// every trial meets the deadline. A trial with FTE f takes 22 x sqrt(f/h) days
// at headcount h, so it meets deadline D once h >= f x (22/D)^2. The baseline
// headcount is always included. deadlineDays 0 means no deadline.
func Candidates(baselineHeadcount int, st simulation.Statistics, coeff catalog.WorkTypeCoefficients, deadlineDays float64) []int {
	scale := 1.0
	if deadlineDays > 0 {
		scale = math.Pow(workload.WorkingDaysPerMonth/deadlineDays, 2)
	}

	lo := min(coeff.MinHeadcountBase, baselineHeadcount-candidateMargin, int(math.Floor(st.Min)), int(math.Floor(st.Min*scale)))
	lo = max(1, lo)
	hi := max(baselineHeadcount, int(math.Ceil(st.Max)), int(math.Ceil(st.Max*scale)), coeff.MinHeadcountRule) + candidateMargin

	if hi-lo+1 > MaxCandidates {
		lo = hi - MaxCandidates + 1
	}

	out := make([]int, 0, hi-lo+2)
	for h := lo; h <= hi; h++ {
		out = append(out, h)
	}
	if baselineHeadcount < lo {
		out = append([]int{baselineHeadcount}, out...)
	}
	return out
}

// Evaluate scores each candidate against the same trials. A trial's duration
// at headcount h is its single-stream duration divided by sqrt(h), so doubling
// the team never halves the time. Its cost is h x costPerFTE for the months
// worked. Results come back in ascending headcount order.
func Evaluate(trials []simulation.Trial, candidates []int, cfg Config) ([]HeadcountTestResult, error) {
	if len(trials) == 0 {
		return nil, apperr.Configuration("trials", "no simulation trials to evaluate")
	}
	if len(candidates) == 0 {
		return nil, apperr.Configuration("candidates", "no candidate headcounts")
	}

	hs := slices.Clone(candidates)
	slices.Sort(hs)
	hs = slices.Compact(hs)
	if hs[0] < 1 {
		return nil, apperr.Configuration("candidates", "headcount must be at least 1, got %d", hs[0])
	}

	base := make([]float64, len(trials))
	for i, t := range trials {
		base[i] = t.Duration
	}
	sort.Float64s(base)

	ev := evaluator{sorted: base, cfg: cfg, rate: cfg.CostPerFTE.InexactFloat64(), budget: cfg.Budget.InexactFloat64()}
	results := make([]HeadcountTestResult, 0, len(hs))
	for _, h := range hs {
		results = append(results, ev.score(h))
	}
	return results, nil
}

type evaluator struct {
	sorted []float64
	cfg    Config
	rate   float64
	budget float64
}

func (ev evaluator) score(h int) HeadcountTestResult {
	n := len(ev.sorted)
	scale := 1 / math.Sqrt(float64(h))

	durations := make([]float64, n)
	costs := make([]float64, n)
	for i, d := range ev.sorted {
		durations[i] = d * scale
		costs[i] = ev.cost(h, durations[i])
	}

	risk := ev.failureRisk(h)
	r := HeadcountTestResult{
		Headcount:               h,
		Iterations:              n,
		AvgDuration:             stats.Mean(durations),
		MinDuration:             durations[0],
		MaxDuration:             durations[n-1],
		P50Duration:             stats.PercentileSorted(durations, 50),
		P75Duration:             stats.PercentileSorted(durations, 75),
		P90Duration:             stats.PercentileSorted(durations, 90),
		AvgCost:                 money(stats.Mean(costs)),
		MinCost:                 money(costs[0]),
		MaxCost:                 money(costs[n-1]),
		FailureRisk:             risk,
		DeadlineMetProbability:  100 - risk,
		WithinBudgetProbability: ev.withinBudget(costs),
		RiskLevel:               Bucket(risk),
	}

	var reasons []string
	rule := ev.cfg.MinHeadcountRule
	if h < rule {
		reasons = append(reasons, fmt.Sprintf("below the minimum headcount rule of %d", rule))
		r.MinHeadcountApplied = true
		r.MinHeadcountValue = rule
	}
	if risk > ev.cfg.AcceptableRisk {
		reasons = append(reasons, fmt.Sprintf("failure risk %.1f%% exceeds the acceptable %.1f%%", risk, ev.cfg.AcceptableRisk))
	}
	if len(reasons) > 0 {
		r.Rejected = true
		r.RejectionReason = strings.Join(reasons, "; ")
	}

	// the floor binds when one fewer would have been acceptable on risk alone
	if h == rule && h > 1 && ev.failureRisk(h-1) <= ev.cfg.AcceptableRisk {
		r.MinHeadcountApplied = true
		r.MinHeadcountValue = rule
	}
	return r
}

// failureRisk is the percentage of trials whose rescaled duration exceeds the
// deadline. It never increases with h.
func (ev evaluator) failureRisk(h int) float64 {
	deadline := ev.cfg.TargetDeadlineDays
	if deadline <= 0 {
		return 0
	}
	limit := deadline * math.Sqrt(float64(h))
	met := sort.Search(len(ev.sorted), func(i int) bool { return ev.sorted[i] > limit })
	risk := float64(len(ev.sorted)-met) / float64(len(ev.sorted)) * 100
	return math.Min(100, math.Max(0, risk))
}

func (ev evaluator) cost(h int, duration float64) float64 {
	return float64(h) * ev.rate * duration / workload.WorkingDaysPerMonth
}

func (ev evaluator) withinBudget(costs []float64) float64 {
	if ev.budget <= 0 {
		return 100
	}
	within := sort.Search(len(costs), func(i int) bool { return costs[i] > ev.budget })
	return float64(within) / float64(len(costs)) * 100
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
