// Package mvo picks the minimum viable organisation from evaluated headcount
// scenarios and explains the choice against the baseline.
package mvo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/scenario"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

// Options are the targets the selection is made against.
type Options struct {
	WorkTypeID      string
	ConfidenceLevel float64
	AcceptableRisk  float64
	Priority        workload.Priority
	Mix             catalog.WorkMix
	Currency        string
}

type Comparison struct {
	BaselineHeadcount int             `json:"baseline_headcount"`
	MVOHeadcount      int             `json:"mvo_headcount"`
	HeadcountDelta    int             `json:"headcount_delta"`
	BaselineRisk      float64         `json:"baseline_risk"`
	MVORisk           float64         `json:"mvo_risk"`
	CostDifference    decimal.Decimal `json:"cost_difference"`
	TimeDifference    float64         `json:"time_difference"`
}

// Result is the MVO decision. SelectedResult is a copy of the TestResults row
// whose headcount equals RecommendedHeadcount.
type Result struct {
	RecommendedHeadcount int                            `json:"recommended_headcount"`
	BaselineHeadcount    int                            `json:"baseline_headcount"`
	TestResults          []scenario.HeadcountTestResult `json:"test_results"`
	SelectedResult       scenario.HeadcountTestResult   `json:"selected_result"`
	Strategy             Strategy                       `json:"strategy"`
	StrategyRationale    string                         `json:"strategy_rationale"`
	Explanation          string                         `json:"explanation"`
	Suggestions          []string                       `json:"suggestions"`
	Comparison           Comparison                     `json:"comparison"`
	NoViableSolution     bool                           `json:"no_viable_solution"`
}

// Select scans results in ascending headcount order and recommends the first
// row that is not rejected and meets the confidence target. When none does it
// falls back to the largest tested headcount and flags NoViableSolution; that
// is an answer, not an error.
func Select(results []scenario.HeadcountTestResult, baselineHeadcount int, opts Options) (*Result, error) {
	if len(results) == 0 {
		return nil, apperr.Configuration("test_results", "no headcount scenarios to select from")
	}

	rows := make([]scenario.HeadcountTestResult, len(results))
	copy(rows, results)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Headcount < rows[j].Headcount })

	baseIdx := indexOf(rows, baselineHeadcount)
	if baseIdx < 0 {
		return nil, apperr.Configuration("baseline_headcount", "baseline headcount %d was not evaluated", baselineHeadcount)
	}

	selIdx := -1
	for i, r := range rows {
		if !r.Rejected && r.DeadlineMetProbability >= opts.ConfidenceLevel {
			selIdx = i
			break
		}
	}
	noViable := selIdx < 0
	if noViable {
		selIdx = len(rows) - 1
	}

	sel, base := rows[selIdx], rows[baseIdx]
	strategy, why := ClassifyStrategy(opts.Mix)

	res := &Result{
		RecommendedHeadcount: sel.Headcount,
		BaselineHeadcount:    baselineHeadcount,
		TestResults:          rows,
		SelectedResult:       sel,
		Strategy:             strategy,
		StrategyRationale:    why,
		NoViableSolution:     noViable,
		Comparison: Comparison{
			BaselineHeadcount: baselineHeadcount,
			MVOHeadcount:      sel.Headcount,
			HeadcountDelta:    sel.Headcount - baselineHeadcount,
			BaselineRisk:      base.FailureRisk,
			MVORisk:           sel.FailureRisk,
			CostDifference:    sel.AvgCost.Sub(base.AvgCost),
			TimeDifference:    sel.AvgDuration - base.AvgDuration,
		},
	}
	res.Explanation = explain(res, opts)
	res.Suggestions = suggest(res, rows, selIdx, opts)
	return res, nil
}

func indexOf(rows []scenario.HeadcountTestResult, headcount int) int {
	for i, r := range rows {
		if r.Headcount == headcount {
			return i
		}
	}
	return -1
}

func explain(r *Result, opts Options) string {
	sel, cmp := r.SelectedResult, r.Comparison

	var sb strings.Builder
	if r.NoViableSolution {
		fmt.Fprintf(&sb, "No tested headcount for %s met the %.0f%% confidence target; the largest tested team of %d FTE is shown instead. ",
			opts.WorkTypeID, opts.ConfidenceLevel, sel.Headcount)
	} else {
		fmt.Fprintf(&sb, "The minimum viable organisation for %s is %d FTE, %s. ",
			opts.WorkTypeID, sel.Headcount, deltaPhrase(cmp.HeadcountDelta, cmp.BaselineHeadcount))
	}
	fmt.Fprintf(&sb, "At %d FTE the deadline is met in %.1f%% of %d simulated months (%s risk, %.1f%% failure). ",
		sel.Headcount, sel.DeadlineMetProbability, sel.Iterations, sel.RiskLevel, sel.FailureRisk)
	fmt.Fprintf(&sb, "The baseline of %d FTE carries %.1f%% failure risk (%s). ",
		cmp.BaselineHeadcount, cmp.BaselineRisk, scenario.Bucket(cmp.BaselineRisk))
	if sel.MinHeadcountApplied {
		fmt.Fprintf(&sb, "The minimum headcount rule of %d sets this floor; workload alone would need fewer. ", sel.MinHeadcountValue)
	}
	fmt.Fprintf(&sb, "Recommended strategy: %s, %s.", r.Strategy, r.Strategy.describe())
	return sb.String()
}

func deltaPhrase(delta, baseline int) string {
	switch {
	case delta > 0:
		return fmt.Sprintf("%d more than the baseline of %d", delta, baseline)
	case delta < 0:
		return fmt.Sprintf("%d fewer than the baseline of %d", -delta, baseline)
	default:
		return fmt.Sprintf("matching the baseline of %d", baseline)
	}
}

func suggest(r *Result, rows []scenario.HeadcountTestResult, selIdx int, opts Options) []string {
	sel, cmp := r.SelectedResult, r.Comparison
	var out []string

	if r.NoViableSolution {
		out = append(out, fmt.Sprintf("No headcount up to %d reached %.0f%% confidence. Consider adjusting constraints: extend the deadline, accept more risk or reduce the scope.",
			sel.Headcount, opts.ConfidenceLevel))
	}
	if sel.MinHeadcountApplied {
		out = append(out, fmt.Sprintf("Headcount is held at the minimum rule of %d; review whether the rule still applies to this work type.", sel.MinHeadcountValue))
	}
	if cmp.BaselineRisk > opts.AcceptableRisk {
		out = append(out, fmt.Sprintf("Staffing to the baseline of %d FTE would miss the deadline in %.1f%% of months.", cmp.BaselineHeadcount, cmp.BaselineRisk))
	}
	if !r.NoViableSolution && sel.RiskLevel != scenario.RiskLow {
		out = append(out, fmt.Sprintf("Residual risk at %d FTE is %s (%.1f%%); plan contingency cover.", sel.Headcount, sel.RiskLevel, sel.FailureRisk))
	}

	switch opts.Priority {
	case workload.PriorityCost:
		if selIdx > 0 {
			down := rows[selIdx-1]
			saving := sel.AvgCost.Sub(down.AvgCost)
			out = append(out, fmt.Sprintf("Cost priority: %d FTE saves about %s per month but raises failure risk to %.1f%%.",
				down.Headcount, money(saving, opts.Currency), down.FailureRisk))
		}
	case workload.PrioritySpeed:
		if selIdx < len(rows)-1 {
			up := rows[selIdx+1]
			out = append(out, fmt.Sprintf("Speed priority: %d FTE cuts the P90 duration from %.1f to %.1f working days for %s more per month.",
				up.Headcount, sel.P90Duration, up.P90Duration, money(up.AvgCost.Sub(sel.AvgCost), opts.Currency)))
		}
	}

	switch r.Strategy {
	case Automate:
		out = append(out, "Routine work dominates; automating it could lower the headcount further.")
	case HybridPermGig:
		out = append(out, "Operational load dominates; keep a permanent core and cover peaks with gig workers.")
	case Outsource:
		out = append(out, "Project work dominates; a delivery partner can absorb the variable demand.")
	}
	return out
}

func money(v decimal.Decimal, currency string) string {
	if currency == "" {
		return v.StringFixed(2)
	}
	return currency + " " + v.StringFixed(2)
}
