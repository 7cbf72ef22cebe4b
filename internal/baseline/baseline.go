// Package baseline computes the deterministic, no-buffer headcount that a
// spreadsheet would produce from the same workload inputs.
package baseline

import (
	"fmt"
	"math"
	"strings"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

// Result is the baseline estimate. Rationale is part of the contract: callers
// render it verbatim.
type Result struct {
	Headcount            int              `json:"headcount"`
	RawFTE               float64          `json:"raw_fte"`
	BaseHours            float64          `json:"base_hours"`
	AdjustedHours        float64          `json:"adjusted_hours"`
	Utilization          float64          `json:"utilization"`
	EffectiveUtilization float64          `json:"effective_utilization"`
	EffectiveCapacity    float64          `json:"effective_capacity"`
	Factors              workload.Factors `json:"factors"`
	WorkTypeComplexity   float64          `json:"work_type_complexity"`
	Rationale            string           `json:"rationale"`
}

// Compute runs the workload model with every variable at its point estimate
// and a fixed 85% utilization target. It fails only when in is invalid.
func Compute(in workload.Inputs, coeff catalog.WorkTypeCoefficients) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, fmt.Errorf("baseline: %w", err)
	}

	base := workload.BaseHours(in)
	factors := workload.ComputeFactors(in)
	adjusted := workload.RequiredHours(base, factors, &coeff, 1)
	effUtil := workload.EffectiveUtilization(workload.TargetUtilization, &coeff)
	capacity := workload.AvailableHoursPerFTE * effUtil
	raw := adjusted / capacity

	res := Result{
		Headcount:            max(1, int(math.Round(raw))),
		RawFTE:               raw,
		BaseHours:            base,
		AdjustedHours:        adjusted,
		Utilization:          workload.TargetUtilization,
		EffectiveUtilization: effUtil,
		EffectiveCapacity:    capacity,
		Factors:              factors,
		WorkTypeComplexity:   coeff.ComplexityFactor,
	}
	res.Rationale = rationale(in, coeff, res)
	return res, nil
}

func rationale(in workload.Inputs, coeff catalog.WorkTypeCoefficients, r Result) string {
	f := r.Factors
	cov := f.CoverageBreakdown

	var sb strings.Builder
	fmt.Fprintf(&sb, "Base workload: %.2f hours/month", r.BaseHours)
	if in.Volume.Typical > 0 {
		fmt.Fprintf(&sb, " (%.0f units/day at %.2f units/hour)", in.Volume.Typical, in.ProductivityRate)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Complexity (%s): x%.2f\n", in.Complexity, f.Complexity)
	fmt.Fprintf(&sb, "Service level (%s): x%.2f\n", in.ServiceLevel, f.ServiceLevel)
	fmt.Fprintf(&sb, "Coverage: x%.4f (absenteeism x%.4f, stability x%.2f, overtime x%.2f, ramp-up x%.4f)\n",
		f.Coverage, cov.Absenteeism, cov.Stability, cov.Overtime, cov.RampUp)
	fmt.Fprintf(&sb, "Automation (%s): -%.0f%%\n", in.AutomationLevel, f.AutomationReduction*100)
	fmt.Fprintf(&sb, "Work type complexity (%s v%s): x%.2f\n", coeff.ID, coeff.Version, coeff.ComplexityFactor)
	fmt.Fprintf(&sb, "Adjusted workload: %.2f hours/month\n", r.AdjustedHours)
	fmt.Fprintf(&sb, "Capacity per FTE: %.0f hours x %.0f%% utilization x%.2f productivity = %.2f hours\n",
		workload.AvailableHoursPerFTE, r.Utilization*100, coeff.ProductivityRate, r.EffectiveCapacity)
	fmt.Fprintf(&sb, "Required FTE: %.2f, rounded to headcount %d", r.RawFTE, r.Headcount)
	return sb.String()
}
