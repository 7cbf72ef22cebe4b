package workload

import (
	"math"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
)

const (
	AvailableHoursPerFTE = 160.0
	WorkingDaysPerMonth  = 22.0
	MinBaseHours         = 100.0
	TargetUtilization    = 0.85

	hoursPerEmployee  = 0.5
	minutesPerTxn     = 5.0
	hoursPerSite      = 20.0
	timezoneSurcharge = 0.15
	weeksPerYear      = 52.0
)

var complexityFactors = map[Complexity]float64{
	Simple:        0.8,
	Normal:        1.0,
	Complex:       1.3,
	HighlyComplex: 1.6,
}

var serviceFactors = map[ServiceLevel]float64{
	BusinessHours: 1.0,
	Extended:      1.15,
	RoundTheClock: 1.4,
}

var automationReductions = map[AutomationLevel]float64{
	NoAutomation:      0,
	PartialAutomation: 0.15,
	HighAutomation:    0.30,
}

var stabilityFactors = map[TeamStability]float64{
	Stable:   1.0,
	Moderate: 1.08,
	Volatile: 1.18,
}

var overtimeFactors = map[OvertimeFrequency]float64{
	Never:      1.0,
	Occasional: 1.05,
	Frequent:   1.12,
}

// Coverage breaks the coverage factor into its people-risk components.
type Coverage struct {
	Absenteeism float64 `json:"absenteeism"`
	Stability   float64 `json:"stability"`
	Overtime    float64 `json:"overtime"`
	RampUp      float64 `json:"ramp_up"`
}

// Value is the product of the components.
func (c Coverage) Value() float64 {
	return c.Absenteeism * c.Stability * c.Overtime * c.RampUp
}

// Factors are the multiplicative adjustments derived from Inputs.
type Factors struct {
	Complexity          float64  `json:"complexity"`
	ServiceLevel        float64  `json:"service_level"`
	Coverage            float64  `json:"coverage"`
	AutomationReduction float64  `json:"automation_reduction"`
	CoverageBreakdown   Coverage `json:"coverage_breakdown"`
}

// ComputeFactors looks up the tier factors for in. Unknown tiers fall back to
// the neutral value; Inputs.Validate rejects them earlier.
func ComputeFactors(in Inputs) Factors {
	cov := Coverage{
		Absenteeism: 1 / (1 - in.AbsenteeismRate),
		Stability:   lookup(stabilityFactors, in.TeamStability, 1),
		Overtime:    lookup(overtimeFactors, in.OvertimeFrequency, 1),
		RampUp:      1 + in.RampUpWeeks/weeksPerYear,
	}
	return Factors{
		Complexity:          lookup(complexityFactors, in.Complexity, 1),
		ServiceLevel:        lookup(serviceFactors, in.ServiceLevel, 1),
		Coverage:            cov.Value(),
		AutomationReduction: lookup(automationReductions, in.AutomationLevel, 0),
		CoverageBreakdown:   cov,
	}
}

func lookup[K comparable](m map[K]float64, k K, def float64) float64 {
	if v, ok := m[k]; ok {
		return v
	}
	return def
}

// BaseHours is the monthly workload before any factor at the typical volume.
func BaseHours(in Inputs) float64 {
	return BaseHoursAt(in, in.Volume.Typical)
}

// BaseHoursAt assembles monthly hours from the drivers that are present with
// volume in units per working day. The timezone surcharge adds 15% per zone
// beyond the first and the result never drops below MinBaseHours.
func BaseHoursAt(in Inputs, volume float64) float64 {
	hours := 0.0
	if volume > 0 && in.ProductivityRate > 0 {
		hours += volume * WorkingDaysPerMonth / in.ProductivityRate
	}
	hours += float64(in.EmployeesSupported) * hoursPerEmployee
	hours += float64(in.TransactionsPerMonth) * minutesPerTxn / 60
	hours += float64(in.Sites) * hoursPerSite

	if in.Timezones > 1 {
		hours *= 1 + timezoneSurcharge*float64(in.Timezones-1)
	}
	return math.Max(hours, MinBaseHours)
}

// RequiredHours applies the factors in their fixed order. noise is the per-trial
// N(1, variance) x riskMultiplier term; the deterministic path passes 1.
// A nil coeff skips the work-type scaling.
func RequiredHours(base float64, f Factors, coeff *catalog.WorkTypeCoefficients, noise float64) float64 {
	hours := base * f.Complexity * f.ServiceLevel * f.Coverage
	hours *= 1 - f.AutomationReduction
	if coeff != nil {
		hours *= coeff.ComplexityFactor
		hours *= noise
	}
	return hours
}

// EffectiveUtilization scales utilization by the work type's productivity rate,
// capped at full utilization.
func EffectiveUtilization(utilization float64, coeff *catalog.WorkTypeCoefficients) float64 {
	if coeff != nil {
		utilization *= coeff.ProductivityRate
	}
	return math.Min(1, utilization)
}

// FTE converts monthly hours into full-time equivalents, never below one.
func FTE(hours, effectiveUtilization float64) float64 {
	return math.Max(1, hours/(AvailableHoursPerFTE*effectiveUtilization))
}
