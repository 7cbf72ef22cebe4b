package simulation

import (
	"fmt"
	"math"
	"sort"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/sampling"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

// Variable names accepted by VariableSet.Apply.
const (
	WorkloadVolume   = "workloadVolume"
	ComplexityFactor = "complexityFactor"
	ServiceFactor    = "serviceFactor"
	AutomationFactor = "automationFactor"
	UtilizationRate  = "utilizationRate"
)

// Variable is one uncertain input. A disabled variable always yields BaseValue.
type Variable struct {
	Name      string                    `json:"name"`
	BaseValue float64                   `json:"base_value"`
	Range     sampling.ProbabilityRange `json:"range"`
	Enabled   bool                      `json:"enabled"`
}

// VariableSet holds the five variables a trial samples.
type VariableSet struct {
	WorkloadVolume   Variable `json:"workload_volume"`
	ComplexityFactor Variable `json:"complexity_factor"`
	ServiceFactor    Variable `json:"service_factor"`
	AutomationFactor Variable `json:"automation_factor"`
	UtilizationRate  Variable `json:"utilization_rate"`
}

// VariableOverride replaces the enable flag and/or range of one variable.
type VariableOverride struct {
	Enabled *bool                      `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Range   *sampling.ProbabilityRange `json:"range,omitempty" yaml:"range,omitempty"`
}

// DefaultVariables derives the standard uncertainty model from in. All five
// variables start enabled.
func DefaultVariables(in workload.Inputs) VariableSet {
	f := workload.ComputeFactors(in)
	base := workload.BaseHours(in)
	util := workload.TargetUtilization
	auto := f.AutomationReduction

	return VariableSet{
		WorkloadVolume: Variable{
			Name:      WorkloadVolume,
			BaseValue: base,
			Range:     triangular(workload.BaseHoursAt(in, in.Volume.Min), base, workload.BaseHoursAt(in, in.Volume.Max)),
			Enabled:   true,
		},
		ComplexityFactor: Variable{
			Name:      ComplexityFactor,
			BaseValue: f.Complexity,
			Range:     withMode(f.Complexity*0.85, f.Complexity, f.Complexity*1.15, sampling.Normal),
			Enabled:   true,
		},
		ServiceFactor: Variable{
			Name:      ServiceFactor,
			BaseValue: f.ServiceLevel,
			Range:     withMode(f.ServiceLevel*0.9, f.ServiceLevel, f.ServiceLevel*1.1, sampling.Uniform),
			Enabled:   true,
		},
		AutomationFactor: Variable{
			Name:      AutomationFactor,
			BaseValue: auto,
			Range:     triangular(math.Max(0, auto-0.1), auto, math.Min(0.9, auto+0.1)),
			Enabled:   true,
		},
		UtilizationRate: Variable{
			Name:      UtilizationRate,
			BaseValue: util,
			Range:     triangular(util*(1-in.ProductivityBad), util, math.Min(0.95, util*(1+in.ProductivityGood))),
			Enabled:   true,
		},
	}
}

func triangular(lo, mode, hi float64) sampling.ProbabilityRange {
	return withMode(lo, mode, hi, sampling.Triangular)
}

func withMode(lo, mode, hi float64, d sampling.Distribution) sampling.ProbabilityRange {
	return sampling.ProbabilityRange{Min: lo, Max: hi, MostLikely: &mode, Distribution: d}
}

// All returns the variables in trial order.
func (vs *VariableSet) All() []*Variable {
	return []*Variable{
		&vs.WorkloadVolume,
		&vs.ComplexityFactor,
		&vs.ServiceFactor,
		&vs.AutomationFactor,
		&vs.UtilizationRate,
	}
}

func (vs *VariableSet) byName(name string) *Variable {
	for _, v := range vs.All() {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// SetEnabled toggles every variable at once.
func (vs *VariableSet) SetEnabled(enabled bool) {
	for _, v := range vs.All() {
		v.Enabled = enabled
	}
}

// Apply merges overrides keyed by variable name. Unknown names are a
// configuration error.
func (vs *VariableSet) Apply(overrides map[string]VariableOverride) error {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := vs.byName(name)
		if v == nil {
			return apperr.Configuration("variables", "unknown variable %q", name)
		}
		o := overrides[name]
		if o.Enabled != nil {
			v.Enabled = *o.Enabled
		}
		if o.Range != nil {
			v.Range = *o.Range
		}
	}
	return nil
}

// Validate checks the range of every enabled variable.
func (vs *VariableSet) Validate() error {
	for _, v := range vs.All() {
		if !v.Enabled {
			continue
		}
		if err := v.Range.Validate(); err != nil {
			return fmt.Errorf("variable %s: %w", v.Name, err)
		}
	}
	return nil
}

func (vs *VariableSet) anyEnabled() bool {
	for _, v := range vs.All() {
		if v.Enabled {
			return true
		}
	}
	return false
}

// Sample is the set of values one trial drew.
type Sample struct {
	WorkloadVolume   float64 `json:"workload_volume"`
	ComplexityFactor float64 `json:"complexity_factor"`
	ServiceFactor    float64 `json:"service_factor"`
	AutomationFactor float64 `json:"automation_factor"`
	UtilizationRate  float64 `json:"utilization_rate"`
}

// Map returns the sample keyed by variable name.
func (s Sample) Map() map[string]float64 {
	return map[string]float64{
		WorkloadVolume:   s.WorkloadVolume,
		ComplexityFactor: s.ComplexityFactor,
		ServiceFactor:    s.ServiceFactor,
		AutomationFactor: s.AutomationFactor,
		UtilizationRate:  s.UtilizationRate,
	}
}
