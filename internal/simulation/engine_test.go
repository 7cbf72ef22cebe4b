package simulation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/sampling"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

var general = catalog.WorkTypeCoefficients{
	ID: "general", Name: "General", Version: "1",
	ProductivityRate: 1, ComplexityFactor: 1, VarianceLevel: 0.1,
	MinHeadcountRule: 1, MinHeadcountBase: 1, RiskMultiplier: 1,
	RoleKey: "general",
}

func scenarioInputs() workload.Inputs {
	return workload.Inputs{
		WorkTypeID:        "general",
		Volume:            workload.Range3{Min: 500, Typical: 750, Max: 1000},
		ProductivityRate:  15,
		ProductivityGood:  0.10,
		ProductivityBad:   0.15,
		Timezones:         1,
		Complexity:        workload.Normal,
		ServiceLevel:      workload.BusinessHours,
		AutomationLevel:   workload.NoAutomation,
		AbsenteeismRate:   0.05,
		TeamStability:     workload.Stable,
		OvertimeFrequency: workload.Never,
	}
}

func newRun(in workload.Inputs, coeff *catalog.WorkTypeCoefficients, iterations int) (*Engine, Inputs) {
	e := NewEngine(Model{Coverage: workload.ComputeFactors(in).Coverage, Coefficients: coeff})
	return e, Inputs{
		Settings:  Settings{Iterations: iterations, ConfidenceLevel: 90, Workers: 4, Seed: 42},
		Variables: DefaultVariables(in),
	}
}

func TestRun_ConfigurationErrors(t *testing.T) {
	e, base := newRun(scenarioInputs(), &general, 100)

	tests := []struct {
		name   string
		mutate func(*Inputs)
		target error
	}{
		{"zero iterations", func(in *Inputs) { in.Iterations = 0 }, apperr.ErrConfiguration},
		{"negative iterations", func(in *Inputs) { in.Iterations = -5 }, apperr.ErrConfiguration},
		{"confidence 100", func(in *Inputs) { in.ConfidenceLevel = 100 }, apperr.ErrConfiguration},
		{"confidence 0", func(in *Inputs) { in.ConfidenceLevel = 0 }, apperr.ErrConfiguration},
		{"unknown distribution", func(in *Inputs) { in.Variables.ServiceFactor.Range.Distribution = "lognormal" }, apperr.ErrUnknownDistribution},
		{"inverted range", func(in *Inputs) {
			in.Variables.WorkloadVolume.Range = sampling.ProbabilityRange{Min: 10, Max: 5, Distribution: sampling.Uniform}
		}, apperr.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			out, err := e.Run(context.Background(), in)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestRun_DisabledVariablesAreDeterministic(t *testing.T) {
	e, in := newRun(scenarioInputs(), &general, 10000)
	in.Variables.SetEnabled(false)

	out, err := e.Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out.Trials, 10000)

	first := out.Trials[0].FTE
	for _, tr := range out.Trials {
		require.Equal(t, first, tr.FTE)
	}

	s := out.Statistics
	assert.InDelta(t, 0, s.StdDev, 1e-9)
	assert.Equal(t, s.P10, s.P90)
	assert.InDelta(t, s.P10, s.Mean, 1e-9)
	// same figure the baseline gets before rounding
	assert.InDelta(t, 1100.0/0.95/136.0, s.Mean, 1e-9)
	assert.Equal(t, 0, out.Anomalies)
	assert.InDelta(t, 100.0, out.Histogram[0].Frequency, 1e-9)
}

func TestRun_PercentileOrdering(t *testing.T) {
	e, in := newRun(scenarioInputs(), &general, 10000)

	out, err := e.Run(context.Background(), in)
	require.NoError(t, err)

	s := out.Statistics
	assert.LessOrEqual(t, s.Min, s.P10)
	assert.LessOrEqual(t, s.P10, s.P25)
	assert.LessOrEqual(t, s.P25, s.Median)
	assert.LessOrEqual(t, s.Median, s.P75)
	assert.LessOrEqual(t, s.P75, s.P90)
	assert.LessOrEqual(t, s.P90, s.Max)
	assert.Greater(t, s.StdDev, 0.0)

	ci := out.ConfidenceInterval
	assert.Equal(t, 90.0, ci.Level)
	assert.LessOrEqual(t, ci.Lower, s.P10)
	assert.GreaterOrEqual(t, ci.Upper, s.P90)

	require.Len(t, out.Histogram, HistogramBins)
	total := 0.0
	for _, b := range out.Histogram {
		total += b.Frequency
	}
	assert.InDelta(t, 100.0, total, 1e-6)
	assert.GreaterOrEqual(t, s.Mode, s.Min)
	assert.LessOrEqual(t, s.Mode, s.Max)

	for i, tr := range out.Trials {
		assert.Equal(t, i, tr.Iteration)
		assert.GreaterOrEqual(t, tr.FTE, 1.0)
		assert.InDelta(t, workload.WorkingDaysPerMonth*math.Sqrt(tr.FTE), tr.Duration, 1e-9)
	}
}

func TestRun_MeanWithinBand(t *testing.T) {
	in := scenarioInputs()
	e, mc := newRun(in, nil, 20000)
	mc.Variables.SetEnabled(false)
	mc.Variables.WorkloadVolume.Enabled = true

	out, err := e.Run(context.Background(), mc)
	require.NoError(t, err)

	// triangular over [733.3, 1100, 1466.7] hours has mean 1100
	want := 1100.0 / 0.95 / 136.0
	assert.InDelta(t, want, out.Statistics.Mean, want*0.02)
}

func TestRun_SeededRunsRepeat(t *testing.T) {
	e, in := newRun(scenarioInputs(), &general, 5000)

	a, err := e.Run(context.Background(), in)
	require.NoError(t, err)
	b, err := e.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, a.Statistics, b.Statistics)
}

func TestRun_ClampsNonFiniteTrials(t *testing.T) {
	e, in := newRun(scenarioInputs(), &general, 500)
	in.Variables.UtilizationRate.Range = sampling.Point(0)

	out, err := e.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 500, out.Anomalies)
	assert.Len(t, out.Trials, 500)
	for _, tr := range out.Trials {
		assert.False(t, math.IsInf(tr.FTE, 0))
	}
}

func TestRun_Cancelled(t *testing.T) {
	e, in := newRun(scenarioInputs(), &general, 50000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRun_MoreWorkersThanIterations(t *testing.T) {
	e, in := newRun(scenarioInputs(), &general, 3)
	in.Workers = 16

	out, err := e.Run(context.Background(), in)
	require.NoError(t, err)
	assert.Len(t, out.Trials, 3)
}

func TestRun_RiskMultiplierShiftsDistribution(t *testing.T) {
	in := scenarioInputs()
	risky := general
	risky.RiskMultiplier = 1.5

	e1, mc := newRun(in, &general, 5000)
	plain, err := e1.Run(context.Background(), mc)
	require.NoError(t, err)

	e2, mc := newRun(in, &risky, 5000)
	shifted, err := e2.Run(context.Background(), mc)
	require.NoError(t, err)

	assert.Greater(t, shifted.Statistics.Mean, plain.Statistics.Mean*1.3)
}

func TestRun_DisabledVariablesMatchBaselineUnderRiskMultiplier(t *testing.T) {
	in := scenarioInputs()
	risky := general
	risky.RiskMultiplier = 1.5
	risky.ComplexityFactor = 1.1

	e, mc := newRun(in, &risky, 500)
	mc.Variables.SetEnabled(false)

	out, err := e.Run(context.Background(), mc)
	require.NoError(t, err)

	hours := workload.RequiredHours(workload.BaseHours(in), workload.ComputeFactors(in), &risky, 1)
	want := workload.FTE(hours, workload.EffectiveUtilization(workload.TargetUtilization, &risky))
	assert.InDelta(t, want, out.Statistics.Mean, 1e-9)
	assert.InDelta(t, 0, out.Statistics.StdDev, 1e-9)
}
