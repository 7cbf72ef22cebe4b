package sizing

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/simulation"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

func newService(t *testing.T) *Service {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return NewService(c, nil, Options{Iterations: 2000, ConfidenceLevel: 90, Workers: 2, Seed: 11})
}

func workedRequest() Request {
	return Request{Answers: workload.Answers{
		WorkType:         "general",
		Volume:           "500_1000",
		ProductivityRate: "10_20",
		Complexity:       "normal",
	}}
}

func TestRecompute_WorkedScenario(t *testing.T) {
	svc := newService(t)

	res, err := svc.Recompute(context.Background(), workedRequest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.Equal(t, 9, res.Baseline.Headcount)
	assert.Equal(t, 2000, res.MonteCarlo.Iterations)
	assert.Len(t, res.MonteCarlo.Trials, 2000)
	assert.Equal(t, 11, int(res.Settings.Seed))

	sel := res.MVO.SelectedResult
	assert.Equal(t, res.MVO.RecommendedHeadcount, sel.Headcount)
	assert.False(t, sel.Rejected)
	assert.False(t, res.MVO.NoViableSolution)
	assert.GreaterOrEqual(t, res.MVO.RecommendedHeadcount, res.Baseline.Headcount)

	// one snapshot feeds every sub-result
	in, _, err := workedRequest().Answers.Resolve(svc.Catalog())
	require.NoError(t, err)
	assert.Equal(t, in, res.Inputs)
	assert.Equal(t, "general", res.Coefficients.ID)

	cmp := res.Comparison
	assert.Equal(t, res.Baseline.Headcount, cmp.BaselineHeadcount)
	assert.Equal(t, res.MVO.RecommendedHeadcount, cmp.MVOHeadcount)
	assert.LessOrEqual(t, cmp.P50FTE, cmp.P90FTE)
	assert.Equal(t, "MYR", cmp.Currency)
	assert.True(t, cmp.CostPerFTE.Equal(decimal.NewFromInt(5500)))
	assert.Equal(t, 90.0, cmp.ConfidenceLevel)
}

func TestRecompute_SerializesWithoutTrials(t *testing.T) {
	res, err := newService(t).Recompute(context.Background(), workedRequest())
	require.NoError(t, err)

	raw, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	mc, ok := decoded["monte_carlo"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, mc, "trials")
	assert.Contains(t, mc, "histogram")
	assert.Contains(t, decoded, "mvo")
	assert.Contains(t, decoded, "baseline")
}

func TestRecompute_DisabledVariables(t *testing.T) {
	off := false
	req := workedRequest()
	req.Variables = map[string]simulation.VariableOverride{
		simulation.WorkloadVolume:   {Enabled: &off},
		simulation.ComplexityFactor: {Enabled: &off},
		simulation.ServiceFactor:    {Enabled: &off},
		simulation.AutomationFactor: {Enabled: &off},
		simulation.UtilizationRate:  {Enabled: &off},
	}

	res, err := newService(t).Recompute(context.Background(), req)
	require.NoError(t, err)
	s := res.MonteCarlo.Statistics
	assert.InDelta(t, 0, s.StdDev, 1e-9)
	assert.Equal(t, s.P10, s.P90)
}

func TestRecompute_Errors(t *testing.T) {
	svc := newService(t)

	req := workedRequest()
	req.Iterations = -1
	_, err := svc.Recompute(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
	assert.Contains(t, err.Error(), "iterations must be positive")

	req = workedRequest()
	req.Answers.WorkType = "astrology"
	_, err = svc.Recompute(context.Background(), req)
	assert.True(t, errors.Is(err, apperr.ErrUnknownWorkType))

	req = workedRequest()
	req.Answers.RoleKey = "unpriced"
	_, err = svc.Recompute(context.Background(), req)
	assert.True(t, errors.Is(err, apperr.ErrMissingCostRate))

	req = workedRequest()
	req.Variables = map[string]simulation.VariableOverride{"mood": {}}
	_, err = svc.Recompute(context.Background(), req)
	assert.True(t, errors.Is(err, apperr.ErrConfiguration))
}

func TestRecompute_NoCostLookup(t *testing.T) {
	c, err := catalog.New("bare", []catalog.WorkTypeCoefficients{{
		ID: "general", Name: "General", Version: "1",
		ProductivityRate: 1, ComplexityFactor: 1, VarianceLevel: 0.1,
		MinHeadcountRule: 1, MinHeadcountBase: 1, RiskMultiplier: 1, RoleKey: "general",
	}}, nil)
	require.NoError(t, err)

	svc := NewService(c, nil, DefaultOptions())
	_, err = svc.Recompute(context.Background(), workedRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrMissingCostRate))

	svc = NewService(c, catalog.FlatRate(decimal.NewFromInt(3000)), Options{Iterations: 500, ConfidenceLevel: 80, Workers: 1, Seed: 3})
	res, err := svc.Recompute(context.Background(), workedRequest())
	require.NoError(t, err)
	assert.Equal(t, "", res.Comparison.Currency)
	assert.Equal(t, 80.0, res.Settings.ConfidenceLevel)
}

func TestRecomputeAsync(t *testing.T) {
	svc := newService(t)

	out := <-svc.RecomputeAsync(context.Background(), workedRequest())
	require.NoError(t, out.Err)
	require.NotNil(t, out.Results)
	assert.Equal(t, 9, out.Results.Baseline.Headcount)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out = <-svc.RecomputeAsync(ctx, workedRequest())
	require.Error(t, out.Err)
	assert.True(t, errors.Is(out.Err, context.Canceled))
	assert.Nil(t, out.Results)
}

func TestBaseline(t *testing.T) {
	in, res, err := newService(t).Baseline(workedRequest().Answers)
	require.NoError(t, err)
	assert.Equal(t, 750.0, in.Volume.Typical)
	assert.Equal(t, 9, res.Headcount)
	assert.NotEmpty(t, res.Rationale)
}

const requestYAML = `
answers:
  work_type: payroll
  volume: 200_400
  complexity: complex
  target_deadline_days: 20
iterations: 1500
seed: 5
variables:
  serviceFactor:
    enabled: false
  utilizationRate:
    range: { min: 0.7, max: 0.9, most_likely: 0.85, distribution: triangular }
`

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(requestYAML))
	require.NoError(t, err)

	assert.Equal(t, "payroll", req.Answers.WorkType)
	assert.Equal(t, "200_400", req.Answers.Volume)
	require.NotNil(t, req.Answers.TargetDeadlineDays)
	assert.Equal(t, 20.0, *req.Answers.TargetDeadlineDays)
	assert.Equal(t, 1500, req.Iterations)
	assert.Equal(t, int64(5), req.Seed)
	require.Contains(t, req.Variables, simulation.UtilizationRate)
	assert.Equal(t, 0.85, *req.Variables[simulation.UtilizationRate].Range.MostLikely)
	assert.False(t, *req.Variables[simulation.ServiceFactor].Enabled)

	res, err := newService(t).Recompute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "payroll", res.Inputs.WorkTypeID)
	assert.False(t, res.MonteCarlo.Variables.ServiceFactor.Enabled)
}

func TestParseRequest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not yaml", "answers: ["},
		{"missing work type", "answers:\n  volume: 10_20\n"},
		{"wrong type", "answers:\n  work_type: general\niterations: many\n"},
		{"unknown top-level key", "answers:\n  work_type: general\nworkers: 4\n"},
		{"unknown answer key", "answers:\n  work_type: general\n  headcount: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRequest([]byte(tt.payload))
			require.Error(t, err)
		})
	}
}

func TestParseRequest_UnquotedRangeCodes(t *testing.T) {
	tests := []struct {
		name         string
		volume       string
		productivity string
	}{
		{"underscore digits", "500_1000", "10_20"},
		{"open-ended code", "5000_plus", "50_plus"},
		{"lower bound code", "under_50", "1_5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := "answers:\n  work_type: general\n  volume: " + tt.volume +
				"\n  productivity_rate: " + tt.productivity + "\n"
			req, err := ParseRequest([]byte(payload))
			require.NoError(t, err)
			assert.Equal(t, tt.volume, req.Answers.Volume)
			assert.Equal(t, tt.productivity, req.Answers.ProductivityRate)
		})
	}
}

func TestParseRequest_NumbersStayNumbers(t *testing.T) {
	req, err := ParseRequest([]byte("answers:\n  work_type: general\n  volume: 500_1000\n  budget: 12_000\niterations: 2_000\n"))
	require.NoError(t, err)
	assert.Equal(t, "500_1000", req.Answers.Volume)
	assert.Equal(t, 12000.0, req.Answers.Budget)
	assert.Equal(t, 2000, req.Iterations)
}

func TestLoadRequestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte(requestYAML), 0o644))

	req, err := LoadRequestFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payroll", req.Answers.WorkType)
	assert.Equal(t, "200_400", req.Answers.Volume)

	_, err = LoadRequestFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestRequestSchema(t *testing.T) {
	schema, err := RequestSchema()
	require.NoError(t, err)
	assert.Contains(t, schema.Properties, "answers")
	assert.Contains(t, schema.Properties, "variables")
}

func TestBaseline_AcceptableRiskDefault(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	svc := NewService(c, nil, Options{Iterations: 100, ConfidenceLevel: 90, Workers: 1, AcceptableRisk: 20})

	in, _, err := svc.Baseline(workedRequest().Answers)
	require.NoError(t, err)
	assert.Equal(t, 20.0, in.AcceptableRisk)

	explicit := 5.0
	answers := workedRequest().Answers
	answers.AcceptableRisk = &explicit
	in, _, err = svc.Baseline(answers)
	require.NoError(t, err)
	assert.Equal(t, 5.0, in.AcceptableRisk)
}

func TestRecompute_ShortDeadlineFindsLargerTeam(t *testing.T) {
	svc := newService(t)

	for _, days := range []float64{15, 11} {
		deadline := days
		req := workedRequest()
		req.Answers.TargetDeadlineDays = &deadline

		res, err := svc.Recompute(context.Background(), req)
		require.NoError(t, err)

		assert.False(t, res.MVO.NoViableSolution, "deadline %.0f", days)
		assert.Greater(t, res.MVO.RecommendedHeadcount, res.Baseline.Headcount)
		assert.GreaterOrEqual(t, res.MVO.SelectedResult.DeadlineMetProbability, 90.0)
		rows := res.MVO.TestResults
		assert.Equal(t, 0.0, rows[len(rows)-1].FailureRisk)
	}
}
