package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/baseline"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/catalog"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/sizing"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

func newTestServer(t *testing.T, charts bool) *Server {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	svc := sizing.NewService(c, nil, sizing.Options{Iterations: 1000, ConfidenceLevel: 90, Workers: 2, Seed: 7})
	return NewServer(svc, charts, "test")
}

func generalAnswers() workload.Answers {
	return workload.Answers{
		WorkType:         "general",
		Volume:           "500_1000",
		ProductivityRate: "10_20",
		Complexity:       "normal",
	}
}

func TestHandleListWorkTypes(t *testing.T) {
	s := newTestServer(t, false)

	data, err := s.handleListWorkTypes(context.Background(), ListWorkTypesArgs{})
	require.NoError(t, err)

	res := data.(map[string]interface{})
	assert.Equal(t, "2026.1", res["catalog_version"])
	assert.Equal(t, "MYR", res["currency"])

	types := res["work_types"].([]catalog.WorkTypeCoefficients)
	require.NotEmpty(t, types)
	ids := make([]string, 0, len(types))
	for _, wt := range types {
		ids = append(ids, wt.ID)
	}
	assert.Contains(t, ids, "general")
	assert.Contains(t, ids, "payroll")
}

func TestHandleComputeBaseline(t *testing.T) {
	s := newTestServer(t, false)

	data, err := s.handleComputeBaseline(context.Background(), generalAnswers())
	require.NoError(t, err)

	res := data.(map[string]interface{})
	base := res["baseline"].(baseline.Result)
	assert.Equal(t, 9, base.Headcount)
	assert.Contains(t, res, "_guidance")

	bad := generalAnswers()
	bad.Volume = "lots"
	_, err = s.handleComputeBaseline(context.Background(), bad)
	require.Error(t, err)
}

func TestHandleSizeHeadcount(t *testing.T) {
	s := newTestServer(t, false)

	data, err := s.handleSizeHeadcount(context.Background(), sizing.Request{Answers: generalAnswers()})
	require.NoError(t, err)

	res := data.(map[string]interface{})
	results := res["results"].(*sizing.SynchronizedResults)
	assert.Equal(t, 9, results.Baseline.Headcount)
	assert.Equal(t, 1000, results.MonteCarlo.Iterations)
	assert.Equal(t, results.MVO.RecommendedHeadcount, results.MVO.SelectedResult.Headcount)
	assert.NotContains(t, res, "visual_fte_histogram")

	out := formatResult(res)
	assert.Contains(t, out, "\"recommended_headcount\"")
	assert.NotContains(t, out, "\"trials\"")
}

func TestHandleSizeHeadcount_Charts(t *testing.T) {
	s := newTestServer(t, true)

	data, err := s.handleSizeHeadcount(context.Background(), sizing.Request{Answers: generalAnswers()})
	require.NoError(t, err)

	res := data.(map[string]interface{})
	for _, key := range []string{"visual_fte_histogram", "visual_fte_percentiles", "visual_risk_curve", "visual_work_mix"} {
		chart, ok := res[key].(string)
		require.True(t, ok, key)
		assert.True(t, strings.HasPrefix(chart, "```mermaid"), key)
	}
}

func TestHandleSizeHeadcount_Errors(t *testing.T) {
	s := newTestServer(t, false)

	req := sizing.Request{Answers: generalAnswers()}
	req.Answers.WorkType = "astrology"
	_, err := s.handleSizeHeadcount(context.Background(), req)
	assert.True(t, errors.Is(err, apperr.ErrUnknownWorkType))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.handleSizeHeadcount(ctx, sizing.Request{Answers: generalAnswers()})
	assert.True(t, errors.Is(err, context.Canceled))
}
