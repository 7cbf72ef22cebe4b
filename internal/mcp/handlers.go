package mcp

import (
	"context"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/sizing"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/visuals"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

func (s *Server) handleListWorkTypes(_ context.Context, _ ListWorkTypesArgs) (interface{}, error) {
	c := s.sizing.Catalog()
	res := map[string]interface{}{
		"catalog_version": c.Version(),
		"work_types":      c.List(),
	}
	if rt := c.Costs(); rt != nil {
		res["currency"] = rt.Currency
	}
	return res, nil
}

func (s *Server) handleComputeBaseline(_ context.Context, answers workload.Answers) (interface{}, error) {
	in, base, err := s.sizing.Baseline(answers)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"inputs":   in,
		"baseline": base,
		"_guidance": []string{
			"The baseline is a single deterministic estimate at the typical volume. It carries no risk information.",
			"Use 'size_headcount' for the simulated spread and the risk-checked MVO.",
		},
	}, nil
}

func (s *Server) handleSizeHeadcount(ctx context.Context, req sizing.Request) (interface{}, error) {
	var out sizing.Outcome
	select {
	case out = <-s.sizing.RecomputeAsync(ctx, req):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if out.Err != nil {
		return nil, out.Err
	}
	results := out.Results

	guidance := []string{
		"recommended_headcount is the smallest tested team that is not rejected and meets the deadline at the confidence level.",
		"failure_risk is the share of simulated months that miss the target deadline at that headcount.",
		"Percentiles (p10..p90) describe required FTE, not headcount; the MVO adds the deadline and minimum rule on top.",
	}
	if results.MVO.NoViableSolution {
		guidance = append(guidance, "NO VIABLE SOLUTION: the selected row is only the largest tested headcount. Relax the deadline, risk tolerance or scope.")
	}

	res := map[string]interface{}{
		"results":   results,
		"_guidance": guidance,
	}
	if results.MonteCarlo.Anomalies > 0 {
		res["_data_quality"] = []string{"Some sampled inputs were non-finite and were clamped; review the variable ranges."}
	}

	if s.enableMermaidCharts {
		res["visual_fte_histogram"] = visuals.GenerateFTEHistogram(results.MonteCarlo.Histogram)
		res["visual_fte_percentiles"] = visuals.GenerateFTEPercentiles(results.MonteCarlo.Statistics)
		res["visual_risk_curve"] = visuals.GenerateRiskCurve(results.MVO.TestResults, results.Inputs.AcceptableRisk)
		mix := results.Inputs.Mix
		res["visual_work_mix"] = visuals.GenerateMixPie(mix.Routine, mix.Knowledge, mix.Operational, mix.Project)
	}

	return res, nil
}
