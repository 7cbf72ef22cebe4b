package mcp

import (
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ListWorkTypesArgs takes no arguments.
type ListWorkTypesArgs struct{}

func (s *Server) registerTools(srv *sdk.Server) {
	sdk.AddTool(srv, &sdk.Tool{
		Name: "list_work_types",
		Description: "List the work types in the coefficient catalog with their productivity, complexity, variance, " +
			"minimum headcount rule and work mix. Guidance: call this first to pick a valid 'work_type' for the sizing tools.",
	}, handle("list_work_types", s.handleListWorkTypes))

	sdk.AddTool(srv, &sdk.Tool{
		Name: "compute_baseline",
		Description: "Compute the deterministic baseline headcount for one sub-function from questionnaire answers. " +
			"Range answers use codes such as '500_1000', '5000_plus' or 'under_10'. " +
			"Returns the resolved inputs, the adjustment factors and a step-by-step rationale. No simulation is run.",
	}, handle("compute_baseline", s.handleComputeBaseline))

	sdk.AddTool(srv, &sdk.Tool{
		Name: "size_headcount",
		Description: "Run the full sizing pipeline for one sub-function: baseline, Monte Carlo simulation of required FTE, " +
			"headcount scenario evaluation against the deadline, budget and minimum headcount rule, and selection of the " +
			"Minimum Viable Organisation (MVO).\n\n" +
			"Optional 'variables' enable, disable or re-range the uncertain inputs (workloadVolume, complexityFactor, " +
			"serviceFactor, automationFactor, utilizationRate). Set 'seed' for a repeatable run.\n" +
			"STRICT GUARDRAIL: report the recommended headcount and risks exactly as returned. If 'no_viable_solution' " +
			"is true, YOU MUST say that no tested headcount met the confidence target instead of presenting the fallback as a recommendation.",
	}, handle("size_headcount", s.handleSizeHeadcount))
}
