package commands

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/sizing"
)

var (
	requestFile string
	iterations  int
	seed        int64
	confidence  float64
	asJSON      bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the full sizing pipeline for a request file",
	Long: `Reads a YAML or JSON request (questionnaire answers plus optional run settings and variable
overrides), runs baseline, Monte Carlo, scenario evaluation and MVO selection, and prints a summary.
Use "-" to read the request from stdin.`,
	Example: `  mvo-sim simulate -f payroll.yaml
  mvo-sim simulate -f payroll.yaml --iterations 20000 --seed 42 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readRequest(requestFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("iterations") {
			req.Iterations = iterations
		}
		if cmd.Flags().Changed("seed") {
			req.Seed = seed
		}
		if cmd.Flags().Changed("confidence") {
			req.ConfidenceLevel = confidence
		}

		ctx, stop := signalContext()
		defer stop()

		res, err := service.Recompute(ctx, req)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		return writeSummary(cmd.OutOrStdout(), res)
	},
}

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Compute only the deterministic baseline for a request file",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readRequest(requestFile)
		if err != nil {
			return err
		}
		in, res, err := service.Baseline(req.Answers)
		if err != nil {
			return err
		}
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{"inputs": in, "baseline": res})
		}
		return writeBaseline(cmd.OutOrStdout(), in, res)
	},
}

func readRequest(path string) (sizing.Request, error) {
	if path == "-" {
		return sizing.LoadRequestReader(os.Stdin)
	}
	return sizing.LoadRequestFile(path)
}

func init() {
	for _, c := range []*cobra.Command{simulateCmd, baselineCmd} {
		c.Flags().StringVarP(&requestFile, "file", "f", "", "request file (YAML or JSON), - for stdin")
		c.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
		_ = c.MarkFlagRequired("file")
	}
	simulateCmd.Flags().IntVar(&iterations, "iterations", 0, "Monte Carlo trials (overrides the request and MC_ITERATIONS)")
	simulateCmd.Flags().Int64Var(&seed, "seed", 0, "fixed seed for a repeatable run")
	simulateCmd.Flags().Float64Var(&confidence, "confidence", 0, "confidence level in percent")
}
