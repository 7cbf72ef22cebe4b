package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/baseline"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/sizing"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/workload"
)

func writeBaseline(w io.Writer, in workload.Inputs, res baseline.Result) error {
	_, err := fmt.Fprintf(w, "Work type: %s\nBaseline headcount: %d (%.2f FTE)\n\n%s\n",
		in.WorkTypeID, res.Headcount, res.RawFTE, res.Rationale)
	return err
}

func writeSummary(w io.Writer, res *sizing.SynchronizedResults) error {
	st := res.MonteCarlo.Statistics
	mvo := res.MVO

	fmt.Fprintf(w, "Run %s (%s)\n", res.RunID, res.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Work type: %s (catalog v%s)\n\n", res.Coefficients.ID, res.Coefficients.Version)

	fmt.Fprintf(w, "Baseline headcount: %d\n", res.Baseline.Headcount)
	fmt.Fprintf(w, "Simulated FTE over %d trials: P10 %.2f, P50 %.2f, P90 %.2f (mean %.2f, sd %.2f)\n",
		res.MonteCarlo.Iterations, st.P10, st.Median, st.P90, st.Mean, st.StdDev)
	if res.MonteCarlo.Anomalies > 0 {
		fmt.Fprintf(w, "Warning: %d non-finite samples were clamped\n", res.MonteCarlo.Anomalies)
	}

	if mvo.NoViableSolution {
		fmt.Fprintf(w, "MVO: none met %.0f%% confidence; largest tested headcount is %d\n\n", res.Settings.ConfidenceLevel, mvo.RecommendedHeadcount)
	} else {
		fmt.Fprintf(w, "MVO headcount: %d (strategy: %s)\n\n", mvo.RecommendedHeadcount, mvo.Strategy)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "HEADCOUNT\tAVG DAYS\tP90 DAYS\tMET %\tRISK %\tLEVEL\tAVG COST\tSTATUS")
	for _, r := range mvo.TestResults {
		status := "ok"
		switch {
		case r.Headcount == mvo.RecommendedHeadcount:
			status = "selected"
		case r.Rejected:
			status = "rejected: " + r.RejectionReason
		}
		fmt.Fprintf(tw, "%d\t%.1f\t%.1f\t%.1f\t%.1f\t%s\t%s\t%s\n",
			r.Headcount, r.AvgDuration, r.P90Duration, r.DeadlineMetProbability, r.FailureRisk, r.RiskLevel, r.AvgCost.StringFixed(2), status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s\n", mvo.Explanation)
	for _, s := range mvo.Suggestions {
		fmt.Fprintf(w, "  - %s\n", s)
	}
	return nil
}
