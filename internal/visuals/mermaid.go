package visuals

import (
	"fmt"
	"math"
	"strings"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/scenario"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/simulation"
)

// GenerateFTEHistogram creates a Mermaid bar chart of the simulated FTE distribution.
func GenerateFTEHistogram(hist simulation.Histogram) string {
	if len(hist) == 0 {
		return ""
	}

	var labels []string
	var values []string
	maxVal := 0

	for _, b := range hist {
		labels = append(labels, fmt.Sprintf("\"%.1f\"", b.Midpoint))
		values = append(values, fmt.Sprintf("%d", b.Count))
		if b.Count > maxVal {
			maxVal = b.Count
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Required FTE (Monte Carlo Distribution)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis \"FTE\" [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Trials\" 0 --> %d\n", maxVal+int(math.Max(1, float64(maxVal)*0.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateFTEPercentiles creates a Mermaid bar chart of the FTE percentile ladder.
func GenerateFTEPercentiles(s simulation.Statistics) string {
	if s.Max == 0 {
		return ""
	}

	labels := []string{
		"\"Min\"",
		"\"P10\"",
		"\"P25\"",
		"\"P50\"",
		"\"P75\"",
		"\"P90\"",
		"\"Max\"",
	}

	values := []string{
		fmt.Sprintf("%.2f", s.Min),
		fmt.Sprintf("%.2f", s.P10),
		fmt.Sprintf("%.2f", s.P25),
		fmt.Sprintf("%.2f", s.Median),
		fmt.Sprintf("%.2f", s.P75),
		fmt.Sprintf("%.2f", s.P90),
		fmt.Sprintf("%.2f", s.Max),
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Required FTE (Percentiles)\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"FTE\" 0 --> %d\n", int(math.Ceil(s.Max*1.1))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateRiskCurve creates a Mermaid line chart of failure risk by headcount, with
// the acceptable risk drawn as a flat second line.
func GenerateRiskCurve(rows []scenario.HeadcountTestResult, acceptableRisk float64) string {
	if len(rows) == 0 {
		return ""
	}

	var labels []string
	var risks []string
	var limits []string

	limit := fmt.Sprintf("%.1f", acceptableRisk)

	// Mermaid xychart starts overlapping labels around 60 points
	subsampleRate := 1
	if len(rows) > 60 {
		subsampleRate = int(math.Ceil(float64(len(rows)) / 60.0))
	}

	for i, r := range rows {
		if i%subsampleRate == 0 || i == len(rows)-1 {
			labels = append(labels, fmt.Sprintf("\"%d\"", r.Headcount))
			risks = append(risks, fmt.Sprintf("%.1f", r.FailureRisk))
			limits = append(limits, limit)
		}
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Failure Risk by Headcount\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis \"Headcount\" [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Failure Risk (%)\" 0 --> 100\n")
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(risks, ", ")))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(limits, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// GenerateMixPie creates a Mermaid pie chart of the work-type mix.
func GenerateMixPie(routine, knowledge, operational, project float64) string {
	if routine+knowledge+operational+project == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("pie title Work Mix\n")
	for _, part := range []struct {
		label string
		share float64
	}{
		{"Routine", routine},
		{"Knowledge", knowledge},
		{"Operational", operational},
		{"Project", project},
	} {
		if part.share > 0 {
			sb.WriteString(fmt.Sprintf("    \"%s\" : %.0f\n", part.label, part.share*100))
		}
	}
	sb.WriteString("```")
	return sb.String()
}
