package ai

import (
	"fmt"
	"strings"
)

// HeuristicNarrative produces a generator-shaped result from the
// payload alone, used when no remote endpoint is configured. Fully
// deterministic.
func HeuristicNarrative(payload Payload, bullets []string, narrative string) *NarrativeResult {
	result := &NarrativeResult{
		Narrative:       narrative,
		Recommendations: []string{},
		Risks:           []string{},
		NextCharts:      []string{},
	}

	for _, col := range payload.Columns {
		if col.MissingPct >= 25 {
			result.Risks = append(result.Risks, fmt.Sprintf(
				"column %q is sparse (%.0f%% missing); conclusions drawn from it are fragile", col.Name, col.MissingPct))
		}
	}
	if payload.DuplicateRows > 0 {
		result.Recommendations = append(result.Recommendations, fmt.Sprintf(
			"deduplicate the %d repeated rows before modeling", payload.DuplicateRows))
	}
	if payload.Imbalance != nil && payload.Imbalance.TopShare >= 70 {
		result.Risks = append(result.Risks, fmt.Sprintf(
			"category %q holds %.1f%% of %q; stratify before comparing groups",
			payload.Imbalance.TopCategory, payload.Imbalance.TopShare, payload.Imbalance.Column))
	}

	for _, c := range payload.TopCorrelations {
		if abs(c.R) >= 0.7 {
			result.NextCharts = append(result.NextCharts,
				fmt.Sprintf("scatter:%s:%s", c.A, c.B))
		}
	}
	if payload.Trend != nil && payload.Trend.Dir != "flat" {
		result.NextCharts = append(result.NextCharts,
			fmt.Sprintf("line:%s:%s", payload.Trend.DateCol, payload.Trend.NumCol))
	}

	if len(bullets) > 0 && result.Narrative == "" {
		result.Narrative = strings.Join(bullets, " ")
	}
	return result
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
