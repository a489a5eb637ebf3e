package ai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datascope/domain/analysis"
)

func TestBuildPayload_RoundsAtBoundary(t *testing.T) {
	report := analysis.Report{
		RowCount: 10,
		Profiles: []analysis.ColumnProfile{
			{Name: "score", Type: analysis.TypeNumber, Numeric: &analysis.NumericSummary{
				N: 10, Mean: 1.0 / 3.0, StdDev: 2.0 / 3.0,
			}},
		},
		Correlations: []analysis.Correlation{
			{A: "a", B: "b", R: 0.123456789, Kind: analysis.KindPearson},
		},
	}

	payload := BuildPayload(report)

	require.NotNil(t, payload.Columns[0].Numeric)
	assert.Equal(t, 0.3333, payload.Columns[0].Numeric.Mean)
	assert.Equal(t, 0.6667, payload.Columns[0].Numeric.StdDev)
	assert.Equal(t, 0.1235, payload.TopCorrelations[0].R)
}

func TestBuildPayload_NeverCarriesRows(t *testing.T) {
	report := analysis.Report{
		RowCount: 3,
		Profiles: []analysis.ColumnProfile{
			{Name: "secret_value", Type: analysis.TypeString, Distinct: 3},
		},
	}

	raw, err := json.Marshal(BuildPayload(report))
	require.NoError(t, err)

	// Column names travel, cell contents never do.
	assert.Contains(t, string(raw), "secret_value")
	assert.NotContains(t, string(raw), "rows\":[")
}

func TestBuildPayload_OptionalSections(t *testing.T) {
	payload := BuildPayload(analysis.Report{RowCount: 1})

	assert.Nil(t, payload.Trend)
	assert.Nil(t, payload.Seasonality)
	assert.Nil(t, payload.Imbalance)
	assert.Empty(t, payload.TopCorrelations)
}

func TestBuildPayload_TrendAndQuality(t *testing.T) {
	report := analysis.Report{
		Trend: &analysis.TrendResult{
			DateCol: "day", NumCol: "v", Dir: analysis.TrendDown, R2: 0.5, Anomalies: 2,
			Changepoint: &analysis.Changepoint{AtIndex: 4, Improvement: 0.61},
		},
		Quality: analysis.QualityReport{
			DuplicateRows: 3,
			Imbalance:     &analysis.Imbalance{Column: "cat", TopCategory: "x", TopShare: 80.0},
		},
	}

	payload := BuildPayload(report)

	require.NotNil(t, payload.Trend)
	assert.Equal(t, "down", payload.Trend.Dir)
	assert.Equal(t, 4, payload.Trend.Changepoint.AtIndex)
	assert.Equal(t, 3, payload.DuplicateRows)
	require.NotNil(t, payload.Imbalance)
	assert.Equal(t, 80.0, payload.Imbalance.TopShare)
}

func TestHeuristicNarrative(t *testing.T) {
	payload := Payload{
		Columns: []ColumnSummary{
			{Name: "sparse", MissingPct: 40},
			{Name: "dense", MissingPct: 2},
		},
		DuplicateRows: 5,
		Imbalance:     &ImbalanceSummary{Column: "cat", TopCategory: "x", TopShare: 90.0},
		TopCorrelations: []CorrelationSummary{
			{A: "a", B: "b", R: -0.8},
			{A: "a", B: "c", R: 0.1},
		},
		Trend: &TrendSummary{DateCol: "day", NumCol: "v", Dir: "up"},
	}

	result := HeuristicNarrative(payload, []string{"one", "two"}, "")

	require.Len(t, result.Risks, 2)
	assert.Contains(t, result.Risks[0], "sparse")
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, []string{"scatter:a:b", "line:day:v"}, result.NextCharts)
	assert.Equal(t, "one two", result.Narrative)
}

func TestHeuristicNarrative_QuietPayload(t *testing.T) {
	result := HeuristicNarrative(Payload{}, nil, "all quiet")

	assert.Equal(t, "all quiet", result.Narrative)
	assert.Empty(t, result.Risks)
	assert.Empty(t, result.Recommendations)
	assert.Empty(t, result.NextCharts)
}

func TestHeuristicNarrative_Deterministic(t *testing.T) {
	payload := Payload{Columns: []ColumnSummary{{Name: "a", MissingPct: 30}}}

	first := HeuristicNarrative(payload, []string{"x"}, "n")
	second := HeuristicNarrative(payload, []string{"x"}, "n")
	if strings.Join(first.Risks, "|") != strings.Join(second.Risks, "|") {
		t.Error("heuristic output must be deterministic")
	}
}
