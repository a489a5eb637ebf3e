package ai

import (
	"math"

	"datascope/domain/analysis"
)

// Payload is the compact, JSON-serializable summary sent to the
// external narrative generator. It never includes raw row data.
// Rounding to 4 decimals happens here, at the serialization boundary,
// never inside the statistics themselves.
type Payload struct {
	RowCount        int                  `json:"row_count"`
	Columns         []ColumnSummary      `json:"columns"`
	TopCorrelations []CorrelationSummary `json:"top_correlations"`
	Trend           *TrendSummary        `json:"trend"`
	Seasonality     *SeasonalitySummary  `json:"seasonality"`
	DuplicateRows   int                  `json:"duplicate_rows"`
	Imbalance       *ImbalanceSummary    `json:"imbalance"`
	TopCategorical  []CategoricalSummary `json:"top_categorical"`
}

// ColumnSummary mirrors ColumnProfile with display rounding applied.
type ColumnSummary struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	MissingPct float64         `json:"missing_pct"`
	Distinct   int             `json:"distinct"`
	Numeric    *NumericSummary `json:"numeric,omitempty"`
}

// NumericSummary is the rounded numeric profile of one column.
type NumericSummary struct {
	N           int     `json:"n"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	StdDev      float64 `json:"stdev"`
	Q1          float64 `json:"q1"`
	Q3          float64 `json:"q3"`
	OutliersIQR int     `json:"outliers_iqr"`
	OutliersZ   int     `json:"outliers_z"`
}

// CorrelationSummary is one ranked numeric association.
type CorrelationSummary struct {
	A    string  `json:"a"`
	B    string  `json:"b"`
	R    float64 `json:"r"`
	Kind string  `json:"kind"`
}

// TrendSummary is the temporal result without its raw points.
type TrendSummary struct {
	DateCol     string                `json:"date_col"`
	NumCol      string                `json:"num_col"`
	R2          float64               `json:"r2"`
	Dir         string                `json:"dir"`
	Anomalies   int                   `json:"anomalies"`
	Changepoint *analysis.Changepoint `json:"changepoint"`
}

// SeasonalitySummary carries the weekday/month sub-objects, either of
// which may be null.
type SeasonalitySummary struct {
	Weekday *analysis.WeekdaySeasonality `json:"weekday"`
	Monthly *analysis.MonthlySeasonality `json:"monthly"`
}

// ImbalanceSummary mirrors the quality imbalance result.
type ImbalanceSummary struct {
	Column      string  `json:"column"`
	TopCategory string  `json:"top_category"`
	TopShare    float64 `json:"top_share"`
}

// CategoricalSummary is one ranked categorical association.
type CategoricalSummary struct {
	A string  `json:"a"`
	B string  `json:"b"`
	V float64 `json:"v"`
}

// BuildPayload flattens a report into the generator payload.
func BuildPayload(report analysis.Report) Payload {
	payload := Payload{
		RowCount:        report.RowCount,
		Columns:         make([]ColumnSummary, len(report.Profiles)),
		TopCorrelations: make([]CorrelationSummary, len(report.Correlations)),
		TopCategorical:  make([]CategoricalSummary, len(report.Categorical)),
		DuplicateRows:   report.Quality.DuplicateRows,
	}

	for i, p := range report.Profiles {
		col := ColumnSummary{
			Name:       p.Name,
			Type:       string(p.Type),
			MissingPct: p.MissingPct,
			Distinct:   p.Distinct,
		}
		if p.Numeric != nil {
			col.Numeric = &NumericSummary{
				N:           p.Numeric.N,
				Mean:        round4(p.Numeric.Mean),
				Median:      round4(p.Numeric.Median),
				Min:         round4(p.Numeric.Min),
				Max:         round4(p.Numeric.Max),
				StdDev:      round4(p.Numeric.StdDev),
				Q1:          round4(p.Numeric.Q1),
				Q3:          round4(p.Numeric.Q3),
				OutliersIQR: p.Numeric.OutliersIQR,
				OutliersZ:   p.Numeric.OutliersZ,
			}
		}
		payload.Columns[i] = col
	}

	for i, c := range report.Correlations {
		payload.TopCorrelations[i] = CorrelationSummary{
			A: c.A, B: c.B, R: round4(c.R), Kind: string(c.Kind),
		}
	}

	if t := report.Trend; t != nil {
		payload.Trend = &TrendSummary{
			DateCol:     t.DateCol,
			NumCol:      t.NumCol,
			R2:          t.R2,
			Dir:         string(t.Dir),
			Anomalies:   t.Anomalies,
			Changepoint: t.Changepoint,
		}
	}

	if s := report.Seasonality; s != nil {
		payload.Seasonality = &SeasonalitySummary{Weekday: s.Weekday, Monthly: s.Monthly}
	}

	if im := report.Quality.Imbalance; im != nil {
		payload.Imbalance = &ImbalanceSummary{
			Column:      im.Column,
			TopCategory: im.TopCategory,
			TopShare:    im.TopShare,
		}
	}

	for i, c := range report.Categorical {
		payload.TopCategorical[i] = CategoricalSummary{A: c.A, B: c.B, V: round4(c.V)}
	}

	return payload
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
