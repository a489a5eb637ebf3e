package synthesizer

import (
	"fmt"
	"math"
	"time"

	"datascope/domain/analysis"
)

// Config defines the synthesis thresholds
type Config struct {
	MissingPctFlag  float64 // flag columns at or above this missingness
	CorrelationFlag float64 // flag |r| at or above this
	CorrelationTop  int
	CramerFlag      float64
	CramerTop       int
	EtaFlag         float64
	EtaTop          int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MissingPctFlag:  10,
		CorrelationFlag: 0.7,
		CorrelationTop:  3,
		CramerFlag:      0.6,
		CramerTop:       2,
		EtaFlag:         0.25,
		EtaTop:          2,
	}
}

// Synthesizer maps analysis outputs to a deterministic bullet list and
// a one-line narrative. Absent inputs simply skip their bullets.
type Synthesizer struct {
	config Config
}

// New creates a synthesizer with config
func New(config Config) *Synthesizer {
	return &Synthesizer{config: config}
}

// Input bundles everything the rule set consumes.
type Input struct {
	Profiles     []analysis.ColumnProfile
	Correlations []analysis.Correlation
	Categorical  []analysis.CategoricalAssociation
	CatNumeric   []analysis.CatNumericAssociation
	Trend        *analysis.TrendResult
	Seasonality  *analysis.Seasonality
	Quality      analysis.QualityReport
}

// Synthesize applies the fixed rule set and deduplicates bullets
// preserving first-seen order.
func (s *Synthesizer) Synthesize(in Input) analysis.Insights {
	bullets := make([]string, 0)

	missingCols := 0
	outlierCols := 0
	for _, p := range in.Profiles {
		if p.MissingPct >= s.config.MissingPctFlag {
			missingCols++
			bullets = append(bullets, fmt.Sprintf(
				"Column %q is missing %.0f%% of its values", p.Name, p.MissingPct))
		}
		if p.Numeric != nil && (p.Numeric.OutliersIQR > 0 || p.Numeric.OutliersZ > 0) {
			outlierCols++
			bullets = append(bullets, fmt.Sprintf(
				"Column %q has %d IQR outliers and %d z-score outliers",
				p.Name, p.Numeric.OutliersIQR, p.Numeric.OutliersZ))
		}
	}

	flagged := 0
	for _, c := range in.Correlations {
		if flagged >= s.config.CorrelationTop {
			break
		}
		if math.Abs(c.R) >= s.config.CorrelationFlag {
			flagged++
			bullets = append(bullets, fmt.Sprintf(
				"Strong %s correlation between %q and %q (r=%.2f)", c.Kind, c.A, c.B, c.R))
		}
	}

	if t := in.Trend; t != nil && t.Dir != analysis.TrendFlat {
		bullets = append(bullets, fmt.Sprintf(
			"%q trends %s over %q (r²=%.3f)", t.NumCol, t.Dir, t.DateCol, t.R2))
		if t.Changepoint != nil {
			bullets = append(bullets, fmt.Sprintf(
				"Shift in %q around observation %d explains %.0f%% of its variance",
				t.NumCol, t.Changepoint.AtIndex, t.Changepoint.Improvement*100))
		}
		if t.Anomalies > 0 {
			bullets = append(bullets, fmt.Sprintf(
				"%d anomalous points in %q exceed 3 standard deviations", t.Anomalies, t.NumCol))
		}
	}

	if in.Quality.DuplicateRows > 0 {
		bullets = append(bullets, fmt.Sprintf(
			"%d duplicate rows detected", in.Quality.DuplicateRows))
	}
	if im := in.Quality.Imbalance; im != nil {
		bullets = append(bullets, fmt.Sprintf(
			"Category %q dominates column %q at %.1f%% of rows",
			im.TopCategory, im.Column, im.TopShare))
	}

	if in.Seasonality != nil {
		if w := in.Seasonality.Weekday; w != nil {
			bullets = append(bullets, fmt.Sprintf(
				"Values peak on %s (avg %.2f)", time.Weekday(w.BestWeekday), w.Avg))
		}
		if m := in.Seasonality.Monthly; m != nil && m.Strong {
			bullets = append(bullets, fmt.Sprintf(
				"Strong monthly seasonality: peak in %s, trough in %s",
				time.Month(m.PeakMonth+1), time.Month(m.TroughMonth+1)))
		}
	}

	flagged = 0
	for _, c := range in.Categorical {
		if flagged >= s.config.CramerTop {
			break
		}
		if c.V >= s.config.CramerFlag {
			flagged++
			bullets = append(bullets, fmt.Sprintf(
				"Association between %q and %q (Cramér's V=%.2f)", c.A, c.B, c.V))
		}
	}

	flagged = 0
	for _, c := range in.CatNumeric {
		if flagged >= s.config.EtaTop {
			break
		}
		if c.Eta2 >= s.config.EtaFlag {
			flagged++
			bullets = append(bullets, fmt.Sprintf(
				"%q explains %.0f%% of the variance in %q", c.Cat, c.Eta2*100, c.Num))
		}
	}

	bullets = dedupe(bullets)

	return analysis.Insights{
		Bullets:   bullets,
		Narrative: s.narrative(len(in.Profiles), missingCols, outlierCols, len(bullets)),
	}
}

func (s *Synthesizer) narrative(columns, missingCols, outlierCols, bulletCount int) string {
	if bulletCount == 0 {
		return fmt.Sprintf("Profiled %d columns; nothing notable stood out.", columns)
	}
	return fmt.Sprintf(
		"Profiled %d columns: %d with notable missingness, %d with outliers; %d findings flagged.",
		columns, missingCols, outlierCols, bulletCount)
}

// dedupe removes repeated bullets, keeping first-seen order.
func dedupe(bullets []string) []string {
	seen := make(map[string]struct{}, len(bullets))
	out := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}
