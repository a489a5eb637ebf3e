package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"

	"datascope/domain/analysis"
)

// Writer renders a profiling report to markdown and HTML. Section
// order is fixed so identical reports render identically.
type Writer struct{}

// NewWriter creates a report writer
func NewWriter() *Writer {
	return &Writer{}
}

// RenderMarkdown renders the full report as markdown.
func (w *Writer) RenderMarkdown(report analysis.Report) string {
	var b strings.Builder

	b.WriteString("# Dataset profile\n\n")
	b.WriteString(report.Insights.Narrative)
	b.WriteString("\n\n")

	if len(report.Insights.Bullets) > 0 {
		b.WriteString("## Findings\n\n")
		for _, bullet := range report.Insights.Bullets {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Columns\n\n")
	b.WriteString("| Column | Type | Missing % | Distinct |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, p := range report.Profiles {
		fmt.Fprintf(&b, "| %s | %s | %.0f | %d |\n", p.Name, p.Type, p.MissingPct, p.Distinct)
	}
	b.WriteString("\n")

	if hasNumeric(report.Profiles) {
		b.WriteString("## Numeric summaries\n\n")
		b.WriteString("| Column | n | Mean | Median | Min | Max | StdDev | Q1 | Q3 | IQR outliers | Z outliers |\n")
		b.WriteString("|---|---|---|---|---|---|---|---|---|---|---|\n")
		for _, p := range report.Profiles {
			if p.Numeric == nil {
				continue
			}
			n := p.Numeric
			fmt.Fprintf(&b, "| %s | %d | %.4g | %.4g | %.4g | %.4g | %.4g | %.4g | %.4g | %d | %d |\n",
				p.Name, n.N, n.Mean, n.Median, n.Min, n.Max, n.StdDev, n.Q1, n.Q3, n.OutliersIQR, n.OutliersZ)
		}
		b.WriteString("\n")
	}

	if len(report.Correlations) > 0 {
		b.WriteString("## Top correlations\n\n")
		for _, c := range report.Correlations {
			fmt.Fprintf(&b, "- %s vs %s: r=%.4f (%s)\n", c.A, c.B, c.R, c.Kind)
		}
		b.WriteString("\n")
	}

	if t := report.Trend; t != nil {
		b.WriteString("## Trend\n\n")
		fmt.Fprintf(&b, "%s over %s: %s (r²=%.3f, %d anomalies)\n", t.NumCol, t.DateCol, t.Dir, t.R2, t.Anomalies)
		if t.Changepoint != nil {
			fmt.Fprintf(&b, "\nChangepoint at observation %d (improvement %.2f)\n", t.Changepoint.AtIndex, t.Changepoint.Improvement)
		}
		b.WriteString("\n")
	}

	if report.Quality.DuplicateRows > 0 || report.Quality.Imbalance != nil {
		b.WriteString("## Quality\n\n")
		fmt.Fprintf(&b, "- Duplicate rows: %d\n", report.Quality.DuplicateRows)
		if im := report.Quality.Imbalance; im != nil {
			fmt.Fprintf(&b, "- Imbalance: %q is %.1f%% of %q\n", im.TopCategory, im.TopShare, im.Column)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHTML renders the markdown report to HTML.
func (w *Writer) RenderHTML(report analysis.Report) string {
	md := w.RenderMarkdown(report)
	return string(markdown.ToHTML([]byte(md), nil, nil))
}

func hasNumeric(profiles []analysis.ColumnProfile) bool {
	for _, p := range profiles {
		if p.Numeric != nil {
			return true
		}
	}
	return false
}
