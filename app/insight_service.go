package app

import (
	"datascope/adapters/charts"
	"datascope/adapters/coercer"
	"datascope/adapters/profiler"
	"datascope/adapters/quality"
	"datascope/adapters/stats/assoc"
	"datascope/adapters/stats/temporal"
	"datascope/adapters/synthesizer"
	"datascope/domain/analysis"
	"datascope/domain/core"
	"datascope/domain/table"
	"datascope/internal"
	"datascope/internal/errors"
)

// InsightService runs the full profiling pipeline over one raw dataset:
// coerce once, then profile, associate, analyze the timeline, check
// quality, and synthesize insights. The service holds no dataset state;
// running it twice on the same input yields identical output.
type InsightService struct {
	coercer     *coercer.Coercer
	profiler    *profiler.Profiler
	assoc       *assoc.Engine
	temporal    *temporal.Analyzer
	quality     *quality.Checker
	synthesizer *synthesizer.Synthesizer
	logger      *internal.Logger
}

// NewInsightService wires the pipeline with the given association
// limits.
func NewInsightService(assocConfig assoc.Config, logger *internal.Logger) *InsightService {
	return &InsightService{
		coercer:     coercer.New(),
		profiler:    profiler.New(),
		assoc:       assoc.NewEngine(assocConfig),
		temporal:    temporal.NewAnalyzer(temporal.DefaultConfig()),
		quality:     quality.New(),
		synthesizer: synthesizer.New(synthesizer.DefaultConfig()),
		logger:      logger,
	}
}

// Analyze profiles a raw source end to end. Statistically undefined
// results are absent, not errors; only malformed input fails.
func (s *InsightService) Analyze(src table.Source) (*analysis.Report, error) {
	if len(src.Rows) == 0 {
		return nil, errors.New(errors.CodeEmptyDataset, "dataset has no rows")
	}
	if len(src.Columns) == 0 {
		return nil, errors.New(errors.CodeMalformedInput, "dataset has no columns")
	}

	tbl := s.coercer.CoerceTable(src)
	types := s.coercer.InferTypes(tbl)
	s.logger.Debug("coerced %d rows x %d columns", tbl.RowCount(), len(tbl.Columns))

	report := &analysis.Report{
		RowCount:     tbl.RowCount(),
		Profiles:     s.profiler.ProfileTable(tbl, types),
		Correlations: s.assoc.TopCorrelations(tbl, types),
		Categorical:  s.assoc.TopCategorical(tbl, types),
		CatNumeric:   s.assoc.TopCatNumeric(tbl, types),
		Quality:      s.quality.Check(tbl, types),
	}
	report.Trend, report.Seasonality = s.temporal.Analyze(tbl, types)

	report.Insights = s.synthesizer.Synthesize(synthesizer.Input{
		Profiles:     report.Profiles,
		Correlations: report.Correlations,
		Categorical:  report.Categorical,
		CatNumeric:   report.CatNumeric,
		Trend:        report.Trend,
		Seasonality:  report.Seasonality,
		Quality:      report.Quality,
	})

	s.logger.Info("profiled %d columns, %d findings", len(report.Profiles), len(report.Insights.Bullets))
	return report, nil
}

// Run stamps one analysis result with an identifier, the dataset it
// came from, and the generation time. The report itself stays pure;
// the stamp only exists on the output envelope.
type Run struct {
	ID          core.ReportID    `json:"id"`
	Dataset     core.DatasetID   `json:"dataset"`
	GeneratedAt core.Timestamp   `json:"generated_at"`
	Report      *analysis.Report `json:"report"`
}

// NewRun wraps a report in a stamped envelope.
func NewRun(dataset core.DatasetID, report *analysis.Report) Run {
	return Run{
		ID:          core.NewReportID(),
		Dataset:     dataset,
		GeneratedAt: core.Now(),
		Report:      report,
	}
}

// Charts builds plotting-ready aggregates for the same raw source,
// using the same coercion and inference as Analyze.
func (s *InsightService) Charts(src table.Source, histogramBins int) *charts.Bundle {
	tbl := s.coercer.CoerceTable(src)
	types := s.coercer.InferTypes(tbl)
	return charts.NewBuilder(histogramBins).BuildAll(tbl, types)
}
