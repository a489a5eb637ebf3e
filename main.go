package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"datascope/adapters/excel"
	"datascope/adapters/fetch"
	"datascope/adapters/report"
	"datascope/adapters/stats/assoc"
	"datascope/ai"
	"datascope/app"
	"datascope/domain/analysis"
	"datascope/domain/core"
	"datascope/domain/table"
	"datascope/internal"
	"datascope/internal/config"
)

// dataset pairs a raw source with the name it was loaded under.
type dataset struct {
	name string
	src  *table.Source
}

func main() {
	filePath := flag.String("file", "", "xlsx or csv dataset to profile (overrides DATASCOPE_FILE)")
	urls := flag.String("url", "", "remote JSON dataset URL(s), comma-separated (overrides DATASCOPE_URL)")
	format := flag.String("format", "markdown", "output format: markdown, html, json, payload, charts")
	narrate := flag.Bool("narrate", false, "send the payload to the narrative generator")
	flag.Parse()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration: %v", err)
		os.Exit(1)
	}
	if *filePath == "" {
		*filePath = cfg.Data.FilePath
	}
	if *urls == "" {
		*urls = cfg.Data.URL
	}

	datasets, err := loadDatasets(*filePath, *urls, cfg, logger)
	if err != nil {
		logger.Error("load dataset: %v", err)
		os.Exit(1)
	}

	service := app.NewInsightService(assoc.Config{
		TopCorrelations: cfg.Analysis.TopCorrelations,
		TopCategorical:  cfg.Analysis.TopCategorical,
		TopCatNumeric:   cfg.Analysis.TopCatNumeric,
	}, logger)

	for _, ds := range datasets {
		result, err := service.Analyze(*ds.src)
		if err != nil {
			logger.Error("analyze %s: %v", ds.name, err)
			os.Exit(1)
		}

		switch *format {
		case "markdown":
			fmt.Print(report.NewWriter().RenderMarkdown(*result))
		case "html":
			fmt.Print(report.NewWriter().RenderHTML(*result))
		case "json":
			id, _ := core.ParseDatasetID(ds.name)
			printJSON(app.NewRun(id, result), logger)
		case "payload":
			printJSON(ai.BuildPayload(*result), logger)
		case "charts":
			printJSON(service.Charts(*ds.src, cfg.Analysis.HistogramBins), logger)
		default:
			logger.Error("unknown format %q", *format)
			os.Exit(1)
		}

		if *narrate {
			printJSON(narrativeFor(result, cfg, logger), logger)
		}
	}
}

// loadDatasets reads the local file, or fetches every URL concurrently.
func loadDatasets(filePath, urls string, cfg *config.Config, logger *internal.Logger) ([]dataset, error) {
	if filePath != "" {
		logger.Info("reading %s", filePath)
		src, err := excel.NewDataReader(filePath).ReadSource()
		if err != nil {
			return nil, err
		}
		return []dataset{{name: filePath, src: src}}, nil
	}

	urlList := splitURLs(urls)
	if len(urlList) == 0 {
		return nil, fmt.Errorf("no dataset given: pass -file or -url")
	}

	logger.Info("fetching %d dataset(s)", len(urlList))
	client := fetch.NewClient(time.Duration(cfg.Generator.TimeoutMs) * time.Millisecond)
	sources, err := client.FetchAll(context.Background(), urlList)
	if err != nil {
		return nil, err
	}

	datasets := make([]dataset, len(sources))
	for i, src := range sources {
		datasets[i] = dataset{name: urlList[i], src: src}
	}
	return datasets, nil
}

func splitURLs(urls string) []string {
	out := make([]string, 0)
	for _, u := range strings.Split(urls, ",") {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func narrativeFor(result *analysis.Report, cfg *config.Config, logger *internal.Logger) *ai.NarrativeResult {
	payload := ai.BuildPayload(*result)
	client := ai.NewNarrativeClient(cfg.Generator)

	if client.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Generator.TimeoutMs)*time.Millisecond)
		defer cancel()
		narrative, err := client.GetNarrative(ctx, payload)
		if err == nil {
			return narrative
		}
		logger.Warn("narrative generator: %v; using heuristic fallback", err)
	}
	return ai.HeuristicNarrative(payload, result.Insights.Bullets, result.Insights.Narrative)
}

func printJSON(v any, logger *internal.Logger) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Error("encode output: %v", err)
		os.Exit(1)
	}
}
