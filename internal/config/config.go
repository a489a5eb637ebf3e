package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"datascope/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig
	Analysis  AnalysisConfig
	Generator GeneratorConfig
}

// DataConfig holds dataset input settings
type DataConfig struct {
	FilePath string // xlsx or csv file to profile
	URL      string // remote JSON dataset, used when FilePath is empty
}

// AnalysisConfig holds tunable analysis settings
type AnalysisConfig struct {
	TopCorrelations int
	TopCategorical  int
	TopCatNumeric   int
	HistogramBins   int // 0 means automatic
}

// GeneratorConfig holds the external narrative generator settings.
// An empty Endpoint disables remote calls and selects the heuristic
// fallback.
type GeneratorConfig struct {
	Endpoint  string
	Model     string
	APIKey    string
	TimeoutMs int
}

// Load reads configuration from environment variables, consulting a
// .env file when present.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	config := &Config{
		Data: DataConfig{
			FilePath: os.Getenv("DATASCOPE_FILE"),
			URL:      os.Getenv("DATASCOPE_URL"),
		},
		Analysis: AnalysisConfig{
			TopCorrelations: getEnvInt("DATASCOPE_TOP_CORRELATIONS", 5),
			TopCategorical:  getEnvInt("DATASCOPE_TOP_CATEGORICAL", 2),
			TopCatNumeric:   getEnvInt("DATASCOPE_TOP_CAT_NUMERIC", 2),
			HistogramBins:   getEnvInt("DATASCOPE_HISTOGRAM_BINS", 0),
		},
		Generator: GeneratorConfig{
			Endpoint:  os.Getenv("GENERATOR_ENDPOINT"),
			Model:     getEnvString("GENERATOR_MODEL", "gpt-4o-mini"),
			APIKey:    os.Getenv("GENERATOR_API_KEY"),
			TimeoutMs: getEnvInt("GENERATOR_TIMEOUT_MS", 60000),
		},
	}

	if err := config.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Analysis.TopCorrelations < 1 {
		return errors.New(errors.CodeInternal, "DATASCOPE_TOP_CORRELATIONS must be >= 1")
	}
	if c.Analysis.TopCategorical < 1 {
		return errors.New(errors.CodeInternal, "DATASCOPE_TOP_CATEGORICAL must be >= 1")
	}
	if c.Analysis.TopCatNumeric < 1 {
		return errors.New(errors.CodeInternal, "DATASCOPE_TOP_CAT_NUMERIC must be >= 1")
	}
	if c.Generator.TimeoutMs < 1000 {
		return errors.New(errors.CodeInternal, "GENERATOR_TIMEOUT_MS must be >= 1000")
	}
	return nil
}

// getEnvString returns an environment variable or a default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable parsed as int or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
