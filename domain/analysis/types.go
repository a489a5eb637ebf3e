package analysis

// ColumnType is the inferred type of a column.
type ColumnType string

const (
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeString  ColumnType = "string"
	TypeUnknown ColumnType = "unknown"
)

// NumericSummary holds descriptive statistics over the finite numeric
// values of a column. StdDev uses the sample (n-1) formula and is 0
// when n <= 1. A numeric column where no values parse reports an
// all-zero summary rather than nil.
type NumericSummary struct {
	N           int     `json:"n"`
	Mean        float64 `json:"mean"`
	Median      float64 `json:"median"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	StdDev      float64 `json:"stdev"`
	Q1          float64 `json:"q1"`
	Q3          float64 `json:"q3"`
	IQR         float64 `json:"iqr"`
	OutliersIQR int     `json:"outliers_iqr"`
	OutliersZ   int     `json:"outliers_z"`
}

// ColumnProfile is an immutable snapshot of one column. Numeric is
// present iff Type == TypeNumber.
type ColumnProfile struct {
	Name       string          `json:"name"`
	Type       ColumnType      `json:"type"`
	MissingPct float64         `json:"missing_pct"`
	Distinct   int             `json:"distinct"`
	Numeric    *NumericSummary `json:"numeric,omitempty"`
}

// CorrelationKind distinguishes the two numeric association measures.
type CorrelationKind string

const (
	KindPearson  CorrelationKind = "pearson"
	KindSpearman CorrelationKind = "spearman"
)

// Correlation records a numeric-numeric association.
type Correlation struct {
	A    string          `json:"a"`
	B    string          `json:"b"`
	R    float64         `json:"r"`
	Kind CorrelationKind `json:"kind"`
}

// CategoricalAssociation records a categorical-categorical association
// (Cramér's V in [0,1]). PValue is the chi-square p-value computed at
// full precision; thresholds do not use it.
type CategoricalAssociation struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	V      float64 `json:"v"`
	PValue float64 `json:"p_value"`
}

// CatNumericAssociation records how much numeric variance a categorical
// grouping explains (eta squared in [0,1]).
type CatNumericAssociation struct {
	Cat  string  `json:"cat"`
	Num  string  `json:"num"`
	Eta2 float64 `json:"eta2"`
}

// Changepoint marks the single best two-segment split of the temporal
// series. Improvement is the proportion of variance explained by the
// split, rounded to 2 decimals.
type Changepoint struct {
	AtIndex     int     `json:"at_index"`
	Improvement float64 `json:"improvement"`
}

// TrendDirection classifies the trend slope.
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// TrendResult describes the linear trend of the first numeric column
// over the first date column, regressed against observation rank.
type TrendResult struct {
	DateCol     string         `json:"date_col"`
	NumCol      string         `json:"num_col"`
	Slope       float64        `json:"slope"`
	R2          float64        `json:"r2"`
	Dir         TrendDirection `json:"dir"`
	Changepoint *Changepoint   `json:"changepoint,omitempty"`
	Anomalies   int            `json:"anomalies"`
}

// WeekdaySeasonality reports the weekday bucket with the highest
// average value. Weekday 0 is Sunday.
type WeekdaySeasonality struct {
	BestWeekday int     `json:"best_weekday"`
	Avg         float64 `json:"avg"`
}

// MonthlySeasonality reports peak and trough calendar-month buckets
// (0 = January). Strong is set when the peak-trough spread is at least
// 30% of the mean of the monthly averages.
type MonthlySeasonality struct {
	PeakMonth   int     `json:"peak_month"`
	TroughMonth int     `json:"trough_month"`
	PeakAvg     float64 `json:"peak_avg"`
	TroughAvg   float64 `json:"trough_avg"`
	Strong      bool    `json:"strong"`
}

// Seasonality bundles the weekday and monthly views of the same
// (date, value) pairs used by the trend.
type Seasonality struct {
	Weekday *WeekdaySeasonality `json:"weekday,omitempty"`
	Monthly *MonthlySeasonality `json:"monthly,omitempty"`
}

// Imbalance reports the dominant value of the first string column.
// TopShare is a percentage of total rows with 1 decimal.
type Imbalance struct {
	Column      string  `json:"column"`
	TopCategory string  `json:"top_category"`
	TopShare    float64 `json:"top_share"`
}

// QualityReport holds dataset-level quality checks.
type QualityReport struct {
	DuplicateRows int        `json:"duplicate_rows"`
	Imbalance     *Imbalance `json:"imbalance,omitempty"`
}

// Insights is the deterministic output of the synthesizer.
type Insights struct {
	Bullets   []string `json:"bullets"`
	Narrative string   `json:"narrative"`
}

// Report is the full result of one profiling run over a table.
type Report struct {
	RowCount     int                      `json:"row_count"`
	Profiles     []ColumnProfile          `json:"profiles"`
	Correlations []Correlation            `json:"correlations"`
	Categorical  []CategoricalAssociation `json:"categorical"`
	CatNumeric   []CatNumericAssociation  `json:"cat_numeric"`
	Trend        *TrendResult             `json:"trend,omitempty"`
	Seasonality  *Seasonality             `json:"seasonality,omitempty"`
	Quality      QualityReport            `json:"quality"`
	Insights     Insights                 `json:"insights"`
}
