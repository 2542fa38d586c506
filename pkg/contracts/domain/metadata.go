package domain

// Metadata describes the loaded dataset as produced by the upstream pipeline.
// Dates is the full trading calendar from the lookup table; days absent
// from DailySummary are still part of it.
type Metadata struct {
	DateRange    []string                `json:"dateRange"`
	TradingDays  int                     `json:"tradingDays"`
	Generated    string                  `json:"generated"`
	Dates        []string                `json:"dates,omitempty"`
	Winsor       WinsorBounds            `json:"winsor"`
	DailySummary map[string]DailySummary `json:"dailySummary,omitempty"`
	DateGaps     []DateGap               `json:"dateGaps,omitempty"`
}

// WinsorBounds holds the [lower, upper] cutoffs in bps used upstream
// when the winsorized variants were produced. A missing pair is nil.
type WinsorBounds struct {
	CapturedAlpha []float64 `json:"ca,omitempty"`
	TimingDiff    []float64 `json:"td,omitempty"`
	RefGap        []float64 `json:"rg,omitempty"`
}

// DailySummary holds per-date statistics precomputed upstream
type DailySummary struct {
	AvgCapturedAlpha float64 `json:"avgCa"`
	StdTimingDiff    float64 `json:"stdTd"`
}

// DateGap marks a break in the trading calendar (holiday, closure)
type DateGap struct {
	From  string `json:"from"`
	Label string `json:"label"`
}
