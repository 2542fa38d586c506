package domain

import (
	"fmt"
	"time"
)

// DateLayout is the ISO date format used for observation dates
const DateLayout = "2006-01-02"

// AssetType distinguishes single stocks from exchange-traded funds
type AssetType string

const (
	AssetTypeStock AssetType = "Stock"
	AssetTypeETF   AssetType = "ETF"
)

// GapDirection is the direction of the overnight price gap
type GapDirection string

const (
	GapUp   GapDirection = "UP"
	GapDown GapDirection = "DOWN"
)

// DisplayMode selects which variant of the bps metrics is read.
// A single computed aggregate always reads one variant.
type DisplayMode int

const (
	// DisplayWinsorized reads the clipped (winsorized) metric variants
	DisplayWinsorized DisplayMode = iota
	// DisplayFullRange reads the raw metric variants
	DisplayFullRange
)

// String returns the string representation of the display mode
func (m DisplayMode) String() string {
	switch m {
	case DisplayWinsorized:
		return "winsorized"
	case DisplayFullRange:
		return "full_range"
	default:
		return "unknown"
	}
}

// ModeFor maps the winsorized toggle to a DisplayMode
func ModeFor(winsorized bool) DisplayMode {
	if winsorized {
		return DisplayWinsorized
	}
	return DisplayFullRange
}

// Observation is one symbol-date overnight session. Observations are never
// mutated once loaded; every analytic derives new values from them.
type Observation struct {
	Symbol    string    `json:"symbol" validate:"required"`
	Date      string    `json:"date" validate:"required,datetime=2006-01-02"`
	Company   string    `json:"company"`
	Sector    string    `json:"sector"`
	AssetType AssetType `json:"asset_type" validate:"oneof=Stock ETF"`

	// Market data
	Notional   float64  `json:"notional" validate:"gte=0"`
	Volume     int64    `json:"volume" validate:"gte=0"`
	Executions int64    `json:"executions" validate:"gte=0"`
	VWAP       *float64 `json:"vwap,omitempty" validate:"omitempty,gt=0"`
	PriorClose *float64 `json:"prior_close,omitempty" validate:"omitempty,gt=0"`
	NextOpen   *float64 `json:"next_open,omitempty" validate:"omitempty,gt=0"`
	NextClose  *float64 `json:"next_close,omitempty" validate:"omitempty,gt=0"`

	// Derived metrics in basis points, raw and winsorized side by side
	TimingDiff     float64 `json:"timing_diff"`
	TimingDiffW    float64 `json:"timing_diff_w"`
	RefGap         float64 `json:"ref_gap"`
	RefGapW        float64 `json:"ref_gap_w"`
	CapturedAlpha  float64 `json:"captured_alpha"`
	CapturedAlphaW float64 `json:"captured_alpha_w"`

	TotalGap       float64      `json:"total_gap"`
	GapDirection   GapDirection `json:"gap_direction" validate:"oneof=UP DOWN"`
	DirConsistency bool         `json:"dir_consistency"`
	IsOutlier      bool         `json:"is_outlier"`
	MarketCap      *float64     `json:"market_cap,omitempty"`
	LeverageMult   string       `json:"leverage_mult,omitempty"`
}

// TimingDiffFor returns the timing differential under the given mode
func (o Observation) TimingDiffFor(mode DisplayMode) float64 {
	if mode == DisplayWinsorized {
		return o.TimingDiffW
	}
	return o.TimingDiff
}

// RefGapFor returns the reference gap under the given mode
func (o Observation) RefGapFor(mode DisplayMode) float64 {
	if mode == DisplayWinsorized {
		return o.RefGapW
	}
	return o.RefGap
}

// CapturedAlphaFor returns the captured alpha under the given mode
func (o Observation) CapturedAlphaFor(mode DisplayMode) float64 {
	if mode == DisplayWinsorized {
		return o.CapturedAlphaW
	}
	return o.CapturedAlpha
}

// Day parses the observation date
func (o Observation) Day() (time.Time, error) {
	t, err := time.Parse(DateLayout, o.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q for %s: %w", o.Date, o.Symbol, err)
	}
	return t, nil
}

// BpsVs returns the move from VWAP to the given price in basis points.
// The second result is false when either price is absent.
func (o Observation) BpsVs(price *float64) (float64, bool) {
	if o.VWAP == nil || price == nil || *o.VWAP == 0 {
		return 0, false
	}
	return (*price - *o.VWAP) / *o.VWAP * 10000, true
}
