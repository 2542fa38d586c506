package aggregate

import (
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/stats"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

// GroupAggregate summarizes the observations sharing one key
type GroupAggregate struct {
	Key              string  `json:"key"`
	Count            int     `json:"obs"`
	AvgCapturedAlpha float64 `json:"avg_captured_alpha"`
	MedianCA         float64 `json:"median_ca"`
	StdCA            float64 `json:"std_ca"`
	MinCA            float64 `json:"min_ca"`
	AvgRefGap        float64 `json:"avg_rg"`
	AvgNotional      float64 `json:"avg_notional"`
	TotalNotional    float64 `json:"total_notional"`
	ConsistencyPct   float64 `json:"consistency"`
	UpRatePct        float64 `json:"up_rate"`
}

// Summarize computes the aggregate of members under mode
func Summarize(key string, members []domain.Observation, mode domain.DisplayMode) GroupAggregate {
	n := len(members)
	agg := GroupAggregate{Key: key, Count: n}
	if n == 0 {
		return agg
	}

	ca := make([]float64, n)
	rg := make([]float64, n)
	notional := make([]float64, n)
	consistent, up := 0, 0
	for i, o := range members {
		ca[i] = o.CapturedAlphaFor(mode)
		rg[i] = o.RefGapFor(mode)
		notional[i] = o.Notional
		if o.DirConsistency {
			consistent++
		}
		if o.GapDirection == domain.GapUp {
			up++
		}
	}

	agg.AvgCapturedAlpha = stats.Mean(ca)
	agg.MedianCA = stats.Median(ca)
	agg.StdCA = stats.StdDev(ca)
	agg.MinCA = stats.Min(ca)
	agg.AvgRefGap = stats.Mean(rg)
	agg.AvgNotional = stats.Mean(notional)
	agg.TotalNotional = stats.Sum(notional)
	agg.ConsistencyPct = float64(consistent) / float64(n) * 100
	agg.UpRatePct = float64(up) / float64(n) * 100
	return agg
}

// SymbolAggregate is a GroupAggregate keyed by symbol, carrying the
// descriptive fields of the symbol's first observation
type SymbolAggregate struct {
	GroupAggregate
	Symbol    string           `json:"symbol"`
	Company   string           `json:"company"`
	AssetType domain.AssetType `json:"asset_type"`
	Sector    string           `json:"sector"`
	Dates     []string         `json:"dates"`
}

// Symbols aggregates data per symbol in first-seen order
func Symbols(data []domain.Observation, mode domain.DisplayMode) []SymbolAggregate {
	groups := GroupBy(data, BySymbol)
	out := make([]SymbolAggregate, 0, groups.Len())
	for _, symbol := range groups.Keys {
		members := groups.Members[symbol]
		first := members[0]

		dates := make([]string, len(members))
		for i, o := range members {
			dates[i] = o.Date
		}

		out = append(out, SymbolAggregate{
			GroupAggregate: Summarize(symbol, members, mode),
			Symbol:         symbol,
			Company:        first.Company,
			AssetType:      first.AssetType,
			Sector:         first.Sector,
			Dates:          dates,
		})
	}
	return out
}

// Counted is implemented by any aggregate with a member count
type Counted interface {
	ObsCount() int
}

// ObsCount returns the number of member observations
func (a GroupAggregate) ObsCount() int { return a.Count }

// MinCount drops aggregates with fewer than minObs members
func MinCount[T Counted](rows []T, minObs int) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if r.ObsCount() >= minObs {
			out = append(out, r)
		}
	}
	return out
}
