package aggregate

import (
	"math"
	"sort"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

// Breakdown is one row of a categorical breakdown table
type Breakdown struct {
	Label            string  `json:"label"`
	Count            int     `json:"count"`
	Notional         float64 `json:"notional"`
	NotionalSharePct float64 `json:"notional_share_pct"`
	AvgSize          float64 `json:"avg_size"`
	AvgCapturedAlpha float64 `json:"avg_captured_alpha"`
	AvgRefGap        float64 `json:"avg_ref_gap"`
	ConsistencyPct   float64 `json:"consistency_pct"`
}

func (t tally) breakdown(label string, totalNotional float64) Breakdown {
	return Breakdown{
		Label:            label,
		Count:            t.count,
		Notional:         t.notional,
		NotionalSharePct: ratio(t.notional, totalNotional) * 100,
		AvgSize:          ratio(t.notional, float64(t.count)),
		AvgCapturedAlpha: t.avgCA(),
		AvgRefGap:        t.avgRG(),
		ConsistencyPct:   t.consistencyPct(),
	}
}

func totalNotional(data []domain.Observation) float64 {
	var total float64
	for _, o := range data {
		total += o.Notional
	}
	return total
}

// ByAssetTypeBreakdown summarizes each asset type, largest notional first
func ByAssetTypeBreakdown(data []domain.Observation, mode domain.DisplayMode) []Breakdown {
	total := totalNotional(data)
	groups := GroupBy(data, ByAssetType)

	rows := make([]Breakdown, 0, groups.Len())
	for _, at := range groups.Keys {
		var t tally
		for _, o := range groups.Members[at] {
			t.add(o, mode)
		}
		rows = append(rows, t.breakdown(string(at), total))
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Notional > rows[j].Notional })
	return rows
}

// DefaultLeverage is assumed for ETFs without a leverage token
const DefaultLeverage = "1x"

// LeverageOrder is the display order of known leverage tokens
var LeverageOrder = []string{"-3x", "-2x", "-1x", "1x", "2x", "3x"}

func leverageRank(token string) int {
	for i, t := range LeverageOrder {
		if t == token {
			return i
		}
	}
	return len(LeverageOrder)
}

// LeverageBreakdown summarizes ETFs by leverage multiple in LeverageOrder;
// unrecognized tokens follow in first-seen order
func LeverageBreakdown(data []domain.Observation, mode domain.DisplayMode) []Breakdown {
	var etfs []domain.Observation
	for _, o := range data {
		if o.AssetType == domain.AssetTypeETF {
			etfs = append(etfs, o)
		}
	}

	total := totalNotional(etfs)
	groups := GroupBy(etfs, func(o domain.Observation) string {
		if o.LeverageMult == "" {
			return DefaultLeverage
		}
		return o.LeverageMult
	})

	rows := make([]Breakdown, 0, groups.Len())
	for _, lev := range groups.Keys {
		var t tally
		for _, o := range groups.Members[lev] {
			t.add(o, mode)
		}
		rows = append(rows, t.breakdown(lev, total))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return leverageRank(rows[i].Label) < leverageRank(rows[j].Label)
	})
	return rows
}

// SizeTier is a notional band [Min, upper) where upper is the previous
// tier's Min
type SizeTier struct {
	Label string
	Min   float64
}

// SizeTiers lists the notional bands from largest to smallest
var SizeTiers = []SizeTier{
	{Label: "≥ $10M", Min: 10e6},
	{Label: "≥ $5M", Min: 5e6},
	{Label: "≥ $1M", Min: 1e6},
	{Label: "≥ $500K", Min: 500e3},
	{Label: "≥ $100K", Min: 100e3},
	{Label: "< $100K", Min: 0},
}

// SizeTierBreakdown summarizes observations by notional band. Every tier
// is reported, including empty ones.
func SizeTierBreakdown(data []domain.Observation, mode domain.DisplayMode) []Breakdown {
	total := totalNotional(data)
	tallies := make([]tally, len(SizeTiers))

	for _, o := range data {
		upper := math.Inf(1)
		for i, tier := range SizeTiers {
			if o.Notional >= tier.Min && o.Notional < upper {
				tallies[i].add(o, mode)
				break
			}
			upper = tier.Min
		}
	}

	rows := make([]Breakdown, len(SizeTiers))
	for i, tier := range SizeTiers {
		rows[i] = tallies[i].breakdown(tier.Label, total)
	}
	return rows
}
