package aggregate

import "github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"

// Groups maps keys to their member observations
type Groups[K comparable] struct {
	Keys    []K // first-seen order
	Members map[K][]domain.Observation
}

// GroupBy partitions data by key
func GroupBy[K comparable](data []domain.Observation, key func(domain.Observation) K) Groups[K] {
	g := Groups[K]{Members: make(map[K][]domain.Observation)}
	for _, o := range data {
		k := key(o)
		if _, ok := g.Members[k]; !ok {
			g.Keys = append(g.Keys, k)
		}
		g.Members[k] = append(g.Members[k], o)
	}
	return g
}

// Len returns the number of groups
func (g Groups[K]) Len() int {
	return len(g.Keys)
}

// BySymbol groups by ticker
func BySymbol(o domain.Observation) string { return o.Symbol }

// BySector groups by sector name
func BySector(o domain.Observation) string { return o.Sector }

// ByDate groups by ISO date
func ByDate(o domain.Observation) string { return o.Date }

// ByAssetType groups by asset type
func ByAssetType(o domain.Observation) domain.AssetType { return o.AssetType }

// tally accumulates the running sums shared by the breakdown tables
type tally struct {
	count      int
	notional   float64
	caSum      float64
	tdSum      float64
	rgSum      float64
	consistent int
}

func (t *tally) add(o domain.Observation, mode domain.DisplayMode) {
	t.count++
	t.notional += o.Notional
	t.caSum += o.CapturedAlphaFor(mode)
	t.tdSum += o.TimingDiffFor(mode)
	t.rgSum += o.RefGapFor(mode)
	if o.DirConsistency {
		t.consistent++
	}
}

func (t tally) avgCA() float64 { return ratio(t.caSum, float64(t.count)) }
func (t tally) avgTD() float64 { return ratio(t.tdSum, float64(t.count)) }
func (t tally) avgRG() float64 { return ratio(t.rgSum, float64(t.count)) }

func (t tally) consistencyPct() float64 {
	return ratio(float64(t.consistent), float64(t.count)) * 100
}

// ratio returns num/den, or 0 when den is 0
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
