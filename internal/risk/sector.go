package risk

import (
	"fmt"
	"sort"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/aggregate"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/internal/stats"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

// DefaultSectorMinObs is the smallest sector reported by SectorTable
const DefaultSectorMinObs = 10

// SectorRisk is the risk profile of one sector's captured alpha
type SectorRisk struct {
	Sector         string  `json:"sector"`
	N              int     `json:"n"`
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"std_dev"`
	SharpeLike     float64 `json:"sharpe_like"`
	VaR95          float64 `json:"var_95"`
	ConsistencyPct float64 `json:"consistency_pct"`
}

// SectorTable profiles every sector with at least minObs observations,
// sorted by SharpeLike descending
func SectorTable(data []domain.Observation, mode domain.DisplayMode, minObs int) ([]SectorRisk, error) {
	groups := aggregate.GroupBy(data, aggregate.BySector)

	rows := make([]SectorRisk, 0, groups.Len())
	for _, sector := range groups.Keys {
		members := groups.Members[sector]
		if len(members) < minObs {
			continue
		}

		values := make([]float64, len(members))
		consistent := 0
		for i, o := range members {
			values[i] = o.CapturedAlphaFor(mode)
			if o.DirConsistency {
				consistent++
			}
		}

		var95, err := VaR(values, 95)
		if err != nil {
			return nil, fmt.Errorf("sector %q: %w", sector, err)
		}
		rows = append(rows, SectorRisk{
			Sector:         sector,
			N:              len(values),
			Mean:           stats.Mean(values),
			StdDev:         stats.StdDev(values),
			SharpeLike:     SharpeLike(values),
			VaR95:          var95,
			ConsistencyPct: float64(consistent) / float64(len(values)) * 100,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SharpeLike != rows[j].SharpeLike {
			return rows[i].SharpeLike > rows[j].SharpeLike
		}
		return rows[i].Sector < rows[j].Sector
	})
	return rows, nil
}
