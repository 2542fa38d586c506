package aggregate

import (
	"sort"
	"time"

	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

// DefaultTopSectors bounds the sector heatmap rows
const DefaultTopSectors = 15

// HeatmapColumns labels the value columns of every heatmap
var HeatmapColumns = []string{"Avg CA", "Avg TD", "Avg RG", "Consistency %", "Obs"}

// Heatmap is a row-labelled table of per-group metrics with a column-wise
// min-max normalized copy for color scaling
type Heatmap struct {
	Rows       []string    `json:"rows"`
	Columns    []string    `json:"columns"`
	Values     [][]float64 `json:"values"`
	Normalized [][]float64 `json:"normalized"`
}

func (t tally) heatmapRow() []float64 {
	return []float64{t.avgCA(), t.avgTD(), t.avgRG(), t.consistencyPct(), float64(t.count)}
}

func newHeatmap(rows []string, values [][]float64) Heatmap {
	return Heatmap{
		Rows:       rows,
		Columns:    HeatmapColumns,
		Values:     values,
		Normalized: NormalizeColumns(values),
	}
}

// NormalizeColumns rescales each column of values to [0, 1]. A column
// with no spread is divided by 1, so it maps to 0.
func NormalizeColumns(values [][]float64) [][]float64 {
	out := make([][]float64, len(values))
	if len(values) == 0 {
		return out
	}

	cols := len(values[0])
	mins := make([]float64, cols)
	maxs := make([]float64, cols)
	copy(mins, values[0])
	copy(maxs, values[0])
	for _, row := range values[1:] {
		for c := 0; c < cols && c < len(row); c++ {
			if row[c] < mins[c] {
				mins[c] = row[c]
			}
			if row[c] > maxs[c] {
				maxs[c] = row[c]
			}
		}
	}

	for i, row := range values {
		out[i] = make([]float64, len(row))
		for c := 0; c < cols && c < len(row); c++ {
			span := maxs[c] - mins[c]
			if span == 0 {
				span = 1
			}
			out[i][c] = (row[c] - mins[c]) / span
		}
	}
	return out
}

// SectorHeatmap summarizes the top sectors by observation count. Sectors
// with equal counts keep first-seen order.
func SectorHeatmap(data []domain.Observation, mode domain.DisplayMode, top int) Heatmap {
	groups := GroupBy(data, BySector)
	tallies := make(map[string]tally, groups.Len())
	for _, sector := range groups.Keys {
		var t tally
		for _, o := range groups.Members[sector] {
			t.add(o, mode)
		}
		tallies[sector] = t
	}

	sectors := append([]string(nil), groups.Keys...)
	sort.SliceStable(sectors, func(i, j int) bool {
		return tallies[sectors[i]].count > tallies[sectors[j]].count
	})
	if top > 0 && len(sectors) > top {
		sectors = sectors[:top]
	}

	values := make([][]float64, len(sectors))
	for i, s := range sectors {
		values[i] = tallies[s].heatmapRow()
	}
	return newHeatmap(sectors, values)
}

// Weekdays labels the DayOfWeekHeatmap rows
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// DayOfWeekHeatmap summarizes observations by the weekday of their date.
// Weekend dates and unparseable dates are skipped.
func DayOfWeekHeatmap(data []domain.Observation, mode domain.DisplayMode) Heatmap {
	tallies := make([]tally, len(Weekdays))
	for _, o := range data {
		day, err := o.Day()
		if err != nil {
			continue
		}
		wd := day.Weekday()
		if wd < time.Monday || wd > time.Friday {
			continue
		}
		tallies[wd-time.Monday].add(o, mode)
	}

	values := make([][]float64, len(tallies))
	for i, t := range tallies {
		values[i] = t.heatmapRow()
	}
	return newHeatmap(append([]string(nil), Weekdays...), values)
}
