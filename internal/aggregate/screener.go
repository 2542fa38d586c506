package aggregate

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

const (
	// DefaultScreenerMinObs is the default minimum observations per symbol
	DefaultScreenerMinObs = 3
	// DefaultSortColumn ranks symbols by mean captured alpha
	DefaultSortColumn = "avgCapturedAlpha"
	// MaxWatchlist bounds the watchlist comparison
	MaxWatchlist = 6
)

// SortSpec names a screener column and direction
type SortSpec struct {
	Column    string `json:"column"`
	Ascending bool   `json:"ascending"`
}

// ScreenerOptions controls symbol screening
type ScreenerOptions struct {
	MinObs    int
	AssetType string // "all" or empty for every type
	Sort      SortSpec
	Language  language.Tag // collation locale for string columns; zero value means English
}

// DefaultScreenerOptions returns the screener defaults
func DefaultScreenerOptions() ScreenerOptions {
	return ScreenerOptions{
		MinObs:    DefaultScreenerMinObs,
		AssetType: domain.FilterAll,
		Sort:      SortSpec{Column: DefaultSortColumn},
		Language:  language.English,
	}
}

type column struct {
	text   func(SymbolAggregate) string
	number func(SymbolAggregate) float64
}

var columns = map[string]column{
	"symbol":           {text: func(s SymbolAggregate) string { return s.Symbol }},
	"company":          {text: func(s SymbolAggregate) string { return s.Company }},
	"assetType":        {text: func(s SymbolAggregate) string { return string(s.AssetType) }},
	"sector":           {text: func(s SymbolAggregate) string { return s.Sector }},
	"obs":              {number: func(s SymbolAggregate) float64 { return float64(s.Count) }},
	"avgCapturedAlpha": {number: func(s SymbolAggregate) float64 { return s.AvgCapturedAlpha }},
	"medianCa":         {number: func(s SymbolAggregate) float64 { return s.MedianCA }},
	"stdCa":            {number: func(s SymbolAggregate) float64 { return s.StdCA }},
	"minCa":            {number: func(s SymbolAggregate) float64 { return s.MinCA }},
	"avgRg":            {number: func(s SymbolAggregate) float64 { return s.AvgRefGap }},
	"avgNotional":      {number: func(s SymbolAggregate) float64 { return s.AvgNotional }},
	"totalNotional":    {number: func(s SymbolAggregate) float64 { return s.TotalNotional }},
	"consistency":      {number: func(s SymbolAggregate) float64 { return s.ConsistencyPct }},
	"upRate":           {number: func(s SymbolAggregate) float64 { return s.UpRatePct }},
}

// SortColumns lists the sortable screener columns
func SortColumns() []string {
	keys := make([]string, 0, len(columns))
	for k := range columns {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Comparator returns the ordering for spec. String columns compare with
// locale-aware collation under tag; numeric columns compare by value.
// Ties are left in no particular order.
func Comparator(spec SortSpec, tag language.Tag) (func(a, b SymbolAggregate) int, error) {
	col, ok := columns[strings.TrimSpace(spec.Column)]
	if !ok {
		return nil, apperrors.NewInvalidArgument("unknown sort column %q", spec.Column)
	}
	if tag == language.Und {
		tag = language.English
	}

	var compare func(a, b SymbolAggregate) int
	if col.text != nil {
		collator := collate.New(tag)
		compare = func(a, b SymbolAggregate) int {
			return collator.CompareString(col.text(a), col.text(b))
		}
	} else {
		compare = func(a, b SymbolAggregate) int {
			return cmp.Compare(col.number(a), col.number(b))
		}
	}

	if spec.Ascending {
		return compare, nil
	}
	return func(a, b SymbolAggregate) int { return compare(b, a) }, nil
}

// Screen aggregates data per symbol, drops symbols below opts.MinObs or
// outside opts.AssetType, and sorts the rest
func Screen(data []domain.Observation, mode domain.DisplayMode, opts ScreenerOptions) ([]SymbolAggregate, error) {
	if opts.Sort.Column == "" {
		opts.Sort.Column = DefaultSortColumn
	}
	compare, err := Comparator(opts.Sort, opts.Language)
	if err != nil {
		return nil, err
	}

	rows := MinCount(Symbols(data, mode), opts.MinObs)
	if opts.AssetType != "" && opts.AssetType != domain.FilterAll {
		kept := rows[:0]
		for _, r := range rows {
			if string(r.AssetType) == opts.AssetType {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	slices.SortFunc(rows, compare)
	return rows, nil
}

// WatchSeries is one symbol's captured alpha by date
type WatchSeries struct {
	Symbol string    `json:"symbol"`
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// Watchlist returns the date-ordered captured alpha series of up to
// MaxWatchlist symbols. Unknown symbols yield empty series.
func Watchlist(data []domain.Observation, symbols []string, mode domain.DisplayMode) []WatchSeries {
	if len(symbols) > MaxWatchlist {
		symbols = symbols[:MaxWatchlist]
	}

	groups := GroupBy(data, BySymbol)
	out := make([]WatchSeries, 0, len(symbols))
	for _, symbol := range symbols {
		members := slices.Clone(groups.Members[symbol])
		slices.SortStableFunc(members, func(a, b domain.Observation) int {
			return strings.Compare(a.Date, b.Date)
		})

		ws := WatchSeries{Symbol: symbol, Dates: make([]string, len(members)), Values: make([]float64, len(members))}
		for i, o := range members {
			ws.Dates[i] = o.Date
			ws.Values[i] = o.CapturedAlphaFor(mode)
		}
		out = append(out, ws)
	}
	return out
}
