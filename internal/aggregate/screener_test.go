package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

func screenerData() []domain.Observation {
	var data []domain.Observation
	for i := 0; i < 3; i++ {
		data = append(data, obs("AAA", "2025-06-02", 5, 1e6, true))
		data = append(data, obs("bbb", "2025-06-02", 20, 2e6, false))
		data = append(data, obs("CCC", "2025-06-02", -10, 3e6, true))
	}
	etf := obs("ETFX", "2025-06-02", 50, 1e5, true)
	etf.AssetType = domain.AssetTypeETF
	data = append(data, etf, etf, etf)
	// below the default minimum
	data = append(data, obs("THIN", "2025-06-02", 99, 1, true))
	return data
}

func symbolsOf(rows []SymbolAggregate) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Symbol
	}
	return out
}

func TestScreenDefaults(t *testing.T) {
	rows, err := Screen(screenerData(), domain.DisplayWinsorized, DefaultScreenerOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"ETFX", "bbb", "AAA", "CCC"}, symbolsOf(rows))
}

func TestScreenAssetTypeFilter(t *testing.T) {
	opts := DefaultScreenerOptions()
	opts.AssetType = string(domain.AssetTypeETF)

	rows, err := Screen(screenerData(), domain.DisplayWinsorized, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"ETFX"}, symbolsOf(rows))
}

func TestScreenSortColumns(t *testing.T) {
	tests := []struct {
		name string
		sort SortSpec
		want []string
	}{
		{"numeric ascending", SortSpec{Column: "avgCapturedAlpha", Ascending: true}, []string{"CCC", "AAA", "bbb", "ETFX"}},
		{"total notional descending", SortSpec{Column: "totalNotional"}, []string{"CCC", "bbb", "AAA", "ETFX"}},
		{"min captured alpha ascending", SortSpec{Column: "minCa", Ascending: true}, []string{"CCC", "AAA", "bbb", "ETFX"}},
		// collation ignores case, byte order would put "bbb" last
		{"symbol ascending", SortSpec{Column: "symbol", Ascending: true}, []string{"AAA", "bbb", "CCC", "ETFX"}},
		{"symbol descending", SortSpec{Column: "symbol"}, []string{"ETFX", "CCC", "bbb", "AAA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultScreenerOptions()
			opts.Sort = tt.sort
			rows, err := Screen(screenerData(), domain.DisplayWinsorized, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, symbolsOf(rows))
		})
	}
}

func TestComparatorUnknownColumn(t *testing.T) {
	_, err := Comparator(SortSpec{Column: "nope"}, language.English)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	opts := DefaultScreenerOptions()
	opts.Sort.Column = "nope"
	_, err = Screen(screenerData(), domain.DisplayWinsorized, opts)
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestSortColumnsSorted(t *testing.T) {
	cols := SortColumns()
	assert.Contains(t, cols, DefaultSortColumn)
	assert.IsIncreasing(t, cols)
}

func TestWatchlist(t *testing.T) {
	data := []domain.Observation{
		obs("AAA", "2025-06-04", 3, 1, true),
		obs("AAA", "2025-06-02", 1, 1, true),
		obs("BBB", "2025-06-03", 9, 1, true),
		obs("AAA", "2025-06-03", 2, 1, true),
	}

	series := Watchlist(data, []string{"AAA", "ZZZ"}, domain.DisplayWinsorized)
	require.Len(t, series, 2)
	assert.Equal(t, []string{"2025-06-02", "2025-06-03", "2025-06-04"}, series[0].Dates)
	assert.Equal(t, []float64{1, 2, 3}, series[0].Values)
	assert.Empty(t, series[1].Values)

	many := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	assert.Len(t, Watchlist(data, many, domain.DisplayWinsorized), MaxWatchlist)
}
