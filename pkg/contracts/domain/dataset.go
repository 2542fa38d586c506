package domain

// FilterAll matches every asset type or sector
const FilterAll = "all"

// Filter selects a view of the dataset by asset type, sector and
// minimum notional. Empty strings behave like FilterAll.
type Filter struct {
	AssetType   string  `json:"asset_type" yaml:"asset_type" envconfig:"ASSET_TYPE" default:"all"`
	Sector      string  `json:"sector" yaml:"sector" envconfig:"SECTOR" default:"all"`
	MinNotional float64 `json:"min_notional" yaml:"min_notional" envconfig:"MIN_NOTIONAL" validate:"gte=0"`
}

// Matches reports whether the observation passes every predicate
func (f Filter) Matches(o Observation) bool {
	if f.AssetType != "" && f.AssetType != FilterAll && string(o.AssetType) != f.AssetType {
		return false
	}
	if f.Sector != "" && f.Sector != FilterAll && o.Sector != f.Sector {
		return false
	}
	return o.Notional >= f.MinNotional
}

// Apply returns the matching subsequence in load order. The input is not modified.
func (f Filter) Apply(data []Observation) []Observation {
	view := make([]Observation, 0, len(data))
	for _, o := range data {
		if f.Matches(o) {
			view = append(view, o)
		}
	}
	return view
}

// Dataset is the loaded observation set with its metadata block
type Dataset struct {
	Observations []Observation `json:"observations"`
	Meta         Metadata      `json:"meta"`
}

// Symbols returns the distinct symbols in first-seen order
func Symbols(data []Observation) []string {
	seen := make(map[string]struct{}, len(data))
	symbols := make([]string, 0)
	for _, o := range data {
		if _, ok := seen[o.Symbol]; ok {
			continue
		}
		seen[o.Symbol] = struct{}{}
		symbols = append(symbols, o.Symbol)
	}
	return symbols
}
