package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/ejcacciatore/sapinover-overnight-dashboard/internal/errors"
	"github.com/ejcacciatore/sapinover-overnight-dashboard/pkg/contracts/domain"
)

// Row layout of the data array
const (
	colSymbol = iota
	colCompany
	colDate
	colAssetType
	colSector
	colNotional
	colVolume
	colExecutions
	colVWAP
	colPriorClose
	colNextOpen
	colNextClose
	colTimingDiff
	colTimingDiffW
	colRefGap
	colRefGapW
	colTotalGap
	colGapDirection
	colDirConsistency
	colIsOutlier
	colMarketCap
	colLeverageMult
	colCapturedAlpha
	colCapturedAlphaW

	// RowColumns is the minimum number of cells per data row
	RowColumns
)

type document struct {
	Meta   domain.Metadata   `json:"meta"`
	Lookup Lookup            `json:"lookup"`
	Data   []json.RawMessage `json:"data"`
}

// Lookup holds the string tables referenced by row indices
type Lookup struct {
	Symbols   []string `json:"symbols"`
	Companies []string `json:"companies"`
	Dates     []string `json:"dates"`
	Sectors   []string `json:"sectors"`
}

// Loader decodes and validates data documents
type Loader struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewLoader creates a loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// LoadFile reads and decodes the document at path
func (l *Loader) LoadFile(ctx context.Context, path string) (*domain.Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data file %s: %w", path, err)
	}

	ds, err := l.Decode(ctx, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// Decode reads one document from r
func (l *Loader) Decode(ctx context.Context, r io.Reader) (*domain.Dataset, error) {
	start := time.Now()

	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, apperrors.NewParsingError("decode data document", err)
	}

	observations := make([]domain.Observation, 0, len(doc.Data))
	for i, raw := range doc.Data {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		o, err := decodeRow(raw, doc.Lookup)
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("row %d", i), err).WithContext("row", i)
		}
		if err := l.validate.Struct(o); err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("row %d (%s %s)", i, o.Symbol, o.Date), err).WithContext("row", i)
		}
		observations = append(observations, o)
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		"observations", len(observations),
		"symbols", len(doc.Lookup.Symbols),
		"dates", len(doc.Lookup.Dates),
		"date_range", doc.Meta.DateRange,
		"duration", time.Since(start),
	)

	meta := doc.Meta
	meta.Dates = append([]string(nil), doc.Lookup.Dates...)
	return &domain.Dataset{Observations: observations, Meta: meta}, nil
}

func decodeRow(raw json.RawMessage, lk Lookup) (domain.Observation, error) {
	var cells []json.RawMessage
	if err := json.Unmarshal(raw, &cells); err != nil {
		return domain.Observation{}, fmt.Errorf("row is not an array: %w", err)
	}
	if len(cells) < RowColumns {
		return domain.Observation{}, fmt.Errorf("row has %d cells, expected %d", len(cells), RowColumns)
	}

	c := cellReader{cells: cells}
	o := domain.Observation{
		Symbol:         c.lookup(colSymbol, lk.Symbols, "symbol"),
		Company:        c.lookup(colCompany, lk.Companies, "company"),
		Date:           c.lookup(colDate, lk.Dates, "date"),
		AssetType:      domain.AssetTypeStock,
		Sector:         c.lookup(colSector, lk.Sectors, "sector"),
		Notional:       c.float(colNotional),
		Volume:         int64(c.float(colVolume)),
		Executions:     int64(c.float(colExecutions)),
		VWAP:           c.optFloat(colVWAP),
		PriorClose:     c.optFloat(colPriorClose),
		NextOpen:       c.optFloat(colNextOpen),
		NextClose:      c.optFloat(colNextClose),
		TimingDiff:     c.float(colTimingDiff),
		TimingDiffW:    c.float(colTimingDiffW),
		RefGap:         c.float(colRefGap),
		RefGapW:        c.float(colRefGapW),
		TotalGap:       c.float(colTotalGap),
		GapDirection:   domain.GapDown,
		DirConsistency: c.flag(colDirConsistency),
		IsOutlier:      c.flag(colIsOutlier),
		MarketCap:      c.optFloat(colMarketCap),
		LeverageMult:   c.optString(colLeverageMult),
		CapturedAlpha:  c.float(colCapturedAlpha),
		CapturedAlphaW: c.float(colCapturedAlphaW),
	}
	if c.flag(colAssetType) {
		o.AssetType = domain.AssetTypeETF
	}
	if c.flag(colGapDirection) {
		o.GapDirection = domain.GapUp
	}

	if c.err != nil {
		return domain.Observation{}, c.err
	}
	return o, nil
}

// cellReader decodes typed cells, keeping the first error
type cellReader struct {
	cells []json.RawMessage
	err   error
}

func (c *cellReader) fail(col int, format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf("column %d: %s", col, fmt.Sprintf(format, args...))
	}
}

func (c *cellReader) isNull(col int) bool {
	cell := bytes.TrimSpace(c.cells[col])
	return len(cell) == 0 || bytes.Equal(cell, []byte("null"))
}

func (c *cellReader) lookup(col int, table []string, name string) string {
	var idx int
	if err := json.Unmarshal(c.cells[col], &idx); err != nil {
		c.fail(col, "%s index: %v", name, err)
		return ""
	}
	if idx < 0 || idx >= len(table) {
		c.fail(col, "%s index %d out of range [0, %d)", name, idx, len(table))
		return ""
	}
	return table[idx]
}

func (c *cellReader) float(col int) float64 {
	if c.isNull(col) {
		return 0
	}
	var v float64
	if err := json.Unmarshal(c.cells[col], &v); err != nil {
		c.fail(col, "number: %v", err)
	}
	return v
}

func (c *cellReader) optFloat(col int) *float64 {
	if c.isNull(col) {
		return nil
	}
	v := c.float(col)
	return &v
}

func (c *cellReader) optString(col int) string {
	if c.isNull(col) {
		return ""
	}
	var s string
	if err := json.Unmarshal(c.cells[col], &s); err != nil {
		c.fail(col, "string: %v", err)
	}
	return s
}

// flag reports whether the cell holds 1; booleans are accepted too
func (c *cellReader) flag(col int) bool {
	if c.isNull(col) {
		return false
	}
	var b bool
	if err := json.Unmarshal(c.cells[col], &b); err == nil {
		return b
	}
	return c.float(col) == 1
}
