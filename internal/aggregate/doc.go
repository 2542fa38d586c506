// Package aggregate groups observations and summarizes each group.
//
// Grouping preserves first-seen key order so tables are reproducible for
// a given input sequence. Every summary reads the bps metrics through an
// explicit domain.DisplayMode.
package aggregate
