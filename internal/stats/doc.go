// Package stats provides the descriptive statistics used across the
// overnight analytics: mean, median, sample standard deviation,
// interpolated percentiles, Pearson correlation, skewness and excess
// kurtosis.
//
// # Degenerate inputs
//
// Functions that cannot produce a meaningful value on degenerate input
// (empty or too-short sequences, zero variance) return 0 rather than an
// error. That zero is a convention, not a measurement: a correlation of
// 0 from PearsonCorr may mean "uncorrelated" or "fewer than three pairs".
// Callers that need to tell the two apart should check the sample size
// and StdDev themselves.
//
// Percentile is the exception: it requires a non-empty input and reports
// an INVALID_ARGUMENT error otherwise.
//
// None of the functions modify their input slices.
package stats
