// Package shared holds code used across packages that belongs to no
// single analytic.
//
// The testutil subpackage provides an in-memory slog handler for asserting
// on log output:
//
//	logger, logs := testutil.NewTestLogger(t)
//	loader := dataset.NewLoader(logger)
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelInfo, "dataset loaded")
package shared
