// Package report assembles every analytic of one observation view into a
// single Report.
//
// The view and the display mode are fixed for a build. Sections are pure
// functions over the shared read-only view, so Build computes them
// concurrently and each writes only its own part of the Report. The first
// section error cancels the rest and fails the build.
package report
