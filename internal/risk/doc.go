// Package risk provides tail-risk and concentration statistics over
// captured alpha and notional.
//
// VaR is a lower-tail percentile signed so that more negative is worse.
// CVaR averages the values at or below VaR.
//
// Concentration uses a discrete Lorenz curve over observations sorted by
// ascending weight. GiniApprox is the step average 1 - 2*mean(y%)/100,
// which reads -1/n for n equal weights. GiniCoefficient integrates the
// same curve with the trapezoidal rule, which is exactly 0 for equal
// weights and tends to 1 as weight concentrates in one observation.
//
// Degenerate inputs (empty tails, zero variance, zero total weight)
// return 0 rather than an error.
package risk
