// Package interp provides the interpolation used to move channels from one
// field grid onto another.
//
//   - [Linear2]: 2-point linear interpolation between neighbouring samples
//   - [Linear]:  piecewise-linear table lookup with end-value clamping
//
// [Linear] follows the conventions of the classic one-dimensional table
// interpolator: the sample positions xp must be ascending, queries left of
// xp[0] return fp[0] and queries right of the last position return the last
// value. Queries may come in any order.
package interp
