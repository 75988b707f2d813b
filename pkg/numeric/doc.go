// Package numeric implements the scalar quadrature routines that quadra
// exposes to hosts and to its workers.
//
// Two independent procedures approximate the definite integral of an
// Integrand over [a, b]:
//
//   - Integrator applies the composite trapezoidal rule. The requested step
//     dx is adjusted to (b-a)/N with N = ceil((b-a)/dx) so that the interval
//     is covered by a whole number of equal panels. Panels are accumulated
//     left to right, from low x to high x; results are bit-reproducible for
//     identical inputs and any change of that order changes rounding.
//
//   - Estimator applies Monte Carlo rejection sampling against the box
//     [a, b] x [0, yMax]. The generator is created for every call from the
//     seed offset, so equal offsets give bit-identical estimates and no call
//     observes another call's random state.
//
// Both procedures treat a reversed interval (b < a) as the negated integral
// over [b, a] and return exactly zero for a == b.
//
// The generator contract is part of the API: PCG-DXSM from math/rand/v2,
// seeded with splitmix64(offset XOR salt) and a fixed stream constant. Every
// uniform variate is rand.Float64, which has 53 bits of resolution.
package numeric
