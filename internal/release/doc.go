// Package release provides the closed-form drug-release formulas used by the
// implant simulator.
//
// Every operation is a pure function of its scalar parameters and a time
// horizon in days. The horizon is sampled at a fixed number of equally spaced
// points by a [Sampler]:
//
//   - [Sampler.Basic]: first-order uptake D(1-e^(-rt))
//   - [Sampler.SurfaceDegradation]: fraction remaining e^(-kt)
//   - [Sampler.Burst]: basic release plus a constant burst offset
//   - [Sampler.Cumulative]: left Riemann sum of the release rate D·r·e^(-rt)
//   - [Sampler.SqrtRelease], [Sampler.LinearDegradation],
//     [Sampler.ExponentialDose], [Sampler.LogRelease]: variant models
//   - [Sampler.Surface]: paired time/thickness sweep for 3D display
//
// # Example
//
//	s, err := release.BasicRelease(1.0, 0.5, 10)
//	if err != nil {
//		return err
//	}
//	last := s.Values[s.Len()-1] // ≈ 0.9933
//
// # Degenerate horizons
//
// A horizon <= 0 is not an error. Every operation returns a single sample at
// t = 0 in that case; the cumulative release of a degenerate horizon is 0.
//
// # Validation
//
// Non-finite inputs fail with a [*ParamError] wrapping [ErrNonFinite]. Finite
// values outside the documented slider ranges are evaluated as given.
//
// # Thread Safety
//
// No state is shared between calls; all functions are safe for concurrent use.
package release
