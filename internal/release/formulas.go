package release

import "math"

// Basic evaluates D(1-e^(-rt)). The curve rises from 0 towards the asymptote
// dose.
func (s Sampler) Basic(dose, rate, days float64) (Series, error) {
	if err := checkFinite([]string{"dose", "rate"}, dose, rate); err != nil {
		return Series{}, err
	}
	return s.sample(days, func(t float64) float64 {
		return dose * (1 - math.Exp(-rate*t))
	})
}

// SurfaceDegradation evaluates the remaining coating fraction e^(-kt).
func (s Sampler) SurfaceDegradation(k, days float64) (Series, error) {
	if err := checkFinite([]string{"k"}, k); err != nil {
		return Series{}, err
	}
	return s.sample(days, func(t float64) float64 {
		return math.Exp(-k * t)
	})
}

// Burst is Basic shifted up by a constant burst level.
func (s Sampler) Burst(dose, rate, burst, days float64) (Series, error) {
	if err := checkFinite([]string{"dose", "rate", "burst"}, dose, rate, burst); err != nil {
		return Series{}, err
	}
	base, err := s.Basic(dose, rate, days)
	if err != nil {
		return Series{}, err
	}
	return base.Offset(burst), nil
}

// Cumulative integrates the release rate D·r·e^(-rt) with a left Riemann sum
// scaled by days/Samples. The result approximates D(1-e^(-rt)); the first
// sample already carries one step of rate.
func (s Sampler) Cumulative(dose, rate, days float64) (Series, error) {
	if err := checkFinite([]string{"dose", "rate"}, dose, rate); err != nil {
		return Series{}, err
	}
	times, err := s.Grid(days)
	if err != nil {
		return Series{}, err
	}
	step := s.Step(days)
	values := make([]float64, len(times))
	sum := 0.0
	for i, t := range times {
		sum += dose * rate * math.Exp(-rate*t)
		values[i] = sum * step
	}
	return Series{Times: times, Values: values}, nil
}

// SqrtRelease evaluates the Higuchi-style c·√t law.
func (s Sampler) SqrtRelease(c, days float64) (Series, error) {
	if err := checkFinite([]string{"c"}, c); err != nil {
		return Series{}, err
	}
	return s.sample(days, func(t float64) float64 {
		return c * math.Sqrt(t)
	})
}

// LinearDegradation evaluates max(0, thickness0 - k·t).
func (s Sampler) LinearDegradation(thickness0, k, days float64) (Series, error) {
	if err := checkFinite([]string{"thickness0", "k"}, thickness0, k); err != nil {
		return Series{}, err
	}
	return s.sample(days, func(t float64) float64 {
		return math.Max(0, thickness0-k*t)
	})
}

// ExponentialDose evaluates dose0(1-e^(-kt)).
func (s Sampler) ExponentialDose(dose0, k, days float64) (Series, error) {
	if err := checkFinite([]string{"dose0", "k"}, dose0, k); err != nil {
		return Series{}, err
	}
	return s.sample(days, func(t float64) float64 {
		return dose0 * (1 - math.Exp(-k*t))
	})
}

// LogRelease evaluates rate·ln(1+t).
func (s Sampler) LogRelease(rate, days float64) (Series, error) {
	if err := checkFinite([]string{"rate"}, rate); err != nil {
		return Series{}, err
	}
	return s.sample(days, func(t float64) float64 {
		return rate * math.Log1p(t)
	})
}

// Surface sweeps time over [0, Days] and thickness over
// [ThicknessMin, ThicknessMax] in lockstep and evaluates
// a·e^(-b·t) + c·sin(thickness/5).
func (s Sampler) Surface(p SurfaceParams) (Surface, error) {
	names := []string{"amplitude", "decay", "wave", "days", "thickness_min", "thickness_max"}
	if err := checkFinite(names, p.Amplitude, p.Decay, p.Wave, p.Days, p.ThicknessMin, p.ThicknessMax); err != nil {
		return Surface{}, err
	}
	times, err := s.Grid(p.Days)
	if err != nil {
		return Surface{}, err
	}
	thickness := linspace(p.ThicknessMin, p.ThicknessMax, len(times))
	rates := make([]float64, len(times))
	for i := range times {
		rates[i] = p.Amplitude*math.Exp(-p.Decay*times[i]) + p.Wave*math.Sin(thickness[i]/5)
	}
	return Surface{Times: times, Thickness: thickness, Rates: rates}, nil
}

// BasicRelease is [Sampler.Basic] at StandardSamples.
func BasicRelease(dose, rate, days float64) (Series, error) {
	return Standard.Basic(dose, rate, days)
}

// SurfaceDegradation is [Sampler.SurfaceDegradation] at StandardSamples.
func SurfaceDegradation(k, days float64) (Series, error) {
	return Standard.SurfaceDegradation(k, days)
}

// BurstRelease is [Sampler.Burst] at StandardSamples.
func BurstRelease(dose, rate, burst, days float64) (Series, error) {
	return Standard.Burst(dose, rate, burst, days)
}

// CumulativeRelease is [Sampler.Cumulative] at StandardSamples.
func CumulativeRelease(dose, rate, days float64) (Series, error) {
	return Standard.Cumulative(dose, rate, days)
}

// ReleaseSurface is [Sampler.Surface] at CoarseSamples.
func ReleaseSurface(p SurfaceParams) (Surface, error) {
	return Coarse.Surface(p)
}
