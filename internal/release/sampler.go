package release

// Sampling resolutions. The first-order models are drawn at StandardSamples;
// the variant models and the 3D demonstration at CoarseSamples.
const (
	StandardSamples = 100
	CoarseSamples   = 50
)

// Sampler evaluates formulas on Samples equally spaced points over [0, days].
type Sampler struct {
	Samples int
}

var (
	Standard = Sampler{Samples: StandardSamples}
	Coarse   = Sampler{Samples: CoarseSamples}
)

// NewSampler returns a sampler with n points, or fallback when n <= 0.
func NewSampler(n int, fallback Sampler) Sampler {
	if n <= 0 {
		return fallback
	}
	return Sampler{Samples: n}
}

// Grid returns the sample times. The first point is exactly 0 and the last is
// exactly days. A non-positive horizon yields the single point t = 0.
func (s Sampler) Grid(days float64) ([]float64, error) {
	if s.Samples < 1 {
		return nil, ErrSampleCount
	}
	if err := checkFinite([]string{"days"}, days); err != nil {
		return nil, err
	}
	if days <= 0 {
		return []float64{0}, nil
	}
	return linspace(0, days, s.Samples), nil
}

// Step is the width used to scale running sums: days / Samples, or 0 for a
// degenerate horizon.
func (s Sampler) Step(days float64) float64 {
	if days <= 0 || s.Samples < 1 {
		return 0
	}
	return days / float64(s.Samples)
}

func (s Sampler) sample(days float64, f func(t float64) float64) (Series, error) {
	times, err := s.Grid(days)
	if err != nil {
		return Series{}, err
	}
	values := make([]float64, len(times))
	for i, t := range times {
		values[i] = f(t)
	}
	return Series{Times: times, Values: values}, nil
}

func linspace(start, stop float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
