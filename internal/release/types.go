package release

import (
	"fmt"
	"math"
)

// Series is a sampled curve: Values[i] is the model value at Times[i].
// Times is ascending.
type Series struct {
	Times  []float64
	Values []float64
}

func (s Series) Len() int {
	return len(s.Times)
}

// Last returns the final sample value, or 0 for an empty series.
func (s Series) Last() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Values[len(s.Values)-1]
}

// Offset returns a copy with v added to every value.
func (s Series) Offset(v float64) Series {
	out := Series{
		Times:  make([]float64, len(s.Times)),
		Values: make([]float64, len(s.Values)),
	}
	copy(out.Times, s.Times)
	for i, x := range s.Values {
		out.Values[i] = x + v
	}
	return out
}

// Surface holds three equal-length sweeps paired index by index. It is not a
// mesh: Times[i] and Thickness[i] vary together.
type Surface struct {
	Times     []float64
	Thickness []float64
	Rates     []float64
}

func (s Surface) Len() int {
	return len(s.Times)
}

// SurfaceParams configures [Sampler.Surface].
type SurfaceParams struct {
	Amplitude    float64 // a
	Decay        float64 // b, per day
	Wave         float64 // c
	Days         float64
	ThicknessMin float64 // µm
	ThicknessMax float64 // µm
}

// DefaultSurfaceParams matches the demonstration surface: 1.2e^(-0.05t) +
// 0.1sin(thickness/5) over 30 days and 10-40 µm.
func DefaultSurfaceParams() SurfaceParams {
	return SurfaceParams{
		Amplitude:    1.2,
		Decay:        0.05,
		Wave:         0.1,
		Days:         30,
		ThicknessMin: 10,
		ThicknessMax: 40,
	}
}

func checkFinite(names []string, values ...float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			name := fmt.Sprintf("arg%d", i)
			if i < len(names) {
				name = names[i]
			}
			return &ParamError{Name: name, Value: v, Wrapped: ErrNonFinite}
		}
	}
	return nil
}
