package metrics

import (
	"math"

	"github.com/san-kum/implantsim/internal/release"
)

// Metric accumulates a summary of a release profile one sample at a time.
type Metric interface {
	Name() string
	Observe(t, v float64)
	Value() float64
	Reset()
}

// Collect runs every metric over s and returns the values by name.
func Collect(s release.Series, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i := range s.Times {
			m.Observe(s.Times[i], s.Values[i])
		}
		out[m.Name()] = m.Value()
	}
	return out
}

// Final is the last observed value.
type Final struct {
	last float64
}

func NewFinal() *Final { return &Final{} }

func (m *Final) Name() string         { return "final" }
func (m *Final) Observe(t, v float64) { m.last = v }
func (m *Final) Value() float64       { return m.last }
func (m *Final) Reset()               { m.last = 0 }

// Peak is the largest observed value.
type Peak struct {
	max  float64
	seen bool
}

func NewPeak() *Peak { return &Peak{} }

func (m *Peak) Name() string { return "peak" }

func (m *Peak) Observe(t, v float64) {
	if !m.seen || v > m.max {
		m.max = v
		m.seen = true
	}
}

func (m *Peak) Value() float64 { return m.max }

func (m *Peak) Reset() {
	m.max = 0
	m.seen = false
}

// AUC integrates the profile with the trapezoidal rule.
type AUC struct {
	area         float64
	prevT, prevV float64
	started      bool
}

func NewAUC() *AUC { return &AUC{} }

func (m *AUC) Name() string { return "auc" }

func (m *AUC) Observe(t, v float64) {
	if m.started {
		m.area += 0.5 * (v + m.prevV) * (t - m.prevT)
	}
	m.prevT, m.prevV = t, v
	m.started = true
}

func (m *AUC) Value() float64 { return m.area }

func (m *AUC) Reset() {
	m.area = 0
	m.prevT, m.prevV = 0, 0
	m.started = false
}

// T50 is the first time the profile has covered half of its total change
// from the first to the last sample, linearly interpolated between samples.
// Works for rising and falling curves; NaN when the profile is flat.
type T50 struct {
	times, values []float64
}

func NewT50() *T50 { return &T50{} }

func (m *T50) Name() string { return "t50" }

func (m *T50) Observe(t, v float64) {
	m.times = append(m.times, t)
	m.values = append(m.values, v)
}

func (m *T50) Value() float64 {
	n := len(m.values)
	if n < 2 {
		return math.NaN()
	}
	first, last := m.values[0], m.values[n-1]
	if first == last {
		return math.NaN()
	}
	target := first + 0.5*(last-first)
	rising := last > first
	for i := 1; i < n; i++ {
		v := m.values[i]
		if (rising && v >= target) || (!rising && v <= target) {
			prev := m.values[i-1]
			if v == prev {
				return m.times[i]
			}
			frac := (target - prev) / (v - prev)
			return m.times[i-1] + frac*(m.times[i]-m.times[i-1])
		}
	}
	return m.times[n-1]
}

func (m *T50) Reset() {
	m.times = m.times[:0]
	m.values = m.values[:0]
}

// Default is the metric set attached to every run.
func Default() []Metric {
	return []Metric{NewFinal(), NewPeak(), NewAUC(), NewT50()}
}
