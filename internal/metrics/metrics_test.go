package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/implantsim/internal/release"
)

func TestFinalAndPeak(t *testing.T) {
	s := release.Series{
		Times:  []float64{0, 1, 2, 3},
		Values: []float64{-1, 4, 2, 3},
	}
	got := Collect(s, NewFinal(), NewPeak())

	if got["final"] != 3 {
		t.Errorf("expected final 3, got %f", got["final"])
	}
	if got["peak"] != 4 {
		t.Errorf("expected peak 4, got %f", got["peak"])
	}
}

func TestPeak_AllNegative(t *testing.T) {
	m := NewPeak()
	m.Observe(0, -5)
	m.Observe(1, -2)
	if m.Value() != -2 {
		t.Errorf("expected peak -2, got %f", m.Value())
	}
}

func TestAUC_Linear(t *testing.T) {
	s, err := release.Standard.LinearDegradation(10, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	got := Collect(s, NewAUC())["auc"]
	if math.Abs(got-50) > 1e-9 {
		t.Errorf("expected auc 50, got %f", got)
	}
}

func TestT50(t *testing.T) {
	tests := []struct {
		name string
		s    release.Series
		want float64
	}{
		{"rising", release.Series{Times: []float64{0, 1, 2}, Values: []float64{0, 1, 2}}, 1},
		{"interpolated", release.Series{Times: []float64{0, 2}, Values: []float64{0, 4}}, 1},
		{"falling", release.Series{Times: []float64{0, 1, 2, 3}, Values: []float64{1, 0.8, 0.4, 0}}, 1.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collect(tt.s, NewT50())["t50"]
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("t50 = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestT50_Flat(t *testing.T) {
	s := release.Series{Times: []float64{0, 1}, Values: []float64{2, 2}}
	if got := Collect(s, NewT50())["t50"]; !math.IsNaN(got) {
		t.Errorf("expected NaN for flat profile, got %v", got)
	}
}

func TestCollect_ResetsBetweenRuns(t *testing.T) {
	auc := NewAUC()
	s := release.Series{Times: []float64{0, 1}, Values: []float64{1, 1}}

	first := Collect(s, auc)["auc"]
	second := Collect(s, auc)["auc"]
	if first != second || first != 1 {
		t.Errorf("expected 1 both times, got %f and %f", first, second)
	}
}

func TestDefault(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Default() {
		names[m.Name()] = true
	}
	for _, want := range []string{"final", "peak", "auc", "t50"} {
		if !names[want] {
			t.Errorf("missing default metric %s", want)
		}
	}
}
