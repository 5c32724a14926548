package release

import (
	"math"
	"testing"
)

func TestGrid(t *testing.T) {
	tests := []struct {
		name    string
		samples int
		days    float64
		want    int
	}{
		{"standard", StandardSamples, 10, 100},
		{"coarse", CoarseSamples, 30, 50},
		{"single", 1, 10, 1},
		{"zero horizon", StandardSamples, 0, 1},
		{"negative horizon", CoarseSamples, -3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid, err := Sampler{Samples: tt.samples}.Grid(tt.days)
			if err != nil {
				t.Fatalf("Grid() error = %v", err)
			}
			if len(grid) != tt.want {
				t.Fatalf("len = %d, want %d", len(grid), tt.want)
			}
			if grid[0] != 0 {
				t.Errorf("first = %v, want 0", grid[0])
			}
			if tt.days > 0 && tt.want > 1 && grid[len(grid)-1] != tt.days {
				t.Errorf("last = %v, want %v", grid[len(grid)-1], tt.days)
			}
		})
	}
}

func TestGrid_EvenSpacing(t *testing.T) {
	grid, _ := Standard.Grid(10)
	step := 10.0 / 99
	for i := 1; i < len(grid); i++ {
		if d := grid[i] - grid[i-1]; math.Abs(d-step) > 1e-12 {
			t.Fatalf("spacing at %d = %v, want %v", i, d, step)
		}
	}
}

func TestStep(t *testing.T) {
	if got := Standard.Step(10); got != 0.1 {
		t.Errorf("Step(10) = %v, want 0.1", got)
	}
	if got := Standard.Step(-1); got != 0 {
		t.Errorf("Step(-1) = %v, want 0", got)
	}
}

func TestNewSampler(t *testing.T) {
	if got := NewSampler(0, Coarse); got != Coarse {
		t.Errorf("NewSampler(0) = %v, want %v", got, Coarse)
	}
	if got := NewSampler(7, Coarse); got.Samples != 7 {
		t.Errorf("NewSampler(7).Samples = %d", got.Samples)
	}
}

func TestParamError(t *testing.T) {
	err := &ParamError{Name: "rate", Value: math.Inf(1), Wrapped: ErrNonFinite}
	expected := "release: parameter is not a finite number (rate=+Inf)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}
