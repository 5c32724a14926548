package viz

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// ColorScale maps [0, 1] onto a piecewise-linear gradient of hex colours.
type ColorScale struct {
	Name  string
	Stops []string
}

var (
	Viridis = ColorScale{
		Name:  "viridis",
		Stops: []string{"#440154", "#3b528b", "#21918c", "#5ec962", "#fde725"},
	}
	Plasma = ColorScale{
		Name:  "plasma",
		Stops: []string{"#0d0887", "#7e03a8", "#cc4778", "#f89540", "#f0f921"},
	}

	Scales = []ColorScale{Viridis, Plasma}
)

// ScaleByName looks up a scale by name. Unknown names return Viridis and
// false.
func ScaleByName(name string) (ColorScale, bool) {
	for _, s := range Scales {
		if s.Name == name {
			return s, true
		}
	}
	return Viridis, false
}

// At returns the colour at position t, clamped to [0, 1].
func (s ColorScale) At(t float64) string {
	if len(s.Stops) == 0 {
		return "#ffffff"
	}
	if math.IsNaN(t) || t <= 0 {
		return s.Stops[0]
	}
	if t >= 1 {
		return s.Stops[len(s.Stops)-1]
	}
	pos := t * float64(len(s.Stops)-1)
	i := int(pos)
	frac := pos - float64(i)
	r0, g0, b0 := parseHex(s.Stops[i])
	r1, g1, b1 := parseHex(s.Stops[i+1])
	lerp := func(a, b int) int { return int(math.Round(float64(a) + frac*float64(b-a))) }
	return fmt.Sprintf("#%02x%02x%02x", lerp(r0, r1), lerp(g0, g1), lerp(b0, b1))
}

// Colors maps each value onto the scale using the min/max of values.
func (s ColorScale) Colors(values []float64) []string {
	if len(values) == 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	out := make([]string, len(values))
	for i, v := range values {
		t := 0.5
		if hi > lo {
			t = (v - lo) / (hi - lo)
		}
		out[i] = s.At(t)
	}
	return out
}

// Style returns a lipgloss foreground style for position t.
func (s ColorScale) Style(t float64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(s.At(t)))
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
