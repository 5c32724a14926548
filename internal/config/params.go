package config

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ParamSpec describes one bounded numeric input. The bounds are advisory:
// user interfaces clamp to them, the formulas do not.
type ParamSpec struct {
	Name    string  `json:"name" yaml:"name"`
	Label   string  `json:"label" yaml:"label"`
	Default float64 `json:"default" yaml:"default"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	Step    float64 `json:"step" yaml:"step"`
}

// Clamp limits v to [Min, Max]. Non-finite values are returned unchanged so
// evaluation rejects them instead of running on a substitute.
func (p ParamSpec) Clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Max(p.Min, math.Min(p.Max, v))
}

// Nudge moves v by n steps and clamps the result.
func (p ParamSpec) Nudge(v float64, n int) float64 {
	step := p.Step
	if step <= 0 {
		step = (p.Max - p.Min) / 100
	}
	return p.Clamp(v + float64(n)*step)
}

func (p ParamSpec) InRange(v float64) bool {
	return v >= p.Min && v <= p.Max
}

// Params maps parameter names to values.
type Params map[string]float64

func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Get returns the named value or def when absent.
func (p Params) Get(name string, def float64) float64 {
	if v, ok := p[name]; ok {
		return v
	}
	return def
}

// Names returns the parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Defaults builds a Params from the defaults of specs.
func Defaults(specs []ParamSpec) Params {
	p := make(Params, len(specs))
	for _, s := range specs {
		p[s.Name] = s.Default
	}
	return p
}

// ClampAll returns a copy of p with every value covered by specs clamped.
func ClampAll(specs []ParamSpec, p Params) Params {
	out := p.Clone()
	for _, s := range specs {
		if v, ok := out[s.Name]; ok {
			out[s.Name] = s.Clamp(v)
		}
	}
	return out
}

// ParseAssignments parses "name=value" pairs as given on the command line.
func ParseAssignments(pairs []string) (Params, error) {
	p := make(Params, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q: want name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		p[name] = v
	}
	return p, nil
}
