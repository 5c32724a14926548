package experiment

import (
	"errors"
	"fmt"

	"github.com/san-kum/implantsim/internal/config"
	"github.com/san-kum/implantsim/internal/metrics"
	"github.com/san-kum/implantsim/internal/release"
)

var (
	ErrUnknownKind  = errors.New("experiment: unknown simulation kind")
	ErrUnknownParam = errors.New("experiment: unknown parameter")
)

// Kind binds a release formula to its UI description: title, y axis label,
// bounded parameters and sampling resolution.
type Kind struct {
	Name    string             `json:"name"`
	Title   string             `json:"title"`
	Summary string             `json:"summary"`
	YLabel  string             `json:"y_label"`
	Samples int                `json:"samples"`
	Params  []config.ParamSpec `json:"params"`
	Is3D    bool               `json:"is_3d"`

	series  func(s release.Sampler, p config.Params) (release.Series, error)
	surface func(s release.Sampler, p config.Params) (release.Surface, error)
}

// Sampler is the kind's default sampling resolution.
func (k Kind) Sampler() release.Sampler {
	return release.Sampler{Samples: k.Samples}
}

func (k Kind) Spec(name string) (config.ParamSpec, bool) {
	for _, p := range k.Params {
		if p.Name == name {
			return p, true
		}
	}
	return config.ParamSpec{}, false
}

// Defaults returns the default value of every parameter.
func (k Kind) Defaults() config.Params {
	return config.Defaults(k.Params)
}

// Clamp fills missing parameters with defaults and clamps the rest into
// range. Unknown names are kept so Resolve can reject them.
func (k Kind) Clamp(p config.Params) config.Params {
	out := k.Defaults()
	for name, v := range p {
		out[name] = v
	}
	return config.ClampAll(k.Params, out)
}

// Resolve overlays p on the defaults without clamping.
func (k Kind) Resolve(p config.Params) (config.Params, error) {
	out := k.Defaults()
	for name, v := range p {
		if _, ok := k.Spec(name); !ok {
			return nil, fmt.Errorf("%w %q for %s", ErrUnknownParam, name, k.Name)
		}
		out[name] = v
	}
	return out, nil
}

type Registry struct {
	order []string
	kinds map[string]Kind
}

func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]Kind)}

	days := func(def, hi float64) config.ParamSpec {
		return config.ParamSpec{Name: "days", Label: "Simulation Time (days)", Default: def, Min: 1, Max: hi, Step: 1}
	}
	dose := config.ParamSpec{Name: "D", Label: "Diffusion Coefficient (D)", Default: 1.0, Min: 0.1, Max: 5.0, Step: 0.1}
	rate := config.ParamSpec{Name: "r", Label: "Release Rate (r)", Default: 0.5, Min: 0.1, Max: 2.0, Step: 0.1}

	r.Register(Kind{
		Name: "basic", Title: "Basic Drug Release", YLabel: "Drug Release Amount",
		Summary: "first-order uptake D(1-e^-rt)",
		Samples: release.StandardSamples,
		Params:  []config.ParamSpec{dose, rate, days(10, 30)},
		series: func(s release.Sampler, p config.Params) (release.Series, error) {
			return s.Basic(p["D"], p["r"], p["days"])
		},
	})
	r.Register(Kind{
		Name: "degradation", Title: "Surface Degradation", YLabel: "Remaining Material Fraction",
		Summary: "coating fraction e^-kt",
		Samples: release.StandardSamples,
		Params: []config.ParamSpec{
			{Name: "k", Label: "Degradation Rate (k)", Default: 0.1, Min: 0.01, Max: 1.0, Step: 0.01},
			days(10, 30),
		},
		series: func(s release.Sampler, p config.Params) (release.Series, error) {
			return s.SurfaceDegradation(p["k"], p["days"])
		},
	})
	r.Register(Kind{
		Name: "burst", Title: "Burst Release", YLabel: "Drug Release Amount",
		Summary: "basic release plus initial burst",
		Samples: release.StandardSamples,
		Params: []config.ParamSpec{
			dose, rate,
			{Name: "burst", Label: "Burst Level", Default: 0.5, Min: 0.1, Max: 2.0, Step: 0.1},
			days(10, 30),
		},
		series: func(s release.Sampler, p config.Params) (release.Series, error) {
			return s.Burst(p["D"], p["r"], p["burst"], p["days"])
		},
	})
	r.Register(Kind{
		Name: "cumulative", Title: "Cumulative Release", YLabel: "Cumulative Drug Released",
		Summary: "running sum of D·r·e^-rt",
		Samples: release.StandardSamples,
		Params:  []config.ParamSpec{dose, rate, days(10, 30)},
		series: func(s release.Sampler, p config.Params) (release.Series, error) {
			return s.Cumulative(p["D"], p["r"], p["days"])
		},
	})
	r.Register(Kind{
		Name: "sqrt", Title: "Square-Root Release", YLabel: "Drug Released (mg)",
		Summary: "diffusion-controlled c·√t",
		Samples: release.CoarseSamples,
		Params: []config.ParamSpec{
			{Name: "c", Label: "Release Constant", Default: 1.0, Min: 0.1, Max: 5.0, Step: 0.1},
			days(30, 60),
		},
		series: func(s release.Sampler, p config.Params) (release.Series, error) {
			return s.SqrtRelease(p["c"], p["days"])
		},
	})
	r.Register(Kind{
		Name: "linear", Title: "Coating Degradation", YLabel: "Coating Thickness (µm)",
		Summary: "linear wear clamped at zero",
		Samples: release.CoarseSamples,
		Params: []config.ParamSpec{
			{Name: "thickness", Label: "Initial Thickness (µm)", Default: 50, Min: 10, Max: 100, Step: 1},
			{Name: "k", Label: "Degradation Rate (µm/day)", Default: 1.0, Min: 0.1, Max: 5.0, Step: 0.1},
			days(30, 60),
		},
		series: func(s release.Sampler, p config.Params) (release.Series, error) {
			return s.LinearDegradation(p["thickness"], p["k"], p["days"])
		},
	})
	r.Register(Kind{
		Name: "dose", Title: "Cumulative Dose", YLabel: "Cumulative Dose (mg)",
		Summary: "dose0(1-e^-kt)",
		Samples: release.CoarseSamples,
		Params: []config.ParamSpec{
			{Name: "dose", Label: "Initial Dose (mg)", Default: 100, Min: 10, Max: 500, Step: 10},
			{Name: "k", Label: "Decay Rate (k)", Default: 0.1, Min: 0.01, Max: 1.0, Step: 0.01},
			days(30, 60),
		},
		series: func(s release.Sampler, p config.Params) (release.Series, error) {
			return s.ExponentialDose(p["dose"], p["k"], p["days"])
		},
	})
	r.Register(Kind{
		Name: "log", Title: "Logarithmic Release", YLabel: "Drug Released (mg)",
		Summary: "slow growth rate·ln(1+t)",
		Samples: release.CoarseSamples,
		Params: []config.ParamSpec{
			{Name: "rate", Label: "Release Rate", Default: 1.0, Min: 0.1, Max: 5.0, Step: 0.1},
			days(30, 60),
		},
		series: func(s release.Sampler, p config.Params) (release.Series, error) {
			return s.LogRelease(p["rate"], p["days"])
		},
	})
	r.Register(Kind{
		Name: "surface3d", Title: "3D Drug Release & Degradation Model", YLabel: "Drug Release Rate (mg/cm³/day)",
		Summary: "a·e^-bt + c·sin(thickness/5)",
		Samples: release.CoarseSamples,
		Is3D:    true,
		Params: []config.ParamSpec{
			{Name: "a", Label: "Release Amplitude (a)", Default: 1.2, Min: 0.1, Max: 5.0, Step: 0.1},
			{Name: "b", Label: "Decay Rate (b)", Default: 0.05, Min: 0.01, Max: 0.5, Step: 0.01},
			{Name: "c", Label: "Thickness Modulation (c)", Default: 0.1, Min: 0, Max: 1.0, Step: 0.05},
			days(30, 60),
			{Name: "thickness_min", Label: "Min Thickness (µm)", Default: 10, Min: 1, Max: 50, Step: 1},
			{Name: "thickness_max", Label: "Max Thickness (µm)", Default: 40, Min: 10, Max: 100, Step: 1},
		},
		surface: func(s release.Sampler, p config.Params) (release.Surface, error) {
			return s.Surface(release.SurfaceParams{
				Amplitude:    p["a"],
				Decay:        p["b"],
				Wave:         p["c"],
				Days:         p["days"],
				ThicknessMin: p["thickness_min"],
				ThicknessMax: p["thickness_max"],
			})
		},
	})

	return r
}

// Register adds or replaces a kind. Registration order is listing order.
func (r *Registry) Register(k Kind) {
	if _, ok := r.kinds[k.Name]; !ok {
		r.order = append(r.order, k.Name)
	}
	r.kinds[k.Name] = k
}

func (r *Registry) Get(name string) (Kind, error) {
	k, ok := r.kinds[name]
	if !ok {
		return Kind{}, fmt.Errorf("%w: %s", ErrUnknownKind, name)
	}
	return k, nil
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, len(r.order))
	for i, name := range r.order {
		kinds[i] = r.kinds[name]
	}
	return kinds
}

// DefaultMetrics returns fresh summary metrics for kind.
func (r *Registry) DefaultMetrics(kind string) []metrics.Metric {
	switch kind {
	case "degradation", "linear":
		return []metrics.Metric{metrics.NewFinal(), metrics.NewAUC(), metrics.NewT50()}
	default:
		return metrics.Default()
	}
}
