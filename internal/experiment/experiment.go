package experiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/implantsim/internal/config"
	"github.com/san-kum/implantsim/internal/export"
	"github.com/san-kum/implantsim/internal/metrics"
	"github.com/san-kum/implantsim/internal/release"
	"github.com/san-kum/implantsim/internal/viz"
)

var (
	// ErrChartMode reports a chart mode other than "2d" or "3d".
	ErrChartMode = errors.New("experiment: chart mode must be 2d or 3d")
	// ErrChartScale reports an unknown colour scale name.
	ErrChartScale = errors.New("experiment: unknown colour scale")
)

const (
	TimeLabel      = "Time (days)"
	ThicknessLabel = "Coating Thickness (µm)"
	DepthLabel     = "Simulation Z-depth"

	// liftDepth is the constant depth used to show a 2D profile in 3D.
	liftDepth = 0.5
)

// Result is one evaluated simulation. Surface is set for 3D kinds; Series is
// always set (for 3D kinds it is rate against time).
type Result struct {
	Kind    string
	Title   string
	YLabel  string
	Params  config.Params
	Samples int
	Series  release.Series
	Surface *release.Surface
	Metrics map[string]float64
	Elapsed time.Duration
}

// Run evaluates kind with params. Missing params take their defaults;
// unknown params are rejected. samples <= 0 selects the kind's resolution.
// Values are not clamped: callers that take user input clamp first.
func (r *Registry) Run(ctx context.Context, kind string, params config.Params, samples int) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k, err := r.Get(kind)
	if err != nil {
		return nil, err
	}
	p, err := k.Resolve(params)
	if err != nil {
		return nil, err
	}

	sampler := release.NewSampler(samples, k.Sampler())
	start := time.Now()
	res := &Result{
		Kind:    k.Name,
		Title:   k.Title,
		YLabel:  k.YLabel,
		Params:  p,
		Samples: sampler.Samples,
	}

	if k.Is3D {
		surf, err := k.surface(sampler, p)
		if err != nil {
			return nil, err
		}
		res.Surface = &surf
		res.Series = release.Series{Times: surf.Times, Values: surf.Rates}
	} else {
		s, err := k.series(sampler, p)
		if err != nil {
			return nil, err
		}
		res.Series = s
	}

	res.Metrics = metrics.Collect(res.Series, r.DefaultMetrics(kind)...)
	res.Elapsed = time.Since(start)

	logrus.WithFields(logrus.Fields{
		"kind":    kind,
		"samples": res.Series.Len(),
		"elapsed": res.Elapsed,
	}).Debug("simulation evaluated")

	return res, nil
}

// Table returns the exportable columns: time first, then the value column;
// 3D kinds add thickness before the rate.
func (res *Result) Table() *export.Table {
	t := export.NewTable().Add(TimeLabel, res.Series.Times)
	if res.Surface != nil {
		t.Add(ThicknessLabel, res.Surface.Thickness)
	}
	return t.Add(res.YLabel, res.Series.Values)
}

// Points3D returns the points and per-point colour values for a 3D view.
// Surfaces map time, rate and thickness to x, y (up) and z. 2D profiles are
// lifted to a constant depth and coloured by value.
func (res *Result) Points3D() ([]viz.Vec3, []float64) {
	n := res.Series.Len()
	pts := make([]viz.Vec3, n)
	for i := 0; i < n; i++ {
		z := liftDepth
		if res.Surface != nil {
			z = res.Surface.Thickness[i]
		}
		pts[i] = viz.Vec3{X: res.Series.Times[i], Y: res.Series.Values[i], Z: z}
	}
	return pts, res.Series.Values
}

// DefaultScale is the colour scale used for 3D points when none is named.
func (res *Result) DefaultScale() viz.ColorScale {
	if res.Surface != nil {
		return viz.Plasma
	}
	return viz.Viridis
}

// AxisLabels3D returns the x, y and z labels matching Points3D.
func (res *Result) AxisLabels3D() (string, string, string) {
	if res.Surface != nil {
		return TimeLabel, res.YLabel, ThicknessLabel
	}
	return TimeLabel, res.YLabel, DepthLabel
}

// Export converts res to its JSON form.
func (res *Result) Export(id string) export.RunExport {
	return export.RunExport{
		ID:      id,
		Kind:    res.Kind,
		Title:   res.Title,
		Samples: res.Samples,
		Params:  res.Params,
		Metrics: res.Metrics,
		Columns: res.Table().JSONColumns(),
	}
}

// ChartSVG renders res as an SVG line chart ("2d") or projected scatter
// ("3d"). scale names the colour scale of 3D points; empty selects Plasma for
// surfaces and Viridis for lifted profiles.
func (res *Result) ChartSVG(mode, scale string) (string, error) {
	opts := export.DefaultChartOptions()
	opts.Title = res.Title
	opts.Scale = res.DefaultScale()
	if scale != "" {
		s, ok := viz.ScaleByName(scale)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrChartScale, scale)
		}
		opts.Scale = s
	}
	switch mode {
	case "2d":
		opts.XLabel, opts.YLabel = TimeLabel, res.YLabel
		return export.LineChartSVG(res.Series.Times, res.Series.Values, opts), nil
	case "3d":
		opts.XLabel, opts.YLabel, opts.ZLabel = res.AxisLabels3D()
		pts, colors := res.Points3D()
		return export.Scatter3DSVG(pts, colors, opts), nil
	}
	return "", fmt.Errorf("%w: %q", ErrChartMode, mode)
}

// FromTable rebuilds a result from stored columns: the first column is time,
// the last is the value and a thickness column, when present, restores the
// surface.
func FromTable(kind, title string, params config.Params, tbl *export.Table) (*Result, error) {
	if err := tbl.Validate(); err != nil {
		return nil, err
	}
	if len(tbl.Columns) < 2 {
		return nil, fmt.Errorf("%w: need time and value columns", export.ErrEmptyTable)
	}
	value := tbl.Columns[len(tbl.Columns)-1]
	res := &Result{
		Kind:    kind,
		Title:   title,
		YLabel:  value.Name,
		Params:  params,
		Samples: tbl.Rows(),
		Series:  release.Series{Times: tbl.Columns[0].Values, Values: value.Values},
	}
	if th, ok := tbl.Column(ThicknessLabel); ok {
		res.Surface = &release.Surface{Times: res.Series.Times, Thickness: th, Rates: value.Values}
	}
	return res, nil
}
