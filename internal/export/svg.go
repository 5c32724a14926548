package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/implantsim/internal/viz"
)

// ChartOptions controls SVG chart rendering.
type ChartOptions struct {
	Width, Height          int
	Title                  string
	XLabel, YLabel, ZLabel string
	Stroke                 string
	Scale                  viz.ColorScale
	Camera                 *viz.Camera
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:  720,
		Height: 420,
		Stroke: "#1f4fd1",
		Scale:  viz.Viridis,
	}
}

const (
	marginLeft   = 64
	marginRight  = 24
	marginTop    = 36
	marginBottom = 48
)

type bounds struct {
	lo, hi float64
}

func boundsOf(v []float64) bounds {
	b := bounds{v[0], v[0]}
	for _, x := range v {
		b.lo, b.hi = math.Min(b.lo, x), math.Max(b.hi, x)
	}
	if b.hi == b.lo {
		b.lo -= 0.5
		b.hi += 0.5
	}
	return b
}

func (b bounds) frac(v float64) float64 {
	return (v - b.lo) / (b.hi - b.lo)
}

func svgHeader(sb *strings.Builder, w, h int, title string) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif" font-size="12">
<rect width="100%%" height="100%%" fill="#ffffff"/>
`, w, h, w, h)
	if title != "" {
		fmt.Fprintf(sb, `<text x="%d" y="22" text-anchor="middle" font-size="15" fill="#000000">%s</text>
`, w/2, html.EscapeString(title))
	}
}

// LineChartSVG draws y against x with labelled axes and a light grid.
// Mismatched lengths are truncated to the shorter slice.
func LineChartSVG(x, y []float64, opts ChartOptions) string {
	n := min(len(x), len(y))
	if n == 0 {
		return ""
	}
	x, y = x[:n], y[:n]
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultChartOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}
	if opts.Stroke == "" {
		opts.Stroke = DefaultChartOptions().Stroke
	}

	pw := float64(opts.Width - marginLeft - marginRight)
	ph := float64(opts.Height - marginTop - marginBottom)
	bx, by := boundsOf(x), boundsOf(y)
	px := func(v float64) float64 { return marginLeft + bx.frac(v)*pw }
	py := func(v float64) float64 { return marginTop + ph - by.frac(v)*ph }

	var sb strings.Builder
	svgHeader(&sb, opts.Width, opts.Height, opts.Title)

	sb.WriteString(`<g stroke="#dddddd" stroke-width="1">` + "\n")
	for i := 0; i <= 4; i++ {
		f := float64(i) / 4
		gx := marginLeft + f*pw
		gy := marginTop + ph - f*ph
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%.1f"/>`+"\n", gx, marginTop, gx, marginTop+ph)
		fmt.Fprintf(&sb, `<line x1="%d" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", marginLeft, gy, marginLeft+pw, gy)
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, `<rect x="%d" y="%d" width="%.1f" height="%.1f" fill="none" stroke="#000000"/>`+"\n", marginLeft, marginTop, pw, ph)
	for i := 0; i <= 4; i++ {
		f := float64(i) / 4
		fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" text-anchor="middle">%.3g</text>`+"\n", marginLeft+f*pw, marginTop+ph+16, bx.lo+f*(bx.hi-bx.lo))
		fmt.Fprintf(&sb, `<text x="%d" y="%.1f" text-anchor="end">%.3g</text>`+"\n", marginLeft-6, marginTop+ph-f*ph+4, by.lo+f*(by.hi-by.lo))
	}
	if opts.XLabel != "" {
		fmt.Fprintf(&sb, `<text x="%.1f" y="%d" text-anchor="middle">%s</text>`+"\n", marginLeft+pw/2, opts.Height-10, html.EscapeString(opts.XLabel))
	}
	if opts.YLabel != "" {
		fmt.Fprintf(&sb, `<text x="14" y="%.1f" text-anchor="middle" transform="rotate(-90 14 %.1f)">%s</text>`+"\n", marginTop+ph/2, marginTop+ph/2, html.EscapeString(opts.YLabel))
	}

	if n == 1 {
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`+"\n", px(x[0]), py(y[0]), opts.Stroke)
	} else {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="2" d="M`, opts.Stroke)
		for i := range x {
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", px(x[i]), py(y[i]))
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", px(x[i]), py(y[i]))
			}
		}
		sb.WriteString(`"/>` + "\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// Scatter3DSVG projects pts with opts.Camera (default viz.NewCamera) and draws
// them as a connected path of markers coloured by colorValues on opts.Scale.
// A colour bar shows the value range.
func Scatter3DSVG(pts []viz.Vec3, colorValues []float64, opts ChartOptions) string {
	if len(pts) == 0 {
		return ""
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultChartOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}
	if len(opts.Scale.Stops) == 0 {
		opts.Scale = viz.Viridis
	}
	cam := opts.Camera
	if cam == nil {
		cam = viz.NewCamera()
	}
	if len(colorValues) != len(pts) {
		colorValues = make([]float64, len(pts))
		for i, p := range pts {
			colorValues[i] = p.Z
		}
	}

	barWidth := 70
	vw := opts.Width - barWidth
	vh := opts.Height - marginTop
	project := func(p viz.Vec3) (float64, float64, bool) {
		x, y, ok := cam.Project(p, vw, vh)
		return float64(x), float64(y + marginTop), ok
	}

	var sb strings.Builder
	svgHeader(&sb, opts.Width, opts.Height, opts.Title)

	sb.WriteString(`<g stroke="#aaaaaa" stroke-width="1" stroke-dasharray="4 3">` + "\n")
	for _, e := range viz.BoxEdges() {
		x0, y0, ok0 := project(e[0])
		x1, y1, ok1 := project(e[1])
		if ok0 && ok1 {
			fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x0, y0, x1, y1)
		}
	}
	sb.WriteString("</g>\n")

	labels := []struct {
		at   viz.Vec3
		text string
	}{
		{viz.Vec3{X: 1.25, Y: -1, Z: 1}, opts.XLabel},
		{viz.Vec3{X: -1, Y: 1.2, Z: 1}, opts.YLabel},
		{viz.Vec3{X: 1, Y: -1, Z: -1.3}, opts.ZLabel},
	}
	for _, l := range labels {
		if l.text == "" {
			continue
		}
		if x, y, ok := project(l.at); ok {
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" text-anchor="middle" fill="#333333">%s</text>`+"\n", x, y, html.EscapeString(l.text))
		}
	}

	norm := viz.Normalize(pts)
	colors := opts.Scale.Colors(colorValues)

	sb.WriteString(`<path fill="none" stroke="#888888" stroke-width="2" d="`)
	started := false
	for _, p := range norm {
		x, y, ok := project(p)
		if !ok {
			continue
		}
		if !started {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			started = true
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>` + "\n")

	for i, p := range norm {
		if x, y, ok := project(p); ok {
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"/>`+"\n", x, y, colors[i])
		}
	}

	writeColorBar(&sb, opts, colorValues, opts.Width-barWidth+20, marginTop+20, 16, opts.Height-marginTop-60)

	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeColorBar(sb *strings.Builder, opts ChartOptions, values []float64, x, y, w, h int) {
	b := boundsOf(values)
	id := "scale-" + opts.Scale.Name
	fmt.Fprintf(sb, `<defs><linearGradient id="%s" x1="0" y1="1" x2="0" y2="0">`, id)
	for i, stop := range opts.Scale.Stops {
		off := float64(i) / float64(len(opts.Scale.Stops)-1)
		fmt.Fprintf(sb, `<stop offset="%.2f" stop-color="%s"/>`, off, stop)
	}
	sb.WriteString("</linearGradient></defs>\n")
	fmt.Fprintf(sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="url(#%s)" stroke="#000000"/>`+"\n", x, y, w, h, id)
	fmt.Fprintf(sb, `<text x="%d" y="%d">%.3g</text>`+"\n", x+w+4, y+10, b.hi)
	fmt.Fprintf(sb, `<text x="%d" y="%d">%.3g</text>`+"\n", x+w+4, y+h, b.lo)
}
