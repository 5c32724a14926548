package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/implantsim/internal/release"
)

// PlotSeries draws s as an asciigraph line chart. The caption is suffixed with
// the sampled time range since asciigraph has no x axis labels.
func PlotSeries(s release.Series, caption string, width, height int) string {
	if s.Len() == 0 {
		return ""
	}
	data := s.Values
	if len(data) == 1 {
		// asciigraph needs two points to draw a line
		data = []float64{data[0], data[0]}
	}
	caption = fmt.Sprintf("%s  (t = %.4g..%.4g days, n = %d)", caption, s.Times[0], s.Times[s.Len()-1], s.Len())
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	)
}
