package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/implantsim/internal/viz"
)

func (m model) View() string {
	switch m.screen {
	case screenMenu:
		return m.viewMenu()
	case screenParams:
		return m.viewParams()
	case screenChart:
		return m.viewChart()
	}
	return ""
}

func (m model) viewMenu() string {
	s := m.styles
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.Subtle.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("           " + s.Title.Render("i m p l a n t s i m") + "\n")
	b.WriteString(s.Subtle.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	for i, k := range m.kinds {
		name := fmt.Sprintf("%-30s", k.Title)
		if i == m.cursor {
			b.WriteString("      " + s.Key.Render("▸ ") + s.Selected.Render(name) + s.Subtle.Render(k.Summary) + "\n")
		} else {
			b.WriteString("        " + s.Subtle.Render(name) + "\n")
		}
	}

	b.WriteString("\n      " + s.KeyHints("↑↓", "select", "enter", "open", "t", "theme", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewParams() string {
	s := m.styles
	var b strings.Builder

	b.WriteString("\n      " + s.Title.Render(m.kind.Title) + "  " + s.Subtle.Render(m.kind.Summary) + "\n")
	b.WriteString(s.Subtle.Render("      "+strings.Repeat("─", 44)) + "\n\n")

	for i, spec := range m.kind.Params {
		val := fmt.Sprintf("%8.3g", m.params[spec.Name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%8s", m.editBuf+"▋")
		}
		label := fmt.Sprintf("%-28s", spec.Label)
		bounds := fmt.Sprintf("  [%g, %g]", spec.Min, spec.Max)
		if i == m.paramCursor {
			b.WriteString("      " + s.Key.Render("▸ ") + s.Selected.Render(label) + s.Value.Render(val) + s.Subtle.Render(bounds) + "\n")
		} else {
			b.WriteString("        " + s.Subtle.Render(label) + s.Subtle.Render(val) + "\n")
		}
	}

	if preview, err := m.reg.Run(context.Background(), m.kind.Name, m.kind.Clamp(m.params), 0); err == nil {
		b.WriteString("\n      " + s.Subtle.Render("preview ") + s.Value.Render(viz.Sparkline(preview.Series.Values, 40)) + "\n")
	}

	m.writeStatus(&b)
	b.WriteString("\n      " + s.KeyHints("↑↓", "select", "←→", "adjust", "e", "edit", "r", "defaults", "enter", "run", "esc", "back") + "\n")
	return b.String()
}

func (m model) viewChart() string {
	s := m.styles
	var b strings.Builder
	res := m.result
	if res == nil {
		return ""
	}

	mode := "2d"
	if m.show3D {
		mode = "3d"
	}
	b.WriteString(fmt.Sprintf("\n   %s %s  %s\n\n",
		s.Status.Render("●"), s.Title.Render(res.Title), s.Subtle.Render(mode)))

	cw := max(m.width-16, 40)
	ch := max(m.height-12, 10)
	if m.show3D {
		canvas := viz.NewCanvas(cw, ch)
		pts, _ := res.Points3D()
		viz.Render3D(canvas, pts, &m.camera)
		x, y, z := res.AxisLabels3D()
		for _, line := range strings.Split(strings.TrimRight(canvas.String(), "\n"), "\n") {
			b.WriteString("   " + s.Value.Render(line) + "\n")
		}
		b.WriteString("   " + s.Subtle.Render(fmt.Sprintf("x: %s  y: %s  z: %s", x, y, z)) + "\n")
	} else {
		plot := viz.PlotSeries(res.Series, res.YLabel, cw, ch)
		for _, line := range strings.Split(plot, "\n") {
			b.WriteString("   " + line + "\n")
		}
	}

	b.WriteString("\n   " + m.metricsLine() + "\n")
	m.writeStatus(&b)

	hints := []string{"3", "2d/3d", "e", "csv", "s", "save", "t", "theme", "c", "params", "q", "menu"}
	if m.show3D {
		hints = append([]string{"←→↑↓", "rotate", "±", "zoom"}, hints...)
	}
	b.WriteString("\n   " + s.KeyHints(hints...) + "\n")
	return b.String()
}

func (m model) metricsLine() string {
	names := make([]string, 0, len(m.result.Metrics))
	for name := range m.result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, m.styles.Subtle.Render(name+"=")+m.styles.Selected.Render(fmt.Sprintf("%.4g", m.result.Metrics[name])))
	}
	return strings.Join(parts, "  ")
}

func (m model) writeStatus(b *strings.Builder) {
	if m.status == "" {
		return
	}
	style := m.styles.Status
	if m.err != nil {
		style = m.styles.Error
	}
	b.WriteString("\n      " + style.Render(m.status) + "\n")
}
