package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/implantsim/internal/config"
	"github.com/san-kum/implantsim/internal/experiment"
	"github.com/san-kum/implantsim/internal/export"
	"github.com/san-kum/implantsim/internal/viz"
)

type screen int

const (
	screenMenu screen = iota
	screenParams
	screenChart
)

// RunSaver persists a finished run and returns its id.
type RunSaver interface {
	Save(res *experiment.Result) (string, error)
}

type Options struct {
	// Store receives runs saved with "s". Saving is disabled when nil.
	Store RunSaver

	// OutDir is where "e" writes CSV files. Empty means the working directory.
	OutDir string
	Theme  string
}

type model struct {
	reg    *experiment.Registry
	store  RunSaver
	outDir string

	screen screen
	kinds  []experiment.Kind
	cursor int

	kind        experiment.Kind
	params      config.Params
	paramCursor int
	editing     bool
	editBuf     string

	result *experiment.Result
	err    error
	show3D bool
	camera viz.Camera

	theme  viz.Theme
	styles viz.Styles
	status string

	width  int
	height int
}

func newModel(reg *experiment.Registry, opts Options) model {
	theme := viz.GetTheme(opts.Theme)
	return model{
		reg:    reg,
		store:  opts.Store,
		outDir: opts.OutDir,
		screen: screenMenu,
		kinds:  reg.Kinds(),
		camera: *viz.NewCamera(),
		theme:  theme,
		styles: viz.NewStyles(theme),
		width:  80,
		height: 24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.screen {
	case screenMenu:
		return m.menuKey(msg)
	case screenParams:
		return m.paramsKey(msg)
	case screenChart:
		return m.chartKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.kinds)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.kind = m.kinds[m.cursor]
		m.params = m.kind.Defaults()
		m.paramCursor = 0
		m.result, m.err, m.status = nil, nil, ""
		m.screen = screenParams
	case "t":
		m.cycleTheme()
	}
	return m, nil
}

func (m model) paramsKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			spec := m.kind.Params[m.paramCursor]
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.params[spec.Name] = spec.Clamp(v)
			} else {
				m.status = fmt.Sprintf("invalid number %q", m.editBuf)
			}
			m.editing = false
			m.editBuf = ""
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 {
				c := s[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += s
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		m.screen = screenMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.kind.Params)-1 {
			m.paramCursor++
		}
	case "left", "h":
		m.nudge(-1)
	case "right", "l":
		m.nudge(1)
	case "e":
		spec := m.kind.Params[m.paramCursor]
		m.editing = true
		m.editBuf = strconv.FormatFloat(m.params[spec.Name], 'g', -1, 64)
	case "r":
		m.params = m.kind.Defaults()
	case "enter", " ", "s":
		m.run()
		if m.err == nil {
			m.screen = screenChart
			return m, tea.ClearScreen
		}
	}
	return m, nil
}

func (m model) chartKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.screen = screenMenu
		return m, tea.ClearScreen
	case "esc", "c":
		m.screen = screenParams
		return m, tea.ClearScreen
	case "3":
		m.show3D = !m.show3D
	case "left", "h":
		m.camera.RotateY(-0.1)
	case "right", "l":
		m.camera.RotateY(0.1)
	case "up", "k":
		m.camera.RotateX(-0.1)
	case "down", "j":
		m.camera.RotateX(0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "0":
		m.camera = *viz.NewCamera()
	case "e":
		m.exportCSV()
	case "s":
		m.save()
	case "t":
		m.cycleTheme()
	}
	return m, nil
}

func (m *model) nudge(n int) {
	if len(m.kind.Params) == 0 {
		return
	}
	spec := m.kind.Params[m.paramCursor]
	m.params[spec.Name] = spec.Nudge(m.params[spec.Name], n)
}

func (m *model) cycleTheme() {
	m.theme = viz.NextTheme(m.theme)
	m.styles = viz.NewStyles(m.theme)
}

func (m *model) run() {
	m.result, m.err = m.reg.Run(context.Background(), m.kind.Name, m.kind.Clamp(m.params), 0)
	if m.err != nil {
		m.status = m.err.Error()
		return
	}
	m.status = ""
	logrus.WithFields(logrus.Fields{
		"kind":    m.kind.Name,
		"samples": m.result.Samples,
	}).Debug("tui run")
}

func (m *model) exportCSV() {
	if m.result == nil {
		return
	}
	data, err := m.result.Table().CSV()
	if err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	path := filepath.Join(m.outDir, export.FileName(m.result.Title))
	if err := os.WriteFile(path, data, 0644); err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	m.status = "wrote " + path
}

func (m *model) save() {
	if m.result == nil {
		return
	}
	if m.store == nil {
		m.status = "no store configured"
		return
	}
	id, err := m.store.Save(m.result)
	if err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = "saved " + id
}

// Run starts the interactive program and blocks until it exits.
func Run(reg *experiment.Registry, opts Options) error {
	p := tea.NewProgram(newModel(reg, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
