package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/implantsim/internal/experiment"
)

type fakeSaver struct {
	saved []*experiment.Result
	err   error
}

func (f *fakeSaver) Save(res *experiment.Result) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, res)
	return "run-1", nil
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestMenuNavigation(t *testing.T) {
	m := newModel(experiment.NewRegistry(), Options{})
	m = send(t, m, keys("j"), keys("j"), keys("k"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenParams || m.kind.Name != "degradation" {
		t.Fatalf("screen %v kind %q", m.screen, m.kind.Name)
	}
	if m.params["k"] != 0.1 {
		t.Errorf("k = %v, want default 0.1", m.params["k"])
	}
}

func TestNudgeClampsToRange(t *testing.T) {
	m := newModel(experiment.NewRegistry(), Options{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // basic, cursor on D

	for i := 0; i < 100; i++ {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if m.params["D"] != 5.0 {
		t.Errorf("D = %v, want max 5.0", m.params["D"])
	}
	for i := 0; i < 100; i++ {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	if m.params["D"] != 0.1 {
		t.Errorf("D = %v, want min 0.1", m.params["D"])
	}
}

func TestEditValueIsClamped(t *testing.T) {
	m := newModel(experiment.NewRegistry(), Options{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, keys("j"), keys("e"))
	if !m.editing {
		t.Fatal("expected edit mode")
	}
	m.editBuf = ""
	m = send(t, m, keys("9"), keys("9"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.params["r"] != 2.0 {
		t.Errorf("r = %v, want clamped 2.0", m.params["r"])
	}
}

func TestRunShowsChart(t *testing.T) {
	m := newModel(experiment.NewRegistry(), Options{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenChart {
		t.Fatalf("screen = %v, want chart", m.screen)
	}
	if m.result == nil || m.result.Series.Len() != 100 {
		t.Fatal("missing result")
	}
	view := m.View()
	if !strings.Contains(view, "Basic Drug Release") {
		t.Error("chart view missing title")
	}

	m = send(t, m, keys("3"))
	if !m.show3D {
		t.Fatal("3 should toggle 3D view")
	}
	if !strings.Contains(m.View(), "z: "+experiment.DepthLabel) {
		t.Error("3D view missing axis labels")
	}
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	m := newModel(experiment.NewRegistry(), Options{OutDir: dir})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter}, keys("e"))

	data, err := os.ReadFile(filepath.Join(dir, "basic_drug_release.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "Time (days),Drug Release Amount\n") {
		t.Errorf("unexpected header: %q", strings.SplitN(string(data), "\n", 2)[0])
	}
	if !strings.Contains(m.status, "wrote") {
		t.Errorf("status = %q", m.status)
	}
}

func TestSave(t *testing.T) {
	saver := &fakeSaver{}
	m := newModel(experiment.NewRegistry(), Options{Store: saver})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter}, keys("s"))
	if len(saver.saved) != 1 || m.status != "saved run-1" {
		t.Errorf("saved %d, status %q", len(saver.saved), m.status)
	}

	saver.err = errors.New("disk full")
	m = send(t, m, keys("s"))
	if !strings.Contains(m.status, "disk full") {
		t.Errorf("status = %q", m.status)
	}

	noStore := newModel(experiment.NewRegistry(), Options{})
	noStore = send(t, noStore, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter}, keys("s"))
	if noStore.status != "no store configured" {
		t.Errorf("status = %q", noStore.status)
	}
}

func TestThemeCycle(t *testing.T) {
	m := newModel(experiment.NewRegistry(), Options{Theme: "clinical"})
	m = send(t, m, keys("t"))
	if m.theme.Name != "enamel" {
		t.Errorf("theme = %q, want enamel", m.theme.Name)
	}
}

func TestBackNavigation(t *testing.T) {
	m := newModel(experiment.NewRegistry(), Options{})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEnter}, keys("c"))
	if m.screen != screenParams {
		t.Fatalf("screen = %v, want params", m.screen)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatalf("screen = %v, want menu", m.screen)
	}
}
