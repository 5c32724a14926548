package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/implantsim/internal/experiment"
	"github.com/san-kum/implantsim/internal/export"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

// ErrRunNotFound indicates an unknown run id.
var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"`
	Title     string             `json:"title"`
	YLabel    string             `json:"y_label"`
	Timestamp time.Time          `json:"timestamp"`
	Samples   int                `json:"samples"`
	Params    map[string]float64 `json:"params"`
	Metrics   map[string]float64 `json:"metrics"`
	Columns   []string           `json:"columns"`
}

func newRunID(kind string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", kind, now.Unix(), uuid.NewString()[:8])
}

// Save writes series.csv and then metadata.json for res and returns the run
// id. A failed save leaves no run directory behind.
func (s *Store) Save(res *experiment.Result) (string, error) {
	now := time.Now()
	runID := newRunID(res.Kind, now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	table := res.Table()
	meta := RunMetadata{
		ID:        runID,
		Kind:      res.Kind,
		Title:     res.Title,
		YLabel:    res.YLabel,
		Timestamp: now,
		Samples:   res.Samples,
		Params:    res.Params,
		Metrics:   export.FiniteOnly(res.Metrics),
		Columns:   table.Names(),
	}

	if err := writeRun(runDir, meta, table); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

// writeRun writes the series before the metadata so a listed run always has
// its data.
func writeRun(runDir string, meta RunMetadata, table *export.Table) error {
	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	if err := table.WriteCSV(csvFile); err != nil {
		return err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// List returns all readable runs, oldest first. Unreadable entries are
// skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(runID), metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadTable reads the series columns of a run back in their saved order.
func (s *Store) LoadTable(runID string) (*export.Table, error) {
	f, err := os.Open(filepath.Join(s.runDir(runID), seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()
	return export.ParseCSV(f)
}

// runDir confines runID to a single path element under baseDir.
func (s *Store) runDir(runID string) string {
	return filepath.Join(s.baseDir, filepath.Base(filepath.Clean("/"+runID)))
}
