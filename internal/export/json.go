package export

import (
	"encoding/json"
	"io"
	"math"
)

// RunExport is the JSON form of a simulation run.
type RunExport struct {
	ID      string             `json:"id,omitempty"`
	Kind    string             `json:"kind"`
	Title   string             `json:"title"`
	Samples int                `json:"samples"`
	Params  map[string]float64 `json:"params"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
	Columns []JSONColumn       `json:"columns"`
}

type JSONColumn struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// JSONColumns converts t to its JSON form, keeping column order.
func (t *Table) JSONColumns() []JSONColumn {
	out := make([]JSONColumn, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = JSONColumn{Name: c.Name, Values: c.Values}
	}
	return out
}

// ExportJSON writes data as indented JSON. NaN metrics (undefined t50 for a
// flat profile) are dropped since JSON cannot carry them.
func ExportJSON(w io.Writer, data RunExport) error {
	data.Metrics = FiniteOnly(data.Metrics)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// FiniteOnly returns a copy of m without NaN or infinite entries.
func FiniteOnly(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}
