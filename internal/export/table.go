package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrRaggedTable indicates columns of different lengths.
	ErrRaggedTable = errors.New("export: columns have different lengths")

	// ErrEmptyTable indicates a table without columns.
	ErrEmptyTable = errors.New("export: table has no columns")
)

type Column struct {
	Name   string
	Values []float64
}

// Table is an ordered set of named numeric columns. Column order is insertion
// order and is preserved in the CSV header.
type Table struct {
	Columns []Column
}

func NewTable() *Table {
	return &Table{}
}

// Add appends a column and returns t for chaining.
func (t *Table) Add(name string, values []float64) *Table {
	t.Columns = append(t.Columns, Column{Name: name, Values: values})
	return t
}

// Column returns the values of the first column called name.
func (t *Table) Column(name string) ([]float64, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c.Values, true
		}
	}
	return nil, false
}

func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Rows is the shared column length, or 0 for an empty table.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return ErrEmptyTable
	}
	n := len(t.Columns[0].Values)
	for _, c := range t.Columns[1:] {
		if len(c.Values) != n {
			return fmt.Errorf("%w: %q has %d rows, %q has %d", ErrRaggedTable, t.Columns[0].Name, n, c.Name, len(c.Values))
		}
	}
	return nil
}

// WriteCSV writes a header row followed by one row per sample index. Values
// use the shortest representation that parses back to the same float64.
func (t *Table) WriteCSV(w io.Writer) error {
	if err := t.Validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	row := make([]string, len(t.Columns))
	for i := 0; i < t.Rows(); i++ {
		for j, c := range t.Columns {
			row[j] = strconv.FormatFloat(c.Values[i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (t *Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseCSV reads a table written by WriteCSV.
func ParseCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := NewTable()
	for _, name := range header {
		t.Add(name, []float64{})
	}

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for j, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, header[j], err)
			}
			t.Columns[j].Values = append(t.Columns[j].Values, v)
		}
	}
	return t, nil
}

// FileName turns a display title into a download name:
// "Basic Drug Release" -> "basic_drug_release.csv".
func FileName(title string) string {
	name := strings.ToLower(strings.Join(strings.Fields(title), "_"))
	if name == "" {
		name = "simulation"
	}
	return name + ".csv"
}
