// Package frame provides an ordered, named-column table used as the
// exchange format between data loaders and the bivariate classifier.
package frame

import (
	"strconv"

	"github.com/rotisserie/eris"
)

// Kind identifies the storage type of a column.
type Kind int

const (
	// KindString holds raw cell text as loaded from CSV/XLSX.
	KindString Kind = iota
	// KindFloat holds parsed numeric values.
	KindFloat
	// KindInt holds derived integer values (e.g. class indices).
	KindInt
)

// Column is a single named column. Exactly one of the value slices is
// populated, selected by Kind.
type Column struct {
	Name    string
	Kind    Kind
	Strings []string
	Floats  []float64
	Ints    []int
}

// Len returns the number of cells in the column.
func (c Column) Len() int {
	switch c.Kind {
	case KindFloat:
		return len(c.Floats)
	case KindInt:
		return len(c.Ints)
	default:
		return len(c.Strings)
	}
}

// Frame is an ordered collection of named columns. Row order is
// preserved exactly as loaded; accessors return copies so callers can
// never mutate a frame through a returned slice.
type Frame struct {
	cols  []Column
	index map[string]int
}

// New builds a frame from columns. Column names must be unique.
// Column lengths are not equalized here; operations that require equal
// lengths (classification) check and report mismatches themselves.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if c.Name == "" {
			return nil, eris.New("frame: column with empty name")
		}
		if _, ok := f.index[c.Name]; ok {
			return nil, eris.Errorf("frame: duplicate column %q", c.Name)
		}
		f.index[c.Name] = len(f.cols)
		f.cols = append(f.cols, c)
	}
	return f, nil
}

// FromRecords builds a string frame from a header row and data rows.
// Every row must have exactly len(header) cells.
func FromRecords(header []string, rows [][]string) (*Frame, error) {
	if len(header) == 0 {
		return nil, eris.New("frame: empty header")
	}
	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = Column{Name: name, Kind: KindString, Strings: make([]string, 0, len(rows))}
	}
	for n, row := range rows {
		if len(row) != len(header) {
			return nil, eris.Errorf("frame: row %d has %d cells, header has %d", n, len(row), len(header))
		}
		for i, cell := range row {
			cols[i].Strings = append(cols[i].Strings, cell)
		}
	}
	return New(cols...)
}

// NumRows returns the length of the first column, or 0 for an empty frame.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the frame contains a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

func (f *Frame) column(name string) (Column, error) {
	i, ok := f.index[name]
	if !ok {
		return Column{}, eris.Errorf("frame: no column %q", name)
	}
	return f.cols[i], nil
}

// Strings returns a copy of the named column's cells as text.
// Numeric columns are formatted with strconv.
func (f *Frame) Strings(name string) ([]string, error) {
	c, err := f.column(name)
	if err != nil {
		return nil, err
	}
	switch c.Kind {
	case KindString:
		return append([]string(nil), c.Strings...), nil
	case KindFloat:
		out := make([]string, len(c.Floats))
		for i, v := range c.Floats {
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		return out, nil
	default:
		out := make([]string, len(c.Ints))
		for i, v := range c.Ints {
			out[i] = strconv.Itoa(v)
		}
		return out, nil
	}
}

// Floats returns a copy of the named column parsed as float64.
// String cells that do not parse produce an error naming the offending row.
func (f *Frame) Floats(name string) ([]float64, error) {
	c, err := f.column(name)
	if err != nil {
		return nil, err
	}
	switch c.Kind {
	case KindFloat:
		return append([]float64(nil), c.Floats...), nil
	case KindInt:
		out := make([]float64, len(c.Ints))
		for i, v := range c.Ints {
			out[i] = float64(v)
		}
		return out, nil
	default:
		out := make([]float64, len(c.Strings))
		for i, s := range c.Strings {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, eris.Wrapf(err, "frame: column %q row %d: parse %q", name, i, s)
			}
			out[i] = v
		}
		return out, nil
	}
}

// Ints returns a copy of the named column as int. Only KindInt columns
// are convertible; anything else is an error.
func (f *Frame) Ints(name string) ([]int, error) {
	c, err := f.column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindInt {
		return nil, eris.Errorf("frame: column %q is not an int column", name)
	}
	return append([]int(nil), c.Ints...), nil
}

// WithInts returns a copy of the frame with an added int column.
// The receiver is never modified.
func (f *Frame) WithInts(name string, vals []int) (*Frame, error) {
	if _, ok := f.index[name]; ok {
		return nil, eris.Errorf("frame: column %q already exists", name)
	}
	out := f.Clone()
	out.index[name] = len(out.cols)
	out.cols = append(out.cols, Column{Name: name, Kind: KindInt, Ints: append([]int(nil), vals...)})
	return out, nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		cols:  make([]Column, len(f.cols)),
		index: make(map[string]int, len(f.index)),
	}
	for i, c := range f.cols {
		cc := Column{Name: c.Name, Kind: c.Kind}
		switch c.Kind {
		case KindFloat:
			cc.Floats = append([]float64(nil), c.Floats...)
		case KindInt:
			cc.Ints = append([]int(nil), c.Ints...)
		default:
			cc.Strings = append([]string(nil), c.Strings...)
		}
		out.cols[i] = cc
		out.index[c.Name] = i
	}
	return out
}
