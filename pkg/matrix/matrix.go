package matrix

import (
	"encoding/json"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dkoosis/flake/pkg/category"
	"github.com/dkoosis/flake/pkg/flakyjson"
	"github.com/dkoosis/flake/pkg/runconfig"
)

// HeaderLabel is the first cell of the header row.
const HeaderLabel = "spec"

// Column is one configuration in the header row with its aggregate category.
type Column struct {
	Configuration runconfig.Configuration `json:"-"`
	Name          string                  `json:"name"`
	Category      category.Category       `json:"category"`
}

// Row is one spec and its instance per column; a nil cell means the spec
// was never run under that configuration.
type Row struct {
	Spec  *Spec
	Cells []*TestInstance
}

// MarshalJSON encodes the row as [spec, cell...].
func (r Row) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(r.Cells)+1)
	out = append(out, r.Spec)
	for _, c := range r.Cells {
		out = append(out, c)
	}
	return json.Marshal(out)
}

// Matrix is the sorted Spec × Configuration grid.
type Matrix struct {
	Columns []Column
	Rows    []Row
}

// MarshalJSON encodes the matrix as its header row followed by body rows:
// [["spec", {name, category}...], [spec, test|null...]...].
func (m *Matrix) MarshalJSON() ([]byte, error) {
	header := make([]any, 0, len(m.Columns)+1)
	header = append(header, HeaderLabel)
	for _, c := range m.Columns {
		header = append(header, c)
	}
	out := make([]any, 0, len(m.Rows)+1)
	out = append(out, header)
	for _, r := range m.Rows {
		out = append(out, r)
	}
	return json.Marshal(out)
}

// FromEntries aggregates raw entries and builds the matrix.
func FromEntries(entries []flakyjson.RawEntry) (*Matrix, error) {
	idx, err := Aggregate(entries)
	if err != nil {
		return nil, err
	}
	return Build(idx), nil
}

// Build computes configuration categories, sorts columns and rows, and
// assembles the matrix. Configurations sort by (category precedence, name),
// specs by (category precedence, spec ID); names and IDs compare with
// English collation.
func Build(idx *Index) *Matrix {
	columns := make([]Column, 0, len(idx.Configurations))
	for _, cfg := range idx.Configurations {
		columns = append(columns, Column{
			Configuration: cfg,
			Name:          cfg.Name(),
			Category:      configurationCategory(idx.Specs, cfg),
		})
	}
	SortColumns(columns)

	specs := make([]*Spec, len(idx.Specs))
	copy(specs, idx.Specs)
	SortSpecs(specs)

	rows := make([]Row, 0, len(specs))
	for _, s := range specs {
		cells := make([]*TestInstance, len(columns))
		for i, c := range columns {
			if t, ok := s.Test(c.Configuration); ok {
				cells[i] = t
			}
		}
		rows = append(rows, Row{Spec: s, Cells: cells})
	}
	return &Matrix{Columns: columns, Rows: rows}
}

// configurationCategory merges the categories of every instance registered
// under cfg. Specs without a run under cfg contribute nothing.
func configurationCategory(specs []*Spec, cfg runconfig.Configuration) category.Category {
	cat := category.Good
	for _, s := range specs {
		if t, ok := s.Test(cfg); ok {
			cat = category.Merge(cat, t.Category)
		}
	}
	return cat
}

// SortColumns orders columns by (precedence, collated name). Byte order of
// the name and then the identity key break remaining ties.
func SortColumns(columns []Column) {
	coll := collate.New(language.English)
	sort.Slice(columns, func(i, j int) bool {
		a, b := columns[i], columns[j]
		if pa, pb := a.Category.Precedence(), b.Category.Precedence(); pa != pb {
			return pa < pb
		}
		if c := coll.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return strings.Compare(a.Configuration.Key(), b.Configuration.Key()) < 0
	})
}

// SortSpecs orders specs by (precedence, collated ID), byte order breaking ties.
func SortSpecs(specs []*Spec) {
	coll := collate.New(language.English)
	sort.Slice(specs, func(i, j int) bool {
		a, b := specs[i], specs[j]
		if pa, pb := a.Category.Precedence(), b.Category.Precedence(); pa != pb {
			return pa < pb
		}
		if c := coll.CompareString(a.ID, b.ID); c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})
}

// Header returns the header row: HeaderLabel followed by the column names.
func (m *Matrix) Header() []string {
	out := make([]string, 0, len(m.Columns)+1)
	out = append(out, HeaderLabel)
	for _, c := range m.Columns {
		out = append(out, c.Name)
	}
	return out
}

// Specs returns the specs in row order.
func (m *Matrix) Specs() []*Spec {
	out := make([]*Spec, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Spec
	}
	return out
}

// Filter returns a matrix holding only rows whose spec category is in keep.
// Columns are unchanged.
func (m *Matrix) Filter(keep ...category.Category) *Matrix {
	want := make(map[category.Category]bool, len(keep))
	for _, c := range keep {
		want[c] = true
	}
	out := &Matrix{Columns: m.Columns}
	for _, r := range m.Rows {
		if want[r.Spec.Category] {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
