package matrix

import "github.com/dkoosis/flake/pkg/category"

// Counts tallies entities per category.
type Counts struct {
	Good  int
	Flaky int
	Bad   int
}

// Total returns the number of counted entities.
func (c Counts) Total() int { return c.Good + c.Flaky + c.Bad }

// Of returns the count for one category.
func (c Counts) Of(cat category.Category) int {
	switch cat {
	case category.Bad:
		return c.Bad
	case category.Flaky:
		return c.Flaky
	default:
		return c.Good
	}
}

func (c *Counts) add(cat category.Category) {
	switch cat {
	case category.Bad:
		c.Bad++
	case category.Flaky:
		c.Flaky++
	default:
		c.Good++
	}
}

// Stats holds aggregate statistics across the matrix.
type Stats struct {
	Specs          Counts
	Configurations Counts
	Tests          Counts
	Runs           category.Runs
}

// Stats computes per-category counts for specs, configurations and
// instances, and sums run outcomes.
func (m *Matrix) Stats() Stats {
	var s Stats
	for _, c := range m.Columns {
		s.Configurations.add(c.Category)
	}
	for _, r := range m.Rows {
		s.Specs.add(r.Spec.Category)
		for _, t := range r.Cells {
			if t == nil {
				continue
			}
			s.Tests.add(t.Category)
			s.Runs = s.Runs.Add(t.Runs)
		}
	}
	return s
}

// ColumnCounts returns per-category instance counts for column i.
func (m *Matrix) ColumnCounts(i int) Counts {
	var c Counts
	for _, r := range m.Rows {
		if i < len(r.Cells) && r.Cells[i] != nil {
			c.add(r.Cells[i].Category)
		}
	}
	return c
}
