package pattern

// Grid is a rows × columns status matrix. Rows and columns are already in
// display order.
type Grid struct {
	Label   string
	Corner  string // header of the row-label column
	Columns []GridColumn
	Rows    []GridRow
}

// GridColumn is one header cell.
type GridColumn struct {
	Name   string
	Status string
}

// GridRow is one row label followed by one status per column; an empty
// status means no value for that cell.
type GridRow struct {
	Label  string
	Status string
	Cells  []string
}

func (g *Grid) Type() PatternType { return PatternTypeGrid }
