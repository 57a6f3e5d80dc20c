package pattern

// TestTable lists the runs of one spec that need attention.
type TestTable struct {
	Label   string
	Status  string // aggregate status of the spec
	Results []TestTableItem
}

// TestTableItem is a single run of a spec under one configuration.
type TestTableItem struct {
	Name     string // configuration name
	Status   string // StatusGood, StatusFlaky, StatusBad
	Runs     string // e.g. "2 passed, 1 failed"
	Duration string // formatted max time
	Details  string // failure stacks, newline separated
}

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }
