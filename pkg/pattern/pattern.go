// Package pattern defines the semantic data types for flake's output.
// Patterns are pure data; renderers decide presentation.
package pattern

// PatternType identifies the kind of visualization pattern.
type PatternType string

const (
	PatternTypeSummary     PatternType = "summary"
	PatternTypeGrid        PatternType = "grid"
	PatternTypeLeaderboard PatternType = "leaderboard"
	PatternTypeTestTable   PatternType = "test-table"
)

// Pattern is the interface all visualization patterns implement.
type Pattern interface {
	Type() PatternType
}

// Status values shared by Grid cells, TestTable items and Summary metrics.
// An empty status marks a missing cell.
const (
	StatusGood  = "good"
	StatusFlaky = "flaky"
	StatusBad   = "bad"
)
