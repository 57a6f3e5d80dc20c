// Package category classifies test runs as good, flaky or bad and merges
// those classifications for specs and configurations.
package category

import "fmt"

// Category is one of Good, Flaky or Bad. The set is closed: the zero value
// is Good and no other values can be constructed outside this package.
type Category struct {
	level uint8
}

const (
	levelGood uint8 = iota
	levelFlaky
	levelBad
)

var (
	// Good means every run had the expected outcome.
	Good = Category{levelGood}
	// Flaky means runs had both expected and unexpected outcomes.
	Flaky = Category{levelFlaky}
	// Bad means runs had only unexpected outcomes.
	Bad = Category{levelBad}
)

// All lists the categories in display precedence order.
func All() []Category { return []Category{Bad, Flaky, Good} }

// Precedence orders categories for display: Bad sorts first (0), Good last (2).
func (c Category) Precedence() int {
	return int(levelBad - c.level)
}

// String returns "good", "flaky" or "bad".
func (c Category) String() string {
	switch c.level {
	case levelBad:
		return "bad"
	case levelFlaky:
		return "flaky"
	default:
		return "good"
	}
}

// Letter returns the single-letter cell marker: G, F or B.
func (c Category) Letter() string {
	switch c.level {
	case levelBad:
		return "B"
	case levelFlaky:
		return "F"
	default:
		return "G"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse converts "good", "flaky" or "bad" to a Category.
func Parse(s string) (Category, error) {
	switch s {
	case "good":
		return Good, nil
	case "flaky":
		return Flaky, nil
	case "bad":
		return Bad, nil
	default:
		return Good, fmt.Errorf("unknown category %q", s)
	}
}

// Merge combines two categories: Bad dominates Flaky, which dominates Good.
func Merge(prev, cur Category) Category {
	if cur.level > prev.level {
		return cur
	}
	return prev
}

// MergeAll folds cats with Merge, starting from Good.
func MergeAll(cats ...Category) Category {
	out := Good
	for _, c := range cats {
		out = Merge(out, c)
	}
	return out
}
