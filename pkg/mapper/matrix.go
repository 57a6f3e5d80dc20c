// Package mapper converts a matrix into visualization patterns.
package mapper

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dkoosis/flake/pkg/category"
	"github.com/dkoosis/flake/pkg/matrix"
	"github.com/dkoosis/flake/pkg/pattern"
)

// Options controls which parts of the matrix are mapped.
type Options struct {
	// Only keeps rows whose spec category is listed. Empty keeps all rows.
	Only []category.Category
	// TopConfigurations limits the leaderboard. Zero means 10.
	TopConfigurations int
	// MaxStackLines limits failure details per run. Zero means 5.
	MaxStackLines int
}

// FromMatrix converts a matrix into visualization patterns:
// Summary, Grid, a Leaderboard of unstable configurations, and one
// TestTable per bad or flaky spec.
func FromMatrix(m *matrix.Matrix, opts Options) []pattern.Pattern {
	stats := m.Stats()
	view := m
	if len(opts.Only) > 0 {
		view = m.Filter(opts.Only...)
	}

	patterns := []pattern.Pattern{matrixSummary(m, stats), grid(view)}
	if lb := unstableConfigurations(m, opts.topConfigurations()); lb != nil {
		patterns = append(patterns, lb)
	}
	for _, r := range view.Rows {
		if r.Spec.Category == category.Good {
			continue
		}
		patterns = append(patterns, specTable(r, opts.maxStackLines()))
	}
	return patterns
}

func (o Options) topConfigurations() int {
	if o.TopConfigurations <= 0 {
		return 10
	}
	return o.TopConfigurations
}

func (o Options) maxStackLines() int {
	if o.MaxStackLines <= 0 {
		return 5
	}
	return o.MaxStackLines
}

func matrixSummary(m *matrix.Matrix, s matrix.Stats) *pattern.Summary {
	var metrics []pattern.SummaryItem

	if s.Specs.Bad > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Bad", Value: specCount(s.Specs.Bad), Kind: "error",
		})
	}
	if s.Specs.Flaky > 0 {
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Flaky", Value: specCount(s.Specs.Flaky), Kind: "warning",
		})
	}
	if s.Specs.Good > 0 {
		kind := "success"
		if s.Specs.Bad > 0 || s.Specs.Flaky > 0 {
			kind = "info"
		}
		metrics = append(metrics, pattern.SummaryItem{
			Label: "Good", Value: specCount(s.Specs.Good), Kind: kind,
		})
	}
	metrics = append(metrics,
		pattern.SummaryItem{
			Label: "Configurations",
			Value: fmt.Sprintf("%s (%d bad, %d flaky)",
				humanize.Comma(int64(len(m.Columns))), s.Configurations.Bad, s.Configurations.Flaky),
			Kind: "info",
		},
		pattern.SummaryItem{
			Label: "Runs",
			Value: fmt.Sprintf("%s passed, %s failed, %s timed out, %s skipped",
				humanize.Comma(int64(s.Runs.Passed)), humanize.Comma(int64(s.Runs.Failed)),
				humanize.Comma(int64(s.Runs.TimedOut)), humanize.Comma(int64(s.Runs.Skipped))),
			Kind: "info",
		},
	)

	total := humanize.Comma(int64(s.Specs.Total()))
	label := fmt.Sprintf("PASS %s specs × %d configurations", total, len(m.Columns))
	if s.Specs.Bad > 0 || s.Specs.Flaky > 0 {
		label = fmt.Sprintf("FAIL %d bad, %d flaky of %s specs × %d configurations",
			s.Specs.Bad, s.Specs.Flaky, total, len(m.Columns))
	}

	return &pattern.Summary{
		Label:   label,
		Kind:    pattern.SummaryKindMatrix,
		Metrics: metrics,
	}
}

// specCount formats n as a spec count with thousands separators.
func specCount(n int) string {
	if n == 1 {
		return "1 spec"
	}
	return humanize.Comma(int64(n)) + " specs"
}

func grid(m *matrix.Matrix) *pattern.Grid {
	g := &pattern.Grid{
		Label:   "Matrix",
		Corner:  matrix.HeaderLabel,
		Columns: make([]pattern.GridColumn, 0, len(m.Columns)),
		Rows:    make([]pattern.GridRow, 0, len(m.Rows)),
	}
	for _, c := range m.Columns {
		g.Columns = append(g.Columns, pattern.GridColumn{Name: c.Name, Status: c.Category.String()})
	}
	for _, r := range m.Rows {
		cells := make([]string, len(r.Cells))
		for i, t := range r.Cells {
			if t != nil {
				cells[i] = t.Category.String()
			}
		}
		g.Rows = append(g.Rows, pattern.GridRow{
			Label:  r.Spec.Label(),
			Status: r.Spec.Category.String(),
			Cells:  cells,
		})
	}
	return g
}

// unstableConfigurations ranks configurations by their bad and flaky
// instance counts. Returns nil when every configuration is good.
func unstableConfigurations(m *matrix.Matrix, top int) *pattern.Leaderboard {
	type ranked struct {
		col    matrix.Column
		counts matrix.Counts
	}
	var items []ranked
	for i, c := range m.Columns {
		counts := m.ColumnCounts(i)
		if counts.Bad+counts.Flaky == 0 {
			continue
		}
		items = append(items, ranked{col: c, counts: counts})
	}
	if len(items) == 0 {
		return nil
	}

	// Columns are already in (precedence, name) order; a stable sort keeps
	// that order among equal scores.
	sort.SliceStable(items, func(i, j int) bool {
		return unstableScore(items[i].counts) > unstableScore(items[j].counts)
	})

	lb := &pattern.Leaderboard{
		Label:      "Unstable Configurations",
		MetricName: "unstable specs",
		TotalCount: len(items),
		ShowRank:   true,
	}
	for i, it := range items {
		if i >= top {
			break
		}
		lb.Items = append(lb.Items, pattern.LeaderboardItem{
			Name:    it.col.Name,
			Metric:  fmt.Sprintf("%d bad, %d flaky", it.counts.Bad, it.counts.Flaky),
			Value:   unstableScore(it.counts),
			Rank:    i + 1,
			Status:  it.col.Category.String(),
			Context: fmt.Sprintf("%d specs", it.counts.Total()),
		})
	}
	return lb
}

// unstableScore weighs a bad instance above any number of flaky ones
// within the same column size.
func unstableScore(c matrix.Counts) float64 {
	return float64(c.Bad)*float64(c.Total()+1) + float64(c.Flaky)
}

func specTable(r matrix.Row, maxLines int) *pattern.TestTable {
	t := &pattern.TestTable{
		Label:  fmt.Sprintf("%s %s", strings.ToUpper(r.Spec.Category.String()), r.Spec.Label()),
		Status: r.Spec.Category.String(),
	}
	for _, test := range r.Spec.Tests() {
		if test.Category == category.Good {
			continue
		}
		t.Results = append(t.Results, pattern.TestTableItem{
			Name:     test.Name,
			Status:   test.Category.String(),
			Runs:     formatRuns(test.Runs),
			Duration: formatMaxTime(test.MaxTime),
			Details:  failureDetails(test.Errors, maxLines),
		})
	}
	return t
}

func formatRuns(r category.Runs) string {
	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(r.Passed, "passed")
	add(r.Failed, "failed")
	add(r.TimedOut, "timed out")
	add(r.Skipped, "skipped")
	if len(parts) == 0 {
		return "no runs"
	}
	return strings.Join(parts, ", ")
}

// formatMaxTime formats a duration given in milliseconds.
func formatMaxTime(ms float64) string {
	if ms <= 0 {
		return ""
	}
	return formatDuration(time.Duration(ms * float64(time.Millisecond)))
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "0s"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// failureDetails returns the first stack, truncated, plus a count of the
// remaining failures. Identical stacks are reported once.
func failureDetails(errs []matrix.TestError, maxLines int) string {
	var first string
	distinct := make(map[string]bool)
	for _, e := range errs {
		if e.Stack == "" || distinct[e.Stack] {
			continue
		}
		if first == "" {
			first = e.Stack
		}
		distinct[e.Stack] = true
	}
	if first == "" {
		return ""
	}
	details := truncateLines(strings.Split(strings.TrimRight(first, "\n"), "\n"), maxLines)
	if extra := len(distinct) - 1; extra > 0 {
		details += fmt.Sprintf("\n(+%d other distinct failure(s))", extra)
	}
	return details
}

func truncateLines(lines []string, max int) string {
	if len(lines) <= max {
		return strings.Join(lines, "\n")
	}
	result := strings.Join(lines[:max], "\n")
	return result + fmt.Sprintf("\n... (%d more lines)", len(lines)-max)
}
