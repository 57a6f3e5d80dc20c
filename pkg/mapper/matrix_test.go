package mapper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/flake/pkg/category"
	"github.com/dkoosis/flake/pkg/flakyjson"
	"github.com/dkoosis/flake/pkg/matrix"
	"github.com/dkoosis/flake/pkg/pattern"
)

func params(browser, platform string) flakyjson.Params {
	return flakyjson.NewParams(
		flakyjson.Param{Key: "browserName", Value: browser},
		flakyjson.Param{Key: "platform", Value: platform},
	)
}

func buildMatrix(t *testing.T) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromEntries([]flakyjson.RawEntry{{
		File: "page.spec.ts",
		Specs: []flakyjson.RawSpec{
			{Title: "clicks", Tests: []flakyjson.RawTest{
				{Parameters: params("chromium", "linux"), Passed: 1},
				{Parameters: params("webkit", "darwin"), Failed: []flakyjson.Failure{
					{Stack: "Error: boom\n    at a\n    at b"},
					{Stack: "Error: boom\n    at a\n    at b"},
				}, MaxTime: 1500},
			}},
			{Title: "types", Tests: []flakyjson.RawTest{
				{Parameters: params("chromium", "linux"), Passed: 1, TimedOut: 1},
			}},
			{Title: "scrolls", Tests: []flakyjson.RawTest{
				{Parameters: params("chromium", "linux"), Passed: 2},
			}},
		},
	}})
	require.NoError(t, err)
	return m
}

func TestFromMatrix_Patterns(t *testing.T) {
	patterns := FromMatrix(buildMatrix(t), Options{})
	require.Len(t, patterns, 5)

	summary, ok := patterns[0].(*pattern.Summary)
	require.True(t, ok)
	assert.Equal(t, pattern.SummaryKindMatrix, summary.Kind)
	assert.True(t, strings.HasPrefix(summary.Label, "FAIL 1 bad, 1 flaky of 3 specs"), summary.Label)

	g, ok := patterns[1].(*pattern.Grid)
	require.True(t, ok)
	require.Len(t, g.Columns, 2)
	assert.Equal(t, "webkit / darwin / default", g.Columns[0].Name)
	assert.Equal(t, pattern.StatusBad, g.Columns[0].Status)
	require.Len(t, g.Rows, 3)
	assert.Equal(t, "page.spec.ts > clicks", g.Rows[0].Label)
	assert.Equal(t, []string{"bad", "good"}, g.Rows[0].Cells)
	assert.Equal(t, []string{"", "flaky"}, g.Rows[1].Cells)

	lb, ok := patterns[2].(*pattern.Leaderboard)
	require.True(t, ok)
	require.Len(t, lb.Items, 2)
	assert.Equal(t, "webkit / darwin / default", lb.Items[0].Name)
	assert.Equal(t, "1 bad, 0 flaky", lb.Items[0].Metric)

	bad, ok := patterns[3].(*pattern.TestTable)
	require.True(t, ok)
	assert.Equal(t, "BAD page.spec.ts > clicks", bad.Label)
	require.Len(t, bad.Results, 1)
	assert.Equal(t, "2 failed", bad.Results[0].Runs)
	assert.Equal(t, "1.5s", bad.Results[0].Duration)
	assert.Equal(t, "Error: boom\n    at a\n    at b", bad.Results[0].Details)

	flakyTable, ok := patterns[4].(*pattern.TestTable)
	require.True(t, ok)
	assert.Equal(t, "FLAKY page.spec.ts > types", flakyTable.Label)
	assert.Equal(t, "1 passed, 1 timed out", flakyTable.Results[0].Runs)
}

func TestFromMatrix_SummaryMetrics(t *testing.T) {
	summary := FromMatrix(buildMatrix(t), Options{})[0].(*pattern.Summary)
	require.GreaterOrEqual(t, len(summary.Metrics), 3)

	want := []pattern.SummaryItem{
		{Label: "Bad", Value: "1 spec", Kind: "error"},
		{Label: "Flaky", Value: "1 spec", Kind: "warning"},
		{Label: "Good", Value: "1 spec", Kind: "info"},
	}
	assert.Equal(t, want, summary.Metrics[:3])
}

func TestSpecCount(t *testing.T) {
	assert.Equal(t, "0 specs", specCount(0))
	assert.Equal(t, "1 spec", specCount(1))
	assert.Equal(t, "1,234 specs", specCount(1234))
}

func TestFromMatrix_OnlyFilter(t *testing.T) {
	patterns := FromMatrix(buildMatrix(t), Options{Only: []category.Category{category.Bad}})

	g := patterns[1].(*pattern.Grid)
	require.Len(t, g.Rows, 1)
	assert.Equal(t, "page.spec.ts > clicks", g.Rows[0].Label)

	var tables int
	for _, p := range patterns {
		if _, ok := p.(*pattern.TestTable); ok {
			tables++
		}
	}
	assert.Equal(t, 1, tables)
}

func TestFromMatrix_AllGood(t *testing.T) {
	m, err := matrix.FromEntries([]flakyjson.RawEntry{{
		File:  "a.spec.ts",
		Specs: []flakyjson.RawSpec{{Title: "ok", Tests: []flakyjson.RawTest{{Parameters: params("chromium", "linux"), Passed: 1}}}},
	}})
	require.NoError(t, err)

	patterns := FromMatrix(m, Options{})
	require.Len(t, patterns, 2)
	summary := patterns[0].(*pattern.Summary)
	assert.Equal(t, "PASS 1 specs × 1 configurations", summary.Label)
	assert.Equal(t, "success", summary.Metrics[0].Kind)
}

func TestFailureDetails(t *testing.T) {
	errs := []matrix.TestError{
		{Stack: "a\nb\nc\nd"},
		{Stack: "other"},
		{Stack: ""},
	}
	got := failureDetails(errs, 2)
	assert.Equal(t, "a\nb\n... (2 more lines)\n(+1 other distinct failure(s))", got)
	assert.Equal(t, "", failureDetails(nil, 3))
}

func TestFormatRuns(t *testing.T) {
	assert.Equal(t, "no runs", formatRuns(category.Runs{}))
	assert.Equal(t, "1 passed, 2 skipped", formatRuns(category.Runs{Passed: 1, Skipped: 2}))
}

func TestUnstableScore_BadOutranksFlaky(t *testing.T) {
	assert.Greater(t, unstableScore(matrix.Counts{Bad: 1, Good: 3}), unstableScore(matrix.Counts{Flaky: 3, Good: 1}))
}
