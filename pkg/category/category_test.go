package category

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		runs     Runs
		expected string
		want     Category
	}{
		{"all passed", Runs{Passed: 1}, StatusPassed, Good},
		{"passed then failed", Runs{Passed: 1, Failed: 1}, StatusPassed, Flaky},
		{"only failures", Runs{Failed: 2}, StatusPassed, Bad},
		{"passed then timed out", Runs{Passed: 3, TimedOut: 1}, StatusPassed, Flaky},
		{"only timeouts", Runs{TimedOut: 1}, StatusPassed, Bad},
		{"expected failure", Runs{Failed: 2}, StatusFailed, Good},
		{"expected failure that passed", Runs{Passed: 1}, StatusFailed, Good},
		{"expected failure that timed out", Runs{Failed: 1, TimedOut: 1}, StatusFailed, Flaky},
		{"expected timeout", Runs{TimedOut: 2}, StatusTimedOut, Good},
		{"expected timeout that failed", Runs{Failed: 1}, StatusTimedOut, Bad},
		{"skipped only", Runs{Skipped: 4}, StatusSkipped, Good},
		{"no runs", Runs{}, StatusPassed, Good},
		{"unknown status with failure", Runs{Failed: 1}, "interrupted", Bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.runs, tt.expected))
		})
	}
}

func TestMerge_Table(t *testing.T) {
	all := []Category{Good, Flaky, Bad}
	for _, a := range all {
		for _, b := range all {
			got := Merge(a, b)
			switch {
			case a == Bad || b == Bad:
				assert.Equal(t, Bad, got, "%s+%s", a, b)
			case a == Flaky || b == Flaky:
				assert.Equal(t, Flaky, got, "%s+%s", a, b)
			default:
				assert.Equal(t, Good, got, "%s+%s", a, b)
			}
		}
	}
}

func TestMerge_AlgebraicLaws(t *testing.T) {
	all := []Category{Good, Flaky, Bad}
	for _, a := range all {
		assert.Equal(t, a, Merge(Good, a), "Good is left identity")
		assert.Equal(t, a, Merge(a, Good), "Good is right identity")
		for _, b := range all {
			assert.Equal(t, Merge(a, b), Merge(b, a), "commutative %s %s", a, b)
			for _, c := range all {
				assert.Equal(t, Merge(Merge(a, b), c), Merge(a, Merge(b, c)), "associative %s %s %s", a, b, c)
			}
		}
	}
}

func TestMergeAll_AnyBadWins(t *testing.T) {
	assert.Equal(t, Good, MergeAll())
	assert.Equal(t, Bad, MergeAll(Good, Flaky, Bad, Good))
	assert.Equal(t, Bad, MergeAll(Bad, Flaky))
	assert.Equal(t, Flaky, MergeAll(Good, Flaky, Good))
}

func TestPrecedence(t *testing.T) {
	assert.Less(t, Bad.Precedence(), Flaky.Precedence())
	assert.Less(t, Flaky.Precedence(), Good.Precedence())
	assert.Equal(t, []Category{Bad, Flaky, Good}, All())
}

func TestZeroValueIsGood(t *testing.T) {
	var c Category
	assert.Equal(t, Good, c)
}

func TestText(t *testing.T) {
	out, err := json.Marshal(map[string]Category{"x": Flaky})
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":"flaky"}`, string(out))

	var back map[string]Category
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, Flaky, back["x"])

	_, err = Parse("weird")
	assert.Error(t, err)
	assert.Equal(t, "B", Bad.Letter())
	assert.Equal(t, "G", Good.Letter())
}

func TestRuns(t *testing.T) {
	r := Runs{Passed: 1, Skipped: 2, TimedOut: 3, Failed: 4}
	assert.Equal(t, 10, r.Total())
	assert.Equal(t, 0, r.Count("interrupted"))
	assert.Equal(t, Runs{Passed: 2, Skipped: 4, TimedOut: 6, Failed: 8}, r.Add(r))
}
