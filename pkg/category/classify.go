package category

// Run outcome names as they appear in a test's expectedStatus.
const (
	StatusPassed   = "passed"
	StatusFailed   = "failed"
	StatusTimedOut = "timedOut"
	StatusSkipped  = "skipped"
)

// Runs counts the outcomes recorded for one test.
type Runs struct {
	Passed   int `json:"passed"`
	Skipped  int `json:"skipped"`
	TimedOut int `json:"timedOut"`
	Failed   int `json:"failed"`
}

// Count returns the number of runs with the given outcome.
// Unknown outcomes count zero.
func (r Runs) Count(status string) int {
	switch status {
	case StatusPassed:
		return r.Passed
	case StatusFailed:
		return r.Failed
	case StatusTimedOut:
		return r.TimedOut
	case StatusSkipped:
		return r.Skipped
	default:
		return 0
	}
}

// Total returns the number of runs across all outcomes.
func (r Runs) Total() int {
	return r.Passed + r.Skipped + r.TimedOut + r.Failed
}

// Add returns the sum of r and o.
func (r Runs) Add(o Runs) Runs {
	return Runs{
		Passed:   r.Passed + o.Passed,
		Skipped:  r.Skipped + o.Skipped,
		TimedOut: r.TimedOut + o.TimedOut,
		Failed:   r.Failed + o.Failed,
	}
}

// Classify categorizes one test from its run counts. A failure or timeout
// is unexpected unless it is the expected status itself.
func Classify(runs Runs, expectedStatus string) Category {
	hasGoodRun := runs.Count(expectedStatus) > 0
	hasBadRun := (expectedStatus != StatusFailed && runs.Failed > 0) ||
		(expectedStatus != StatusTimedOut && runs.TimedOut > 0)

	switch {
	case hasGoodRun && hasBadRun:
		return Flaky
	case hasBadRun:
		return Bad
	default:
		return Good
	}
}
