// Package flakyjson parses flakiness report documents: a JSON array with one
// entry per scanned test file, each holding specs and their parametrized runs.
package flakyjson

import (
	"encoding/json"
	"strings"
)

// DefaultExpectedStatus is used when a run record carries no expectedStatus.
const DefaultExpectedStatus = "passed"

// RawEntry groups the specs found in one source file.
type RawEntry struct {
	File  string    `json:"file"`
	Specs []RawSpec `json:"specs"`
}

// RawSpec is one test definition and every run recorded for it.
type RawSpec struct {
	Title  string    `json:"title"`
	Line   int       `json:"line"`
	Column int       `json:"column"`
	Tests  []RawTest `json:"tests"`
}

// RawTest is a single parametrized run record.
type RawTest struct {
	Parameters     Params       `json:"parameters"`
	Passed         int          `json:"passed"`
	Skipped        int          `json:"skipped"`
	TimedOut       int          `json:"timedOut"`
	Failed         []Failure    `json:"failed"`
	Annotations    []Annotation `json:"annotations"`
	MaxTime        float64      `json:"maxTime"`
	ExpectedStatus string       `json:"expectedStatus"`
}

// Expected returns the expected status, defaulting to "passed".
func (t *RawTest) Expected() string {
	if t.ExpectedStatus == "" {
		return DefaultExpectedStatus
	}
	return t.ExpectedStatus
}

// Failure is one failed attempt. Workers that crash report only a value,
// e.g. {"value": "Worker process exited unexpectedly"}.
type Failure struct {
	Stack   string          `json:"stack,omitempty"`
	Message string          `json:"message,omitempty"`
	Value   json.RawMessage `json:"value,omitempty"`
}

// Text returns the stack trace, or the value when no stack was recorded.
func (f Failure) Text() string {
	if f.Stack != "" {
		return f.Stack
	}
	if len(f.Value) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(f.Value, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(f.Value))
}

// Annotation is a test annotation such as {"type": "fixme"}.
type Annotation struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}
