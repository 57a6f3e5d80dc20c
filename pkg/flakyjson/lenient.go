package flakyjson

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Run counters, locations, failures and annotations are optional. A value of
// the wrong JSON type decodes to its zero value instead of failing the whole
// report. Identity fields (file, title, parameters) stay strict.

// UnmarshalJSON decodes a spec, defaulting malformed line, column and tests.
func (s *RawSpec) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title  string          `json:"title"`
		Line   json.RawMessage `json:"line"`
		Column json.RawMessage `json:"column"`
		Tests  json.RawMessage `json:"tests"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = RawSpec{
		Title:  raw.Title,
		Line:   lenientInt(raw.Line),
		Column: lenientInt(raw.Column),
	}
	if isArray(raw.Tests) {
		if err := json.Unmarshal(raw.Tests, &s.Tests); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalJSON decodes a run record, defaulting malformed counters.
func (t *RawTest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Parameters     Params          `json:"parameters"`
		Passed         json.RawMessage `json:"passed"`
		Skipped        json.RawMessage `json:"skipped"`
		TimedOut       json.RawMessage `json:"timedOut"`
		Failed         json.RawMessage `json:"failed"`
		Annotations    json.RawMessage `json:"annotations"`
		MaxTime        json.RawMessage `json:"maxTime"`
		ExpectedStatus json.RawMessage `json:"expectedStatus"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = RawTest{
		Parameters: raw.Parameters,
		Passed:     lenientInt(raw.Passed),
		Skipped:    lenientInt(raw.Skipped),
		TimedOut:   lenientInt(raw.TimedOut),
		Failed:     lenientFailures(raw.Failed),
		MaxTime:    lenientFloat(raw.MaxTime),
	}
	if isArray(raw.Annotations) {
		var annotations []Annotation
		if json.Unmarshal(raw.Annotations, &annotations) == nil {
			t.Annotations = annotations
		}
	}
	var status string
	if json.Unmarshal(raw.ExpectedStatus, &status) == nil {
		t.ExpectedStatus = status
	}
	return nil
}

// lenientFailures keeps one Failure per array element. Elements that are
// not failure objects keep their raw JSON as the value.
func lenientFailures(data json.RawMessage) []Failure {
	if !isArray(data) {
		return nil
	}
	var elems []json.RawMessage
	if json.Unmarshal(data, &elems) != nil {
		return nil
	}
	failures := make([]Failure, 0, len(elems))
	for _, elem := range elems {
		var f Failure
		if json.Unmarshal(elem, &f) != nil {
			f = Failure{Value: elem}
		}
		failures = append(failures, f)
	}
	return failures
}

func lenientFloat(data json.RawMessage) float64 {
	if len(data) == 0 {
		return 0
	}
	var f float64
	if json.Unmarshal(data, &f) == nil {
		return f
	}
	var s string
	if json.Unmarshal(data, &s) == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return 0
}

func lenientInt(data json.RawMessage) int {
	return int(lenientFloat(data))
}

func isArray(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
