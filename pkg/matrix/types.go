// Package matrix aggregates flakiness report records into specs, test
// instances and configurations, and builds the sorted Spec × Configuration
// matrix consumed by renderers.
package matrix

import (
	"github.com/dkoosis/flake/pkg/category"
	"github.com/dkoosis/flake/pkg/flakyjson"
	"github.com/dkoosis/flake/pkg/runconfig"
)

// SpecIDSeparator joins file and title into a spec identity.
const SpecIDSeparator = "---"

// SpecID returns the identity of the spec titled title in file.
func SpecID(file, title string) string {
	return file + SpecIDSeparator + title
}

// Spec is one test definition with every run recorded for it, keyed by
// configuration.
type Spec struct {
	ID       string            `json:"specId"`
	File     string            `json:"file"`
	Title    string            `json:"title"`
	Line     int               `json:"line"`
	Column   int               `json:"column"`
	Category category.Category `json:"category"`

	tests map[string]*TestInstance
	order []*TestInstance
}

// Test returns the instance run under cfg, if any.
func (s *Spec) Test(cfg runconfig.Configuration) (*TestInstance, bool) {
	t, ok := s.tests[cfg.Key()]
	return t, ok
}

// Tests returns the spec's instances in input order.
func (s *Spec) Tests() []*TestInstance {
	out := make([]*TestInstance, len(s.order))
	copy(out, s.order)
	return out
}

// Label returns "file > title".
func (s *Spec) Label() string {
	return s.File + " > " + s.Title
}

// TestInstance is one run record of a spec under one configuration.
type TestInstance struct {
	SpecID         string                 `json:"specId"`
	Name           string                 `json:"name"`
	BrowserName    string                 `json:"browserName"`
	Platform       string                 `json:"platform"`
	Parameters     flakyjson.Params       `json:"parameters"`
	Annotations    []flakyjson.Annotation `json:"annotations"`
	Runs           category.Runs          `json:"runs"`
	Errors         []TestError            `json:"errors"`
	HasErrors      bool                   `json:"hasErrors"`
	MaxTime        float64                `json:"maxTime"`
	ExpectedStatus string                 `json:"expectedStatus"`
	Category       category.Category      `json:"category"`

	Configuration runconfig.Configuration `json:"-"`
}

// TestError is the stack (or fallback value) of one failed attempt.
type TestError struct {
	Stack string `json:"stack"`
}

func newTestInstance(specID string, raw flakyjson.RawTest) *TestInstance {
	norm := runconfig.Normalize(raw.Parameters)

	errs := make([]TestError, 0, len(raw.Failed))
	for _, f := range raw.Failed {
		errs = append(errs, TestError{Stack: f.Text()})
	}
	annotations := make([]flakyjson.Annotation, len(raw.Annotations))
	copy(annotations, raw.Annotations)

	t := &TestInstance{
		SpecID:      specID,
		Name:        norm.Configuration.Name(),
		BrowserName: norm.BrowserName,
		Platform:    norm.Platform,
		Parameters:  norm.Params,
		Annotations: annotations,
		Runs: category.Runs{
			Passed:   raw.Passed,
			Skipped:  raw.Skipped,
			TimedOut: raw.TimedOut,
			Failed:   len(raw.Failed),
		},
		Errors:         errs,
		HasErrors:      len(raw.Failed) > 0,
		MaxTime:        raw.MaxTime,
		ExpectedStatus: raw.Expected(),
		Configuration:  norm.Configuration,
	}
	t.Category = category.Classify(t.Runs, t.ExpectedStatus)
	return t
}
