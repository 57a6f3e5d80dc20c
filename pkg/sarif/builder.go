package sarif

import (
	"encoding/json"
	"io"
)

const schemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json"

// Builder constructs a single-run SARIF 2.1.0 document.
type Builder struct {
	doc Document
}

// NewBuilder creates a builder for the given tool and rule set.
func NewBuilder(toolName, toolVersion string, rules ...Rule) *Builder {
	return &Builder{doc: Document{
		Version: "2.1.0",
		Schema:  schemaURI,
		Runs: []Run{{
			Tool:    Tool{Driver: Driver{Name: toolName, Version: toolVersion, Rules: rules}},
			Results: []Result{},
		}},
	}}
}

// AddResult appends a result located at file:line:col. A zero line omits
// the region; an empty file omits the location.
func (b *Builder) AddResult(ruleID, level, message, file string, line, col int, props map[string]any) *Builder {
	r := Result{
		RuleID:     ruleID,
		Level:      level,
		Message:    Message{Text: message},
		Properties: props,
	}
	if file != "" {
		loc := Location{PhysicalLocation: PhysicalLocation{ArtifactLocation: ArtifactLocation{URI: file}}}
		if line > 0 {
			loc.PhysicalLocation.Region = &Region{StartLine: line, StartColumn: col}
		}
		r.Locations = []Location{loc}
	}
	b.doc.Runs[0].Results = append(b.doc.Runs[0].Results, r)
	return b
}

// Document returns the constructed SARIF document.
func (b *Builder) Document() *Document {
	return &b.doc
}

// WriteTo writes the SARIF document as indented JSON to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	data, err := json.MarshalIndent(b.doc, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	n, err := w.Write(data)
	return int64(n), err
}
