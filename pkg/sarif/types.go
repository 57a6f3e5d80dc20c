// Package sarif exports matrix results as SARIF 2.1.0 so code-scanning UIs
// can annotate unstable specs at their source location.
package sarif

// Document represents a SARIF 2.1.0 document.
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html
type Document struct {
	Version string `json:"version"`
	Schema  string `json:"$schema,omitempty"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single analysis run.
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool identifies the analysis tool that produced the results.
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver describes the tool's identity and the rules it reports.
type Driver struct {
	Name           string `json:"name"`
	Version        string `json:"version,omitempty"`
	InformationURI string `json:"informationUri,omitempty"`
	Rules          []Rule `json:"rules,omitempty"`
}

// Rule is a SARIF reportingDescriptor.
type Rule struct {
	ID                   string            `json:"id"`
	ShortDescription     Message           `json:"shortDescription"`
	DefaultConfiguration RuleConfiguration `json:"defaultConfiguration"`
}

// RuleConfiguration holds a rule's default severity.
type RuleConfiguration struct {
	Level string `json:"level"`
}

// Result represents a single unstable spec.
type Result struct {
	RuleID     string         `json:"ruleId"`
	Level      string         `json:"level"` // "error", "warning", "note", "none"
	Message    Message        `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Message contains the result description.
type Message struct {
	Text string `json:"text"`
}

// Location identifies where the spec is declared.
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation pinpoints the file and region.
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

// ArtifactLocation identifies the file.
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region identifies the position within the file.
type Region struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}
