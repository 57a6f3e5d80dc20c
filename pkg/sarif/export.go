package sarif

import (
	"fmt"
	"strings"

	"github.com/dkoosis/flake/pkg/category"
	"github.com/dkoosis/flake/pkg/matrix"
)

// Rule IDs reported by FromMatrix.
const (
	RuleBadSpec   = "bad-spec"
	RuleFlakySpec = "flaky-spec"
)

// Rules are the reporting descriptors for matrix exports.
var Rules = []Rule{
	{
		ID:                   RuleBadSpec,
		ShortDescription:     Message{Text: "Spec fails under at least one configuration without ever passing there"},
		DefaultConfiguration: RuleConfiguration{Level: "error"},
	},
	{
		ID:                   RuleFlakySpec,
		ShortDescription:     Message{Text: "Spec both passed and failed under the same configuration"},
		DefaultConfiguration: RuleConfiguration{Level: "warning"},
	},
}

// FromMatrix reports one result per bad or flaky spec, located at the spec's
// declaration. Good specs are omitted.
func FromMatrix(m *matrix.Matrix, toolVersion string) *Builder {
	b := NewBuilder("flake", toolVersion, Rules...)
	for _, r := range m.Rows {
		ruleID, level := RuleFlakySpec, "warning"
		switch r.Spec.Category {
		case category.Good:
			continue
		case category.Bad:
			ruleID, level = RuleBadSpec, "error"
		}

		configs := unstableConfigurations(m, r)
		msg := fmt.Sprintf("%s is %s on %s", r.Spec.Title, r.Spec.Category, strings.Join(configs, ", "))
		b.AddResult(ruleID, level, msg, r.Spec.File, r.Spec.Line, r.Spec.Column, map[string]any{
			"specId":         r.Spec.ID,
			"configurations": configs,
		})
	}
	return b
}

func unstableConfigurations(m *matrix.Matrix, r matrix.Row) []string {
	var names []string
	for i, cell := range r.Cells {
		if cell != nil && cell.Category != category.Good {
			names = append(names, m.Columns[i].Name)
		}
	}
	return names
}
