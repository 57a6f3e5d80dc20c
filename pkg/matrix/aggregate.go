package matrix

import (
	"encoding/json"
	"fmt"

	"github.com/dkoosis/flake/internal/logging"
	"github.com/dkoosis/flake/pkg/category"
	"github.com/dkoosis/flake/pkg/flakyjson"
	"github.com/dkoosis/flake/pkg/runconfig"
)

// Index is the result of aggregation: every spec and instance in input
// order, and the distinct configurations in first-seen order.
type Index struct {
	Specs          []*Spec
	Tests          []*TestInstance
	Configurations []runconfig.Configuration
}

// DuplicateConfigurationError reports two runs of one spec that normalize to
// the same configuration, or to configurations sharing a display name. The
// input cannot be represented and is rejected.
type DuplicateConfigurationError struct {
	SpecID string
	Name   string
	New    *TestInstance
	Old    *TestInstance
}

func (e *DuplicateConfigurationError) Error() string {
	newJSON, _ := json.MarshalIndent(e.New, "", " ")
	oldJSON, _ := json.MarshalIndent(e.Old, "", " ")
	return fmt.Sprintf("duplicate test for %q in spec %q\nNEW:\n\n%s\nOLD:\n\n%s",
		e.Name, e.SpecID, newJSON, oldJSON)
}

// Aggregate builds the spec/test/configuration index from raw entries.
// It fails with *DuplicateConfigurationError when a spec has two runs under
// one configuration or one display name; no partial index is returned.
func Aggregate(entries []flakyjson.RawEntry) (*Index, error) {
	log := logging.New("aggregate")
	idx := &Index{}
	seen := make(map[string]bool)

	for _, entry := range entries {
		for _, raw := range entry.Specs {
			spec := &Spec{
				ID:     SpecID(entry.File, raw.Title),
				File:   entry.File,
				Title:  raw.Title,
				Line:   raw.Line,
				Column: raw.Column,
				tests:  make(map[string]*TestInstance, len(raw.Tests)),
			}
			idx.Specs = append(idx.Specs, spec)
			byName := make(map[string]*TestInstance, len(raw.Tests))

			for _, rawTest := range raw.Tests {
				test := newTestInstance(spec.ID, rawTest)
				key := test.Configuration.Key()
				old, dup := spec.tests[key]
				if !dup {
					old, dup = byName[test.Name]
				}
				if dup {
					return nil, &DuplicateConfigurationError{
						SpecID: spec.ID,
						Name:   test.Name,
						New:    test,
						Old:    old,
					}
				}
				spec.tests[key] = test
				byName[test.Name] = test
				spec.order = append(spec.order, test)
				idx.Tests = append(idx.Tests, test)

				if !seen[key] {
					seen[key] = true
					idx.Configurations = append(idx.Configurations, test.Configuration)
				}
			}

			spec.Category = category.Good
			for _, t := range spec.order {
				spec.Category = category.Merge(spec.Category, t.Category)
			}
		}
		log.Debug("aggregated entry", "file", entry.File, "specs", len(entry.Specs))
	}

	log.Debug("aggregation complete",
		"specs", len(idx.Specs),
		"tests", len(idx.Tests),
		"configurations", len(idx.Configurations))
	return idx, nil
}
