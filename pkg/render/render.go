// Package render provides output renderers for flake's visualization patterns:
// styled terminal text, plain LLM text, markdown and JSON.
package render

import "github.com/dkoosis/flake/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
