package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/flake/pkg/pattern"
)

const maxDetailLines = 3

// LLM renders patterns as terse plain text optimized for AI consumption.
// Zero ANSI codes, input order preserved (patterns are already sorted),
// SCOPE line first, good rows collapsed into a count.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			l.renderSummary(&sb, v)
		case *pattern.Grid:
			l.renderGrid(&sb, v)
		case *pattern.Leaderboard:
			l.renderLeaderboard(&sb, v)
		case *pattern.TestTable:
			l.renderTestTable(&sb, v)
		}
	}
	return sb.String()
}

func (l *LLM) renderSummary(sb *strings.Builder, s *pattern.Summary) {
	sb.WriteString("SCOPE: " + s.Label + "\n")
	for _, m := range s.Metrics {
		sb.WriteString("  " + m.Label + ": " + m.Value + "\n")
	}
}

// renderGrid lists configurations by number, then each non-good row with
// its cells as n=LETTER pairs. Good rows are only counted.
func (l *LLM) renderGrid(sb *strings.Builder, g *pattern.Grid) {
	sb.WriteString("\nCONFIGURATIONS\n")
	for i, c := range g.Columns {
		sb.WriteString(fmt.Sprintf("  %d %s %s\n", i+1, llmStatus(c.Status), c.Name))
	}

	var good int
	var lines []string
	for _, r := range g.Rows {
		if r.Status == pattern.StatusGood {
			good++
			continue
		}
		cells := make([]string, 0, len(r.Cells))
		for i, status := range r.Cells {
			if status == "" {
				continue
			}
			cells = append(cells, fmt.Sprintf("%d=%s", i+1, cellLetter(status)))
		}
		lines = append(lines, fmt.Sprintf("  %s %s [%s]", llmStatus(r.Status), r.Label, strings.Join(cells, " ")))
	}

	sb.WriteString("\nSPECS\n")
	for _, line := range lines {
		sb.WriteString(line + "\n")
	}
	if good > 0 {
		sb.WriteString(fmt.Sprintf("  (%d good specs omitted)\n", good))
	}
}

func (l *LLM) renderLeaderboard(sb *strings.Builder, lb *pattern.Leaderboard) {
	if len(lb.Items) == 0 {
		return
	}
	sb.WriteString("\n" + strings.ToUpper(lb.Label) + "\n")
	for _, item := range lb.Items {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", item.Rank, item.Name, item.Metric))
	}
}

func (l *LLM) renderTestTable(sb *strings.Builder, t *pattern.TestTable) {
	if len(t.Results) == 0 {
		return
	}
	sb.WriteString("\n" + t.Label + "\n")
	for _, item := range t.Results {
		sb.WriteString(fmt.Sprintf("  %s %s (%s)\n", llmStatus(item.Status), item.Name, item.Runs))
		if item.Details == "" {
			continue
		}
		lines := strings.Split(item.Details, "\n")
		n := min(len(lines), maxDetailLines)
		for _, line := range lines[:n] {
			sb.WriteString("    " + strings.TrimSpace(line) + "\n")
		}
		if len(lines) > maxDetailLines {
			sb.WriteString(fmt.Sprintf("    ... (%d more lines)\n", len(lines)-maxDetailLines))
		}
	}
}

func llmStatus(status string) string {
	switch status {
	case pattern.StatusBad:
		return "BAD"
	case pattern.StatusFlaky:
		return "FLAKY"
	case pattern.StatusGood:
		return "GOOD"
	default:
		return "NONE"
	}
}
