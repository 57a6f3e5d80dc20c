package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dkoosis/flake/pkg/pattern"
)

// Markdown renders patterns as GitHub-flavored markdown, suitable for a
// pull request or CI job summary.
type Markdown struct{}

// NewMarkdown creates a markdown renderer.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// Render formats all patterns as markdown.
func (md *Markdown) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			sections = append(sections, md.renderSummary(v))
		case *pattern.Grid:
			sections = append(sections, md.renderGrid(v))
		case *pattern.Leaderboard:
			if len(v.Items) > 0 {
				sections = append(sections, md.renderLeaderboard(v))
			}
		}
	}
	return strings.Join(sections, "\n") + "\n"
}

func (md *Markdown) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	sb.WriteString("### " + s.Label + "\n\n")
	for _, m := range s.Metrics {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", m.Label, m.Value))
	}
	return sb.String()
}

// renderGrid writes a legend and a table whose header cells are the legend
// numbers; full configuration names would make the table unreadably wide.
func (md *Markdown) renderGrid(g *pattern.Grid) string {
	var sb strings.Builder
	for i, c := range g.Columns {
		sb.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, mdStatus(c.Status), escapeMarkdown(c.Name)))
	}
	sb.WriteString("\n")

	tw := table.NewWriter()
	header := table.Row{g.Corner}
	configs := make([]table.ColumnConfig, 0, len(g.Columns))
	for i := range g.Columns {
		header = append(header, fmt.Sprintf("%d", i+1))
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignCenter, AlignHeader: text.AlignCenter})
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	for _, r := range g.Rows {
		row := table.Row{mdStatus(r.Status) + " " + r.Label}
		for _, status := range r.Cells {
			row = append(row, mdStatus(status))
		}
		tw.AppendRow(row)
	}
	sb.WriteString(tw.RenderMarkdown())
	sb.WriteString("\n")
	return sb.String()
}

func (md *Markdown) renderLeaderboard(l *pattern.Leaderboard) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "Configuration", l.MetricName})
	for _, item := range l.Items {
		tw.AppendRow(table.Row{item.Rank, item.Name, item.Metric})
	}
	return "#### " + l.Label + "\n\n" + tw.RenderMarkdown() + "\n"
}

func mdStatus(status string) string {
	switch status {
	case pattern.StatusBad:
		return "❌"
	case pattern.StatusFlaky:
		return "⚠️"
	case pattern.StatusGood:
		return "✅"
	default:
		return "·"
	}
}

// escapeMarkdown escapes text outside tables; go-pretty escapes table cells.
func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "*", `\*`, "_", `\_`).Replace(s)
}
