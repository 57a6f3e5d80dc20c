package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/flake/pkg/pattern"
)

const (
	maxRowLabelWidth = 60
	maxNameWidth     = 50
)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.Grid:
		return t.renderGrid(v)
	case *pattern.Leaderboard:
		return t.renderLeaderboard(v)
	case *pattern.TestTable:
		return t.renderTestTable(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Bold.Render(s.Label))
		sb.WriteString("\n")
	}
	for _, m := range s.Metrics {
		sb.WriteString("  ")
		icon, style := t.iconStyle(m.Kind)
		sb.WriteString(style.Render(icon + " " + m.Label + ": " + m.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderGrid prints a numbered legend of columns, then one line per row
// with a single-letter cell per column. Column names are too long to fit
// side by side, so cells are keyed by legend number.
func (t *Terminal) renderGrid(g *pattern.Grid) string {
	if len(g.Rows) == 0 && len(g.Columns) == 0 {
		return ""
	}
	var sb strings.Builder
	if g.Label != "" {
		sb.WriteString(t.theme.Bold.Render(g.Label))
		sb.WriteString("\n")
	}

	numWidth := len(fmt.Sprintf("%d", len(g.Columns)))
	for i, c := range g.Columns {
		_, style := t.theme.StatusStyle(c.Status)
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(padLeft(fmt.Sprintf("%d", i+1), numWidth) + "."))
		sb.WriteString(" ")
		sb.WriteString(style.Render(c.Name))
		sb.WriteString("\n")
	}
	if len(g.Rows) == 0 {
		return sb.String()
	}

	labelWidth := runewidth.StringWidth(g.Corner)
	for _, r := range g.Rows {
		if w := runewidth.StringWidth(r.Label); w > labelWidth {
			labelWidth = w
		}
	}
	cellWidth := numWidth + 1
	if avail := t.width - 4 - len(g.Columns)*cellWidth; labelWidth > avail {
		labelWidth = avail
	}
	if labelWidth > maxRowLabelWidth {
		labelWidth = maxRowLabelWidth
	}
	if labelWidth < 10 {
		labelWidth = 10
	}

	sb.WriteString("\n  ")
	sb.WriteString(t.theme.Muted.Render(padRight(truncate(g.Corner, labelWidth), labelWidth)))
	for i := range g.Columns {
		sb.WriteString(t.theme.Muted.Render(padLeft(fmt.Sprintf("%d", i+1), cellWidth)))
	}
	sb.WriteString("\n")

	for _, r := range g.Rows {
		_, rowStyle := t.theme.StatusStyle(r.Status)
		sb.WriteString("  ")
		sb.WriteString(rowStyle.Render(padRight(truncate(r.Label, labelWidth), labelWidth)))
		for _, status := range r.Cells {
			_, style := t.theme.StatusStyle(status)
			sb.WriteString(style.Render(padLeft(cellLetter(status), cellWidth)))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderLeaderboard(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	var sb strings.Builder
	if l.Label != "" {
		header := l.Label
		if l.TotalCount > len(l.Items) {
			header += fmt.Sprintf(" (top %d of %d)", len(l.Items), l.TotalCount)
		}
		sb.WriteString(t.theme.Bold.Render(header))
		sb.WriteString("\n")
	}

	maxName, maxMetric := 0, 0
	for _, item := range l.Items {
		if w := runewidth.StringWidth(item.Name); w > maxName {
			maxName = w
		}
		if w := runewidth.StringWidth(item.Metric); w > maxMetric {
			maxMetric = w
		}
	}
	if maxName > maxNameWidth {
		maxName = maxNameWidth
	}

	for _, item := range l.Items {
		sb.WriteString("  ")
		if l.ShowRank {
			sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%2d. ", item.Rank)))
		}
		_, style := t.theme.StatusStyle(item.Status)
		sb.WriteString(style.Render(padRight(truncate(item.Name, maxName), maxName)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Warning.Render(padLeft(item.Metric, maxMetric)))
		if item.Context != "" {
			sb.WriteString(t.theme.Muted.Render("  " + item.Context))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderTestTable(tt *pattern.TestTable) string {
	if len(tt.Results) == 0 {
		return ""
	}
	var sb strings.Builder
	if tt.Label != "" {
		_, style := t.theme.StatusStyle(tt.Status)
		sb.WriteString(style.Inherit(t.theme.Bold).Render(tt.Label))
		sb.WriteString("\n")
	}

	maxName := 0
	for _, r := range tt.Results {
		if w := runewidth.StringWidth(r.Name); w > maxName {
			maxName = w
		}
	}
	if maxName > maxNameWidth {
		maxName = maxNameWidth
	}

	for _, r := range tt.Results {
		sb.WriteString("  ")
		icon, style := t.theme.StatusStyle(r.Status)
		sb.WriteString(style.Render(icon + " "))
		sb.WriteString(padRight(truncate(r.Name, maxName), maxName))

		if r.Runs != "" {
			sb.WriteString(t.theme.Muted.Render("  " + r.Runs))
		}
		if r.Duration != "" {
			sb.WriteString(t.theme.Muted.Render("  max " + r.Duration))
		}

		if r.Details != "" {
			for _, line := range strings.Split(r.Details, "\n") {
				sb.WriteString("\n    ")
				sb.WriteString(t.theme.Muted.Render(line))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Pass, t.theme.Success
	case "error":
		return t.theme.Icons.Fail, t.theme.Error
	case "warning":
		return t.theme.Icons.Warn, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

// cellLetter returns G, F or B for a status and "-" for a missing cell.
func cellLetter(status string) string {
	if status == "" {
		return "-"
	}
	return strings.ToUpper(status[:1])
}

func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}
