// Package tui is an interactive matrix browser: a table of specs by
// configuration on the left and the selected spec's failures on the right.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/flake/pkg/category"
	"github.com/dkoosis/flake/pkg/matrix"
	"github.com/dkoosis/flake/pkg/render"
)

const (
	cellWidth     = 3
	minLabelWidth = 20
	maxLabelWidth = 60
	maxStackLines = 12
)

// filters cycles with the "f" key.
var filters = []struct {
	name string
	keep []category.Category
}{
	{"all", nil},
	{"flaky", []category.Category{category.Bad, category.Flaky}},
	{"bad", []category.Category{category.Bad}},
}

// Run launches the interactive browser and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, m *matrix.Matrix, theme render.Theme) error {
	program := tea.NewProgram(newModel(m, theme), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

type model struct {
	full     *matrix.Matrix
	view     *matrix.Matrix
	filter   int
	theme    render.Theme
	table    table.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

func newModel(m *matrix.Matrix, theme render.Theme) model {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Muted.GetForeground()).Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Primary.GetForeground()).Bold(true)

	t := table.New(table.WithFocused(true))
	t.SetStyles(styles)

	mod := model{
		full:     m,
		view:     m,
		theme:    theme,
		table:    t,
		viewport: viewport.New(0, 0),
	}
	mod.rebuildTable()
	return mod
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "f":
			m.filter = (m.filter + 1) % len(filters)
			m.view = m.full
			if keep := filters[m.filter].keep; keep != nil {
				m.view = m.full.Filter(keep...)
			}
			m.rebuildTable()
			return m, nil
		case "J", "shift+down":
			m.viewport.SetYOffset(m.viewport.YOffset + 1)
			return m, nil
		case "K", "shift+up":
			m.viewport.SetYOffset(m.viewport.YOffset - 1)
			return m, nil
		}
		prev := m.table.Cursor()
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		if m.table.Cursor() != prev {
			m.refreshViewport()
		}
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refreshViewport()
	}
	return m, nil
}

// layout splits the width between the table and the detail pane.
func (m *model) layout() {
	tableWidth := m.labelWidth() + len(m.view.Columns)*(cellWidth+2) + 4
	if tableWidth > m.width*2/3 {
		tableWidth = m.width * 2 / 3
	}
	contentHeight := m.height - 4
	if contentHeight < 5 {
		contentHeight = 5
	}
	m.table.SetWidth(tableWidth)
	m.table.SetHeight(contentHeight)
	m.viewport.Width = max(m.width-tableWidth-4, 10)
	m.viewport.Height = contentHeight - 2
}

func (m *model) labelWidth() int {
	w := minLabelWidth
	for _, r := range m.view.Rows {
		if n := lipgloss.Width(r.Spec.Label()) + 2; n > w {
			w = n
		}
	}
	return min(w, maxLabelWidth)
}

func (m *model) rebuildTable() {
	cols := []table.Column{{Title: matrix.HeaderLabel, Width: m.labelWidth()}}
	for i := range m.view.Columns {
		cols = append(cols, table.Column{Title: fmt.Sprintf("%d", i+1), Width: cellWidth})
	}

	rows := make([]table.Row, 0, len(m.view.Rows))
	for _, r := range m.view.Rows {
		row := table.Row{r.Spec.Category.Letter() + " " + r.Spec.Label()}
		for _, cell := range r.Cells {
			if cell == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, cell.Category.Letter())
		}
		rows = append(rows, row)
	}

	// Rendering indexes columns by cell, so columns go in before rows.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
	if m.width > 0 {
		m.layout()
	}
	m.refreshViewport()
}

func (m *model) selectedRow() (matrix.Row, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.view.Rows) {
		return matrix.Row{}, false
	}
	return m.view.Rows[i], true
}

func (m *model) refreshViewport() {
	row, ok := m.selectedRow()
	if !ok {
		m.viewport.SetContent(m.theme.Muted.Render("No specs match filter " + filters[m.filter].name))
		return
	}
	m.viewport.SetContent(m.detail(row))
	m.viewport.GotoTop()
}

// detail lists every instance of the spec, good ones as a single line and
// the rest with their run counts and failure stacks.
func (m *model) detail(row matrix.Row) string {
	var sb strings.Builder
	_, style := m.theme.StatusStyle(row.Spec.Category.String())
	sb.WriteString(style.Inherit(m.theme.Bold).Render(strings.ToUpper(row.Spec.Category.String()) + " " + row.Spec.Label()))
	sb.WriteString("\n")
	sb.WriteString(m.theme.Muted.Render(fmt.Sprintf("%s:%d:%d", row.Spec.File, row.Spec.Line, row.Spec.Column)))
	sb.WriteString("\n\n")

	for i, col := range m.view.Columns {
		cell := row.Cells[i]
		if cell == nil {
			continue
		}
		icon, style := m.theme.StatusStyle(cell.Category.String())
		sb.WriteString(style.Render(fmt.Sprintf("%s %d. %s", icon, i+1, col.Name)))
		sb.WriteString("\n")
		if cell.Category == category.Good {
			continue
		}
		sb.WriteString(m.theme.Muted.Render(fmt.Sprintf("    passed %d  failed %d  timed out %d  skipped %d  expected %s",
			cell.Runs.Passed, cell.Runs.Failed, cell.Runs.TimedOut, cell.Runs.Skipped, cell.ExpectedStatus)))
		sb.WriteString("\n")
		for _, e := range cell.Errors {
			if e.Stack == "" {
				continue
			}
			for _, line := range firstLines(e.Stack, maxStackLines) {
				sb.WriteString("    " + line + "\n")
			}
		}
	}
	return sb.String()
}

func firstLines(s string, n int) []string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		rest := len(lines) - n
		lines = append(lines[:n:n], fmt.Sprintf("... (%d more lines)", rest))
	}
	return lines
}

func (m model) View() string {
	if !m.ready {
		return "Loading matrix..."
	}

	title := m.theme.Bold.Render(fmt.Sprintf("flake: %d specs × %d configurations (filter: %s)",
		len(m.view.Rows), len(m.view.Columns), filters[m.filter].name))

	tablePanel := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Muted.GetForeground()).
		Render(m.table.View())
	detailPanel := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Muted.GetForeground()).
		Width(m.viewport.Width).
		Render(m.viewport.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, tablePanel, detailPanel)
	help := m.theme.Muted.Render("↑/↓ navigate • J/K scroll detail • f filter • q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, panels, help)
}
