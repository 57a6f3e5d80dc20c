package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dkoosis/flake/pkg/pattern"
)

func samplePatterns() []pattern.Pattern {
	return []pattern.Pattern{
		&pattern.Summary{
			Label: "FAIL 1 bad, 1 flaky of 3 specs × 2 configurations",
			Kind:  pattern.SummaryKindMatrix,
			Metrics: []pattern.SummaryItem{
				{Label: "Bad", Value: "1 spec", Kind: "error"},
				{Label: "Flaky", Value: "1 spec", Kind: "warning"},
			},
		},
		&pattern.Grid{
			Label:  "Matrix",
			Corner: "spec",
			Columns: []pattern.GridColumn{
				{Name: "webkit / darwin / default", Status: pattern.StatusBad},
				{Name: "chromium / linux / default", Status: pattern.StatusFlaky},
			},
			Rows: []pattern.GridRow{
				{Label: "page.spec.ts > clicks", Status: pattern.StatusBad, Cells: []string{"bad", "good"}},
				{Label: "page.spec.ts > types", Status: pattern.StatusFlaky, Cells: []string{"", "flaky"}},
				{Label: "page.spec.ts > scrolls", Status: pattern.StatusGood, Cells: []string{"", "good"}},
			},
		},
		&pattern.Leaderboard{
			Label:      "Unstable Configurations",
			MetricName: "unstable specs",
			TotalCount: 2,
			ShowRank:   true,
			Items: []pattern.LeaderboardItem{
				{Name: "webkit / darwin / default", Metric: "1 bad, 0 flaky", Rank: 1, Status: pattern.StatusBad},
				{Name: "chromium / linux / default", Metric: "0 bad, 1 flaky", Rank: 2, Status: pattern.StatusFlaky},
			},
		},
		&pattern.TestTable{
			Label:  "BAD page.spec.ts > clicks",
			Status: pattern.StatusBad,
			Results: []pattern.TestTableItem{{
				Name:     "webkit / darwin / default",
				Status:   pattern.StatusBad,
				Runs:     "2 failed",
				Duration: "1.5s",
				Details:  "Error: boom\n    at a\n    at b\n    at c\n    at d",
			}},
		},
	}
}

func TestTerminal_RenderMatrixPatterns(t *testing.T) {
	out := NewTerminal(MonoTheme(), 100).Render(samplePatterns())

	for _, want := range []string{
		"FAIL 1 bad, 1 flaky",
		"1. webkit / darwin / default",
		"2. chromium / linux / default",
		"page.spec.ts > clicks",
		"Unstable Configurations",
		"BAD page.spec.ts > clicks",
		"2 failed",
		"max 1.5s",
		"at d",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTerminal_GridCellLetters(t *testing.T) {
	g := &pattern.Grid{
		Corner:  "spec",
		Columns: []pattern.GridColumn{{Name: "a"}, {Name: "b"}},
		Rows:    []pattern.GridRow{{Label: "row", Cells: []string{"bad", ""}}},
	}
	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{g})
	var rowLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "row") {
			rowLine = line
		}
	}
	if !strings.Contains(rowLine, "B") || !strings.Contains(rowLine, "-") {
		t.Errorf("expected B and - cells in row line %q", rowLine)
	}
}

func TestTerminal_EmptyPatternsRenderNothing(t *testing.T) {
	out := NewTerminal(DefaultTheme(), 0).Render([]pattern.Pattern{
		&pattern.Leaderboard{Label: "empty"},
		&pattern.TestTable{Label: "empty"},
		&pattern.Grid{},
	})
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestLLM_Render(t *testing.T) {
	out := NewLLM().Render(samplePatterns())

	if !strings.HasPrefix(out, "SCOPE: FAIL 1 bad, 1 flaky") {
		t.Errorf("expected SCOPE line first:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("LLM output must not contain ANSI escapes")
	}
	for _, want := range []string{
		"  1 BAD webkit / darwin / default",
		"  BAD page.spec.ts > clicks [1=B 2=G]",
		"  FLAKY page.spec.ts > types [2=F]",
		"(1 good specs omitted)",
		"UNSTABLE CONFIGURATIONS",
		"    at b",
		"... (2 more lines)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "scrolls") {
		t.Errorf("good spec should be collapsed:\n%s", out)
	}
}

func TestJSON_Render(t *testing.T) {
	out := NewJSON().Render(samplePatterns())

	var doc struct {
		Version  string `json:"version"`
		Patterns []struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		} `json:"patterns"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if doc.Version != schemaVersion {
		t.Errorf("version = %q, want %q", doc.Version, schemaVersion)
	}
	var types []string
	for _, p := range doc.Patterns {
		types = append(types, p.Type)
	}
	want := "summary,grid,leaderboard,test-table"
	if got := strings.Join(types, ","); got != want {
		t.Errorf("pattern types = %s, want %s", got, want)
	}
}

func TestMarkdown_Render(t *testing.T) {
	out := NewMarkdown().Render(samplePatterns())

	for _, want := range []string{
		"### FAIL 1 bad, 1 flaky",
		"1. ❌ webkit / darwin / default",
		"page.spec.ts > clicks",
		"#### Unstable Configurations",
		"|",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestEscapeMarkdown(t *testing.T) {
	if got := escapeMarkdown("a_b*c|d"); got != `a\_b\*c\|d` {
		t.Errorf("escapeMarkdown = %q", got)
	}
}

func TestThemeByName(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := ThemeByName(name).Name; got != name {
			t.Errorf("ThemeByName(%q).Name = %q", name, got)
		}
	}
	if got := ThemeByName("nope").Name; got != "default" {
		t.Errorf("unknown theme should fall back to default, got %q", got)
	}
}

func TestTheme_StatusStyle(t *testing.T) {
	th := MonoTheme()
	cases := map[string]string{
		pattern.StatusGood:  th.Icons.Pass,
		pattern.StatusFlaky: th.Icons.Warn,
		pattern.StatusBad:   th.Icons.Fail,
		"":                  th.Icons.Bullet,
	}
	for status, want := range cases {
		if icon, _ := th.StatusStyle(status); icon != want {
			t.Errorf("StatusStyle(%q) icon = %q, want %q", status, icon, want)
		}
	}
}
