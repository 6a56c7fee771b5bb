package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDiagrams struct {
	sources []string
}

func (r *recordingDiagrams) RenderDiagram(source string, width int) string {
	r.sources = append(r.sources, source)
	return "<diagram>"
}

func TestRenderRoutesMermaidBlocks(t *testing.T) {
	t.Parallel()

	md := strings.Join([]string{
		"# Water Cycle",
		"",
		"```mermaid",
		"graph TD",
		`  A["Evaporation"] --> B["Condensation"]`,
		"```",
		"",
		"```go",
		"fmt.Println(\"not a diagram\")",
		"```",
	}, "\n")
	diagrams := &recordingDiagrams{}
	out := New(WithDiagramRenderer(diagrams)).Render(md, 80)

	require.Len(t, diagrams.sources, 1)
	assert.Contains(t, diagrams.sources[0], `A["Evaporation"] --> B["Condensation"]`)
	assert.Contains(t, out, "Water Cycle")
	assert.Contains(t, out, "<diagram>")
	assert.Contains(t, out, `fmt.Println("not a diagram")`)
}

func TestRenderBlocks(t *testing.T) {
	t.Parallel()

	md := strings.Join([]string{
		"## Key ideas",
		"",
		"Cells use **ATP** for *energy* and `glucose`.",
		"",
		"- first point",
		"- second point",
		"",
		"1. step one",
		"2. step two",
		"",
		"> remember this",
		"",
		"---",
		"",
		"See [docs](https://example.com).",
	}, "\n")
	out := New().Render(md, 60)

	for _, want := range []string{
		"Key ideas",
		"Cells use ATP for energy and glucose.",
		"• first point",
		"• second point",
		"1. step one",
		"2. step two",
		"│ remember this",
		"docs (https://example.com)",
		strings.Repeat("─", 60),
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "**")
}

func TestRenderWrapsParagraphs(t *testing.T) {
	t.Parallel()

	md := strings.Repeat("word ", 40)
	out := New().Render(md, 30)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 30, line)
	}
}

func TestThemeNamed(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "light", ThemeNamed("light").Name)
	assert.Equal(t, "dark", ThemeNamed("dark").Name)
	assert.Equal(t, "dark", ThemeNamed("").Name)
}

func TestSplitAnswerKey(t *testing.T) {
	t.Parallel()

	quiz := "## Quiz\n1. What is ATP?\n\n### Answers\n1. Energy currency\n"
	body, answers, ok := SplitAnswerKey(quiz)
	require.True(t, ok)
	assert.Equal(t, "## Quiz\n1. What is ATP?", body)
	assert.Equal(t, "### Answers\n1. Energy currency\n", answers)

	_, _, ok = SplitAnswerKey("## Story\nOnce upon a time")
	assert.False(t, ok)

	fenced := "```\n### Answers\n```\ntext"
	_, _, ok = SplitAnswerKey(fenced)
	assert.False(t, ok)

	_, _, ok = SplitAnswerKey("intro\n## **Answer Key**\nB")
	assert.True(t, ok)
}
