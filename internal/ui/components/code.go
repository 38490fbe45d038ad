package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	codeBorder = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#436b77")).
			PaddingLeft(1)

	codeTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da"))

	codeLangStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a7754e")).
			Italic(true)
)

const tabWidth = 4

// CodeBlock renders a code snippet behind a left rule, clipping lines that do
// not fit width. An empty language omits the label line.
func CodeBlock(code, language string, width int) string {
	code = strings.TrimRight(SanitizeText(code), "\n")
	if code == "" {
		return ""
	}
	inner := width - 2
	lines := strings.Split(strings.ReplaceAll(code, "\t", strings.Repeat(" ", tabWidth)), "\n")
	for i, line := range lines {
		if inner > 0 && lipgloss.Width(line) > inner {
			line = truncateRunes(line, inner)
		}
		lines[i] = codeTextStyle.Render(line)
	}

	var b strings.Builder
	if lang := SanitizeOneLine(language); lang != "" {
		b.WriteString(codeLangStyle.Render(lang))
		b.WriteString("\n")
	}
	b.WriteString(strings.Join(lines, "\n"))
	return codeBorder.Render(b.String())
}
