package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn is one column of a TableGrid. Width excludes separators; a
// column with Width 0 takes whatever space the others leave.
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

var (
	gridLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#273540"))
	gridActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da")).
			Background(lipgloss.Color("#1f2530")).
			Bold(true)
	gridCheckedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#d1606b")).
				Bold(true)
)

const gridSep = "│"

// CheckedMark and UncheckedMark are toggle cells; CheckedMark is highlighted
// when rendered by TableGrid.
const (
	CheckedMark   = "[x]"
	UncheckedMark = "[ ]"
)

// TableGrid renders a header, a rule and rows, each exactly width cells wide.
// The row at index active is highlighted; pass -1 for none.
func TableGrid(columns []TableColumn, rows [][]string, width, active int) string {
	if width <= 0 {
		return ""
	}
	if len(columns) == 0 {
		return padRight("", width)
	}
	cols := fitColumns(columns, width)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = SanitizeOneLine(c.Header)
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, gridRow(cols, headers, width, boxLabelStyle, gridLineStyle))

	rule := make([]string, len(cols))
	for i, c := range cols {
		rule[i] = strings.Repeat("─", c.Width)
	}
	lines = append(lines, gridLineStyle.Render(padRight(strings.Join(rule, "┼"), width)))

	for i, row := range rows {
		style := lipgloss.NewStyle()
		sep := gridLineStyle
		if i == active {
			style = gridActiveStyle
			sep = gridLineStyle.Background(gridActiveStyle.GetBackground())
		}
		lines = append(lines, gridRow(cols, row, width, style, sep))
	}
	return strings.Join(lines, "\n")
}

// fitColumns sizes columns so they and their separators fill width exactly.
// Leftover or missing space goes to the first flexible column, else the last.
func fitColumns(columns []TableColumn, width int) []TableColumn {
	cols := make([]TableColumn, len(columns))
	copy(cols, columns)

	used := len(cols) - 1
	flex := len(cols) - 1
	for i := len(cols) - 1; i >= 0; i-- {
		if cols[i].Width <= 0 {
			flex = i
		}
	}
	for _, c := range cols {
		used += max(0, c.Width)
	}
	cols[flex].Width = max(1, max(0, cols[flex].Width)+width-used)
	return cols
}

func gridRow(cols []TableColumn, cells []string, width int, style, sepStyle lipgloss.Style) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		cell := style.Inline(true).Render(alignCell(text, c.Width, c.Align))
		parts[i] = strings.ReplaceAll(cell, CheckedMark, gridCheckedStyle.Render(CheckedMark))
	}
	return padRight(strings.Join(parts, sepStyle.Inline(true).Render(gridSep)), width)
}

func alignCell(text string, width int, align lipgloss.Position) string {
	if width <= 0 {
		return ""
	}
	text = truncateRunes(ClampTextWidth(SanitizeOneLine(text), width), width)
	pad := width - lipgloss.Width(text)
	if pad <= 0 {
		return text
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + text
	case lipgloss.Center:
		return strings.Repeat(" ", pad/2) + text + strings.Repeat(" ", pad-pad/2)
	default:
		return text + strings.Repeat(" ", pad)
	}
}
