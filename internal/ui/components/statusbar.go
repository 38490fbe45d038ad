package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	hintKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#888ba4")).
			Bold(true).
			Padding(0, 1)
	hintDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ba0bf"))
	hintSepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#273540"))
	statusRuleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#273540"))
)

const hintSep = "  ·  "

// Hint formats a single keybind hint like "enter Open".
func Hint(key, desc string) string {
	return hintKeyStyle.Render(key) + " " + hintDescStyle.Render(desc)
}

// StatusBar renders the key hints centered under a rule, wrapping onto
// further rows when they do not fit width. A width of zero disables wrapping.
func StatusBar(hints []string, width int) string {
	if len(hints) == 0 {
		return ""
	}
	rows := wrapHints(hints, width)
	if width <= 0 {
		return strings.Join(rows, "\n")
	}
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, statusRuleStyle.Render(strings.Repeat("─", width)))
	for _, row := range rows {
		lines = append(lines, center.Render(row))
	}
	return strings.Join(lines, "\n")
}

// StatusLine puts left at the start and right at the end of one line. When
// both do not fit, right is dropped.
func StatusLine(left, right string, width int) string {
	if width <= 0 {
		if right == "" {
			return left
		}
		return left + "  " + right
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if right == "" || gap < 2 {
		return ClampTextWidth(left, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

func wrapHints(hints []string, width int) []string {
	sep := hintSepStyle.Render(hintSep)
	if width <= 0 {
		return []string{strings.Join(hints, sep)}
	}
	sepWidth := lipgloss.Width(hintSep)
	var rows []string
	var current []string
	currentWidth := 0
	for _, h := range hints {
		w := lipgloss.Width(h)
		if len(current) > 0 && currentWidth+sepWidth+w > width {
			rows = append(rows, strings.Join(current, sep))
			current, currentWidth = nil, 0
		}
		if len(current) > 0 {
			currentWidth += sepWidth
		}
		current = append(current, h)
		currentWidth += w
	}
	if len(current) > 0 {
		rows = append(rows, strings.Join(current, sep))
	}
	return rows
}
