package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const dialogWidth = 44

var (
	dialogBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7f57b4")).
			Padding(1, 2)
	dialogBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d7d9da"))
)

// ConfirmDialog renders a yes/no question with the title set into the top
// border and the y/n keys underneath. It never grows wider than width.
func ConfirmDialog(title, message string, width int) string {
	w := dialogWidth
	if width > 0 && width < w {
		w = width
	}
	inner := max(1, safeBoxWidth(w)-6)
	body := dialogBodyStyle.Width(inner).Render(SanitizeText(message))
	hints := []string{Hint("y", "Confirm"), Hint("n", "Cancel")}
	keys := strings.Join(hints, hintSepStyle.Render(hintSep))
	if lipgloss.Width(keys) > inner {
		keys = strings.Join(hints, "\n")
	}
	content := body + "\n\n" + lipgloss.PlaceHorizontal(inner, lipgloss.Center, keys)
	return titledBoxWithStyle(SanitizeOneLine(title), content, w, dialogBorder, boxHeaderStyle, lipgloss.Color("#7f57b4"))
}
