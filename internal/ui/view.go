package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/oophub/internal/api"
	"github.com/gravitrone/oophub/internal/ui/components"
)

func (a App) View() string {
	header := centerBlockUniform(a.renderHeader(), a.width)

	var body string
	switch {
	case a.quitConfirm:
		body = centerBlockUniform(components.ConfirmDialog("Quit", "Leave OOP Hub?", a.width), a.width)
	case a.helpOpen:
		body = centerBlockUniform(a.renderHelp(), a.width)
	case a.focus == focusSearch:
		body = centerBlockUniform(a.renderSearch(), a.width)
	case a.dataState.Err != nil:
		message := api.UserMessage(a.dataState.Err) + "\n\nPress r to retry."
		body = centerBlockUniform(components.ErrorBox("Could not load categories", message, a.width), a.width)
	case a.dataState.Loading && len(a.dataState.Categories) == 0:
		body = centerBlockUniform(a.spinner.View()+MutedStyle.Render(" Loading categories..."), a.width)
	case len(a.dataState.Categories) == 0:
		body = centerBlockUniform(MutedStyle.Render("No categories available."), a.width)
	default:
		height := a.bodyHeight()
		var side string
		if a.tagsOpen {
			side = a.renderTags(a.sidebarWidth(), height)
		} else {
			side = a.renderSidebar(a.sidebarWidth(), height)
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top, side, " ", a.renderContentPanel(a.contentWidth(), height))
	}

	hints := components.StatusBar(a.statusHints(), a.width)
	status := a.statusLine()

	feedback := ""
	if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s\n%s%s", header, body, hints, status, feedback)
}

func (a App) renderHeader() string {
	banner := RenderBanner()
	if a.height > 0 && a.height < bannerMinHeight {
		banner = RenderCompactBanner()
	}
	tabs := a.renderTabs()
	if tabs == "" {
		return banner
	}
	return banner + "\n" + tabs
}

func (a App) renderTabs() string {
	cats := a.dataState.Categories
	segments := make([]string, 0, len(cats))
	for i, c := range cats {
		label := components.SanitizeOneLine(c.Name)
		if i < 9 {
			label = fmt.Sprintf("%d %s", i+1, label)
		}
		if c.ID == a.dataState.SelectedCategory {
			segments = append(segments, TabActiveStyle.Render(label))
		} else {
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) renderSidebar(width, height int) string {
	s := a.dataState
	var b strings.Builder

	title := fmt.Sprintf("Topics (%d)", len(s.FilteredTopics))
	if len(s.SelectedTags) > 0 {
		title = fmt.Sprintf("Topics (%d of %d)", len(s.FilteredTopics), len(s.Topics))
	}
	b.WriteString(SectionHeadingStyle.Render(title))
	b.WriteString("\n")
	if cat, ok := s.Category(); ok && cat.Description != "" {
		b.WriteString(MutedStyle.Render(components.ClampTextWidth(cat.Description, width-4)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case s.TopicsLoading && len(s.Topics) == 0:
		b.WriteString(a.spinner.View() + MutedStyle.Render(" Loading topics..."))
	case len(s.Topics) == 0:
		b.WriteString(MutedStyle.Render("No topics in this category."))
	case len(s.FilteredTopics) == 0:
		b.WriteString(MutedStyle.Render("No topics match the selected tags."))
	default:
		current := selectedTopicID(s)
		lines := make([]string, 0, a.topics.PageSize)
		for rel, topic := range a.topics.Visible() {
			abs := a.topics.RelToAbs(rel)
			label := components.ClampTextWidth(topic.Title, width-6)
			style := NormalStyle
			if topic.ID == current {
				style = SelectedStyle
			}
			marker := "  "
			if a.topics.IsSelected(abs) && a.focus == focusTopics {
				marker = SelectedStyle.Render("› ")
			}
			lines = append(lines, marker+style.Render(label))
		}
		b.WriteString(strings.Join(lines, "\n"))
	}

	style := SidebarStyle
	if a.focus == focusTopics {
		style = SidebarFocusStyle
	}
	return style.Width(width - 2).Height(height - 2).Render(b.String())
}

func (a App) renderContentPanel(width, height int) string {
	s := a.dataState
	var inner string
	switch {
	case s.SelectedTopic != nil:
		inner = a.content.View()
	case s.TopicsLoading:
		inner = a.spinner.View() + MutedStyle.Render(" Loading...")
	case len(s.FilteredTopics) > 0:
		inner = MutedStyle.Render("Select a topic to start reading.")
	default:
		inner = MutedStyle.Render("Nothing to show.")
	}

	style := SidebarStyle
	if a.focus == focusContent {
		style = SidebarFocusStyle
	}
	return style.Width(width - 2).Height(height - 2).Render(inner)
}

func (a App) renderHelp() string {
	rows := []components.TableRow{
		{Label: "ctrl+k  /", Value: "Search"},
		{Label: "← →  1-9", Value: "Switch category"},
		{Label: "↑ ↓", Value: "Move through topics"},
		{Label: "enter", Value: "Open topic"},
		{Label: "tab", Value: "Switch between topics and content"},
		{Label: "t", Value: "Filter by tags"},
		{Label: "r", Value: "Retry loading categories"},
		{Label: "q", Value: "Quit"},
	}
	if a.vim {
		rows = append(rows, components.TableRow{Label: "h j k l", Value: "Vim navigation"})
	}
	return components.Table("Keys", rows, a.width)
}

func (a App) statusHints() []string {
	switch {
	case a.quitConfirm:
		return []string{
			components.Hint("y", "Confirm"),
			components.Hint("n", "Cancel"),
		}
	case a.helpOpen:
		return []string{components.Hint("esc", "Back")}
	case a.focus == focusSearch:
		return []string{
			components.Hint("↑/↓", "Navigate"),
			components.Hint("enter", "Open"),
			components.Hint("esc", "Close"),
		}
	case a.tagsOpen:
		return []string{
			components.Hint("↑/↓", "Move"),
			components.Hint("space", "Toggle"),
			components.Hint("c", "Clear"),
			components.Hint("esc", "Done"),
		}
	case a.dataState.Err != nil:
		return []string{
			components.Hint("r", "Retry"),
			components.Hint("q", "Quit"),
		}
	}
	hints := []string{
		components.Hint("ctrl+k", "Search"),
		components.Hint("←/→", "Category"),
	}
	if a.focus == focusContent {
		hints = append(hints, components.Hint("↑/↓", "Scroll"))
	} else {
		hints = append(hints, components.Hint("↑/↓", "Topics"), components.Hint("enter", "Open"))
	}
	if len(a.dataState.AvailableTags) > 0 {
		hints = append(hints, components.Hint("t", "Tags"))
	}
	return append(hints, components.Hint("?", "Help"), components.Hint("q", "Quit"))
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
