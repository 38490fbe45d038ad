package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/oophub/internal/ui/components"
)

func (a *App) closeTags() {
	a.tagsOpen = false
	a.focus = focusTopics
}

func (a App) handleTagKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg) || isKey(msg, "t"):
		a.closeTags()
	case isQuit(msg):
		a.quitConfirm = true
	case isUp(msg, a.vim):
		a.tags.Up()
	case isDown(msg, a.vim):
		a.tags.Down()
	case isSpace(msg) || isEnter(msg):
		if tag, ok := a.tags.Current(); ok {
			a.data.ToggleTag(tag.ID)
			a.applyData(a.data.State())
		}
	case isKey(msg, "c"):
		a.data.ClearTags()
		a.applyData(a.data.State())
	}
	return a, nil
}

// renderTags draws the tag filter as a grid with one row per tag and the
// number of topics in the category carrying it.
func (a App) renderTags(width, height int) string {
	inner := max(12, width-4)

	rows := make([][]string, 0, a.tags.PageSize)
	for _, tag := range a.tags.Visible() {
		mark := components.UncheckedMark
		if a.dataState.TagSelected(tag.ID) {
			mark = components.CheckedMark
		}
		count := 0
		for _, t := range a.dataState.Topics {
			if t.HasTag(tag.ID) {
				count++
			}
		}
		rows = append(rows, []string{mark, tag.Name, fmt.Sprint(count)})
	}

	cols := []components.TableColumn{
		{Header: "", Width: 3},
		{Header: "Tag"},
		{Header: "#", Width: 4, Align: lipgloss.Right},
	}
	active := a.tags.Cursor - a.tags.Offset

	var b strings.Builder
	b.WriteString(SectionHeadingStyle.Render(fmt.Sprintf("Tags (%d)", a.tags.Len())))
	if n := len(a.dataState.SelectedTags); n > 0 {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  %d active", n)))
	}
	b.WriteString("\n")
	b.WriteString(components.TableGrid(cols, rows, inner, active))
	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render("space toggle · c clear · esc close"))

	return SidebarFocusStyle.Width(width - 2).Height(height - 2).Render(b.String())
}
