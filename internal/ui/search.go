package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/gravitrone/oophub/internal/search"
	"github.com/gravitrone/oophub/internal/ui/components"
)

func (a App) openSearch() (tea.Model, tea.Cmd) {
	a.search.Open()
	a.input.SetValue("")
	a.input.Focus()
	a.focus = focusSearch
	a.applySearch(a.search.State())
	return a, textinput.Blink
}

func (a *App) closeSearchInput() {
	a.input.Blur()
	a.input.SetValue("")
	a.focus = focusTopics
	a.applySearch(a.search.State())
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case isBack(msg):
		a.search.Close()
		a.closeSearchInput()
		return a, nil
	case isKey(msg, "ctrl+k"):
		return a, nil
	case isUp(msg, false):
		a.search.Navigate(-1)
		a.applySearch(a.search.State())
		return a, nil
	case isDown(msg, false):
		a.search.Navigate(1)
		a.applySearch(a.search.State())
		return a, nil
	case isEnter(msg):
		sel, ok := a.search.SelectHighlighted()
		if !ok {
			a.search.ForceSearch()
			a.applySearch(a.search.State())
			return a, a.spinner.Tick
		}
		a.closeSearchInput()
		if sel.Topic == "" {
			return a, nil
		}
		return a, tea.Batch(a.selectFromSearchCmd(sel), a.spinner.Tick)
	}

	prev := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if value := a.input.Value(); value != prev {
		a.search.SetQuery(value)
		a.applySearch(a.search.State())
		if a.searchState.IsSearching {
			cmd = tea.Batch(cmd, a.spinner.Tick)
		}
	}
	return a, cmd
}

func (a App) renderSearch() string {
	s := a.searchState
	var b strings.Builder
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	query := strings.TrimSpace(s.Query)
	switch {
	case query == "":
		b.WriteString(MutedStyle.Render("Type to search topics, sections and categories."))
	case s.IsSearching && len(s.Results) == 0:
		b.WriteString(a.spinner.View() + MutedStyle.Render(" Searching..."))
	case len(s.Results) == 0:
		b.WriteString(MutedStyle.Render(fmt.Sprintf("No results for %q", components.SanitizeOneLine(query))))
	default:
		if s.IsSearching {
			b.WriteString(a.spinner.View() + MutedStyle.Render(" Searching...") + "\n\n")
		}
		b.WriteString(a.renderResultGroups(s, query))
	}

	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render(fmt.Sprintf("mode: %s", a.search.Mode())))
	return components.TitledBox("Search", b.String(), a.width)
}

func (a App) renderResultGroups(s search.State, query string) string {
	width := components.BoxContentWidth(a.width)
	groups := s.Grouped()
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		lines := []string{SectionHeadingStyle.Render(g.Label)}
		for _, item := range g.Items {
			marker := "  "
			if item.Index == s.SelectedIndex {
				marker = SelectedStyle.Render("› ")
			}
			line := marker + highlightMatches(item.Title, query)
			if meta := components.SanitizeOneLine(item.Meta); meta != "" {
				room := width - len([]rune(item.Title)) - 6
				if room > 3 {
					line += "  " + MutedStyle.Render(components.ClampTextWidth(meta, room))
				}
			}
			lines = append(lines, line)
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// highlightMatches renders text with the characters matched by query
// emphasised. Text without a fuzzy match is rendered plain.
func highlightMatches(text, query string) string {
	text = components.SanitizeOneLine(text)
	pattern := strings.Join(strings.Fields(query), "")
	if text == "" || pattern == "" {
		return NormalStyle.Render(text)
	}
	matches := fuzzy.Find(pattern, []string{text})
	if len(matches) == 0 {
		return NormalStyle.Render(text)
	}

	hit := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, idx := range matches[0].MatchedIndexes {
		hit[idx] = true
	}

	var b, run strings.Builder
	runHit := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if runHit {
			b.WriteString(MatchStyle.Render(run.String()))
		} else {
			b.WriteString(NormalStyle.Render(run.String()))
		}
		run.Reset()
	}
	for i, r := range text {
		if hit[i] != runHit {
			flush()
			runHit = hit[i]
		}
		run.WriteRune(r)
	}
	flush()
	return b.String()
}
