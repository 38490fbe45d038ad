package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/oophub/internal/appdata"
	"github.com/gravitrone/oophub/internal/ui/components"
)

// renderTopic lays out the selected topic for the content viewport: title,
// definition, tags, the sections in order and the related topics.
func renderTopic(s appdata.State, width int) string {
	topic := s.SelectedTopic
	if topic == nil {
		return ""
	}
	width = max(10, width)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(TitleStyle.Render(components.SanitizeOneLine(topic.Title)))
	b.WriteString("\n")
	if def := components.SanitizeText(topic.ShortDefinition); def != "" {
		b.WriteString(wrap.Inherit(MutedStyle).Render(def))
		b.WriteString("\n")
	}
	if len(topic.Tags) > 0 {
		chips := make([]string, 0, len(topic.Tags))
		for _, tag := range topic.Tags {
			style := TagChipStyle
			if s.TagSelected(tag.ID) {
				style = TagChipActiveStyle
			}
			chips = append(chips, style.Render(components.SanitizeOneLine(tag.Name)))
		}
		b.WriteString("\n")
		b.WriteString(wrap.Render(strings.Join(chips, " ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(Divider(width))
	b.WriteString("\n")

	if len(s.Sections) == 0 {
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render("This topic has no sections yet."))
		b.WriteString("\n")
	}
	for _, sec := range s.Sections {
		b.WriteString("\n")
		if heading := components.SanitizeOneLine(sec.Heading); heading != "" {
			b.WriteString(SectionHeadingStyle.Render(heading))
			b.WriteString("\n")
		}
		if content := strings.TrimSpace(components.SanitizeText(sec.Content)); content != "" {
			b.WriteString(wrap.Inherit(NormalStyle).Render(content))
			b.WriteString("\n")
		}
		if code := components.CodeBlock(sec.CodeSnippet, sec.Language, width); code != "" {
			b.WriteString("\n")
			b.WriteString(code)
			b.WriteString("\n")
		}
		if img := components.SanitizeOneLine(sec.ImageURL); img != "" {
			b.WriteString(MutedStyle.Render("Image: "))
			b.WriteString(AccentStyle.Render(img))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(Divider(width))
	b.WriteString("\n\n")
	b.WriteString(SectionHeadingStyle.Render("Related topics"))
	b.WriteString("\n")
	switch {
	case s.RelatedLoading:
		b.WriteString(MutedStyle.Render("Loading related topics..."))
	case len(s.RelatedTopics) == 0:
		b.WriteString(MutedStyle.Render("No related topics."))
	default:
		for i, t := range s.RelatedTopics {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(AccentStyle.Render("• "))
			b.WriteString(NormalStyle.Render(components.SanitizeOneLine(t.Title)))
		}
	}
	return b.String()
}
