package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
 ██████   ██████  ██████      ██   ██ ██    ██ ██████
██    ██ ██    ██ ██   ██     ██   ██ ██    ██ ██   ██
██    ██ ██    ██ ██████      ███████ ██    ██ ██████
██    ██ ██    ██ ██          ██   ██ ██    ██ ██   ██
 ██████   ██████  ██          ██   ██  ██████  ██████`

const bannerSubtitle = "Object-Oriented Programming Resources • Terminal Client"

// bannerMinHeight is the terminal height below which the compact banner is used.
const bannerMinHeight = 36

// RenderBanner returns the styled ASCII banner.
func RenderBanner() string {
	lines := splitLines(bannerArt)
	rendered := ""

	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		rendered += BannerStyle.Render(line) + "\n"
	}

	subtitleWidth := lipgloss.Width(bannerSubtitle)
	blockWidth := max(maxWidth, subtitleWidth)

	subtitle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(bannerSubtitle)

	underline := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(strings.Repeat("─", subtitleWidth))

	return "\n" + rendered + "\n" + subtitle + "\n" + underline + "\n"
}

// RenderCompactBanner returns a single-line title for short terminals.
func RenderCompactBanner() string {
	return BannerStyle.Render("OOP Hub") + MutedStyle.Render("  "+bannerSubtitle)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
