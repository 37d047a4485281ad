package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return boxStyle.Render(strings.TrimRight(content, "\n"))
}

// Truncate shortens s to at most n visible runes, ending with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// Bullets renders items as an indented bullet list.
func Bullets(items []string, indent int) string {
	var b strings.Builder
	pad := strings.Repeat(" ", indent)
	for _, it := range items {
		b.WriteString(pad + StyleDim.Render("•") + " " + it + "\n")
	}
	return b.String()
}
