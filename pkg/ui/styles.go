// Package ui renders notifications for the terminal.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theapemachine/koji-go/pkg/events"
)

// UI color scheme
var (
	red    = lipgloss.AdaptiveColor{Light: "#FE5F86", Dark: "#FE5F86"}
	green  = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02BF87"}
	blue   = lipgloss.AdaptiveColor{Light: "#1E88E5", Dark: "#42A5F5"}
	yellow = lipgloss.AdaptiveColor{Light: "#FFC107", Dark: "#FFD54F"}
	gray   = lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#BDBDBD"}
	indigo = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
)

var categoryStyles = map[events.Category]lipgloss.Style{
	events.CategoryInfo:    lipgloss.NewStyle().Foreground(blue),
	events.CategorySuccess: lipgloss.NewStyle().Foreground(green),
	events.CategoryMuted:   lipgloss.NewStyle().Foreground(gray),
	events.CategoryError:   lipgloss.NewStyle().Foreground(red).Bold(true),
	events.CategoryWarning: lipgloss.NewStyle().Foreground(yellow),
}

var productStyle = lipgloss.NewStyle().
	Foreground(indigo).
	Bold(true)

// Render styles a state word by its semantic category. It satisfies
// events.Renderer; uncategorized states pass through unstyled.
func Render(category events.Category, text string) string {
	style, ok := categoryStyles[category]
	if !ok {
		return text
	}
	return style.Render(text)
}

// RenderProduct styles a product label for terminal output. Unclassified
// notifications (empty product) render as a muted placeholder.
func RenderProduct(product string) string {
	if product == "" {
		return categoryStyles[events.CategoryMuted].Render("[unclassified]")
	}
	return productStyle.Render("[" + product + "]")
}
