// Package ui provides terminal styling for stockroom CLI output.
package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors, adaptive to light and dark terminals.
var (
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}
	ColorFail   = lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	ColorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
)

var (
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	LowStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
)

// IconLow marks a low-stock row so it stays visible without color.
const IconLow = "⚠"

// RenderWarn renders text with warning styling.
func RenderWarn(s string) string {
	return WarnStyle.Render(s)
}

// RenderLow renders a low-stock line.
func RenderLow(s string) string {
	return LowStyle.Render(s)
}

// RenderMuted renders secondary text such as totals.
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}
