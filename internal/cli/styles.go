// Package cli renders fanplan's terminal output with lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette. PrimaryColor is the lightstick purple used for titles and boosts.
var (
	PrimaryColor = lipgloss.Color("#C77DFF")
	SuccessColor = lipgloss.Color("#4ECDC4")
	WarningColor = lipgloss.Color("#FFE66D")
	ErrorColor   = lipgloss.Color("#FF6B6B")
	InfoColor    = lipgloss.Color("#95E1D3")
	SubtleColor  = lipgloss.Color("#666666")
	borderColor  = lipgloss.Color("#333")
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor).MarginBottom(1)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	// BoxStyle frames summaries such as a user's budget overview.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2)

	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)

	// BoostedStyle marks entities that similar fans also follow.
	BoostedStyle = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
)

const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	FanIcon     = "💜"
	ChartIcon   = "📊"
	AlbumIcon   = "💿"
	MerchIcon   = "🛍️"
	TicketIcon  = "🎫"
	DigitalIcon = "🎧"
	BoostIcon   = "🔥"
)

func withIcon(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

// FormatSuccess, FormatError, FormatWarning and FormatInfo prefix a status
// line with its icon and color it.
func FormatSuccess(message string) string { return withIcon(SuccessStyle, SuccessIcon, message) }

func FormatError(message string) string { return withIcon(ErrorStyle, ErrorIcon, message) }

func FormatWarning(message string) string { return withIcon(WarningStyle, WarningIcon, message) }

func FormatInfo(message string) string { return withIcon(InfoStyle, InfoIcon, message) }

// FormatTitle renders a section heading.
func FormatTitle(title string) string { return withIcon(TitleStyle, FanIcon, title) }

// RenderBox stacks a title over content inside BoxStyle.
func RenderBox(title, content string) string {
	heading := TitleStyle.UnsetMargins().Render(title)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
