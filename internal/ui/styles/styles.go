// Package styles provides centralized Lipgloss styling for the opsdeck UI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	// Alert status colors
	ColorOpen  = lipgloss.Color("9")  // Red - unhandled alerts
	ColorAcked = lipgloss.Color("10") // Green - acknowledged alerts
	ColorOther = lipgloss.Color("11") // Yellow - everything else

	// UI element colors
	ColorBorder  = lipgloss.Color("240") // Gray - all borders
	ColorAccent  = lipgloss.Color("6")   // Cyan - titles, highlights
	ColorMuted   = lipgloss.Color("8")   // Dark gray - secondary text
	ColorSuccess = lipgloss.Color("10")  // Green - success toasts
	ColorError   = lipgloss.Color("9")   // Red - error toasts
	ColorWarning = lipgloss.Color("11")  // Yellow - warning toasts

	// Selection colors
	ColorSelectedFg = lipgloss.Color("229") // Light yellow text
	ColorSelectedBg = lipgloss.Color("57")  // Purple background
)

// Table styles
var (
	// TableBorderStyle wraps the alert table.
	TableBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(ColorBorder)

	// InfoStyle is for empty-state and informational text.
	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Status bar styles
var (
	StatusBarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder)

	StatusTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	StatusTimeStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusAlertCountStyle = lipgloss.NewStyle().
				Foreground(ColorAccent)
)

// Toast styles
var (
	ToastSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	ToastWarningStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	ToastErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)
)

// Detail modal styles
var (
	DetailBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorAccent).
				Padding(1, 2)

	DetailTitleStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	DetailMetaStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Footer styles
var (
	FooterStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder)

	FooterHintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// StatusColor returns the color for an alert status cell.
func StatusColor(status string) lipgloss.Color {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "acked", "acknowledged":
		return ColorAcked
	case "open":
		return ColorOpen
	default:
		return ColorOther
	}
}

// StatusStyle returns the render style for an alert status cell.
func StatusStyle(status string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(StatusColor(status))
}
