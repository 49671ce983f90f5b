package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pr8x/hadeck/internal/version"
)

// Application branding constants
const (
	AppName   = "HADECK CLIMATE DECK"
	GitHubURL = "github.com/pr8x/hadeck"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60 // Minimum supported terminal width
	SliderWidth      = 30 // Width of the temperature slider bar
)

// Color palette
var (
	// Primary colors
	PrimaryColor   = lipgloss.Color("#00B8D4") // Cyan
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	HeatColor      = lipgloss.Color("#FF7043") // Warm orange
	CoolColor      = lipgloss.Color("#4FC3F7") // Light blue
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	// Neutral colors
	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = lipgloss.Color("#00B8D4") // Cyan (same as primary)
	HighlightColor = lipgloss.Color("#43BF6D") // Green
)

// Common styles
var (
	// Title style
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0).
			MarginBottom(1)

	// Subtitle style
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Help text style
	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(1, 0)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor)

	// Spinner style
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Widget panel (unfocused)
	WidgetStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1).
			MarginBottom(1)

	// Widget panel (focused)
	FocusedWidgetStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(PrimaryColor).
				Padding(0, 1).
				MarginBottom(1)

	// Entity name inside a widget
	EntityNameStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// Large target temperature readout
	TargetTempStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// Current temperature readout
	CurrentTempStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	// Mode chip (unselected)
	ModeChipStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 1)

	// Mode chip (selected)
	SelectedModeChipStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true).
				Padding(0, 1).
				Underline(true)

	// Unavailable entity styling
	UnavailableStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Italic(true)

	// Slider track and filled portion
	SliderTrackStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)
	SliderFillStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// ModeColor returns the accent color for an HVAC mode.
func ModeColor(mode string) lipgloss.Color {
	switch mode {
	case "heat":
		return HeatColor
	case "cool":
		return CoolColor
	case "off":
		return SubtleColor
	default:
		return SecondaryColor
	}
}

// BuildHeaderContent creates header content with app name and GitHub URL
func BuildHeaderContent(serverName string) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	mid := ""
	if serverName != "" {
		mid = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Render(" · " + serverName)
	}

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render("  " + GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, mid, right)
}

// RenderApplicationContainer wraps a screen in the full-terminal frame with
// the application header and a context-sensitive footer.
//
// Pattern:
//
//	func (m Model) View() string {
//	    content := m.buildContent()
//	    return RenderApplicationContainer(content, helpText, serverName, m.Width, m.Height)
//	}
func RenderApplicationContainer(content, footerText, serverName string, terminalWidth, terminalHeight int) string {
	header := BuildHeaderContent(serverName)
	footer := lipgloss.NewStyle().Foreground(SubtleColor).Render(footerText)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth - 4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth - 4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(header),
		contentStyle.Render(content),
		footerStyle.Render(footer),
	)

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top)

	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Left,
		lipgloss.Top,
		borderStyle.Render(inner),
	)
}
