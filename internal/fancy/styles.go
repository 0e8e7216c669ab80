package fancy

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	RootStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorDarkGray)

	StateStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	CurrentStateStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	EventStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	MoneyStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// StateText styles a state label
func StateText(text string) string {
	return StateStyle.Render(text)
}

// CurrentStateText styles the label of the active state
func CurrentStateText(text string) string {
	return CurrentStateStyle.Render(text)
}

// EventText styles an event name
func EventText(text string) string {
	return EventStyle.Render(text)
}

// MoneyText styles a monetary amount
func MoneyText(text string) string {
	return MoneyStyle.Render(text)
}

// ValidText styles a success message (green)
func ValidText(text string) string {
	return CurrentStateStyle.Render(text)
}

// ErrorText styles error text (red)
func ErrorText(text string) string {
	return ErrorStyle.Render(text)
}

// PathText styles file paths (gray)
func PathText(text string) string {
	return InfoStyle.Render(text)
}
