package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the login screen
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - borders, focused field
	SuccessColor = lipgloss.Color("#43BF6D") // Green - indicator on add
	ErrorColor   = lipgloss.Color("#FF5555") // Red - indicator on delete, failures
	WarningColor = lipgloss.Color("#FFA500") // Orange - acknowledgement hints
	MutedColor   = lipgloss.Color("#626262") // Gray - inactive segments, help
	TextColor    = lipgloss.Color("#FFFFFF") // White - messages
)

// Layout constants
const (
	MinTerminalWidth  = 40
	MinTerminalHeight = 12
	BoxWidth          = 48 // Width of the login box, borders included
)

var (
	// TitleStyle is for the host name above the box
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// MessageStyle is for prompts and notices from greetd
	MessageStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// HintStyle is for "press <Enter> to continue"
	HintStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Italic(true)

	// HelpStyle wraps the key help line
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// SpinnerStyle colors the loading spinner
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)
)

// BoxStyle returns the border style for the login box
func BoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width-2). // Account for border characters
		Padding(1, 2).
		Align(lipgloss.Center)
}

// GetTerminalSize returns the current terminal width and height
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80, 24 // Default fallback
	}
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if height < MinTerminalHeight {
		height = MinTerminalHeight
	}
	return width, height
}
