package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stefanpenner/planlog/pkg/store"
)

// Color palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	StatusMsgStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)
)

// List item styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	NormalStyle = lipgloss.NewStyle()

	CompleteStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	FailedStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	InProgressStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	NotStartedStyle = lipgloss.NewStyle().
			Foreground(ColorOffWhite)

	ProgressStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// StatusStyle returns the style used for a status icon.
func StatusStyle(s store.Status) lipgloss.Style {
	switch s {
	case store.StatusCompleted:
		return CompleteStyle
	case store.StatusFailed:
		return FailedStyle
	case store.StatusInProgress:
		return InProgressStyle
	default:
		return NotStartedStyle
	}
}

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPurple).
				Bold(true)
)

// Search styles
var (
	SearchBarStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	SearchCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)
)

// Status icons
const (
	IconComplete   = "✓"
	IconFailed     = "✗"
	IconInProgress = "◐"
	IconNotStarted = "○"
)
