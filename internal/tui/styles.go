package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
const (
	primaryColor   = "#6C63FF" // Purple
	secondaryColor = "#22D3A6" // Green
	warningColor   = "#FB923C" // Orange
	errorColor     = "#F87171" // Red
	dimColor       = "#64748B" // Slate
)

// Style variables for consistent TUI rendering.
var (
	// BoxStyle provides a rounded border box with primary color.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 2)

	// TitleStyle renders titles in primary color with bold.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// DimStyle renders dim/muted text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	// SuccessStyle renders success messages in green.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor))

	// ErrorStyle renders error messages in red.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))

	// WarningStyle renders warning messages in orange.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningColor))

	// StatusBarStyle provides styling for the status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1E293B")).
			Foreground(lipgloss.Color("#94A3B8")).
			Padding(0, 1)

	// ActiveTabStyle renders the active tab.
	ActiveTabStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(primaryColor)).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 2)

	// InactiveTabStyle renders inactive tabs.
	InactiveTabStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#334155")).
				Foreground(lipgloss.Color("#94A3B8")).
				Padding(0, 2)

	// ToastSuccessStyle renders a success notification.
	ToastSuccessStyle = lipgloss.NewStyle().
				Background(lipgloss.Color(secondaryColor)).
				Foreground(lipgloss.Color("#0F172A")).
				Padding(0, 1)

	// ToastErrorStyle renders an error notification.
	ToastErrorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(errorColor)).
			Foreground(lipgloss.Color("#0F172A")).
			Padding(0, 1)

	// OverlayStyle frames the busy overlay.
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 4)
)
