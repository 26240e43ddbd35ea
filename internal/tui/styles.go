package tui

import "github.com/charmbracelet/lipgloss"

// Neon-on-dark palette, adaptive so light terminals stay legible.
var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#0077aa", Dark: "#00e5ff"}
	colorHot    = lipgloss.AdaptiveColor{Light: "#aa0066", Dark: "#ff2fa8"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#8a8fa3"}
	colorDanger = lipgloss.AdaptiveColor{Light: "#b00020", Dark: "#ff4d6a"}
	colorCursor = lipgloss.AdaptiveColor{Light: "#dde8f0", Dark: "#1b2540"}

	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Padding(0, 1)

	versionStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	heroStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 2)

	heroLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHot)

	heroTitleStyle = lipgloss.NewStyle().
			Bold(true)

	heroButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(colorAccent).
			Padding(0, 1)

	searchLabelStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	rowStyle = lipgloss.NewStyle()

	cursorRowStyle = lipgloss.NewStyle().
			Bold(true).
			Background(colorCursor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorDanger).
			Padding(0, 2)

	bannerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorDanger)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorHot).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	linkStyle = lipgloss.NewStyle().
			Underline(true).
			Foreground(colorAccent)

	userLineStyle = lipgloss.NewStyle().
			Foreground(colorHot)

	systemLineStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)
)
