package dashboard

import (
	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent    = lipgloss.Color("#FF2E97")
	ColorAccentDim = lipgloss.Color("#BF40FF")

	// ColorGraph is the plot color handed to every widget.
	ColorGraph = lipgloss.Color("#00FFFF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	ControlsStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	// CardStyle leaves its size to the layout; Width and Height are set per
	// card.
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	CardSelectedStyle = CardStyle.
				BorderForeground(ColorAccent)

	// CardFailedStyle highlights a widget whose last fetch failed.
	CardFailedStyle = CardStyle.
			BorderForeground(ColorCritical)

	ClusterStyle = lipgloss.NewStyle().
			Foreground(ColorAccentDim).
			Bold(true)

	ClusterSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true).
				Underline(true)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorCritical)

	promptStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)
)

// Notification styles by level
var notificationStyles = map[Level]lipgloss.Style{
	LevelInfo:    lipgloss.NewStyle().Foreground(ColorHealthy),
	LevelWarning: lipgloss.NewStyle().Foreground(ColorWarning),
	LevelError:   lipgloss.NewStyle().Foreground(ColorCritical).Bold(true),
}

// Glyphs
const (
	GlyphExpanded  = "▾"
	GlyphCollapsed = "▸"
	GlyphLoading   = "◐"
	GlyphFailed    = "✗"
	GlyphWaiting   = "◌"
)
