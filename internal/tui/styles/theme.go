package styles

import (
	"glance/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Palette defines the core UI styles
type Palette struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Help       lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Success    lipgloss.Style
	Border     lipgloss.Style
}

// Theme is the palette in use. Apply replaces it.
var Theme = NewPalette(config.New())

// NewPalette builds the styles from the theme section of cfg.
func NewPalette(cfg *config.Config) Palette {
	t := cfg.Theme
	return Palette{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(t.Primary)),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Emphasis)).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Error)).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)),
		Border: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Border)),
	}
}

// Apply switches the package theme to the colors in cfg.
func Apply(cfg *config.Config) {
	Theme = NewPalette(cfg)
}
