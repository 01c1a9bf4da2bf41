package tui

import (
	"glance/internal/config"
	"glance/internal/log"
	"glance/internal/render"
	"glance/internal/tui/styles"
	"glance/internal/viewer"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens path in the terminal browser and blocks until the user quits.
func Run(cfg *config.Config, path string) error {
	styles.Apply(cfg)

	// The desktop side padding is meaningless in terminal cells
	tcfg := *cfg
	tcfg.Viewer.SidePadding = 0

	host := render.NewMemoryHost()
	session, err := viewer.NewSession(&tcfg, host)
	if err != nil {
		return err
	}
	defer session.Close()

	m := New(session, host)
	p := tea.NewProgram(m, tea.WithAltScreen())
	// Hook repaints before the first dispatch so no wake-up is lost.
	m.Attach(p)
	session.Open(path)

	if _, err := p.Run(); err != nil {
		return err
	}
	log.LogWithFields(log.F("textures_live", host.Live())).Debug("browser closed")
	return nil
}
