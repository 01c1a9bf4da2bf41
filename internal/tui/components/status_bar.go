package components

import (
	"glance/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type StatusBar struct {
	text    string
	err     string
	style   lipgloss.Style
	spinner spinner.Model
	loading bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Theme.Help

	return &StatusBar{
		style:   styles.Theme.Help,
		spinner: s,
	}
}

// Tick starts the spinner animation.
func (s *StatusBar) Tick() tea.Cmd {
	return s.spinner.Tick
}

func (s *StatusBar) SetLoading(loading bool) {
	s.loading = loading
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string) {
	s.text = text
}

// SetError shows err in place of the text until cleared with "".
func (s *StatusBar) SetError(err string) {
	s.err = err
}

// Update advances the spinner. The spinner keeps ticking while idle so a
// later load needs no restart.
func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

func (s *StatusBar) View() string {
	if s.err != "" {
		return styles.Theme.Error.Render(s.err)
	}
	if s.loading {
		return s.style.Render(s.spinner.View() + " " + s.text)
	}
	return s.style.Render(s.text)
}
