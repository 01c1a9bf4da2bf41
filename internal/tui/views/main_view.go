package views

import (
	"strings"

	"glance/internal/tui/common"
	"glance/internal/tui/styles"
)

// RenderMainView lays out the header, the picture (or the jump prompt), the
// preview strip and the status line.
func RenderMainView(m common.ModelReader) string {
	var sb strings.Builder

	sb.WriteString(styles.Theme.Title.Render(m.Header()))
	sb.WriteString("\n")

	if m.Mode() == common.Jump {
		sb.WriteString(m.JumpList())
	} else {
		sb.WriteString(m.Picture())
	}
	sb.WriteString("\n")

	if strip := m.Strip(); strip != "" {
		sb.WriteString(strip)
		sb.WriteString("\n")
	}
	sb.WriteString(m.Status())

	sb.WriteString("\n" + m.KeyHelp())

	return styles.Theme.App.Render(sb.String())
}
