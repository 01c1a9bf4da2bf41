package components

import (
	"path/filepath"

	"glance/internal/tui/styles"
	"glance/internal/viewer"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// RenderStrip draws the preview window as one row of file names marked with
// their thumbnail state.
func RenderStrip(slots []viewer.Slot) string {
	if len(slots) == 0 {
		return ""
	}
	cells := make([]string, 0, len(slots))
	for _, s := range slots {
		cells = append(cells, stripCell(s))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func stripCell(s viewer.Slot) string {
	mark := "·"
	markStyle := styles.Theme.Unselected
	switch s.State {
	case viewer.SlotCached:
		mark = "■"
		markStyle = styles.Theme.Success
	case viewer.SlotPending:
		mark = "…"
	case viewer.SlotFailed:
		mark = "✗"
		markStyle = styles.Theme.Error
	}

	name := runewidth.Truncate(filepath.Base(s.Path), styles.StripCellWidth-3, "…")
	label := markStyle.Render(mark) + " " + name
	if s.Current {
		return styles.StripCurrent.Inherit(styles.Theme.Selected).Render(label)
	}
	return styles.StripCell.Inherit(styles.Theme.Unselected).Render(label)
}
