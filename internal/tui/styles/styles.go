package styles

import "github.com/charmbracelet/lipgloss"

// HalfBlock draws two vertically stacked pixels per cell: the foreground
// color fills the top half, the background color the bottom half.
const HalfBlock = "▀"

// StripCellWidth is the width of one preview strip entry in cells.
const StripCellWidth = 16

// Cell styles for the preview strip
var (
	StripCell = lipgloss.NewStyle().
			Width(StripCellWidth).
			Align(lipgloss.Center)

	StripCurrent = StripCell.
			Underline(true)
)
