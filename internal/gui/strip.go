//go:build !nogui

package gui

import (
	"image/color"

	"glance/internal/viewer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

var (
	accentColor = color.NRGBA{R: 255, G: 165, B: 0, A: 255}
	frameColor  = color.NRGBA{R: 64, G: 64, B: 64, A: 255}
	failColor   = color.NRGBA{R: 200, G: 40, B: 40, A: 255}
)

// stripCell is one preview slot. It owns its canvas objects; textures only
// lend their pixels.
type stripCell struct {
	frame *canvas.Rectangle
	image *canvas.Image
	mark  *canvas.Text
	box   *fyne.Container
}

func newStripCell(size fyne.Size) *stripCell {
	c := &stripCell{
		frame: canvas.NewRectangle(color.Transparent),
		image: &canvas.Image{FillMode: canvas.ImageFillContain, ScaleMode: canvas.ImageScaleFastest},
		mark:  canvas.NewText("", frameColor),
	}
	c.frame.StrokeWidth = 2
	c.frame.StrokeColor = frameColor
	c.frame.SetMinSize(size)
	c.mark.Alignment = fyne.TextAlignCenter
	c.box = container.NewStack(c.frame, c.image, container.NewCenter(c.mark))
	return c
}

func (c *stripCell) set(slot viewer.Slot) {
	c.frame.StrokeColor = frameColor
	if slot.Current {
		c.frame.StrokeColor = accentColor
	}

	c.mark.Text = ""
	c.image.Image = nil
	switch slot.State {
	case viewer.SlotCached:
		if img := ImageOf(slot.Texture); img != nil {
			c.image.Image = img.Image
		}
	case viewer.SlotPending:
		c.mark.Text = "…"
		c.mark.Color = frameColor
	case viewer.SlotFailed:
		c.mark.Text = "!"
		c.mark.Color = failColor
	}
	c.box.Refresh()
}

func (c *stripCell) clear() {
	c.set(viewer.Slot{})
	c.frame.StrokeColor = color.Transparent
	c.frame.Refresh()
}
