//go:build !nogui

package gui

import (
	"sync/atomic"

	"glance/internal/decode"
	"glance/internal/render"

	"fyne.io/fyne/v2/canvas"
)

// Host creates fyne image objects for decoded pixels and wakes the driver
// goroutine when results are ready. Both methods are called from loader
// workers.
type Host struct {
	wake    chan struct{}
	live    atomic.Int64
	created atomic.Int64
}

// NewHost returns a host with an empty wake channel.
func NewHost() *Host {
	return &Host{wake: make(chan struct{}, 1)}
}

// CreateTexture wraps pixels in a canvas.Image. The image is not attached to
// any window until the driver shows it.
func (h *Host) CreateTexture(name string, pixels decode.PixelBuffer) *render.Texture {
	img := canvas.NewImageFromImage(pixels.Image())
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleSmooth

	h.live.Add(1)
	h.created.Add(1)
	return render.NewTexture(name, pixels.Width, pixels.Height, img, func(*render.Texture) {
		h.live.Add(-1)
	})
}

// RequestRepaint never blocks; pending wakes coalesce.
func (h *Host) RequestRepaint() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Wake is signalled after RequestRepaint.
func (h *Host) Wake() <-chan struct{} { return h.wake }

// Live counts textures that have not been reclaimed.
func (h *Host) Live() int64 { return h.live.Load() }

func (h *Host) Created() int64 { return h.created.Load() }

// ImageOf returns the canvas object behind a texture created by a Host.
func ImageOf(t *render.Texture) *canvas.Image {
	if t == nil {
		return nil
	}
	img, _ := t.Object().(*canvas.Image)
	return img
}
