//go:build !nogui

package gui

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// Surface draws one image centered at a given zoom, or a message when there
// is nothing to show. Scrolls and resizes are reported through callbacks so
// the driver can feed them to the viewer.
type Surface struct {
	widget.BaseWidget

	OnScrolled func(dy float32)
	OnResized  func(size fyne.Size)

	mu      sync.Mutex
	source  image.Image
	width   int
	height  int
	zoom    float64
	message string
}

func NewSurface() *Surface {
	s := &Surface{zoom: 1}
	s.ExtendBaseWidget(s)
	return s
}

// Show replaces what the surface draws. src may be nil.
func (s *Surface) Show(src image.Image, width, height int, zoom float64, message string) {
	s.mu.Lock()
	s.source, s.width, s.height, s.zoom, s.message = src, width, height, zoom, message
	s.mu.Unlock()
	s.Refresh()
}

// Scrolled implements fyne.Scrollable.
func (s *Surface) Scrolled(ev *fyne.ScrollEvent) {
	if s.OnScrolled != nil {
		s.OnScrolled(ev.Scrolled.DY)
	}
}

func (s *Surface) Resize(size fyne.Size) {
	if size == s.Size() {
		return
	}
	s.BaseWidget.Resize(size)
	if s.OnResized != nil {
		s.OnResized(size)
	}
}

func (s *Surface) CreateRenderer() fyne.WidgetRenderer {
	r := &surfaceRenderer{
		surface:    s,
		background: canvas.NewRectangle(color.NRGBA{R: 16, G: 16, B: 16, A: 255}),
		text:       canvas.NewText("", color.NRGBA{R: 255, G: 165, B: 0, A: 255}),
		image:      &canvas.Image{FillMode: canvas.ImageFillStretch, ScaleMode: canvas.ImageScaleSmooth},
	}
	r.text.Alignment = fyne.TextAlignCenter
	r.Refresh()
	return r
}

type surfaceRenderer struct {
	surface    *Surface
	background *canvas.Rectangle
	text       *canvas.Text
	image      *canvas.Image
	objects    []fyne.CanvasObject
}

func (r *surfaceRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)

	s := r.surface
	s.mu.Lock()
	w := float32(float64(s.width) * s.zoom)
	h := float32(float64(s.height) * s.zoom)
	s.mu.Unlock()

	r.image.Resize(fyne.NewSize(w, h))
	r.image.Move(fyne.NewPos((size.Width-w)/2, (size.Height-h)/2))
	textSize := r.text.MinSize()
	r.text.Resize(fyne.NewSize(size.Width, textSize.Height))
	r.text.Move(fyne.NewPos(0, (size.Height-textSize.Height)/2))
}

func (r *surfaceRenderer) MinSize() fyne.Size {
	return fyne.NewSize(64, 64)
}

func (r *surfaceRenderer) Refresh() {
	s := r.surface
	s.mu.Lock()
	src := s.source
	r.text.Text = s.message
	s.mu.Unlock()

	r.objects = []fyne.CanvasObject{r.background}
	if src != nil {
		if r.image.Image != src {
			r.image.Image = src
			r.image.Refresh()
		}
		r.objects = append(r.objects, r.image)
	}
	r.objects = append(r.objects, r.text)

	r.Layout(s.Size())
	canvas.Refresh(s)
}

func (r *surfaceRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *surfaceRenderer) Destroy() {}
