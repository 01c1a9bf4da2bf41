//go:build !nogui

package gui

import (
	"fmt"
	"path/filepath"
	"strings"

	"glance/internal/config"
	"glance/internal/log"
	"glance/internal/navigator"
	"glance/internal/render"
	"glance/internal/viewer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// action runs on the driver goroutine, the only goroutine that touches the
// viewer session.
type action func(s *viewer.Session)

// App is the desktop viewer window.
type App struct {
	cfg     *config.Config
	fyneApp fyne.App
	window  fyne.Window
	logger  *log.Logger

	host    *Host
	session *viewer.Session
	actions chan action
	quit    chan struct{}
	done    chan struct{}

	surface *Surface
	strip   []*stripCell
	status  *widget.Label

	// texture currently drawn by the surface, retained by the driver
	shown *render.Texture
}

// NewApp creates the window and the viewer pipeline. Nothing runs until Run.
func NewApp(cfg *config.Config) (*App, error) {
	host := NewHost()
	session, err := viewer.NewSession(cfg, host)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		fyneApp: app.NewWithID("io.github.glance"),
		logger:  log.LogWithFields(log.F("component", "gui")),
		host:    host,
		session: session,
		actions: make(chan action, 32),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	a.window = a.fyneApp.NewWindow("Glance")
	a.setupMainWindow()
	return a, nil
}

// Run shows the window, opens path if given and blocks until the window
// closes.
func (a *App) Run(path string) {
	go a.drive()
	if path != "" {
		a.post(func(s *viewer.Session) { s.Open(path) })
	}
	a.window.ShowAndRun()
	a.shutdown()
}

func (a *App) setupMainWindow() {
	a.window.Resize(fyne.NewSize(float32(a.cfg.Window.Width), float32(a.cfg.Window.Height)))

	a.surface = NewSurface()
	a.surface.OnScrolled = func(dy float32) {
		a.post(func(s *viewer.Session) { s.Core.UpdateZoom(float64(dy)) })
	}
	a.surface.OnResized = func(size fyne.Size) {
		a.post(func(s *viewer.Session) {
			s.Core.SetViewport(float64(size.Width), float64(size.Height))
			s.Core.FitToView()
		})
	}

	cellSize := fyne.NewSize(float32(a.cfg.Viewer.ThumbWidth)/2, float32(a.cfg.Viewer.ThumbHeight)/2)
	strip := container.NewHBox()
	for i := 0; i < 2*navigator.PreviewRadius+1; i++ {
		cell := newStripCell(cellSize)
		a.strip = append(a.strip, cell)
		strip.Add(cell.box)
	}

	a.status = widget.NewLabel("Press O to open an image")
	a.status.Truncation = fyne.TextTruncateEllipsis

	bottom := container.NewVBox(container.NewCenter(strip), a.status)
	a.window.SetContent(container.NewBorder(nil, bottom, nil, nil, a.surface))

	a.window.Canvas().SetOnTypedKey(a.onKey)
	a.window.Canvas().SetOnTypedRune(a.onRune)
}

func (a *App) onKey(ke *fyne.KeyEvent) {
	switch ke.Name {
	case fyne.KeyLeft, fyne.KeyPageUp, fyne.KeyBackspace:
		a.post(func(s *viewer.Session) { s.Core.PrevImage() })
	case fyne.KeyRight, fyne.KeyPageDown, fyne.KeySpace:
		a.post(func(s *viewer.Session) { s.Core.NextImage() })
	case fyne.KeyHome:
		a.post(func(s *viewer.Session) { s.Core.JumpTo(0) })
	case fyne.KeyEnd:
		a.post(func(s *viewer.Session) { s.Core.JumpTo(s.Core.Len() - 1) })
	case fyne.KeyF:
		a.post(func(s *viewer.Session) { s.Core.FitToView() })
	case fyne.KeyO:
		a.showOpenDialog()
	case fyne.KeyQ, fyne.KeyEscape:
		a.fyneApp.Quit()
	}
}

// zoomStep is one keyboard zoom notch in scroll units.
const zoomStep = 10

func (a *App) onRune(r rune) {
	switch r {
	case '+', '=':
		a.post(func(s *viewer.Session) { s.Core.UpdateZoom(zoomStep) })
	case '-', '_':
		a.post(func(s *viewer.Session) { s.Core.UpdateZoom(-zoomStep) })
	}
}

func (a *App) showOpenDialog() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		if err := r.Close(); err != nil {
			a.logger.WithError(err).Debug("close dialog reader")
		}
		a.post(func(s *viewer.Session) { s.Open(path) })
	}, a.window)

	exts := make([]string, 0, len(a.cfg.Viewer.Extensions))
	for _, ext := range a.cfg.Viewer.Extensions {
		exts = append(exts, "."+ext)
	}
	d.SetFilter(storage.NewExtensionFileFilter(exts))
	d.Show()
}

// post queues fn for the driver. It drops the action once the driver is gone.
func (a *App) post(fn action) {
	select {
	case a.actions <- fn:
	case <-a.done:
	}
}

// drive is the consumer loop: it owns the session, drains loader results
// when the host wakes it and redraws after every event.
func (a *App) drive() {
	defer close(a.done)
	s := a.session
	events := s.Events()
	for {
		select {
		case <-a.quit:
			return
		case fn := <-a.actions:
			fn(s)
		case <-a.host.Wake():
		case b, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.Apply(b)
		}

		if _, more := s.Tick(); more {
			a.host.RequestRepaint()
		}
		a.refresh()
	}
}

func (a *App) refresh() {
	core := a.session.Core

	tex := core.CurrentTexture()
	if tex != a.shown {
		old := a.shown
		a.shown = tex.Retain()
		old.Release()
	}

	var message string
	switch core.Phase() {
	case viewer.Failed:
		message = core.Error()
	case viewer.Loading:
		if tex == nil {
			message = "Loading…"
		}
	case viewer.Empty:
		if core.Dir() != "" {
			message = "No images in " + core.Dir()
		}
	}

	if img := ImageOf(tex); img != nil {
		w, h := tex.Size()
		zoom := core.Zoom()
		if !core.ShowingFullResolution() {
			// Stretch the placeholder to the size the full image will take
			zoom = a.placeholderZoom(w, h)
		}
		a.surface.Show(img.Image, w, h, zoom, message)
	} else {
		a.surface.Show(nil, 0, 0, 1, message)
	}

	slots := core.PreviewStrip()
	for i, cell := range a.strip {
		if i < len(slots) {
			cell.set(slots[i])
		} else {
			cell.clear()
		}
	}

	a.status.SetText(statusLine(core))
	title := "Glance"
	if path, ok := core.Current(); ok {
		title = filepath.Base(path) + " - Glance"
	}
	a.window.SetTitle(title)
}

func (a *App) placeholderZoom(w, h int) float64 {
	size := a.surface.Size()
	if w <= 0 || h <= 0 || size.Width <= 0 || size.Height <= 0 {
		return 1
	}
	return min(float64(size.Height)/float64(h), (float64(size.Width)-a.cfg.Viewer.SidePadding)/float64(w))
}

func statusLine(core *viewer.Core) string {
	path, ok := core.Current()
	if !ok {
		return "Press O to open an image"
	}
	parts := []string{
		fmt.Sprintf("%d/%d", core.Index()+1, core.Len()),
		filepath.Base(path),
	}
	if tex := core.CurrentTexture(); tex != nil && core.ShowingFullResolution() {
		w, h := tex.Size()
		parts = append(parts, fmt.Sprintf("%dx%d", w, h), fmt.Sprintf("%.0f%%", core.Zoom()*100))
	}
	if core.IsLoading() {
		parts = append(parts, "loading")
	}
	return strings.Join(parts, "  ·  ")
}

func (a *App) shutdown() {
	close(a.quit)
	<-a.done
	a.shown.Release()
	a.shown = nil
	a.session.Close()
	a.logger.With(log.F("textures_live", a.host.Live())).Debug("viewer closed")
}

// Run opens the desktop viewer on path, which may be empty.
func Run(cfg *config.Config, path string) error {
	a, err := NewApp(cfg)
	if err != nil {
		return err
	}
	a.Run(path)
	return nil
}

// Available reports whether this build includes the desktop viewer.
func Available() bool { return true }
