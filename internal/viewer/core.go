// Package viewer reconciles navigation, loader results and the two texture
// caches into the state a front-end displays.
//
// Core is single-threaded: every method must be called from the consumer
// goroutine that also calls ProcessResults. Workers never touch its state;
// they only deliver results through the Dispatcher.
package viewer

import (
	"os"

	"glance/internal/cache"
	"glance/internal/loader"
	"glance/internal/log"
	"glance/internal/navigator"
	"glance/internal/render"
)

// Dispatcher is the part of the loader the core drives.
type Dispatcher interface {
	Dispatch(path string, priority loader.Priority, target loader.Target) error
	Drain(limit int) []loader.Result
}

// Phase describes what is shown for the current path.
type Phase int

const (
	Empty Phase = iota
	Loading
	Displayed
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Displayed:
		return "displayed"
	case Failed:
		return "failed"
	}
	return "empty"
}

// Core owns the caches, the failed set, the in-flight sets and the visible
// state.
type Core struct {
	nav    *navigator.Navigator
	loader Dispatcher
	opts   Options
	logger *log.Logger

	full   *cache.Cache
	thumbs *cache.Cache

	failed          map[string]string
	inFlight        map[string]bool // background thumbnails
	primaryInFlight map[string]bool

	// visible state; texture holds its own reference
	texture     *render.Texture
	textureFull bool
	err         string
	zoom        float64

	viewWidth  float64
	viewHeight float64
}

// New builds a core around nav and d.
func New(nav *navigator.Navigator, d Dispatcher, opts Options) (*Core, error) {
	full, err := cache.New("full", opts.FullCacheSize)
	if err != nil {
		return nil, err
	}
	thumbs, err := cache.New("thumbnail", opts.ThumbCacheSize)
	if err != nil {
		return nil, err
	}
	if opts.DrainLimit <= 0 {
		opts.DrainLimit = 5
	}
	return &Core{
		nav:             nav,
		loader:          d,
		opts:            opts,
		logger:          log.LogWithFields(log.F("component", "viewer")),
		full:            full,
		thumbs:          thumbs,
		failed:          make(map[string]string),
		inFlight:        make(map[string]bool),
		primaryInFlight: make(map[string]bool),
		zoom:            1.0,
	}, nil
}

// OpenContext opens the folder at path, or the folder containing the file
// at path with that file selected, and loads the current image.
func (c *Core) OpenContext(path string) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		c.nav.OpenFolder(path)
	} else {
		c.nav.OpenFile(path)
	}
	c.logger.With(log.F("path", path), log.F("images", c.nav.Len()), log.F("index", c.nav.Index())).Info("opened")
	c.err = ""
	c.LoadCurrent()
}

// LoadCurrent brings the visible state in line with the current path.
func (c *Core) LoadCurrent() {
	c.err = ""
	path, ok := c.nav.Current()
	if !ok {
		c.setTexture(nil, false)
		return
	}

	c.TriggerPreloads()

	if msg, failed := c.failed[path]; failed {
		c.setTexture(nil, false)
		c.err = msg
		return
	}

	if tex, hit := c.full.Get(path); hit {
		c.setTexture(tex, true)
		c.fitZoom(tex)
		return
	}

	// Show the thumbnail, if any, while the full decode runs.
	if thumb, hit := c.thumbs.Get(path); hit {
		c.setTexture(thumb, false)
	} else {
		c.setTexture(nil, false)
	}

	if c.primaryInFlight[path] {
		return
	}
	if err := c.loader.Dispatch(path, loader.Primary, loader.Full()); err != nil {
		c.logger.WithError(err).With(log.F("path", path)).Warn("primary dispatch refused")
		return
	}
	c.primaryInFlight[path] = true
}

// TriggerPreloads requests thumbnails for the preview window, skipping
// paths that are cached, already requested or known to fail.
func (c *Core) TriggerPreloads() {
	target := loader.Thumbnail(c.opts.ThumbSize.Width, c.opts.ThumbSize.Height)
	for _, e := range c.nav.PreviewWindow() {
		if c.thumbs.Contains(e.Path) || c.inFlight[e.Path] {
			continue
		}
		if _, failed := c.failed[e.Path]; failed {
			continue
		}
		if err := c.loader.Dispatch(e.Path, loader.Background, target); err != nil {
			return
		}
		c.inFlight[e.Path] = true
	}
}

// ProcessResults reconciles up to DrainLimit loader results and returns how
// many it handled.
func (c *Core) ProcessResults() int {
	results := c.loader.Drain(c.opts.DrainLimit)
	for _, r := range results {
		c.reconcile(r)
	}
	return len(results)
}

func (c *Core) reconcile(r loader.Result) {
	if r.Priority == loader.Primary {
		delete(c.primaryInFlight, r.Path)
	} else {
		delete(c.inFlight, r.Path)
	}
	current, _ := c.nav.Current()

	switch {
	case r.Err != nil:
		msg := r.Err.Error()
		if _, seen := c.failed[r.Path]; !seen {
			c.failed[r.Path] = msg
		}
		if r.Priority == loader.Primary && r.Path == current {
			c.setTexture(nil, false)
			c.err = msg
		}

	case r.Thumbnail:
		c.thumbs.Add(r.Path, r.Texture)
		if r.Path == current && !c.textureFull && c.err == "" {
			c.setTexture(r.Texture, false)
		}

	default:
		c.full.Add(r.Path, r.Texture)
		if r.Path == current {
			c.err = ""
			c.setTexture(r.Texture, true)
			c.fitZoom(r.Texture)
		}
		c.TriggerPreloads()
	}
}

// NextImage moves to the next image, wrapping at the end.
func (c *Core) NextImage() {
	if _, ok := c.nav.Next(); ok {
		c.LoadCurrent()
	}
}

// PrevImage moves to the previous image, wrapping at the start.
func (c *Core) PrevImage() {
	if _, ok := c.nav.Prev(); ok {
		c.LoadCurrent()
	}
}

// JumpTo selects the image at index i if it exists.
func (c *Core) JumpTo(i int) bool {
	if !c.nav.SetIndex(i) {
		return false
	}
	c.LoadCurrent()
	return true
}

// Refresh rescans the open folder and reloads when the list changed.
func (c *Core) Refresh() bool {
	before, _ := c.nav.Current()
	changed := c.nav.Rescan()
	after, _ := c.nav.Current()
	if changed || before != after {
		c.LoadCurrent()
	}
	return changed
}

// Invalidate drops the cached textures of a file that changed on disk and
// reloads it when it is the current image. Failures are not forgotten.
func (c *Core) Invalidate(path string) {
	removed := c.full.Remove(path)
	removed = c.thumbs.Remove(path) || removed
	if !removed {
		// Nothing cached. A path in the failed set stays failed even if the
		// file was rewritten: failures are kept for the whole session.
		return
	}
	c.logger.With(log.F("path", path)).Debug("invalidated")
	if current, ok := c.nav.Current(); ok && current == path {
		c.LoadCurrent()
	} else {
		c.TriggerPreloads()
	}
}

// SetViewport records the drawable area used by auto-fit.
func (c *Core) SetViewport(width, height float64) {
	c.viewWidth, c.viewHeight = width, height
}

// FitToView recomputes the auto-fit zoom for the displayed full image.
func (c *Core) FitToView() {
	if c.textureFull {
		c.fitZoom(c.texture)
	}
}

// UpdateZoom applies a scroll delta.
func (c *Core) UpdateZoom(delta float64) {
	c.zoom = clamp(c.zoom+delta*c.opts.ZoomSensitivity, c.opts.MinZoom, c.opts.MaxZoom)
}

// fitZoom never upscales past native size. Without a viewport the image is
// shown at native size.
func (c *Core) fitZoom(tex *render.Texture) {
	w, h := tex.Size()
	if c.viewWidth <= 0 || c.viewHeight <= 0 || w <= 0 || h <= 0 {
		c.zoom = 1.0
		return
	}
	z := min(c.viewHeight/float64(h), (c.viewWidth-c.opts.SidePadding)/float64(w), 1.0)
	c.zoom = max(z, c.opts.MinZoom)
}

func (c *Core) setTexture(tex *render.Texture, full bool) {
	c.textureFull = full && tex != nil
	if c.texture == tex {
		return
	}
	old := c.texture
	c.texture = tex.Retain()
	old.Release()
}

// Close releases the visible texture and both caches.
func (c *Core) Close() {
	c.setTexture(nil, false)
	c.full.Purge()
	c.thumbs.Purge()
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
