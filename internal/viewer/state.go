package viewer

import (
	"glance/internal/navigator"
	"glance/internal/render"
)

// SlotState classifies a preview strip entry.
type SlotState int

const (
	SlotMissing SlotState = iota
	SlotPending
	SlotCached
	SlotFailed
)

func (s SlotState) String() string {
	switch s {
	case SlotPending:
		return "pending"
	case SlotCached:
		return "cached"
	case SlotFailed:
		return "failed"
	}
	return "missing"
}

// Slot is one preview strip entry. Texture is borrowed from the thumbnail
// cache and is only valid until the next ProcessResults call.
type Slot struct {
	navigator.Entry
	State   SlotState
	Texture *render.Texture
	Current bool
	Error   string
}

// PreviewStrip annotates the preview window with thumbnail state.
func (c *Core) PreviewStrip() []Slot {
	window := c.nav.PreviewWindow()
	slots := make([]Slot, 0, len(window))
	for _, e := range window {
		slot := Slot{Entry: e, Current: e.Index == c.nav.Index()}
		if tex, ok := c.thumbs.Peek(e.Path); ok {
			slot.State = SlotCached
			slot.Texture = tex
		} else if msg, failed := c.failed[e.Path]; failed {
			slot.State = SlotFailed
			slot.Error = msg
		} else if c.inFlight[e.Path] {
			slot.State = SlotPending
		}
		slots = append(slots, slot)
	}
	return slots
}

// CurrentTexture is the texture to draw, or nil. It is borrowed; Retain it
// to keep it beyond the next state change.
func (c *Core) CurrentTexture() *render.Texture { return c.texture }

// ShowingFullResolution reports whether CurrentTexture is the full image
// rather than a thumbnail placeholder.
func (c *Core) ShowingFullResolution() bool { return c.textureFull }

// Error is the message shown in place of the current image, or "".
func (c *Core) Error() string { return c.err }

func (c *Core) Zoom() float64 { return c.zoom }

// IsLoading reports whether a primary load of the current path is outstanding.
func (c *Core) IsLoading() bool {
	path, ok := c.nav.Current()
	return ok && c.primaryInFlight[path]
}

// Phase summarizes the visible state of the current path.
func (c *Core) Phase() Phase {
	if _, ok := c.nav.Current(); !ok {
		return Empty
	}
	switch {
	case c.err != "":
		return Failed
	case c.textureFull:
		return Displayed
	case c.IsLoading():
		return Loading
	case c.texture != nil:
		return Displayed
	}
	return Empty
}

func (c *Core) Current() (string, bool) { return c.nav.Current() }

func (c *Core) PreviewWindow() []navigator.Entry { return c.nav.PreviewWindow() }

func (c *Core) Index() int { return c.nav.Index() }

func (c *Core) Len() int { return c.nav.Len() }

// Paths lists the open folder.
func (c *Core) Paths() []string { return c.nav.Paths() }

func (c *Core) Dir() string { return c.nav.Dir() }

// Failure returns the stored message for a path that failed to load.
func (c *Core) Failure(path string) (string, bool) {
	msg, ok := c.failed[path]
	return msg, ok
}

// CacheStats reports cache occupancy.
type CacheStats struct {
	Full          int
	Thumbnails    int
	FullEvictions int
	Failed        int
	Pending       int
}

func (c *Core) CacheStats() CacheStats {
	return CacheStats{
		Full:          c.full.Len(),
		Thumbnails:    c.thumbs.Len(),
		FullEvictions: c.full.Evictions(),
		Failed:        len(c.failed),
		Pending:       len(c.inFlight) + len(c.primaryInFlight),
	}
}
