package render

import (
	"sync"
	"sync/atomic"

	"glance/internal/decode"
)

// MemoryHost keeps textures as plain pixel buffers. It backs the terminal
// front-end and the tests, and tracks how many textures are alive.
type MemoryHost struct {
	mu        sync.Mutex
	live      map[string]int
	created   int
	reclaimed int

	repaints  atomic.Int64
	onRepaint atomic.Value // func()
}

// NewMemoryHost returns an empty host.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{live: make(map[string]int)}
}

// CreateTexture stores pixels in a new texture. The buffer is not copied.
func (h *MemoryHost) CreateTexture(name string, pixels decode.PixelBuffer) *Texture {
	h.mu.Lock()
	h.created++
	h.live[name]++
	h.mu.Unlock()
	return NewTexture(name, pixels.Width, pixels.Height, pixels, h.reclaim)
}

func (h *MemoryHost) reclaim(t *Texture) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reclaimed++
	if h.live[t.Name()] <= 1 {
		delete(h.live, t.Name())
	} else {
		h.live[t.Name()]--
	}
}

// RequestRepaint counts the wake-up and forwards it to the repaint hook.
func (h *MemoryHost) RequestRepaint() {
	h.repaints.Add(1)
	if fn, ok := h.onRepaint.Load().(func()); ok && fn != nil {
		fn()
	}
}

// SetRepaintFunc installs the hook run by RequestRepaint.
func (h *MemoryHost) SetRepaintFunc(fn func()) {
	h.onRepaint.Store(fn)
}

// Repaints is the number of RequestRepaint calls so far.
func (h *MemoryHost) Repaints() int64 {
	return h.repaints.Load()
}

// Live is the number of textures not yet reclaimed.
func (h *MemoryHost) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.live {
		n += c
	}
	return n
}

// Created and Reclaimed are lifetime counters.
func (h *MemoryHost) Created() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.created
}

func (h *MemoryHost) Reclaimed() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.reclaimed
}

// Pixels returns the buffer behind a texture made by a MemoryHost.
func Pixels(t *Texture) (decode.PixelBuffer, bool) {
	if t == nil {
		return decode.PixelBuffer{}, false
	}
	buf, ok := t.Object().(decode.PixelBuffer)
	return buf, ok
}
