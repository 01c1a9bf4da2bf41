// Package render defines the contract between the image pipeline and the
// host that turns pixel buffers into displayable textures.
package render

import (
	"fmt"
	"sync/atomic"

	"glance/internal/decode"
	"glance/internal/log"

	"github.com/cespare/xxhash/v2"
)

// Host materializes textures and wakes the consumer loop. Both methods
// must be safe to call from any goroutine.
type Host interface {
	CreateTexture(name string, pixels decode.PixelBuffer) *Texture
	RequestRepaint()
}

// Texture is a reference-counted handle to host-side image memory.
// A new texture holds one reference owned by its creator; the host's
// reclaim function runs once when the count drops to zero.
type Texture struct {
	name    string
	width   int
	height  int
	object  interface{}
	refs    atomic.Int32
	reclaim func(*Texture)
}

// NewTexture wraps a host object. reclaim may be nil.
func NewTexture(name string, width, height int, object interface{}, reclaim func(*Texture)) *Texture {
	t := &Texture{name: name, width: width, height: height, object: object, reclaim: reclaim}
	t.refs.Store(1)
	return t
}

// Retain adds a reference and returns t for chaining. Nil-safe.
func (t *Texture) Retain() *Texture {
	if t != nil {
		t.refs.Add(1)
	}
	return t
}

// Release drops a reference. Nil-safe.
func (t *Texture) Release() {
	if t == nil {
		return
	}
	switch n := t.refs.Add(-1); {
	case n == 0:
		if t.reclaim != nil {
			t.reclaim(t)
		}
	case n < 0:
		log.LogWithFields(log.F("texture", t.name), log.F("refs", n)).Warn("texture released more times than retained")
	}
}

// Released reports whether every reference has been dropped.
func (t *Texture) Released() bool {
	return t.refs.Load() <= 0
}

// Refs is the current reference count.
func (t *Texture) Refs() int {
	return int(t.refs.Load())
}

func (t *Texture) Name() string { return t.name }

// Size returns the pixel dimensions.
func (t *Texture) Size() (int, int) { return t.width, t.height }

// Object is the host-specific payload, e.g. a canvas image or a pixel buffer.
func (t *Texture) Object() interface{} { return t.object }

// TextureName derives a stable texture name from path. Thumbnails and
// full-resolution textures of the same file never share a name.
func TextureName(path string, thumbnail bool) string {
	kind := "full"
	if thumbnail {
		kind = "thumb"
	}
	return fmt.Sprintf("%s:%016x", kind, xxhash.Sum64String(path))
}
