package cache

import (
	"fmt"
	"testing"

	"glance/internal/decode"
	"glance/internal/errors"
	"glance/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texture(host *render.MemoryHost, path string) *render.Texture {
	return host.CreateTexture(render.TextureName(path, false), decode.PixelBuffer{Width: 1, Height: 1, Pix: make([]byte, 4)})
}

func TestNewRejectsBadCapacity(t *testing.T) {
	_, err := New("full", 0)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
}

func TestRoundTrip(t *testing.T) {
	host := render.NewMemoryHost()
	c, err := New("full", 10)
	require.NoError(t, err)

	tex := texture(host, "/a.jpg")
	assert.False(t, c.Add("/a.jpg", tex))

	got, ok := c.Get("/a.jpg")
	require.True(t, ok)
	assert.Same(t, tex, got, "cache returns the same texture identity")
	assert.True(t, c.Contains("/a.jpg"))

	_, ok = c.Get("/missing.jpg")
	assert.False(t, ok)
	assert.Equal(t, 1, host.Live())
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	host := render.NewMemoryHost()
	c, err := New("full", 10)
	require.NoError(t, err)

	textures := make(map[string]*render.Texture)
	for i := 0; i < 10; i++ {
		p := fmt.Sprintf("/img%02d.jpg", i)
		textures[p] = texture(host, p)
		require.False(t, c.Add(p, textures[p]))
	}

	// Touch the oldest so img01 becomes least recently used
	_, ok := c.Get("/img00.jpg")
	require.True(t, ok)

	assert.True(t, c.Add("/img10.jpg", texture(host, "/img10.jpg")), "11th insert evicts")
	assert.Equal(t, 10, c.Len())
	assert.False(t, c.Contains("/img01.jpg"))
	assert.True(t, c.Contains("/img00.jpg"))
	assert.True(t, textures["/img01.jpg"].Released(), "evicted texture goes back to the host")
	assert.Equal(t, 10, host.Live())
	assert.Equal(t, 1, c.Evictions())

	keys := c.Keys()
	assert.Equal(t, "/img02.jpg", keys[0])
	assert.Equal(t, "/img10.jpg", keys[len(keys)-1])
}

func TestPeekDoesNotPromote(t *testing.T) {
	host := render.NewMemoryHost()
	c, err := New("thumb", 2)
	require.NoError(t, err)

	c.Add("/a", texture(host, "/a"))
	c.Add("/b", texture(host, "/b"))
	_, ok := c.Peek("/a")
	require.True(t, ok)

	c.Add("/c", texture(host, "/c"))
	assert.False(t, c.Contains("/a"))
	assert.True(t, c.Contains("/b"))
}

func TestReplaceReleasesPrevious(t *testing.T) {
	host := render.NewMemoryHost()
	c, err := New("full", 3)
	require.NoError(t, err)

	first := texture(host, "/a")
	second := texture(host, "/a")
	c.Add("/a", first)
	c.Add("/a", second)

	assert.True(t, first.Released())
	assert.False(t, second.Released())
	got, _ := c.Get("/a")
	assert.Same(t, second, got, "last writer wins")
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, host.Live())

	// Re-adding the same texture with a fresh reference keeps exactly one
	c.Add("/a", second.Retain())
	assert.Equal(t, 1, second.Refs())
}

func TestRetainedTextureOutlivesEviction(t *testing.T) {
	host := render.NewMemoryHost()
	c, err := New("full", 1)
	require.NoError(t, err)

	shown := texture(host, "/a")
	c.Add("/a", shown)
	shown.Retain()

	c.Add("/b", texture(host, "/b"))
	assert.False(t, shown.Released(), "visible reference keeps the texture alive")
	shown.Release()
	assert.True(t, shown.Released())
}

func TestRemoveAndPurge(t *testing.T) {
	host := render.NewMemoryHost()
	c, err := New("thumb", 5)
	require.NoError(t, err)

	for _, p := range []string{"/a", "/b", "/c"} {
		c.Add(p, texture(host, p))
	}
	assert.True(t, c.Remove("/b"))
	assert.False(t, c.Remove("/b"))
	assert.Equal(t, 2, host.Live())

	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, host.Live())
	assert.Equal(t, 5, c.Cap())
	assert.Equal(t, 0, c.Evictions())
}
