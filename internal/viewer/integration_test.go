package viewer

import (
	"testing"
	"time"

	"glance/internal/loader"
	"glance/internal/navigator"
	"glance/internal/render"
	"glance/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLiveCore(t *testing.T) (*Core, *loader.Loader, *render.MemoryHost) {
	t.Helper()
	filter, err := navigator.NewFilter([]string{"jpg", "png"})
	require.NoError(t, err)
	host := render.NewMemoryHost()
	l := loader.New(host, loader.Options{PrimaryWorkers: 1, BackgroundWorkers: 2})
	core, err := New(navigator.New(filter), l, DefaultOptions())
	require.NoError(t, err)
	return core, l, host
}

// settle ticks the core until nothing is loading and no work is pending.
func settle(t *testing.T, c *Core) {
	t.Helper()
	require.Eventually(t, func() bool {
		c.ProcessResults()
		return c.CacheStats().Pending == 0
	}, 5*time.Second, 2*time.Millisecond)
}

func TestLiveBrowse(t *testing.T) {
	dir := t.TempDir()
	paths := testutils.WriteImages(t, dir, 320, 240, "a.jpg", "b.png", "c.jpg")

	core, l, host := newLiveCore(t)
	core.SetViewport(800, 600)
	core.OpenContext(paths[1])
	settle(t, core)

	require.True(t, core.ShowingFullResolution())
	w, h := core.CurrentTexture().Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)
	assert.Equal(t, 1.0, core.Zoom())
	assert.Equal(t, Displayed, core.Phase())
	assert.Equal(t, 3, core.CacheStats().Thumbnails)

	for _, s := range core.PreviewStrip() {
		assert.Equal(t, SlotCached, s.State, s.Path)
		tw, th := s.Texture.Size()
		assert.Equal(t, 160, tw)
		assert.Equal(t, 120, th)
	}

	core.NextImage()
	assert.True(t, core.IsLoading())
	assert.False(t, core.ShowingFullResolution(), "thumbnail shown while decoding")
	assert.NotNil(t, core.CurrentTexture())
	settle(t, core)
	assert.True(t, core.ShowingFullResolution())

	l.Close()
	core.Close()
	assert.Equal(t, 0, host.Live())
}

func TestLiveTruncatedJPEG(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteImages(t, dir, 64, 48, "a.jpg")
	jpg := testutils.EncodeJPEG(t, testutils.SplitImage(64, 48, testutils.Red, testutils.Blue))
	broken := testutils.WriteFile(t, dir, "b.jpg", testutils.Truncated(jpg))

	core, l, host := newLiveCore(t)
	core.OpenContext(broken)
	settle(t, core)

	assert.False(t, core.IsLoading())
	assert.NotEmpty(t, core.Error())
	assert.Equal(t, Failed, core.Phase())
	assert.Nil(t, core.CurrentTexture())
	_, failed := core.Failure(broken)
	assert.True(t, failed)

	before := l.Stats().Primary.Dispatched
	core.NextImage()
	settle(t, core)
	assert.Empty(t, core.Error())
	core.PrevImage()
	assert.NotEmpty(t, core.Error())
	assert.Equal(t, before+1, l.Stats().Primary.Dispatched, "only a.jpg was decoded again")

	l.Close()
	core.Close()
	assert.Equal(t, 0, host.Live())
}
