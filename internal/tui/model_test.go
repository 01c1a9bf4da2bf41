package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"glance/internal/config"
	"glance/internal/render"
	"glance/internal/tui/common"
	"glance/internal/tui/messages"
	"glance/internal/viewer"
	"glance/internal/watch"
	"glance/pkg/testutils"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T, dir string) (*Model, *viewer.Session) {
	t.Helper()
	cfg := config.NewTestConfig()
	cfg.Viewer.SidePadding = 0
	host := render.NewMemoryHost()
	session, err := viewer.NewSession(cfg, host)
	require.NoError(t, err)
	t.Cleanup(session.Close)

	session.Open(dir)
	m := New(session, host)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m, session
}

// settle delivers repaints until no load is outstanding.
func settle(t *testing.T, m *Model, s *viewer.Session) {
	t.Helper()
	require.Eventually(t, func() bool {
		m.Update(messages.RepaintMsg{})
		return s.Core.CacheStats().Pending == 0
	}, 5*time.Second, 2*time.Millisecond)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelInitialization(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteImages(t, dir, 40, 30, "a.png", "b.png", "c.png")
	m, s := newTestModel(t, dir)

	assert.Equal(t, common.Normal, m.Mode())
	assert.Equal(t, 80, m.Width())
	assert.False(t, m.ShowHelp())
	assert.True(t, m.status.Loading())
	assert.Contains(t, testutils.StripANSI(m.Picture()), "loading")

	settle(t, m, s)
	assert.False(t, m.status.Loading())

	view := testutils.StripANSI(m.View())
	assert.Contains(t, view, "1/3  a.png")
	assert.Contains(t, view, "40x30")
	assert.Contains(t, view, "B", "humanized file size")
	assert.Contains(t, view, "▀")
	assert.Contains(t, view, "q quit")
}

func TestNavigationKeys(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteImages(t, dir, 20, 20, "a.png", "b.png", "c.png")
	m, s := newTestModel(t, dir)
	settle(t, m, s)

	m.Update(keyMsg("right"))
	assert.Equal(t, 1, s.Core.Index())
	m.Update(keyMsg("l"))
	assert.Equal(t, 2, s.Core.Index())
	m.Update(keyMsg("n"))
	assert.Equal(t, 0, s.Core.Index(), "wraps around")
	m.Update(keyMsg("left"))
	assert.Equal(t, 2, s.Core.Index())
	m.Update(keyMsg("g"))
	assert.Equal(t, 0, s.Core.Index())
	m.Update(keyMsg("G"))
	assert.Equal(t, 2, s.Core.Index())

	settle(t, m, s)
	before := s.Core.Zoom()
	m.Update(keyMsg("+"))
	assert.InDelta(t, before+0.1, s.Core.Zoom(), 1e-9)
	m.Update(keyMsg("-"))
	m.Update(keyMsg("-"))
	assert.InDelta(t, before-0.1, s.Core.Zoom(), 1e-9)
	m.Update(keyMsg("f"))
	assert.InDelta(t, before, s.Core.Zoom(), 1e-9)

	m.Update(keyMsg("?"))
	assert.True(t, m.ShowHelp())
	assert.Contains(t, testutils.StripANSI(m.View()), "rescan folder")

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	_, quit := cmd().(tea.QuitMsg)
	assert.True(t, quit)
}

func TestJumpMode(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteImages(t, dir, 8, 8, "beach.png", "city.png", "forest.png")
	m, s := newTestModel(t, dir)

	m.Update(keyMsg("/"))
	require.Equal(t, common.Jump, m.Mode())
	for _, r := range "for" {
		m.Update(keyMsg(string(r)))
	}
	list := testutils.StripANSI(m.JumpList())
	assert.Contains(t, list, "> forest.png")
	assert.NotContains(t, list, "city.png")
	assert.NotContains(t, testutils.StripANSI(m.View()), "▀", "jump list replaces the picture")

	m.Update(keyMsg("enter"))
	assert.Equal(t, common.Normal, m.Mode())
	assert.Equal(t, 2, s.Core.Index())

	m.Update(keyMsg("/"))
	m.Update(keyMsg("esc"))
	assert.Equal(t, common.Normal, m.Mode())
	assert.Equal(t, 2, s.Core.Index())
}

func TestFailedImage(t *testing.T) {
	dir := t.TempDir()
	jpg := testutils.EncodeJPEG(t, testutils.SplitImage(32, 32, testutils.Red, testutils.Blue))
	testutils.WriteFile(t, dir, "broken.jpg", testutils.Truncated(jpg))
	m, s := newTestModel(t, dir)
	settle(t, m, s)

	assert.Equal(t, viewer.Failed, s.Core.Phase())
	picture := testutils.StripANSI(m.Picture())
	assert.Contains(t, picture, "broken.jpg: ")
	assert.Contains(t, testutils.StripANSI(m.Status()), s.Core.Error())
}

func TestEmptyFolder(t *testing.T) {
	dir := t.TempDir()
	m, _ := newTestModel(t, dir)

	assert.Equal(t, "glance", m.Header())
	assert.Contains(t, testutils.StripANSI(m.Picture()), "no image")
	assert.Contains(t, testutils.StripANSI(m.Status()), "no images in")

	m.Update(keyMsg("/"))
	assert.Equal(t, common.Normal, m.Mode(), "nothing to jump to")
}

func TestWatchMessages(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteImages(t, dir, 8, 8, "a.png")
	m, s := newTestModel(t, dir)

	testutils.WriteImages(t, dir, 8, 8, "b.png")
	_, cmd := m.Update(messages.WatchMsg{Batch: watch.Batch{Dir: s.Core.Dir(), ListChanged: true}})
	assert.Nil(t, cmd, "no watcher to wait on")
	assert.Equal(t, 2, s.Core.Len())
	assert.True(t, strings.HasPrefix(m.Header(), "1/2"))

	events := make(chan watch.Batch)
	close(events)
	msg := waitForBatch(events)()
	m.Update(msg)
	assert.Contains(t, testutils.StripANSI(m.Status()), "folder watch stopped")
}

func TestHeaderTruncation(t *testing.T) {
	dir := t.TempDir()
	name := strings.Repeat("long", 20) + ".png"
	testutils.WriteImages(t, dir, 8, 8, name)
	m, _ := newTestModel(t, dir)
	m.Update(tea.WindowSizeMsg{Width: 30, Height: 20})

	header := m.Header()
	assert.LessOrEqual(t, len([]rune(header)), 28)
	assert.True(t, strings.HasSuffix(header, "…"))
	assert.Equal(t, filepath.Join(dir, name), m.sizePath)
}

func TestInitDrainsEarlyResults(t *testing.T) {
	dir := t.TempDir()
	testutils.WriteImages(t, dir, 16, 16, "only.png")
	cfg := config.NewTestConfig()
	cfg.Viewer.SidePadding = 0
	host := render.NewMemoryHost()
	session, err := viewer.NewSession(cfg, host)
	require.NoError(t, err)
	t.Cleanup(session.Close)

	// Every result lands before the model exists, so no wake-up reaches it
	session.Open(dir)
	require.Eventually(t, func() bool {
		st := session.Loader.Stats()
		return host.Repaints() == st.Primary.Dispatched+st.Background.Dispatched
	}, 5*time.Second, 2*time.Millisecond)

	m := New(session, host)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	require.True(t, session.Core.IsLoading())

	batch, ok := m.Init()().(tea.BatchMsg)
	require.True(t, ok)
	for _, cmd := range batch {
		if cmd != nil {
			m.Update(cmd())
		}
	}

	assert.False(t, session.Core.IsLoading())
	assert.NotNil(t, session.Core.CurrentTexture())
	assert.Contains(t, m.Picture(), "▀")
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		name     string
		zoom     float64
		stats    viewer.CacheStats
		queued   int64
		loading  bool
		contains []string
		excludes []string
	}{
		{
			name:     "idle",
			zoom:     1,
			stats:    viewer.CacheStats{Full: 2, Thumbnails: 5},
			contains: []string{"100%", "cache 2/5"},
			excludes: []string{"queued", "loading"},
		},
		{
			name:     "decodes queued",
			zoom:     0.5,
			stats:    viewer.CacheStats{Full: 1},
			queued:   3,
			loading:  true,
			contains: []string{"loading", "50%", "queued 3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := statusText(tt.zoom, tt.stats, tt.queued, tt.loading)
			for _, s := range tt.contains {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, text, s)
			}
		})
	}
}
