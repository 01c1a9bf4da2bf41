package navigator

import (
	"os"
	"path/filepath"
	"testing"

	"glance/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNavigator(t *testing.T) *Navigator {
	t.Helper()
	filter, err := NewFilter([]string{"jpg", "jpeg", "png", "webp", "bmp", "gif"})
	require.NoError(t, err)
	return New(filter)
}

// makeFolder creates empty files; the navigator only looks at names.
func makeFolder(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	files := make(map[string]string, len(names))
	for _, n := range names {
		files[n] = "x"
	}
	testutils.CreateTestFilesWithContent(t, dir, files)
	return dir
}

func TestFilter(t *testing.T) {
	filter, err := NewFilter([]string{".JPG", "png", " "})
	require.NoError(t, err)
	assert.Equal(t, "*.{jpg,png}", filter.Pattern())
	assert.Equal(t, []string{"jpg", "png"}, filter.Extensions())

	tests := []struct {
		path string
		want bool
	}{
		{"a.jpg", true},
		{"/photos/B.JPG", true},
		{"c.Png", true},
		{"d.jpeg", false},
		{"notes.txt", false},
		{"jpg", false},
		{"/dir.jpg/file.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Match(tt.path))
		})
	}

	single, err := NewFilter([]string{"gif"})
	require.NoError(t, err)
	assert.Equal(t, "*.gif", single.Pattern())

	_, err = NewFilter(nil)
	assert.Error(t, err)
}

func TestOpenFolderScenario(t *testing.T) {
	dir := makeFolder(t, "c.jpg", "a.jpg", "b.png", "readme.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0755))

	nav := newTestNavigator(t)
	nav.OpenFolder(dir)

	require.Equal(t, 3, nav.Len())
	assert.Equal(t, 0, nav.Index())
	cur, ok := nav.Current()
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), cur)

	p, _ := nav.Next()
	assert.Equal(t, filepath.Join(dir, "b.png"), p)
	p, _ = nav.Next()
	assert.Equal(t, filepath.Join(dir, "c.jpg"), p)
	p, _ = nav.Next()
	assert.Equal(t, filepath.Join(dir, "a.jpg"), p, "next wraps to the first image")

	p, _ = nav.Prev()
	assert.Equal(t, filepath.Join(dir, "c.jpg"), p, "prev wraps to the last image")
}

func TestOpenFile(t *testing.T) {
	dir := makeFolder(t, "a.jpg", "b.png", "c.jpg", "notes.txt")
	nav := newTestNavigator(t)

	nav.OpenFile(filepath.Join(dir, "c.jpg"))
	assert.Equal(t, 2, nav.Index())
	assert.Equal(t, dir, nav.Dir())

	// Unsupported file opened directly falls back to the first image
	nav.OpenFile(filepath.Join(dir, "notes.txt"))
	assert.Equal(t, 3, nav.Len())
	assert.Equal(t, 0, nav.Index())

	// Relative paths are made absolute
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)
	nav.OpenFile("b.png")
	cur, _ := nav.Current()
	assert.True(t, filepath.IsAbs(cur))
	assert.Equal(t, 1, nav.Index())
}

func TestEmptyAndMissingDirectories(t *testing.T) {
	nav := newTestNavigator(t)

	_, ok := nav.Current()
	assert.False(t, ok)
	assert.Nil(t, nav.PreviewWindow())

	nav.OpenFolder(t.TempDir())
	assert.Equal(t, 0, nav.Len())
	assert.Equal(t, 0, nav.Index())
	_, ok = nav.Current()
	assert.False(t, ok)
	_, ok = nav.Next()
	assert.False(t, ok)
	_, ok = nav.Prev()
	assert.False(t, ok)
	assert.False(t, nav.SetIndex(0))

	nav.OpenFolder(filepath.Join(t.TempDir(), "does", "not", "exist"))
	assert.Equal(t, 0, nav.Len())
	_, ok = nav.Current()
	assert.False(t, ok)
}

func TestSetIndex(t *testing.T) {
	dir := makeFolder(t, "1.jpg", "2.jpg", "3.jpg", "4.jpg")
	nav := newTestNavigator(t)
	nav.OpenFolder(dir)
	paths := nav.Paths()

	for i := range paths {
		require.True(t, nav.SetIndex(i))
		cur, ok := nav.Current()
		require.True(t, ok)
		assert.Equal(t, paths[i], cur)
	}

	assert.False(t, nav.SetIndex(-1))
	assert.False(t, nav.SetIndex(len(paths)))
	assert.Equal(t, len(paths)-1, nav.Index(), "invalid index is a no-op")
}

func TestCyclicIdentity(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7} {
		names := make([]string, n)
		for i := range names {
			names[i] = string(rune('a'+i)) + ".png"
		}
		nav := newTestNavigator(t)
		nav.OpenFolder(makeFolder(t, names...))

		for i := 0; i < n; i++ {
			nav.SetIndex(i)
			start, _ := nav.Current()

			nav.Next()
			back, _ := nav.Prev()
			assert.Equal(t, start, back)

			nav.Prev()
			fwd, _ := nav.Next()
			assert.Equal(t, start, fwd)
		}
	}
}

func TestPreviewWindow(t *testing.T) {
	t.Run("wraps around both ends", func(t *testing.T) {
		nav := newTestNavigator(t)
		nav.OpenFolder(makeFolder(t, "a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg", "f.jpg", "g.jpg"))

		window := nav.PreviewWindow()
		require.Len(t, window, 5)
		indices := make([]int, len(window))
		for i, e := range window {
			indices[i] = e.Index
			assert.Equal(t, nav.Paths()[e.Index], e.Path)
		}
		assert.Equal(t, []int{5, 6, 0, 1, 2}, indices)

		nav.SetIndex(6)
		indices = indices[:0]
		for _, e := range nav.PreviewWindow() {
			indices = append(indices, e.Index)
		}
		assert.Equal(t, []int{4, 5, 6, 0, 1}, indices)
	})

	t.Run("short lists repeat paths", func(t *testing.T) {
		for n := 1; n <= 6; n++ {
			names := make([]string, n)
			for i := range names {
				names[i] = string(rune('a'+i)) + ".jpg"
			}
			nav := newTestNavigator(t)
			nav.OpenFolder(makeFolder(t, names...))

			window := nav.PreviewWindow()
			require.Len(t, window, 5)
			distinct := map[string]bool{}
			for _, e := range window {
				assert.GreaterOrEqual(t, e.Index, 0)
				assert.Less(t, e.Index, n)
				distinct[e.Path] = true
			}
			assert.Len(t, distinct, min(5, n))
			assert.Equal(t, nav.Index(), window[2].Index, "center entry is the current image")
		}
	})
}

func TestRescan(t *testing.T) {
	dir := makeFolder(t, "a.jpg", "b.jpg", "c.jpg")
	nav := newTestNavigator(t)
	nav.OpenFile(filepath.Join(dir, "b.jpg"))

	assert.False(t, nav.Rescan(), "nothing changed")

	// New file sorted before the current one: current path is kept
	testutils.CreateTestFilesWithContent(t, dir, map[string]string{"0.jpg": "x"})
	assert.True(t, nav.Rescan())
	cur, _ := nav.Current()
	assert.Equal(t, filepath.Join(dir, "b.jpg"), cur)
	assert.Equal(t, 2, nav.Index())

	// Current file removed: index stays in place, now pointing at the successor
	require.NoError(t, os.Remove(filepath.Join(dir, "b.jpg")))
	assert.True(t, nav.Rescan())
	cur, _ = nav.Current()
	assert.Equal(t, filepath.Join(dir, "c.jpg"), cur)

	// Last file removed while selected: index is clamped
	require.NoError(t, os.Remove(filepath.Join(dir, "c.jpg")))
	nav.Rescan()
	assert.Equal(t, nav.Len()-1, nav.Index())

	assert.False(t, New(nav.filter).Rescan(), "nothing open")
}
