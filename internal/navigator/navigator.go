// Package navigator owns the ordered list of images in the open directory
// and the cursor into it. Every operation is total: unreadable directories
// produce an empty list and out-of-range moves are ignored.
package navigator

import (
	"os"
	"path/filepath"
	"slices"
	"sort"

	"glance/internal/log"
)

// PreviewRadius is the number of neighbors on each side of the current
// image covered by PreviewWindow.
const PreviewRadius = 2

// Entry pairs a list position with its path.
type Entry struct {
	Index int
	Path  string
}

// Navigator is not safe for concurrent use; the viewer drives it from a
// single goroutine.
type Navigator struct {
	filter *Filter
	dir    string
	paths  []string
	index  int
}

// New returns an empty navigator that lists files accepted by filter.
func New(filter *Filter) *Navigator {
	return &Navigator{filter: filter}
}

// OpenFolder replaces the list with the images in dir and selects the first.
func (n *Navigator) OpenFolder(dir string) {
	dir = absolute(dir)
	n.dir = dir
	n.paths = n.scan(dir)
	n.index = 0
}

// OpenFile lists path's directory and selects path. When path is not in the
// list (unsupported extension, missing file) the first image is selected.
func (n *Navigator) OpenFile(path string) {
	path = absolute(path)
	n.dir = filepath.Dir(path)
	n.paths = n.scan(n.dir)
	n.index = 0
	if i, ok := n.find(path); ok {
		n.index = i
	}
}

// Rescan re-reads the open directory. The current path stays selected when
// it still exists; otherwise the old index is clamped into the new list.
// It reports whether the list changed.
func (n *Navigator) Rescan() bool {
	if n.dir == "" {
		return false
	}
	prev := n.paths
	cur, hadCurrent := n.Current()

	n.paths = n.scan(n.dir)
	if i, ok := n.find(cur); hadCurrent && ok {
		n.index = i
	} else if n.index >= len(n.paths) {
		n.index = max(len(n.paths)-1, 0)
	}
	return !slices.Equal(prev, n.paths)
}

// Next advances cyclically and returns the new current path.
func (n *Navigator) Next() (string, bool) {
	if len(n.paths) == 0 {
		return "", false
	}
	n.index = (n.index + 1) % len(n.paths)
	return n.paths[n.index], true
}

// Prev retreats cyclically and returns the new current path.
func (n *Navigator) Prev() (string, bool) {
	if len(n.paths) == 0 {
		return "", false
	}
	n.index = (n.index - 1 + len(n.paths)) % len(n.paths)
	return n.paths[n.index], true
}

// Current returns the selected path, or false when the list is empty.
func (n *Navigator) Current() (string, bool) {
	if len(n.paths) == 0 {
		return "", false
	}
	return n.paths[n.index], true
}

// SetIndex jumps to i if it is a valid position.
func (n *Navigator) SetIndex(i int) bool {
	if i < 0 || i >= len(n.paths) {
		return false
	}
	n.index = i
	return true
}

// PreviewWindow returns the entries at offsets -2..2 around the current
// index, wrapped cyclically. Short lists repeat paths.
func (n *Navigator) PreviewWindow() []Entry {
	count := len(n.paths)
	if count == 0 {
		return nil
	}
	window := make([]Entry, 0, 2*PreviewRadius+1)
	for off := -PreviewRadius; off <= PreviewRadius; off++ {
		i := ((n.index+off)%count + count) % count
		window = append(window, Entry{Index: i, Path: n.paths[i]})
	}
	return window
}

func (n *Navigator) Index() int { return n.index }

func (n *Navigator) Len() int { return len(n.paths) }

// Dir is the directory of the current list, empty before the first open.
func (n *Navigator) Dir() string { return n.dir }

// Paths returns a copy of the list.
func (n *Navigator) Paths() []string {
	return append([]string(nil), n.paths...)
}

func (n *Navigator) find(path string) (int, bool) {
	i := sort.SearchStrings(n.paths, path)
	if i < len(n.paths) && n.paths[i] == path {
		return i, true
	}
	return 0, false
}

func (n *Navigator) scan(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.LogWithFields(log.F("dir", dir)).WithError(err).Debug("directory unreadable, list is empty")
		return nil
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !n.filter.Match(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	log.LogWithFields(log.F("dir", dir), log.F("images", len(paths))).Debug("scanned directory")
	return paths
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
