package navigator

import (
	"path/filepath"
	"strings"

	"glance/internal/errors"

	"github.com/gobwas/glob"
)

// Filter decides which directory entries are browsable images.
type Filter struct {
	pattern string
	matcher glob.Glob
	exts    []string
}

// NewFilter compiles an extension allow-list (without dots, any case) into a
// case-insensitive base-name matcher such as "*.{jpg,png}".
func NewFilter(exts []string) (*Filter, error) {
	clean := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			clean = append(clean, ext)
		}
	}
	if len(clean) == 0 {
		return nil, errors.NewConfigError("no image extensions configured", "viewer.extensions", errors.InvalidConfig, nil)
	}

	pattern := "*." + clean[0]
	if len(clean) > 1 {
		pattern = "*.{" + strings.Join(clean, ",") + "}"
	}
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.NewConfigError("invalid extension pattern", "viewer.extensions", errors.InvalidConfig, err)
	}
	return &Filter{pattern: pattern, matcher: matcher, exts: clean}, nil
}

// Match reports whether path names a supported image.
func (f *Filter) Match(path string) bool {
	return f.matcher.Match(strings.ToLower(filepath.Base(path)))
}

// Pattern returns the compiled glob, mainly for diagnostics.
func (f *Filter) Pattern() string {
	return f.pattern
}

// Extensions returns the normalized allow-list.
func (f *Filter) Extensions() []string {
	return append([]string(nil), f.exts...)
}
