package viewer

import (
	"glance/internal/config"
	"glance/internal/decode"
)

// Options tunes the caches, the per-tick drain and the zoom model.
type Options struct {
	FullCacheSize   int
	ThumbCacheSize  int
	ThumbSize       decode.Size
	DrainLimit      int
	SidePadding     float64
	ZoomSensitivity float64
	MinZoom         float64
	MaxZoom         float64
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return OptionsFromConfig(config.New())
}

// OptionsFromConfig copies the viewer section of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	v := cfg.Viewer
	return Options{
		FullCacheSize:   v.FullCacheSize,
		ThumbCacheSize:  v.ThumbCacheSize,
		ThumbSize:       decode.Size{Width: v.ThumbWidth, Height: v.ThumbHeight},
		DrainLimit:      v.DrainLimit,
		SidePadding:     v.SidePadding,
		ZoomSensitivity: v.ZoomSensitivity,
		MinZoom:         v.MinZoom,
		MaxZoom:         v.MaxZoom,
	}
}
