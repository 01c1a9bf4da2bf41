//go:build nogui
// +build nogui

package gui

import (
	"glance/internal/config"
	"glance/internal/errors"
)

// Run is a stub for builds with the desktop viewer disabled.
func Run(cfg *config.Config, path string) error {
	return errors.New("desktop viewer not available in this build, use 'glance browse'")
}

// Available returns whether the desktop viewer is available in this build.
func Available() bool {
	return false
}
