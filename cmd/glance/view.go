package main

import (
	"glance/internal/gui"
	"glance/internal/log"

	"github.com/spf13/cobra"
)

// NewViewCmd creates the desktop viewer command
func NewViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [image or folder]",
		Short: "Open the desktop viewer",
		Long:  `Open an image, or the first image of a folder, in a desktop window.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := targetPath(args)
			if err != nil {
				return err
			}
			log.LogWithFields(log.F("path", path)).Debug("starting desktop viewer")
			return gui.Run(cfg, path)
		},
	}
}
