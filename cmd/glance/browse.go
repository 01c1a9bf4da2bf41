package main

import (
	"io"
	"os"

	"glance/internal/errors"
	"glance/internal/log"
	"glance/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewBrowseCmd creates the terminal viewer command
func NewBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [image or folder]",
		Short: "Browse images inside the terminal",
		Long: `Browse a folder of images inside the terminal. Pictures are drawn with
half-block characters, two pixels per cell.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("browse needs an interactive terminal")
			}
			path, err := targetPath(args)
			if err != nil {
				return err
			}

			// The alternate screen owns the terminal; only the log file
			// keeps entries while browsing.
			opts := []log.Option{log.WithOutput(io.Discard)}
			if cfg.Logging.JSON {
				opts = append(opts, log.WithJSON())
			}
			if cfg.Logging.File != "" {
				opts = append(opts, log.WithFile(cfg.Logging.File))
			}
			log.Configure(opts...)
			defer configureLogging(cfg)

			return tui.Run(cfg, path)
		},
	}
}
