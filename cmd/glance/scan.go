package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"glance/internal/errors"
	"glance/internal/navigator"
	"glance/internal/tui/styles"

	_ "glance/internal/decode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewScanCmd creates the scan command
func NewScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [folder]",
		Short: "List the images the viewer would show",
		Long:  `List the images of a folder in viewing order with their size and dimensions.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := targetPath(args)
			if err != nil {
				return err
			}
			info, err := os.Stat(dir)
			if err != nil {
				return errors.FromIO(dir, err)
			}
			if !info.IsDir() {
				return errors.NewFileError("not a directory", dir, errors.InvalidPath, nil)
			}

			filter, err := navigator.NewFilter(cfg.Viewer.Extensions)
			if err != nil {
				return err
			}
			nav := navigator.New(filter)
			nav.OpenFolder(dir)

			fmt.Println(titleText(nav.Dir()))
			if nav.Len() == 0 {
				fmt.Println(helpText("no images matching " + filter.Pattern()))
				return nil
			}
			fmt.Println(scanTable(nav.Paths()))
			return nil
		},
	}
}

func scanTable(paths []string) string {
	var total int64
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Theme.Border).
		Headers("#", "Name", "Size", "Dimensions")
	for i, p := range paths {
		size, dims := "?", "?"
		if info, err := os.Stat(p); err == nil {
			total += info.Size()
			size = humanize.Bytes(uint64(info.Size()))
		}
		if w, h, err := dimensions(p); err == nil {
			dims = fmt.Sprintf("%dx%d", w, h)
		}
		t.Row(strconv.Itoa(i+1), filepath.Base(p), size, dims)
	}
	summary := fmt.Sprintf("%d images, %s", len(paths), humanize.Bytes(uint64(total)))
	return t.Render() + "\n" + helpText(summary)
}

// dimensions reads only the image header.
func dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	c, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return c.Width, c.Height, nil
}
