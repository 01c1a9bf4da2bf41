package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"glance/internal/decode"
	"glance/internal/errors"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewDecodeCmd creates the decode command
func NewDecodeCmd() *cobra.Command {
	var thumb string
	var out string

	cmd := &cobra.Command{
		Use:   "decode <image>",
		Short: "Decode one image and report the result",
		Long: `Decode one image the way the viewer does, applying its EXIF orientation,
and report the pixel size and decode time. With --thumb the image is resized
to exactly that size. With --out the pixels are written to a new file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target *decode.Size
			if thumb != "" {
				size, err := parseSize(thumb)
				if err != nil {
					return err
				}
				target = &size
			}

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.FromIO(path, err)
			}

			start := time.Now()
			pixels, err := decode.Decode(data, target)
			if err != nil {
				return errors.Wrapf(err, "decoding %s", path)
			}
			elapsed := time.Since(start)

			fmt.Printf("%s  %dx%d  orientation %d  %s in memory  %s\n",
				titleText(path), pixels.Width, pixels.Height, decode.Orientation(data),
				humanize.Bytes(uint64(pixels.Bytes())), elapsed.Round(time.Microsecond))

			if out != "" {
				if err := imaging.Save(pixels.Image(), out); err != nil {
					return errors.Wrapf(err, "writing %s", out)
				}
				fmt.Println(helpText("wrote " + out))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&thumb, "thumb", "t", "", "resize to WIDTHxHEIGHT, e.g. 160x120")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the decoded pixels to this file (format from extension)")

	return cmd
}

// parseSize parses WIDTHxHEIGHT.
func parseSize(s string) (decode.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return decode.Size{}, errors.Newf("invalid size %q, want WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return decode.Size{}, errors.Newf("invalid width in %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return decode.Size{}, errors.Newf("invalid height in %q", s)
	}
	return decode.Size{Width: width, Height: height}, nil
}
