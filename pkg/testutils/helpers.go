package testutils

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	Red   = color.NRGBA{R: 255, A: 255}
	Blue  = color.NRGBA{B: 255, A: 255}
	Green = color.NRGBA{G: 255, A: 255}
)

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t testing.TB, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
		require.NoError(t, err)
	}
}

// WriteFile writes data to dir/name and returns the full path.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// SplitImage returns a w×h image whose left half is left and right half is right.
func SplitImage(w, h int, left, right color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, image.Rect(0, 0, w/2, h), image.NewUniform(left), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(w/2, 0, w, h), image.NewUniform(right), image.Point{}, draw.Src)
	return img
}

// EncodeJPEG encodes img at high quality.
func EncodeJPEG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

// EncodePNG encodes img losslessly.
func EncodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// EncodeGIF encodes img with the standard palette.
func EncodeGIF(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

// WithEXIFOrientation inserts an APP1 Exif segment carrying only the
// orientation tag directly after the JPEG start-of-image marker.
func WithEXIFOrientation(t testing.TB, data []byte, orientation int) []byte {
	t.Helper()
	require.True(t, len(data) > 2 && data[0] == 0xFF && data[1] == 0xD8, "not a JPEG")

	var tiff bytes.Buffer
	tiff.WriteString("MM")
	binary.Write(&tiff, binary.BigEndian, uint16(42))
	binary.Write(&tiff, binary.BigEndian, uint32(8)) // IFD0 offset
	binary.Write(&tiff, binary.BigEndian, uint16(1)) // entry count
	binary.Write(&tiff, binary.BigEndian, uint16(0x0112))
	binary.Write(&tiff, binary.BigEndian, uint16(3)) // SHORT
	binary.Write(&tiff, binary.BigEndian, uint32(1))
	binary.Write(&tiff, binary.BigEndian, uint16(orientation))
	binary.Write(&tiff, binary.BigEndian, uint16(0))
	binary.Write(&tiff, binary.BigEndian, uint32(0)) // no next IFD

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	segment := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(segment[2:], uint16(len(payload)+2))
	segment = append(segment, payload...)

	out := make([]byte, 0, len(data)+len(segment))
	out = append(out, data[:2]...)
	out = append(out, segment...)
	return append(out, data[2:]...)
}

// Truncated cuts data in half, leaving a valid header and missing scan data.
func Truncated(data []byte) []byte {
	return append([]byte(nil), data[:len(data)/2]...)
}

// WriteImages writes a small valid image for every name, encoded by its
// extension (jpg/jpeg, gif, anything else as PNG), and returns the paths.
func WriteImages(t testing.TB, dir string, w, h int, names ...string) []string {
	t.Helper()
	img := SplitImage(w, h, Red, Blue)
	paths := make([]string, 0, len(names))
	for _, name := range names {
		var data []byte
		switch strings.ToLower(filepath.Ext(name)) {
		case ".jpg", ".jpeg":
			data = EncodeJPEG(t, img)
		case ".gif":
			data = EncodeGIF(t, img)
		default:
			data = EncodePNG(t, img)
		}
		paths = append(paths, WriteFile(t, dir, name, data))
	}
	return paths
}

// ColorNear reports whether every channel of got is within tol of want.
func ColorNear(got, want color.NRGBA, tol int) bool {
	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			return -d
		}
		return d
	}
	return diff(got.R, want.R) <= tol && diff(got.G, want.G) <= tol &&
		diff(got.B, want.B) <= tol && diff(got.A, want.A) <= tol
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
