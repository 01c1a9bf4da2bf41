// Package decode turns encoded image bytes into straight RGBA pixel buffers.
//
// Decoding sniffs the container, applies the EXIF orientation and optionally
// resizes to an exact target size. The package holds no state and every
// function is safe for concurrent use.
package decode

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"glance/internal/errors"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Size is a target size in pixels.
type Size struct {
	Width  int
	Height int
}

// PixelBuffer holds straight (non-premultiplied) RGBA8 pixels, row-major,
// with a stride of 4*Width.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// Image views the buffer as an *image.NRGBA without copying.
func (b PixelBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Bytes is the size of the pixel data.
func (b PixelBuffer) Bytes() int {
	return len(b.Pix)
}

// Decode decodes data, applies its EXIF orientation and, when target is not
// nil, resizes the oriented image to exactly target using nearest-neighbor
// sampling. All failures are *errors.DecodeError.
func Decode(data []byte, target *Size) (PixelBuffer, error) {
	if len(data) == 0 {
		return PixelBuffer{}, errors.NewDecodeError("empty input", "", errors.EmptyImage, nil)
	}
	if target != nil && (target.Width <= 0 || target.Height <= 0) {
		return PixelBuffer{}, errors.NewDecodeError(
			"invalid target size", "", errors.InvalidTarget,
			errors.Newf("%dx%d", target.Width, target.Height))
	}

	var img image.Image
	if isJPEG(data) {
		decoded, err := decodeJPEG(data)
		if err != nil {
			return PixelBuffer{}, errors.NewDecodeError("corrupt image", "jpeg", errors.CorruptImage, err)
		}
		img = decoded
	} else {
		decoded, format, err := image.Decode(bytes.NewReader(data))
		if errors.Is(err, image.ErrFormat) {
			return PixelBuffer{}, errors.NewDecodeError("unsupported image format", "", errors.UnsupportedFormat, err)
		}
		if err != nil {
			if format == "" {
				_, format, _ = image.DecodeConfig(bytes.NewReader(data))
			}
			return PixelBuffer{}, errors.NewDecodeError("corrupt image", format, errors.CorruptImage, err)
		}
		img = decoded
	}

	if img.Bounds().Empty() {
		return PixelBuffer{}, errors.NewDecodeError("image has no pixels", "", errors.EmptyImage, nil)
	}

	img = orient(img, Orientation(data))

	if target != nil {
		img = resize.Resize(uint(target.Width), uint(target.Height), img, resize.NearestNeighbor)
	}

	out := toNRGBA(img)
	return PixelBuffer{Width: out.Rect.Dx(), Height: out.Rect.Dy(), Pix: out.Pix}, nil
}

// Orientation returns the EXIF orientation code (1-8) embedded in data,
// or 1 when there is none or it cannot be read.
func Orientation(data []byte) (o int) {
	defer func() {
		// goexif panics on some malformed IFDs
		if recover() != nil {
			o = 1
		}
	}()

	x, err := exif.Decode(bytes.NewReader(data))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

func orient(img image.Image, o int) image.Image {
	switch o {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

func isJPEG(data []byte) bool {
	return len(data) >= 2 && data[0] == 0xFF && data[1] == 0xD8
}

// decodeJPEG converts the decoder's planar output straight into interleaved
// RGBA rows, skipping the per-pixel color.Color round trip.
func decodeJPEG(data []byte) (*image.NRGBA, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	switch src := img.(type) {
	case *image.YCbCr:
		return ycbcrToNRGBA(src), nil
	case *image.Gray:
		return grayToNRGBA(src), nil
	}
	return toNRGBA(img), nil
}

func ycbcrToNRGBA(src *image.YCbCr) *image.NRGBA {
	r := src.Rect
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := dst.Pix[(y-r.Min.Y)*dst.Stride:]
		for x := r.Min.X; x < r.Max.X; x++ {
			yi := src.YOffset(x, y)
			ci := src.COffset(x, y)
			cr, cg, cb := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
			i := (x - r.Min.X) * 4
			row[i+0] = cr
			row[i+1] = cg
			row[i+2] = cb
			row[i+3] = 0xff
		}
	}
	return dst
}

func grayToNRGBA(src *image.Gray) *image.NRGBA {
	r := src.Rect
	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		in := src.Pix[src.PixOffset(r.Min.X, y):]
		row := dst.Pix[(y-r.Min.Y)*dst.Stride:]
		for x := 0; x < r.Dx(); x++ {
			v := in[x]
			i := x * 4
			row[i+0] = v
			row[i+1] = v
			row[i+2] = v
			row[i+3] = 0xff
		}
	}
	return dst
}

// toNRGBA returns img as a zero-origin, tightly packed *image.NRGBA,
// converting only when needed.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Rect, img, b.Min, draw.Src)
	return dst
}
