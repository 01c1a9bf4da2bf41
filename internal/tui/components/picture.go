package components

import (
	"fmt"
	"math"
	"strings"

	"glance/internal/decode"
	"glance/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Picture renders pixel buffers as half-block cells. One cell is one pixel
// wide and two pixels tall at zoom 1.
type Picture struct {
	cols int
	rows int
}

func NewPicture() *Picture {
	return &Picture{}
}

// SetSize sets the drawable area in terminal cells.
func (p *Picture) SetSize(cols, rows int) {
	p.cols, p.rows = max(cols, 0), max(rows, 0)
}

// Viewport is the drawable area in image pixels.
func (p *Picture) Viewport() (width, height float64) {
	return float64(p.cols), float64(2 * p.rows)
}

// Scaled returns the size in pixels that pixels occupies at zoom, cropped to
// the drawable area.
func (p *Picture) Scaled(pixels decode.PixelBuffer, zoom float64) (int, int) {
	w := int(math.Round(float64(pixels.Width) * zoom))
	h := int(math.Round(float64(pixels.Height) * zoom))
	return min(max(w, 1), p.cols), min(max(h, 1), 2*p.rows)
}

// View renders pixels at zoom, centered in the drawable area.
func (p *Picture) View(pixels decode.PixelBuffer, zoom float64) string {
	if p.cols == 0 || p.rows == 0 || pixels.Width == 0 || pixels.Height == 0 || zoom <= 0 {
		return p.Message("")
	}
	w, h := p.Scaled(pixels, zoom)
	// Crop around the image center when zoomed past the area
	offX := (float64(pixels.Width)*zoom - float64(w)) / 2
	offY := (float64(pixels.Height)*zoom - float64(h)) / 2

	sample := func(x, y int) lipgloss.Color {
		sx := min(int((float64(x)+offX)/zoom), pixels.Width-1)
		sy := min(int((float64(y)+offY)/zoom), pixels.Height-1)
		return pixelColor(pixels, max(sx, 0), max(sy, 0))
	}

	lines := make([]string, 0, (h+1)/2)
	for y := 0; y < h; y += 2 {
		var line strings.Builder
		var runTop, runBottom lipgloss.Color
		run := 0
		flush := func() {
			if run > 0 {
				style := lipgloss.NewStyle().Foreground(runTop).Background(runBottom)
				line.WriteString(style.Render(strings.Repeat(styles.HalfBlock, run)))
			}
		}
		for x := 0; x < w; x++ {
			top := sample(x, y)
			bottom := lipgloss.Color("#000000")
			if y+1 < h {
				bottom = sample(x, y+1)
			}
			if run > 0 && top == runTop && bottom == runBottom {
				run++
				continue
			}
			flush()
			runTop, runBottom, run = top, bottom, 1
		}
		flush()
		lines = append(lines, line.String())
	}
	block := strings.Join(lines, "\n")
	return lipgloss.Place(p.cols, p.rows, lipgloss.Center, lipgloss.Center, block)
}

// Message fills the drawable area with centered text.
func (p *Picture) Message(text string) string {
	return lipgloss.Place(p.cols, p.rows, lipgloss.Center, lipgloss.Center, text)
}

// pixelColor composites straight alpha over black.
func pixelColor(pixels decode.PixelBuffer, x, y int) lipgloss.Color {
	i := (y*pixels.Width + x) * 4
	if i+3 >= len(pixels.Pix) {
		return lipgloss.Color("#000000")
	}
	a := uint32(pixels.Pix[i+3])
	r := uint32(pixels.Pix[i]) * a / 255
	g := uint32(pixels.Pix[i+1]) * a / 255
	b := uint32(pixels.Pix[i+2]) * a / 255
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r, g, b))
}
