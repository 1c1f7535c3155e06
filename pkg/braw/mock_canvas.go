package braw

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

var (
	parseFontOnce sync.Once
	labelFont     *truetype.Font
	labelFontErr  error
)

// renderTestCardBuffer lays the test card out the way the SDK hands back a
// CPU buffer: tightly packed rows, 8 bits per channel. RGBA output carries
// a zero alpha channel, the decoder never fills it in.
func renderTestCardBuffer(w, h int, index uint64, format ResourceFormat) []byte {
	card := renderTestCard(w, h, index)
	bpp := format.BytesPerPixel()
	buf := make([]byte, 0, w*h*bpp)
	for y := 0; y < h; y++ {
		row := card.Pix[y*card.Stride : y*card.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			buf = append(buf, px[0], px[1], px[2])
			if bpp == 4 {
				buf = append(buf, 0)
			}
		}
	}
	return buf
}

func renderTestCard(w, h int, index uint64) *image.RGBA {
	canvas := renderBaseFrameCanvas(w, h)
	// label rendering is best effort, the circles alone are a valid frame
	_ = drawText(canvas, 5, h/4, fmt.Sprintf("BRAW_MOCK #%d", index))
	return canvas
}

func renderBaseFrameCanvas(w, h int) *image.RGBA {
	var hw, hh float64 = float64(w) / 2, float64(h) / 2
	r := math.Min(hw, hh) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), 1.5 * r}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), 1.5 * r}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), 1.5 * r}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			})
		}
	}
	return img
}

func drawText(canvas *image.RGBA, x, y int, text string) error {
	parseFontOnce.Do(func() {
		labelFont, labelFontErr = freetype.ParseFont(goregular.TTF)
	})
	if labelFontErr != nil {
		return labelFontErr
	}

	fontSize := math.Max(8, float64(canvas.Bounds().Dy())/8)
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(labelFont, &truetype.Options{
			Size:    fontSize,
			Hinting: font.HintingFull,
		}),
	}
	textBounds, _ := fontDrawer.BoundString(text)
	textHeight := textBounds.Max.Y - textBounds.Min.Y
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y) + textHeight,
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
