package frameimage

import (
	"image"

	"github.com/tauraamui/xerror"
)

// FromBuffer wraps a tightly packed 8 bit per channel buffer, three or
// four channels per pixel, as an opaque image. A fourth channel is dropped
// rather than used as alpha.
func FromBuffer(buf []byte, width, height, channels int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, xerror.Errorf("invalid image dimensions: %dx%d", width, height)
	}
	if channels != 3 && channels != 4 {
		return nil, xerror.Errorf("unsupported channel count: %d", channels)
	}
	if want := width * height * channels; len(buf) < want {
		return nil, xerror.Errorf("resource buffer too small: got %d bytes, want %d", len(buf), want)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := buf[y*width*channels : (y+1)*width*channels]
		dst := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 0; x < width; x++ {
			s, d := src[x*channels:], dst[x*4:]
			d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xff
		}
	}
	return img, nil
}
