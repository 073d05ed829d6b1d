// Package render turns scalar rasters and model outputs into displayable
// RGB images.
package render

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/instill-ai/medical-backend/pkg/datamodel"
)

// Colors used by the overlays
var (
	Red   = color.NRGBA{R: 255, A: 255}
	Green = color.NRGBA{G: 255, A: 255}
)

// Normalize01 min-max scales img into [0, 1]. A constant image maps to zeros.
func Normalize01(img *datamodel.Image2D) *datamodel.Image2D {
	out := datamodel.NewImage2D(img.Width, img.Height)
	lo, hi := img.MinMax()
	if math.IsNaN(lo) || hi-lo <= 0 {
		return out
	}
	for i, v := range img.Pix {
		if math.IsNaN(v) {
			continue
		}
		out.Pix[i] = (v - lo) / (hi - lo)
	}
	return out
}

// UnitToByte maps [0, 1] values onto 0..255, truncating like an unsigned
// cast. Values outside the unit range saturate.
func UnitToByte(img *datamodel.Image2D) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	for i, v := range img.Pix {
		out.Pix[i] = saturate(math.Trunc(v * 255))
	}
	return out
}

// RescaleToByte stretches img over 0..255 using its own minimum and maximum.
func RescaleToByte(img *datamodel.Image2D) *image.Gray {
	return UnitToByte(Normalize01(img))
}

// GrayToRGBA replicates the gray channel into R, G and B.
func GrayToRGBA(g *image.Gray) *image.NRGBA {
	out := image.NewNRGBA(g.Bounds())
	draw.Draw(out, out.Bounds(), g, g.Bounds().Min, draw.Src)
	return out
}

// ApplyJet maps each gray level through the jet colormap.
func ApplyJet(g *image.Gray) *image.NRGBA {
	out := image.NewNRGBA(g.Bounds())
	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.SetNRGBA(x, y, jet[g.GrayAt(x, y).Y])
		}
	}
	return out
}

var jet = func() [256]color.NRGBA {
	var lut [256]color.NRGBA
	for i := range lut {
		x := float64(i) / 255
		lut[i] = color.NRGBA{
			R: saturate(math.Round(jetChannel(4*x-3) * 255)),
			G: saturate(math.Round(jetChannel(4*x-2) * 255)),
			B: saturate(math.Round(jetChannel(4*x-1) * 255)),
			A: 255,
		}
	}
	return lut
}()

func jetChannel(d float64) float64 {
	return math.Max(0, math.Min(1, 1.5-math.Abs(d)))
}

// Blend returns alpha*a + beta*b per channel, saturated. Ties round to even.
// Both images must share bounds.
func Blend(a, b *image.NRGBA, alpha, beta float64) *image.NRGBA {
	out := image.NewNRGBA(a.Bounds())
	for i := 0; i < len(out.Pix); i += 4 {
		for ch := 0; ch < 3; ch++ {
			out.Pix[i+ch] = saturate(math.RoundToEven(alpha*float64(a.Pix[i+ch]) + beta*float64(b.Pix[i+ch])))
		}
		out.Pix[i+3] = 255
	}
	return out
}

// BlendMasked mixes c into img with weight alpha wherever mask is non-zero.
// Unmasked pixels are left untouched. Ties round to even as in Blend.
func BlendMasked(img *image.NRGBA, mask *image.Gray, c color.NRGBA, alpha float64) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.GrayAt(x, y).Y == 0 {
				continue
			}
			i := out.PixOffset(x, y)
			out.Pix[i] = saturate(math.RoundToEven((1-alpha)*float64(out.Pix[i]) + alpha*float64(c.R)))
			out.Pix[i+1] = saturate(math.RoundToEven((1-alpha)*float64(out.Pix[i+1]) + alpha*float64(c.G)))
			out.Pix[i+2] = saturate(math.RoundToEven((1-alpha)*float64(out.Pix[i+2]) + alpha*float64(c.B)))
		}
	}
	return out
}

// Rotate90CCW rotates img a quarter turn counter-clockwise.
func Rotate90CCW(img image.Image) *image.NRGBA {
	return imaging.Rotate90(img)
}

// FlipHorizontal mirrors img left to right.
func FlipHorizontal(img image.Image) *image.NRGBA {
	return imaging.FlipH(img)
}

// ResizeMask resamples a binary mask with nearest neighbour so it stays binary.
func ResizeMask(mask *image.Gray, width, height int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(out, out.Bounds(), mask, mask.Bounds(), draw.Src, nil)
	return out
}

// EncodePNG encodes img losslessly.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func saturate(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
