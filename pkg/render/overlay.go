package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/instill-ai/medical-backend/pkg/datamodel"
	"github.com/instill-ai/medical-backend/pkg/preprocess"
)

// BoxThickness is the stroke width of detection rectangles in pixels.
const BoxThickness = 2

// CAMOverlay renders the activation map as a jet heatmap blended half and
// half over the scan, both resized to size x size.
func CAMOverlay(raw, act *datamodel.Image2D, size int) *image.NRGBA {
	base := GrayToRGBA(UnitToByte(Normalize01(raw).Resize(size, size)))
	heat := ApplyJet(UnitToByte(act.Resize(size, size)))
	return Blend(base, heat, 0.5, 0.5)
}

// BBoxOverlay draws box, given in model input coordinates, over the scan
// resized to size x size.
func BBoxOverlay(raw *datamodel.Image2D, box datamodel.BBox, size int) *image.NRGBA {
	img := GrayToRGBA(UnitToByte(Normalize01(raw).Resize(size, size)))
	scaled := box.Scale(float64(size) / preprocess.InputSize)
	DrawRectangle(img, scaled.Rect(), Green, BoxThickness)
	return img
}

// DrawRectangle strokes the outline of r onto img. Corners may lie outside
// the canvas; only the visible part is drawn.
func DrawRectangle(img draw.Image, r image.Rectangle, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	r = r.Canon()
	lo := thickness / 2
	hi := thickness - lo

	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X-lo, r.Min.Y-lo, r.Max.X+hi, r.Min.Y+hi), // top
		image.Rect(r.Min.X-lo, r.Max.Y-lo, r.Max.X+hi, r.Max.Y+hi), // bottom
		image.Rect(r.Min.X-lo, r.Min.Y-lo, r.Min.X+hi, r.Max.Y+hi), // left
		image.Rect(r.Max.X-lo, r.Min.Y-lo, r.Max.X+hi, r.Max.Y+hi), // right
	}
	for _, e := range edges {
		e = e.Intersect(img.Bounds())
		if e.Empty() {
			continue
		}
		draw.Draw(img, e, src, image.Point{}, draw.Src)
	}
}
