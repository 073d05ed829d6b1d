package datamodel

import (
	"image"
)

// BBox is an axis-aligned box (x1, y1, x2, y2) in model input space.
type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// BBoxFromTensor reads the first four values of a detection output.
func BBoxFromTensor(t *Tensor) (BBox, bool) {
	if t == nil || t.Len() < 4 {
		return BBox{}, false
	}
	return BBox{
		X1: float64(t.Data[0]),
		Y1: float64(t.Data[1]),
		X2: float64(t.Data[2]),
		Y2: float64(t.Data[3]),
	}, true
}

// Scale multiplies every coordinate by f.
func (b BBox) Scale(f float64) BBox {
	return BBox{X1: b.X1 * f, Y1: b.Y1 * f, X2: b.X2 * f, Y2: b.Y2 * f}
}

// Rect truncates each coordinate toward zero.
func (b BBox) Rect() image.Rectangle {
	return image.Rectangle{
		Min: image.Point{X: int(b.X1), Y: int(b.Y1)},
		Max: image.Point{X: int(b.X2), Y: int(b.Y2)},
	}
}

// CAMResult is the rendered class activation overlay.
type CAMResult struct {
	PNG         []byte  `json:"png"`
	Probability float64 `json:"probability"`
}

// DetectionResult is the rendered bounding box overlay.
type DetectionResult struct {
	PNG  []byte `json:"png"`
	BBox BBox   `json:"bbox"`
}

// SegmentationResult points at the archive of annotated slices.
type SegmentationResult struct {
	ArchivePath string
	// Entries holds the archived slice indices in order
	Entries []int
	Skipped int
}
