package decoder

import (
	"encoding/binary"
	"math"

	"github.com/cocosip/go-dicom/pkg/dicom/parser"
	"github.com/cocosip/go-dicom/pkg/imaging"
	"github.com/pkg/errors"

	"github.com/instill-ai/medical-backend/pkg/datamodel"
)

// DICOM decodes the first frame of a single-sample DICOM image.
type DICOM struct{}

func (DICOM) Decode2D(path string) (*datamodel.Image2D, error) {
	res, err := parser.ParseFile(path, parser.WithReadOption(parser.ReadAll))
	if err != nil {
		return nil, errors.Wrapf(datamodel.ErrDecode, "dicom: %v", err)
	}

	pd, err := imaging.CreatePixelData(res.Dataset)
	if err != nil {
		return nil, errors.Wrapf(datamodel.ErrDecode, "dicom pixel data: %v", err)
	}
	if pd.Info.Encapsulated {
		return nil, errors.Wrapf(datamodel.ErrDecode, "compressed transfer syntax %s is not supported", pd.Info.TransferSyntaxUID)
	}
	if pd.FrameCount() < 1 {
		return nil, errors.Wrap(datamodel.ErrDecode, "dicom has no frames")
	}
	frame, err := pd.GetFrame(0)
	if err != nil {
		return nil, errors.Wrapf(datamodel.ErrDecode, "dicom frame: %v", err)
	}

	info := pd.Info
	if info.SamplesPerPixel != 1 {
		return nil, errors.Wrapf(datamodel.ErrShape, "dicom has %d samples per pixel, want 1", info.SamplesPerPixel)
	}

	return samplesToImage(frame, int(info.Width), int(info.Height), int(info.BitsAllocated), int(info.BitsStored), info.PixelRepresentation == 1)
}

// samplesToImage converts little-endian pixel samples into an Image2D.
// Signed samples are sign-extended from bitsStored.
func samplesToImage(frame []byte, width, height, bitsAllocated, bitsStored int, signed bool) (*datamodel.Image2D, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(datamodel.ErrShape, "dicom is %dx%d", width, height)
	}
	if bitsStored <= 0 || bitsStored > bitsAllocated {
		bitsStored = bitsAllocated
	}

	n := width * height
	step := bitsAllocated / 8
	if step == 0 || (bitsAllocated != 8 && bitsAllocated != 16 && bitsAllocated != 32) {
		return nil, errors.Wrapf(datamodel.ErrDecode, "unsupported bits allocated %d", bitsAllocated)
	}
	if len(frame) < n*step {
		return nil, errors.Wrapf(datamodel.ErrDecode, "frame has %d bytes, want %d", len(frame), n*step)
	}

	mask := uint32(math.MaxUint32)
	if bitsStored < 32 {
		mask = 1<<uint(bitsStored) - 1
	}
	signBit := uint32(1) << uint(bitsStored-1)

	img := datamodel.NewImage2D(width, height)
	for i := 0; i < n; i++ {
		var raw uint32
		switch step {
		case 1:
			raw = uint32(frame[i])
		case 2:
			raw = uint32(binary.LittleEndian.Uint16(frame[i*2:]))
		case 4:
			raw = binary.LittleEndian.Uint32(frame[i*4:])
		}
		raw &= mask
		if signed && raw&signBit != 0 {
			img.Pix[i] = float64(int64(raw) - int64(mask) - 1)
		} else {
			img.Pix[i] = float64(raw)
		}
	}
	return img, nil
}
