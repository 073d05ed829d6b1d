package decoder

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"

	"github.com/instill-ai/medical-backend/pkg/datamodel"
)

const (
	niftiHeaderSize = 348

	offDim      = 40
	offDatatype = 70
	offBitpix   = 72
	offVoxOff   = 108
	offSclSlope = 112
	offSclInter = 116
	offMagic    = 344
)

// NIfTI-1 datatype codes
const (
	dtUint8   = 2
	dtInt16   = 4
	dtInt32   = 8
	dtFloat32 = 16
	dtFloat64 = 64
	dtInt8    = 256
	dtUint16  = 512
	dtUint32  = 768
)

// NIfTI decodes single-file NIfTI-1 volumes, optionally gzip-compressed.
// The first two axes become the slice rows and columns, the third axis the
// slice index.
type NIfTI struct{}

func (NIfTI) Decode3D(path string) (*datamodel.Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(datamodel.ErrDecode, "nifti: %v", err)
	}
	defer f.Close()

	r, err := maybeGunzip(f)
	if err != nil {
		return nil, err
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(datamodel.ErrDecode, "nifti: %v", err)
	}
	return parseNIfTI(b)
}

func maybeGunzip(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(3072)
	if !mimetype.Detect(head).Is("application/gzip") {
		return br, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, errors.Wrapf(datamodel.ErrDecode, "nifti gzip: %v", err)
	}
	return zr, nil
}

func parseNIfTI(b []byte) (*datamodel.Volume, error) {
	if len(b) < niftiHeaderSize {
		return nil, errors.Wrapf(datamodel.ErrDecode, "nifti: file is %d bytes, shorter than the header", len(b))
	}

	var order binary.ByteOrder = binary.LittleEndian
	switch {
	case binary.LittleEndian.Uint32(b) == niftiHeaderSize:
	case binary.BigEndian.Uint32(b) == niftiHeaderSize:
		order = binary.BigEndian
	default:
		return nil, errors.Wrap(datamodel.ErrDecode, "nifti: bad sizeof_hdr")
	}
	if magic := string(b[offMagic : offMagic+3]); magic != "n+1" && magic != "ni1" {
		return nil, errors.Wrapf(datamodel.ErrDecode, "nifti: bad magic %q", magic)
	}

	var dim [8]int
	for i := range dim {
		dim[i] = int(int16(order.Uint16(b[offDim+2*i:])))
	}
	if dim[0] < 3 {
		return nil, errors.Wrapf(datamodel.ErrShape, "nifti has %d dimensions, want 3", dim[0])
	}
	for i := 4; i <= dim[0] && i < len(dim); i++ {
		if dim[i] > 1 {
			return nil, errors.Wrapf(datamodel.ErrShape, "nifti dimension %d has size %d, want a 3D volume", i, dim[i])
		}
	}
	nx, ny, nz := dim[1], dim[2], dim[3]
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil, errors.Wrapf(datamodel.ErrShape, "nifti is %dx%dx%d", nx, ny, nz)
	}

	datatype := int(order.Uint16(b[offDatatype:]))
	bitpix := int(order.Uint16(b[offBitpix:]))
	voxOffset := int(math.Float32frombits(order.Uint32(b[offVoxOff:])))
	slope := float64(math.Float32frombits(order.Uint32(b[offSclSlope:])))
	inter := float64(math.Float32frombits(order.Uint32(b[offSclInter:])))
	if voxOffset < niftiHeaderSize {
		voxOffset = niftiHeaderSize
	}

	read, err := sampleReader(datatype, bitpix, order)
	if err != nil {
		return nil, err
	}
	step := bitpix / 8
	n := nx * ny * nz
	if len(b) < voxOffset+n*step {
		return nil, errors.Wrapf(datamodel.ErrDecode, "nifti: %d voxels need %d bytes after offset %d, have %d", n, n*step, voxOffset, len(b)-voxOffset)
	}
	data := b[voxOffset:]

	scale := slope != 0 && !math.IsNaN(slope) && !(slope == 1 && inter == 0)

	// NIfTI stores x fastest. Slice k of the volume is the nx x ny plane
	// with x as rows and y as columns.
	vol := datamodel.NewVolume(nx, ny, nz)
	plane := nx * ny
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				v := read(data[(k*plane+j*nx+i)*step:])
				if scale {
					v = v*slope + inter
				}
				vol.Data[k*plane+i*ny+j] = v
			}
		}
	}
	return vol, nil
}

func sampleReader(datatype, bitpix int, order binary.ByteOrder) (func([]byte) float64, error) {
	want := map[int]int{
		dtUint8: 8, dtInt8: 8,
		dtInt16: 16, dtUint16: 16,
		dtInt32: 32, dtUint32: 32, dtFloat32: 32,
		dtFloat64: 64,
	}
	bits, ok := want[datatype]
	if !ok {
		return nil, errors.Wrapf(datamodel.ErrDecode, "nifti: unsupported datatype %d", datatype)
	}
	if bitpix != bits {
		return nil, errors.Wrapf(datamodel.ErrDecode, "nifti: datatype %d with bitpix %d", datatype, bitpix)
	}

	switch datatype {
	case dtUint8:
		return func(p []byte) float64 { return float64(p[0]) }, nil
	case dtInt8:
		return func(p []byte) float64 { return float64(int8(p[0])) }, nil
	case dtInt16:
		return func(p []byte) float64 { return float64(int16(order.Uint16(p))) }, nil
	case dtUint16:
		return func(p []byte) float64 { return float64(order.Uint16(p)) }, nil
	case dtInt32:
		return func(p []byte) float64 { return float64(int32(order.Uint32(p))) }, nil
	case dtUint32:
		return func(p []byte) float64 { return float64(order.Uint32(p)) }, nil
	case dtFloat32:
		return func(p []byte) float64 { return float64(math.Float32frombits(order.Uint32(p))) }, nil
	default:
		return func(p []byte) float64 { return math.Float64frombits(order.Uint64(p)) }, nil
	}
}

// EncodeNIfTI writes vol as an uncompressed little-endian float32 NIfTI-1
// file. It is the inverse of Decode3D and is used to build fixtures.
func EncodeNIfTI(vol *datamodel.Volume) []byte {
	const voxOffset = 352
	b := make([]byte, voxOffset+4*len(vol.Data))
	le := binary.LittleEndian

	le.PutUint32(b, niftiHeaderSize)
	dims := []int{3, vol.Height, vol.Width, vol.Depth, 1, 1, 1, 1}
	for i, d := range dims {
		le.PutUint16(b[offDim+2*i:], uint16(d))
	}
	le.PutUint16(b[offDatatype:], dtFloat32)
	le.PutUint16(b[offBitpix:], 32)
	le.PutUint32(b[offVoxOff:], math.Float32bits(voxOffset))
	le.PutUint32(b[offSclSlope:], math.Float32bits(1))
	copy(b[offMagic:], "n+1\x00")

	plane := vol.Height * vol.Width
	data := b[voxOffset:]
	for k := 0; k < vol.Depth; k++ {
		for j := 0; j < vol.Width; j++ {
			for i := 0; i < vol.Height; i++ {
				v := float32(vol.Data[k*plane+i*vol.Width+j])
				le.PutUint32(data[(k*plane+j*vol.Height+i)*4:], math.Float32bits(v))
			}
		}
	}
	return b
}

