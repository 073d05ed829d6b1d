// Package segment runs a 2D segmentation model slice by slice over a volume
// and packages the annotated slices into a ZIP archive.
package segment

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/instill-ai/medical-backend/pkg/constant"
	"github.com/instill-ai/medical-backend/pkg/datamodel"
	"github.com/instill-ai/medical-backend/pkg/inference"
	"github.com/instill-ai/medical-backend/pkg/logger"
	"github.com/instill-ai/medical-backend/pkg/preprocess"
	"github.com/instill-ai/medical-backend/pkg/render"
	"github.com/instill-ai/medical-backend/pkg/utils"
	"github.com/instill-ai/medical-backend/pkg/volume"
)

const (
	// EmptySliceThreshold skips slices whose standardized maximum is below it.
	EmptySliceThreshold = 0.01
	// MaskThreshold binarizes the predicted probability map.
	MaskThreshold = 0.5
	// MaskOpacity is the weight of the red overlay on segmented pixels.
	MaskOpacity = 0.5
)

// Pipeline segments every informative slice of a volume.
type Pipeline struct {
	model   inference.Model
	timeout time.Duration
}

// NewPipeline returns a pipeline bounding each forward pass by timeout. A
// zero timeout leaves only the caller's deadline.
func NewPipeline(model inference.Model, timeout time.Duration) *Pipeline {
	return &Pipeline{model: model, timeout: timeout}
}

// Run writes the archive into dir, which must exist and be private to the
// call. Intermediate slice images are removed as soon as they are archived.
// On error no archive is left behind.
func (p *Pipeline) Run(ctx context.Context, vol *datamodel.Volume, dir string) (res *datamodel.SegmentationResult, err error) {
	logger, _ := logger.GetZapLogger(ctx)

	if err := vol.Validate(); err != nil {
		return nil, err
	}
	std := volume.StandardizeVolume(volume.NormalizeVolume(vol))

	archivePath := filepath.Join(dir, constant.ArchiveName)
	f, err := os.Create(archivePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create archive")
	}
	zw := zip.NewWriter(f)
	defer func() {
		if cerr := zw.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to finalize archive")
		}
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close archive")
		}
		if err != nil {
			res = nil
			utils.Remove(ctx, archivePath)
		}
	}()

	res = &datamodel.SegmentationResult{ArchivePath: archivePath}
	for i := 0; i < std.Depth; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(datamodel.ErrInference, "segmentation aborted at slice %d: %v", i, err)
		}

		slice := std.Slice(i)
		if _, hi := slice.MinMax(); hi < EmptySliceThreshold {
			res.Skipped++
			continue
		}

		mask, err := p.predictMask(ctx, slice)
		if err != nil {
			return nil, errors.Wrapf(err, "slice %d", i)
		}

		img := Composite(vol.Slice(i), mask)
		if err := archiveSlice(ctx, zw, dir, i, img); err != nil {
			return nil, err
		}
		res.Entries = append(res.Entries, i)
	}

	logger.Debug("segmentation finished",
		zap.Int("slices", std.Depth),
		zap.Int("archived", len(res.Entries)),
		zap.Int("skipped", res.Skipped))

	return res, nil
}

func (p *Pipeline) predictMask(ctx context.Context, slice *datamodel.Image2D) (*image.Gray, error) {
	input, err := preprocess.ToSegmentationInput(slice)
	if err != nil {
		return nil, err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	outputs, err := p.model.Infer(ctx, input)
	if err != nil {
		return nil, err
	}
	const n = preprocess.InputSize * preprocess.InputSize
	if len(outputs) < 1 || outputs[0] == nil || outputs[0].Len() != n {
		return nil, errors.Wrap(datamodel.ErrInference, "segmentation output must hold 224x224 probabilities")
	}

	mask := image.NewGray(image.Rect(0, 0, preprocess.InputSize, preprocess.InputSize))
	for j, v := range outputs[0].Data {
		if v > MaskThreshold {
			mask.Pix[j] = 255
		}
	}
	return render.ResizeMask(mask, slice.Width, slice.Height), nil
}

// Composite paints mask in red over the byte-rescaled raw slice, then turns
// the result into display orientation.
func Composite(raw *datamodel.Image2D, mask *image.Gray) *image.NRGBA {
	base := render.GrayToRGBA(render.RescaleToByte(raw))
	overlay := render.BlendMasked(base, mask, render.Red, MaskOpacity)
	return render.FlipHorizontal(render.Rotate90CCW(overlay))
}

func archiveSlice(ctx context.Context, zw *zip.Writer, dir string, index int, img image.Image) error {
	b, err := render.EncodePNG(img)
	if err != nil {
		return errors.Wrapf(err, "failed to encode slice %d", index)
	}

	name := fmt.Sprintf(constant.SliceFileNameFormat, index)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write slice %d", index)
	}
	defer utils.Remove(ctx, path)

	src, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to reopen slice %d", index)
	}
	defer src.Close()

	dst, err := zw.Create(name)
	if err != nil {
		return errors.Wrapf(err, "failed to add slice %d to archive", index)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return errors.Wrapf(err, "failed to add slice %d to archive", index)
	}
	return nil
}
