package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/instill-ai/medical-backend/pkg/cache"
	"github.com/instill-ai/medical-backend/pkg/cam"
	"github.com/instill-ai/medical-backend/pkg/constant"
	"github.com/instill-ai/medical-backend/pkg/datamodel"
	"github.com/instill-ai/medical-backend/pkg/decoder"
	"github.com/instill-ai/medical-backend/pkg/inference"
	"github.com/instill-ai/medical-backend/pkg/preprocess"
	"github.com/instill-ai/medical-backend/pkg/render"
	"github.com/instill-ai/medical-backend/pkg/segment"

	custom_logger "github.com/instill-ai/medical-backend/pkg/logger"
)

var tracer = otel.Tracer("medical-backend.service.tracer")

// Service is the interface for the service layer
type Service interface {
	// LookupModel resolves a model by name and variant. Unknown names and
	// variant mismatches both yield inference.ErrUnknownModel.
	LookupModel(name string, variant inference.Variant) (inference.Model, error)
	// SegmentationModel returns the model serving the atrium endpoint.
	SegmentationModel() (inference.Model, error)
	Ready() bool

	PredictCAM(ctx context.Context, model inference.Model, path, digest string) (*datamodel.CAMResult, error)
	PredictCardiac(ctx context.Context, model inference.Model, path, digest string) (*datamodel.DetectionResult, error)
	SegmentAtrium(ctx context.Context, model inference.Model, path, dir string) (*datamodel.SegmentationResult, error)
}

type service struct {
	registry    *inference.Registry
	images      decoder.ImageDecoder
	volumes     decoder.VolumeDecoder
	cache       *cache.ResultCache
	displaySize int
	timeout     time.Duration
}

// NewService returns a new service instance. rc may be nil to disable result
// caching.
func NewService(
	r *inference.Registry,
	img decoder.ImageDecoder,
	vol decoder.VolumeDecoder,
	rc *cache.ResultCache,
	displaySize int,
	timeout time.Duration) Service {
	return &service{
		registry:    r,
		images:      img,
		volumes:     vol,
		cache:       rc,
		displaySize: displaySize,
		timeout:     timeout,
	}
}

func (s *service) LookupModel(name string, variant inference.Variant) (inference.Model, error) {
	if variant == inference.VariantPneumoniaCAM {
		return s.registry.LookupCAM(name)
	}
	return s.registry.Lookup(name, variant)
}

func (s *service) SegmentationModel() (inference.Model, error) {
	m, err := s.registry.First(inference.VariantAtriumSegmentation)
	if err != nil {
		return nil, ErrNoSegmentationModel
	}
	return m, nil
}

func (s *service) Ready() bool {
	return len(s.registry.Names()) > 0
}

func (s *service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *service) cached(ctx context.Context, key string) *cache.Entry {
	e, err := s.cache.Get(ctx, key)
	if err != nil {
		logger, _ := custom_logger.GetZapLogger(ctx)
		logger.Warn("result cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if e != nil {
		cacheHits.Inc()
	}
	return e
}

func (s *service) store(ctx context.Context, key string, e *cache.Entry) {
	if err := s.cache.Set(ctx, key, e); err != nil {
		logger, _ := custom_logger.GetZapLogger(ctx)
		logger.Warn("result cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *service) PredictCAM(ctx context.Context, model inference.Model, path, digest string) (*datamodel.CAMResult, error) {
	ctx, span := tracer.Start(ctx, "PredictCAM",
		trace.WithAttributes(attribute.String("model", model.Name())))
	defer span.End()

	camModel, ok := model.(inference.CAMModel)
	if !ok {
		return nil, inference.ErrUnknownModel
	}

	key := cache.Key(constant.RouteCAM, model.Name(), digest)
	if e := s.cached(ctx, key); e != nil && e.Probability != nil {
		return &datamodel.CAMResult{PNG: e.PNG, Probability: *e.Probability}, nil
	}

	raw, err := s.images.Decode2D(path)
	if err != nil {
		return nil, err
	}
	input, err := preprocess.ToModelInput(raw)
	if err != nil {
		return nil, err
	}

	inferCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	act, prob, err := cam.Compute(inferCtx, instrumentCAM(camModel), input)
	if err != nil {
		return nil, err
	}

	b, err := render.EncodePNG(render.CAMOverlay(raw, act, s.displaySize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode overlay")
	}

	s.store(ctx, key, &cache.Entry{PNG: b, Probability: &prob})
	span.SetAttributes(attribute.Float64("probability", prob))

	return &datamodel.CAMResult{PNG: b, Probability: prob}, nil
}

func (s *service) PredictCardiac(ctx context.Context, model inference.Model, path, digest string) (*datamodel.DetectionResult, error) {
	ctx, span := tracer.Start(ctx, "PredictCardiac",
		trace.WithAttributes(attribute.String("model", model.Name())))
	defer span.End()

	key := cache.Key(constant.RouteCardiac, model.Name(), digest)
	if e := s.cached(ctx, key); e != nil && e.BBox != nil {
		return &datamodel.DetectionResult{PNG: e.PNG, BBox: *e.BBox}, nil
	}

	raw, err := s.images.Decode2D(path)
	if err != nil {
		return nil, err
	}
	input, err := preprocess.ToModelInput(raw)
	if err != nil {
		return nil, err
	}

	inferCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	outputs, err := instrument(model).Infer(inferCtx, input.Unsqueeze())
	if err != nil {
		return nil, err
	}
	if len(outputs) < 1 {
		return nil, errors.Wrap(datamodel.ErrInference, "detection model returned no outputs")
	}
	box, ok := datamodel.BBoxFromTensor(outputs[0])
	if !ok {
		return nil, errors.Wrapf(datamodel.ErrInference, "detection output %v holds fewer than 4 coordinates", outputs[0].Shape)
	}

	b, err := render.EncodePNG(render.BBoxOverlay(raw, box, s.displaySize))
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode overlay")
	}

	s.store(ctx, key, &cache.Entry{PNG: b, BBox: &box})

	return &datamodel.DetectionResult{PNG: b, BBox: box}, nil
}

func (s *service) SegmentAtrium(ctx context.Context, model inference.Model, path, dir string) (*datamodel.SegmentationResult, error) {
	ctx, span := tracer.Start(ctx, "SegmentAtrium",
		trace.WithAttributes(attribute.String("model", model.Name())))
	defer span.End()

	vol, err := s.volumes.Decode3D(path)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("slices", vol.Depth))

	res, err := segment.NewPipeline(instrument(model), s.timeout).Run(ctx, vol, dir)
	if err != nil {
		return nil, err
	}

	segmentedSlices.WithLabelValues("archived").Add(float64(len(res.Entries)))
	segmentedSlices.WithLabelValues("skipped").Add(float64(res.Skipped))

	return res, nil
}
