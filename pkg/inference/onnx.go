package inference

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/instill-ai/medical-backend/config"
	"github.com/instill-ai/medical-backend/pkg/datamodel"
	"github.com/instill-ai/medical-backend/pkg/logger"
)

// InitRuntime loads the ONNX Runtime shared library. It must be called once
// before any model is loaded.
func InitRuntime(cfg config.RuntimeConfig) error {
	if cfg.SharedLibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.SharedLibraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return errors.Wrap(err, "failed to initialize ONNX Runtime environment")
	}
	return nil
}

// DestroyRuntime releases the environment created by InitRuntime.
func DestroyRuntime() error {
	return ort.DestroyEnvironment()
}

type onnxModel struct {
	name        string
	variant     Variant
	session     *ort.DynamicAdvancedSession
	outputNames []string
}

type onnxCAMModel struct {
	*onnxModel
	weights []float32
}

// LoadRegistry loads every configured model into an immutable registry.
func LoadRegistry(ctx context.Context, models map[string]config.ModelConfig, rt config.RuntimeConfig) (*Registry, error) {
	logger, _ := logger.GetZapLogger(ctx)

	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	sort.Strings(names)

	loaded := make([]Model, 0, len(names))
	for _, name := range names {
		m, err := LoadONNX(name, models[name], rt)
		if err != nil {
			for _, l := range loaded {
				_ = l.(interface{ Close() error }).Close()
			}
			return nil, err
		}
		logger.Info("model loaded",
			zap.String("name", name),
			zap.String("variant", m.Variant().String()),
			zap.String("checkpoint", models[name].Checkpoint))
		loaded = append(loaded, m)
	}
	return NewRegistry(loaded...)
}

// LoadONNX opens an ONNX checkpoint as a Model of the configured variant.
func LoadONNX(name string, cfg config.ModelConfig, rt config.RuntimeConfig) (Model, error) {
	variant, err := ParseVariant(cfg.Variant)
	if err != nil {
		return nil, err
	}

	inputNames := cfg.InputNames
	if len(inputNames) == 0 {
		inputNames = []string{"input"}
	}
	outputNames := cfg.OutputNames
	if len(outputNames) == 0 {
		outputNames = defaultOutputNames(variant)
	}

	var opts *ort.SessionOptions
	if rt.IntraOpThreads > 0 {
		opts, err = ort.NewSessionOptions()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create session options")
		}
		defer opts.Destroy()
		if err := opts.SetIntraOpNumThreads(rt.IntraOpThreads); err != nil {
			return nil, errors.Wrap(err, "failed to set intra-op threads")
		}
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.Checkpoint, inputNames, outputNames, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load model %s from %s", name, cfg.Checkpoint)
	}

	m := &onnxModel{
		name:        name,
		variant:     variant,
		session:     session,
		outputNames: outputNames,
	}
	if variant != VariantPneumoniaCAM {
		return m, nil
	}

	weights, err := ReadClassifierWeights(cfg.ClassifierWeights)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	return &onnxCAMModel{onnxModel: m, weights: weights}, nil
}

func defaultOutputNames(v Variant) []string {
	switch v {
	case VariantPneumoniaCAM:
		return []string{"logit", "features"}
	case VariantCardiacBBox:
		return []string{"bbox"}
	default:
		return []string{"mask"}
	}
}

func (m *onnxModel) Name() string {
	return m.name
}

func (m *onnxModel) Variant() Variant {
	return m.variant
}

// Infer runs the forward pass, giving up when ctx is done. A run abandoned on
// cancellation finishes in the background and releases its own tensors.
func (m *onnxModel) Infer(ctx context.Context, input *datamodel.Tensor) ([]*datamodel.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(datamodel.ErrInference, "model %s: %v", m.name, err)
	}

	type result struct {
		outputs []*datamodel.Tensor
		err     error
	}
	done := make(chan result, 1)
	go func() {
		outputs, err := m.run(input)
		done <- result{outputs: outputs, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, errors.Wrapf(datamodel.ErrInference, "model %s: %v", m.name, ctx.Err())
	case r := <-done:
		return r.outputs, r.err
	}
}

func (m *onnxModel) run(input *datamodel.Tensor) ([]*datamodel.Tensor, error) {
	in, err := ort.NewTensor(ort.NewShape(input.Shape...), input.Data)
	if err != nil {
		return nil, errors.Wrapf(datamodel.ErrInference, "model %s: input tensor: %v", m.name, err)
	}
	defer in.Destroy()

	outputs := make([]ort.Value, len(m.outputNames))
	if err := m.session.Run([]ort.Value{in}, outputs); err != nil {
		return nil, errors.Wrapf(datamodel.ErrInference, "model %s: %v", m.name, err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				_ = o.Destroy()
			}
		}
	}()

	result := make([]*datamodel.Tensor, len(outputs))
	for i, o := range outputs {
		t, ok := o.(*ort.Tensor[float32])
		if !ok {
			return nil, errors.Wrapf(datamodel.ErrInference, "model %s: output %s is not float32", m.name, m.outputNames[i])
		}
		data := make([]float32, len(t.GetData()))
		copy(data, t.GetData())
		result[i] = &datamodel.Tensor{Shape: append([]int64(nil), t.GetShape()...), Data: data}
	}
	return result, nil
}

func (m *onnxModel) Close() error {
	return m.session.Destroy()
}

func (m *onnxCAMModel) ClassifierWeights() []float32 {
	return m.weights
}

// ReadClassifierWeights reads a raw little-endian float32 vector.
func ReadClassifierWeights(path string) ([]float32, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read classifier weights %s", path)
	}
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, errors.Errorf("classifier weights %s: size %d is not a whole number of float32 values", path, len(b))
	}
	w := make([]float32, len(b)/4)
	for i := range w {
		w[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return w, nil
}
