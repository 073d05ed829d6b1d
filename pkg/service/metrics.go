package service

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/instill-ai/medical-backend/pkg/datamodel"
	"github.com/instill-ai/medical-backend/pkg/inference"
)

var (
	inferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inference_duration_seconds",
			Help:    "Duration of model forward passes in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"model"},
	)
	segmentedSlices = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "segmentation_slices_total",
			Help: "Volume slices seen by the segmentation pipeline",
		}, []string{"outcome"},
	)
	cacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "prediction_cache_hits_total",
			Help: "Predictions served from the result cache",
		},
	)
)

func init() {
	prometheus.MustRegister(inferenceDuration, segmentedSlices, cacheHits)
}

type instrumented struct {
	inference.Model
}

func instrument(m inference.Model) inference.Model {
	return instrumented{Model: m}
}

func (m instrumented) Infer(ctx context.Context, input *datamodel.Tensor) ([]*datamodel.Tensor, error) {
	start := time.Now()
	defer func() {
		inferenceDuration.WithLabelValues(m.Name()).Observe(time.Since(start).Seconds())
	}()
	return m.Model.Infer(ctx, input)
}

type instrumentedCAM struct {
	instrumented
	weights func() []float32
}

func instrumentCAM(m inference.CAMModel) inference.CAMModel {
	return instrumentedCAM{instrumented: instrumented{Model: m}, weights: m.ClassifierWeights}
}

func (m instrumentedCAM) ClassifierWeights() []float32 {
	return m.weights()
}
