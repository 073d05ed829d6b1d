package handler

import (
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/instill-ai/medical-backend/pkg/middleware"
)

// Metrics exposes the prometheus registry.
func (h *PublicHandler) Metrics(w http.ResponseWriter, req *http.Request, pathParams map[string]string) {
	promhttp.Handler().ServeHTTP(w, req)
}

// RegisterRoutes binds the public endpoints on the gateway mux.
func (h *PublicHandler) RegisterRoutes(mux *runtime.ServeMux) error {
	routes := []struct {
		method  string
		pattern string
		handler runtime.HandlerFunc
	}{
		{http.MethodPost, "/predict_cam/{model_name}", h.PredictCAM},
		{http.MethodPost, "/predict_cardiac/{model_name}", h.PredictCardiac},
		{http.MethodPost, "/segment_atrium", h.SegmentAtrium},
		{http.MethodGet, "/health", h.Health},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.pattern, middleware.Instrument(r.pattern, r.handler)); err != nil {
			return err
		}
	}
	return nil
}

// RegisterPrivateRoutes binds the operator endpoints served on the private
// port.
func (h *PublicHandler) RegisterPrivateRoutes(mux *runtime.ServeMux) error {
	if err := mux.HandlePath(http.MethodGet, "/health", h.Health); err != nil {
		return err
	}
	return mux.HandlePath(http.MethodGet, "/metrics", h.Metrics)
}
