package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/instill-ai/medical-backend/pkg/constant"
	"github.com/instill-ai/medical-backend/pkg/datamodel"
	"github.com/instill-ai/medical-backend/pkg/inference"
	"github.com/instill-ai/medical-backend/pkg/logger"
	"github.com/instill-ai/medical-backend/pkg/service"
	"github.com/instill-ai/medical-backend/pkg/utils"

	custom_otel "github.com/instill-ai/medical-backend/pkg/logger/otel"
)

var tracer = otel.Tracer("medical-backend.public-handler.tracer")

// PublicHandler serves the prediction endpoints.
type PublicHandler struct {
	service     service.Service
	scratchRoot string
	maxUpload   int64
}

// NewPublicHandler creates a handler staging uploads under scratchRoot.
// Request bodies larger than maxUploadMB are rejected.
func NewPublicHandler(s service.Service, scratchRoot string, maxUploadMB int64) *PublicHandler {
	return &PublicHandler{
		service:     s,
		scratchRoot: scratchRoot,
		maxUpload:   maxUploadMB * utils.MB,
	}
}

// upload is a request file staged inside its own scratch directory.
type upload struct {
	dir    string
	path   string
	digest string
}

func makeJSONResponse(w http.ResponseWriter, status int, title string, detail string) {
	w.Header().Add(constant.HeaderContentType, constant.ContentTypeProblem)
	w.WriteHeader(status)
	obj, _ := json.Marshal(datamodel.Error{
		Status: int32(status),
		Title:  title,
		Detail: detail,
		Error:  detail,
	})
	_, _ = w.Write(obj)
}

// writeError answers with the problem body for err and emits the audit line
// carrying the error.
func writeError(ctx context.Context, w http.ResponseWriter, span trace.Span, logID string, eventName string, title string, err error) {
	status, msg := statusFor(err)
	makeJSONResponse(w, status, title, msg)
	span.SetStatus(1, msg)

	logger, _ := logger.GetZapLogger(ctx)
	logger.Error(string(custom_otel.NewLogMessage(
		span,
		logID,
		eventName,
		custom_otel.SetErrorMessage(err.Error()),
	)))
}

// stage copies the multipart file under field into a fresh scratch directory.
// The caller owns the returned directory and must remove it, including when an
// error is returned alongside a non-empty dir.
func (h *PublicHandler) stage(ctx context.Context, w http.ResponseWriter, req *http.Request, field string) (*upload, error) {
	req.Body = http.MaxBytesReader(w, req.Body, h.maxUpload)
	if err := req.ParseMultipartForm(h.maxUpload); err != nil {
		return nil, err
	}

	file, header, err := req.FormFile(field)
	if err != nil {
		return nil, service.ErrMissingFile
	}
	defer file.Close()

	dir, err := utils.NewScratchDir(h.scratchRoot)
	if err != nil {
		return nil, err
	}
	// keep the extension only; client file names never reach the filesystem
	path, digest, err := utils.StageUpload(ctx, dir, "upload"+filepath.Ext(header.Filename), file)
	if err != nil {
		return &upload{dir: dir}, err
	}
	return &upload{dir: dir, path: path, digest: digest}, nil
}

func (h *PublicHandler) cleanup(ctx context.Context, req *http.Request, up *upload) {
	if req.MultipartForm != nil {
		_ = req.MultipartForm.RemoveAll()
	}
	if up != nil && up.dir != "" {
		utils.RemoveAll(ctx, up.dir)
	}
}

// PredictCAM serves POST /predict_cam/{model_name}: a DICOM upload in, the
// class activation overlay out with the probability in a header.
func (h *PublicHandler) PredictCAM(w http.ResponseWriter, req *http.Request, pathParams map[string]string) {

	eventName := "PredictCAM"

	ctx, span := tracer.Start(req.Context(), eventName,
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	logUUID, _ := uuid.NewV4()

	logger, _ := logger.GetZapLogger(ctx)

	modelName := pathParams["model_name"]
	model, err := h.service.LookupModel(modelName, inference.VariantPneumoniaCAM)
	if err != nil {
		writeError(ctx, w, span, logUUID.String(), eventName, "Invalid parameter", err)
		return
	}

	up, err := h.stage(ctx, w, req, constant.FormFieldDICOM)
	defer h.cleanup(ctx, req, up)
	if err != nil {
		writeError(ctx, w, span, logUUID.String(), eventName, "File Error", err)
		return
	}

	res, err := h.service.PredictCAM(ctx, model, up.path, up.digest)
	if err != nil {
		writeError(ctx, w, span, logUUID.String(), eventName, "Prediction Error", err)
		return
	}

	logger.Info(string(custom_otel.NewLogMessage(
		span,
		logUUID.String(),
		eventName,
		custom_otel.SetEventResource(modelName),
		custom_otel.SetEventResult(res.Probability),
	)))

	w.Header().Set(constant.HeaderContentType, constant.ContentTypePNG)
	w.Header().Set(constant.HeaderProbability, strconv.FormatFloat(res.Probability, 'f', -1, 64))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

// PredictCardiac serves POST /predict_cardiac/{model_name}: a DICOM upload in,
// the detected box drawn over the scan out.
func (h *PublicHandler) PredictCardiac(w http.ResponseWriter, req *http.Request, pathParams map[string]string) {

	eventName := "PredictCardiac"

	ctx, span := tracer.Start(req.Context(), eventName,
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	logUUID, _ := uuid.NewV4()

	logger, _ := logger.GetZapLogger(ctx)

	modelName := pathParams["model_name"]
	model, err := h.service.LookupModel(modelName, inference.VariantCardiacBBox)
	if err != nil {
		writeError(ctx, w, span, logUUID.String(), eventName, "Invalid parameter", err)
		return
	}

	up, err := h.stage(ctx, w, req, constant.FormFieldDICOM)
	defer h.cleanup(ctx, req, up)
	if err != nil {
		writeError(ctx, w, span, logUUID.String(), eventName, "File Error", err)
		return
	}

	res, err := h.service.PredictCardiac(ctx, model, up.path, up.digest)
	if err != nil {
		writeError(ctx, w, span, logUUID.String(), eventName, "Prediction Error", err)
		return
	}

	logger.Info(string(custom_otel.NewLogMessage(
		span,
		logUUID.String(),
		eventName,
		custom_otel.SetEventResource(modelName),
		custom_otel.SetEventResult(res.BBox),
	)))

	w.Header().Set(constant.HeaderContentType, constant.ContentTypePNG)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.PNG)
}

// SegmentAtrium serves POST /segment_atrium: a NIfTI volume in, a ZIP of the
// annotated non-empty slices out.
func (h *PublicHandler) SegmentAtrium(w http.ResponseWriter, req *http.Request, pathParams map[string]string) {

	eventName := "SegmentAtrium"

	ctx, span := tracer.Start(req.Context(), eventName,
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	logUUID, _ := uuid.NewV4()

	logger, _ := logger.GetZapLogger(ctx)

	up, err := h.stage(ctx, w, req, constant.FormFieldNIfTI)
	defer h.cleanup(ctx, req, up)
	if err != nil {
		writeError(ctx, w, span, logUUID.String(), eventName, "File Error", err)
		return
	}

	model, err := h.service.SegmentationModel()
	if err != nil {
		writeError(ctx, w, span, logUUID.String(), eventName, "Segmentation Error", err)
		return
	}

	res, err := h.service.SegmentAtrium(ctx, model, up.path, up.dir)
	if err != nil {
		writeError(ctx, w, span, logUUID.String(), eventName, "Segmentation Error", err)
		return
	}

	archive, err := os.Open(res.ArchivePath)
	if err != nil {
		writeError(ctx, w, span, logUUID.String(), eventName, "Segmentation Error", err)
		return
	}
	defer archive.Close()

	logger.Info(string(custom_otel.NewLogMessage(
		span,
		logUUID.String(),
		eventName,
		custom_otel.SetEventResource(model.Name()),
		custom_otel.SetEventResult(res.Entries),
		custom_otel.SetEventMessage(fmt.Sprintf("%d empty slices skipped", res.Skipped)),
	)))

	w.Header().Set(constant.HeaderContentType, constant.ContentTypeZIP)
	w.Header().Set(constant.HeaderDisposition, `attachment; filename="`+constant.ArchiveName+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, archive); err != nil {
		logger.Warn("failed to stream archive", zap.Error(err))
	}
}

// Health reports whether any model is loaded.
func (h *PublicHandler) Health(w http.ResponseWriter, req *http.Request, pathParams map[string]string) {
	status, code := "SERVING_STATUS_SERVING", http.StatusOK
	if !h.service.Ready() {
		status, code = "SERVING_STATUS_NOT_SERVING", http.StatusServiceUnavailable
	}
	w.Header().Set(constant.HeaderContentType, "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
