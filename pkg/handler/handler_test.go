package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang/mock/gomock"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instill-ai/medical-backend/pkg/datamodel"
	"github.com/instill-ai/medical-backend/pkg/decoder"
	"github.com/instill-ai/medical-backend/pkg/handler"
	"github.com/instill-ai/medical-backend/pkg/inference"
	"github.com/instill-ai/medical-backend/pkg/middleware"
	"github.com/instill-ai/medical-backend/pkg/mock"
	"github.com/instill-ai/medical-backend/pkg/service"
)

const origin = "http://localhost:3000"

type fixture struct {
	client  *resty.Client
	scratch string
}

func newFixture(t *testing.T, s service.Service) *fixture {
	t.Helper()

	scratch := t.TempDir()
	mux := runtime.NewServeMux()
	require.NoError(t, handler.NewPublicHandler(s, scratch, 32).RegisterRoutes(mux))

	srv := httptest.NewServer(middleware.CORS([]string{origin}, mux))
	t.Cleanup(srv.Close)

	return &fixture{
		client:  resty.New().SetBaseURL(srv.URL),
		scratch: scratch,
	}
}

func (f *fixture) assertScratchEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var e datamodel.Error
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Error
}

func models(ctrl *gomock.Controller) (*mock.MockCAMModel, *mock.MockModel, *mock.MockModel) {
	pneumonia := mock.NewMockCAMModel(ctrl)
	pneumonia.EXPECT().Name().Return("pneumonia").AnyTimes()
	pneumonia.EXPECT().Variant().Return(inference.VariantPneumoniaCAM).AnyTimes()
	pneumonia.EXPECT().ClassifierWeights().Return([]float32{1, 1}).AnyTimes()

	cardiac := mock.NewMockModel(ctrl)
	cardiac.EXPECT().Name().Return("cardiac").AnyTimes()
	cardiac.EXPECT().Variant().Return(inference.VariantCardiacBBox).AnyTimes()

	atrium := mock.NewMockModel(ctrl)
	atrium.EXPECT().Name().Return("atrium").AnyTimes()
	atrium.EXPECT().Variant().Return(inference.VariantAtriumSegmentation).AnyTimes()

	return pneumonia, cardiac, atrium
}

func TestPredictCAM(t *testing.T) {
	ctrl := gomock.NewController(t)
	pneumonia, cardiac, atrium := models(ctrl)

	pneumonia.EXPECT().Infer(gomock.Any(), gomock.Any()).Return([]*datamodel.Tensor{
		{Shape: []int64{1, 1}, Data: []float32{0.3}},
		{Shape: []int64{1, 2, 7, 7}, Data: make([]float32, 2*49)},
	}, nil)

	images := mock.NewMockImageDecoder(ctrl)
	images.EXPECT().Decode2D(gomock.Any()).Return(datamodel.NewImage2D(512, 512), nil)

	reg, err := inference.NewRegistry(pneumonia, cardiac, atrium)
	require.NoError(t, err)
	f := newFixture(t, service.NewService(reg, images, decoder.NIfTI{}, nil, 128, time.Second))

	resp, err := f.client.R().
		SetHeader("Origin", origin).
		SetFileReader("dicom", "scan.dcm", bytes.NewReader([]byte("DICM"))).
		Post("/predict_cam/pneumonia")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
	assert.Equal(t, origin, resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header().Get("Access-Control-Expose-Headers"), "X-Probability")

	p, err := strconv.ParseFloat(resp.Header().Get("X-Probability"), 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
	assert.NotEmpty(t, resp.Body())

	f.assertScratchEmpty(t)
}

func TestPredict_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	pneumonia, cardiac, atrium := models(ctrl)

	reg, err := inference.NewRegistry(pneumonia, cardiac, atrium)
	require.NoError(t, err)
	f := newFixture(t, service.NewService(reg, mock.NewMockImageDecoder(ctrl), decoder.NIfTI{}, nil, 128, time.Second))

	testCases := []struct {
		name    string
		path    string
		field   string
		message string
	}{
		{"unknown model without file", "/predict_cam/unknown_model", "", "Unknown model requested."},
		{"unknown model with file", "/predict_cardiac/unknown_model", "dicom", "Unknown model requested."},
		{"variant mismatch", "/predict_cam/cardiac", "dicom", "Unknown model requested."},
		{"cam without file", "/predict_cam/pneumonia", "", "No file provided."},
		{"cardiac with wrong field", "/predict_cardiac/cardiac", "image", "No file provided."},
		{"segmentation without file", "/segment_atrium", "", "No file provided."},
		{"segmentation with wrong field", "/segment_atrium", "dicom", "No file provided."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.client.R()
			if tc.field != "" {
				req.SetFileReader(tc.field, "scan.bin", bytes.NewReader([]byte{1, 2, 3}))
			}
			resp, err := req.Post(tc.path)
			require.NoError(t, err)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
			assert.Equal(t, "application/json+problem", resp.Header().Get("Content-Type"))
			assert.Equal(t, tc.message, errorMessage(t, resp.Body()))
			f.assertScratchEmpty(t)
		})
	}
}

func TestPredictCardiac(t *testing.T) {
	ctrl := gomock.NewController(t)
	pneumonia, cardiac, atrium := models(ctrl)

	images := mock.NewMockImageDecoder(ctrl)
	reg, err := inference.NewRegistry(pneumonia, cardiac, atrium)
	require.NoError(t, err)
	f := newFixture(t, service.NewService(reg, images, decoder.NIfTI{}, nil, 128, time.Second))

	t.Run("ok", func(t *testing.T) {
		images.EXPECT().Decode2D(gomock.Any()).Return(datamodel.NewImage2D(300, 300), nil)
		cardiac.EXPECT().Infer(gomock.Any(), gomock.Any()).
			Return([]*datamodel.Tensor{{Shape: []int64{1, 4}, Data: []float32{20, 30, 120, 180}}}, nil)

		resp, err := f.client.R().
			SetFileReader("dicom", "chest.dcm", bytes.NewReader([]byte("DICM"))).
			Post("/predict_cardiac/cardiac")
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
		assert.Empty(t, resp.Header().Get("X-Probability"))
		f.assertScratchEmpty(t)
	})

	t.Run("decode failure", func(t *testing.T) {
		images.EXPECT().Decode2D(gomock.Any()).Return(nil, datamodel.ErrDecode)

		resp, err := f.client.R().
			SetFileReader("dicom", "chest.dcm", bytes.NewReader([]byte("not a scan"))).
			Post("/predict_cardiac/cardiac")
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
		assert.Equal(t, datamodel.ErrDecode.Error(), errorMessage(t, resp.Body()))
		f.assertScratchEmpty(t)
	})

	t.Run("inference failure", func(t *testing.T) {
		images.EXPECT().Decode2D(gomock.Any()).Return(datamodel.NewImage2D(64, 64), nil)
		cardiac.EXPECT().Infer(gomock.Any(), gomock.Any()).Return(nil, context.DeadlineExceeded)

		resp, err := f.client.R().
			SetFileReader("dicom", "chest.dcm", bytes.NewReader([]byte("DICM"))).
			Post("/predict_cardiac/cardiac")
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
		assert.Equal(t, context.DeadlineExceeded.Error(), errorMessage(t, resp.Body()))
		f.assertScratchEmpty(t)
	})
}

// volume is 8 rows x 6 columns x 10 slices with slices 2, 5 and 8 blank.
func volume() *datamodel.Volume {
	v := datamodel.NewVolume(8, 6, 10)
	plane := v.Height * v.Width
	for s := 0; s < v.Depth; s++ {
		if s == 2 || s == 5 || s == 8 {
			continue
		}
		for i := 0; i < plane; i++ {
			v.Data[s*plane+i] = float64(i + 1)
		}
	}
	return v
}

func TestSegmentAtrium(t *testing.T) {
	ctrl := gomock.NewController(t)
	pneumonia, cardiac, atrium := models(ctrl)

	mask := make([]float32, 224*224)
	for i := range mask {
		mask[i] = 0.9
	}
	atrium.EXPECT().Infer(gomock.Any(), gomock.Any()).
		Return([]*datamodel.Tensor{{Shape: []int64{1, 1, 224, 224}, Data: mask}}, nil).
		Times(7)

	reg, err := inference.NewRegistry(pneumonia, cardiac, atrium)
	require.NoError(t, err)
	f := newFixture(t, service.NewService(reg, mock.NewMockImageDecoder(ctrl), decoder.NIfTI{}, nil, 128, time.Second))

	resp, err := f.client.R().
		SetFileReader("nifti", "la_003.nii", bytes.NewReader(decoder.EncodeNIfTI(volume()))).
		Post("/segment_atrium")
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode(), string(resp.Body()))
	assert.Equal(t, "application/zip", resp.Header().Get("Content-Type"))
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "segmented_slices.zip")

	zr, err := zip.NewReader(bytes.NewReader(resp.Body()), int64(len(resp.Body())))
	require.NoError(t, err)
	var names []string
	for _, file := range zr.File {
		names = append(names, file.Name)
	}
	assert.Equal(t, []string{
		"slice_000.png", "slice_001.png", "slice_003.png", "slice_004.png",
		"slice_006.png", "slice_007.png", "slice_009.png",
	}, names)

	f.assertScratchEmpty(t)
}

func TestSegmentAtrium_NoModel(t *testing.T) {
	ctrl := gomock.NewController(t)
	pneumonia, cardiac, _ := models(ctrl)

	reg, err := inference.NewRegistry(pneumonia, cardiac)
	require.NoError(t, err)
	f := newFixture(t, service.NewService(reg, mock.NewMockImageDecoder(ctrl), decoder.NIfTI{}, nil, 128, time.Second))

	resp, err := f.client.R().
		SetFileReader("nifti", "la_003.nii", bytes.NewReader(decoder.EncodeNIfTI(volume()))).
		Post("/segment_atrium")
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	assert.Equal(t, service.ErrNoSegmentationModel.Error(), errorMessage(t, resp.Body()))
	f.assertScratchEmpty(t)
}

func TestHealth(t *testing.T) {
	ctrl := gomock.NewController(t)

	s := mock.NewMockService(ctrl)
	s.EXPECT().Ready().Return(true)
	s.EXPECT().Ready().Return(false)
	f := newFixture(t, s)

	resp, err := f.client.R().Get("/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "SERVING_STATUS_SERVING")

	resp, err = f.client.R().Get("/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode())
}

func TestPredictCAM_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	pneumonia, _, _ := models(ctrl)

	s := mock.NewMockService(ctrl)
	s.EXPECT().LookupModel("pneumonia", inference.VariantPneumoniaCAM).Return(pneumonia, nil)
	s.EXPECT().PredictCAM(gomock.Any(), pneumonia, gomock.Any(), gomock.Any()).
		Return(nil, datamodel.ErrInference)
	f := newFixture(t, s)

	resp, err := f.client.R().
		SetFileReader("dicom", "scan.dcm", bytes.NewReader([]byte("DICM"))).
		Post("/predict_cam/pneumonia")
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode())
	assert.Equal(t, datamodel.ErrInference.Error(), errorMessage(t, resp.Body()))
	f.assertScratchEmpty(t)
}

func TestPrivateRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)

	s := mock.NewMockService(ctrl)
	s.EXPECT().Ready().Return(true)

	mux := runtime.NewServeMux()
	require.NoError(t, handler.NewPublicHandler(s, t.TempDir(), 32).RegisterPrivateRoutes(mux))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := resty.New().SetBaseURL(srv.URL)

	resp, err := client.R().Get("/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	resp, err = client.R().Get("/metrics")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), "go_goroutines")
}
