package mock

//go:generate mockgen -destination inference_mock.gen.go -package mock github.com/instill-ai/medical-backend/pkg/inference Model,CAMModel
//go:generate mockgen -destination decoder_mock.gen.go -package mock github.com/instill-ai/medical-backend/pkg/decoder ImageDecoder,VolumeDecoder
//go:generate mockgen -destination service_mock.gen.go -package mock github.com/instill-ai/medical-backend/pkg/service Service
