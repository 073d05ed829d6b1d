package constant

// ServiceName is reported in traces and audit log lines
const ServiceName = "medical-backend"

// Multipart form fields
const (
	FormFieldDICOM = "dicom"
	FormFieldNIfTI = "nifti"
)

// Response headers
const (
	HeaderProbability   = "X-Probability"
	HeaderContentType   = "Content-Type"
	HeaderDisposition   = "Content-Disposition"
	ContentTypePNG      = "image/png"
	ContentTypeZIP      = "application/zip"
	ContentTypeProblem  = "application/json+problem"
	ArchiveName         = "segmented_slices.zip"
	SliceFileNameFormat = "slice_%03d.png"
)

// Cache key prefixes
const (
	RouteCAM     = "predict_cam"
	RouteCardiac = "predict_cardiac"
)
