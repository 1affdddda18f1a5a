package documents

import (
	"encoding/json"
	"time"
)

// Document type categories. Anything the model fails to classify falls back
// to DocTypeUnknown during normalization.
const (
	DocTypeLabReport        = "lab_report"
	DocTypePrescription     = "prescription"
	DocTypeDischargeSummary = "discharge_summary"
	DocTypeUnknown          = "unknown"
)

// MedicalDocument is one processed upload. A row exists only for uploads that
// passed validation, conversion, model extraction, and JSON parsing; rows are
// never updated or deleted.
type MedicalDocument struct {
	ID            string
	Filename      string
	DocType       string
	LLMSummary    string
	ExtractedData json.RawMessage
	DocumentDate  *time.Time
	UploadedAt    time.Time
}
