package documents

import (
	"encoding/json"
	"time"
)

// MedicalDocumentResponse is the wire shape of one document in listings.
// document_date serializes as YYYY-MM-DD or null; uploaded_at is RFC 3339.
type MedicalDocumentResponse struct {
	ID            string          `json:"id"`
	Filename      string          `json:"filename"`
	DocType       string          `json:"doc_type"`
	LLMSummary    string          `json:"llm_summary"`
	ExtractedData json.RawMessage `json:"extracted_data"`
	DocumentDate  *string         `json:"document_date"`
	UploadedAt    time.Time       `json:"uploaded_at"`
}

func toResponse(doc MedicalDocument) MedicalDocumentResponse {
	resp := MedicalDocumentResponse{
		ID:            doc.ID,
		Filename:      doc.Filename,
		DocType:       doc.DocType,
		LLMSummary:    doc.LLMSummary,
		ExtractedData: doc.ExtractedData,
		UploadedAt:    doc.UploadedAt,
	}
	if len(resp.ExtractedData) == 0 {
		resp.ExtractedData = emptyObject
	}
	if doc.DocumentDate != nil {
		formatted := doc.DocumentDate.Format(dateLayout)
		resp.DocumentDate = &formatted
	}
	return resp
}

func toResponseList(docs []MedicalDocument) []MedicalDocumentResponse {
	out := make([]MedicalDocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toResponse(d))
	}
	return out
}
