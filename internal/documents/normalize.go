package documents

import (
	"encoding/json"
	"time"

	"medvault-backend/internal/llm"
	"medvault-backend/internal/shared/telemetry"
)

const dateLayout = "2006-01-02"

var emptyObject = json.RawMessage(`{}`)

// normalizeExtraction maps the loosely-typed model output onto the persisted
// record shape. Defaults are explicit: doc_type falls back to "unknown",
// extracted_data to an empty object, llm_summary to the empty string. The
// model's date format is not contractually guaranteed, so a date that fails
// to parse as YYYY-MM-DD is downgraded to null instead of failing the upload.
func normalizeExtraction(ex llm.Extraction) (docType string, data json.RawMessage, docDate *time.Time, summary string) {
	docType = ex.DocType
	if docType == "" {
		docType = DocTypeUnknown
	}

	data = ex.ExtractedData
	if len(data) == 0 || string(data) == "null" {
		data = emptyObject
	}

	if ex.Date != "" {
		parsed, err := time.Parse(dateLayout, ex.Date)
		if err != nil {
			telemetry.Warn("document.date_unparsable", map[string]any{
				"date": ex.Date,
			})
		} else {
			docDate = &parsed
		}
	}

	return docType, data, docDate, ex.LLMSummary
}
