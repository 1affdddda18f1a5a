package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Image is the single-page raster handed to the model.
type Image struct {
	Data     []byte
	MIMEType string
}

// Extraction is the structured payload recovered from the model's response.
// Missing fields stay zero; defaults are applied by the normalization step.
type Extraction struct {
	DocType       string          `json:"doc_type"`
	Date          string          `json:"date"`
	LLMSummary    string          `json:"llm_summary"`
	ExtractedData json.RawMessage `json:"extracted_data"`
}

// Client abstracts the hosted multimodal extraction provider.
type Client interface {
	ExtractDocument(ctx context.Context, img Image) (Extraction, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is a stub implementation for keyless dev environments.
type PlaceholderClient struct{}

// ExtractDocument returns ErrNotConfigured.
func (PlaceholderClient) ExtractDocument(ctx context.Context, img Image) (Extraction, error) {
	_ = ctx
	_ = img
	return Extraction{}, ErrNotConfigured
}
