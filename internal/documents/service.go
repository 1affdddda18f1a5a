package documents

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"medvault-backend/internal/convert"
	"medvault-backend/internal/llm"
	"medvault-backend/internal/shared/telemetry"
	"medvault-backend/internal/staging"
)

var mimeByExtension = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// Service runs the ingestion pipeline: stage, rasterize when needed, extract
// via the model, normalize, persist. One Process call yields at most one row.
type Service struct {
	Stager    staging.Stager
	Converter convert.PageRenderer
	LLM       llm.Client
	Repo      DocumentsRepo
}

// Process ingests one upload stream end to end and returns the persisted
// document. Staging validation errors pass through untouched; conversion and
// extraction failures are tagged with ErrConversion and ErrExtraction so the
// handler can classify them. No row is written on any failure.
func (s *Service) Process(ctx context.Context, fileName string, size int64, r io.Reader) (MedicalDocument, error) {
	staged, err := s.Stager.Stage(ctx, fileName, size, r)
	if err != nil {
		return MedicalDocument{}, err
	}

	img, err := s.loadImage(ctx, staged)
	if err != nil {
		return MedicalDocument{}, err
	}

	extraction, err := s.LLM.ExtractDocument(ctx, img)
	if err != nil {
		return MedicalDocument{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	docType, data, docDate, summary := normalizeExtraction(extraction)
	doc := MedicalDocument{
		ID:            staged.ID,
		Filename:      staged.Name,
		DocType:       docType,
		LLMSummary:    summary,
		ExtractedData: data,
		DocumentDate:  docDate,
		UploadedAt:    time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return MedicalDocument{}, fmt.Errorf("persist document: %w", err)
	}

	telemetry.Info("document.processed", map[string]any{
		"document_id": doc.ID,
		"doc_type":    doc.DocType,
		"filename":    doc.Filename,
		"size_bytes":  staged.SizeBytes,
	})
	return doc, nil
}

// List returns all stored documents, most recent document date first.
func (s *Service) List(ctx context.Context) ([]MedicalDocument, error) {
	return s.Repo.List(ctx)
}

// loadImage produces the raster handed to the model: PDFs go through the
// first-page renderer, images are read back from the staging directory as-is.
func (s *Service) loadImage(ctx context.Context, staged staging.StagedFile) (llm.Image, error) {
	ext := staging.Extension(staged.Name)
	if ext == "pdf" {
		data, err := s.Converter.FirstPagePNG(ctx, staged.Path)
		if err != nil {
			return llm.Image{}, fmt.Errorf("%w: %v", ErrConversion, err)
		}
		return llm.Image{Data: data, MIMEType: "image/png"}, nil
	}

	data, err := os.ReadFile(staged.Path)
	if err != nil {
		return llm.Image{}, fmt.Errorf("read staged file: %w", err)
	}
	mime := mimeByExtension[ext]
	if mime == "" {
		mime = "image/png"
	}
	return llm.Image{Data: data, MIMEType: mime}, nil
}
