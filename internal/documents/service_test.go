package documents

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"medvault-backend/internal/llm"
	"medvault-backend/internal/staging"
)

type fakeStager struct {
	staged staging.StagedFile
	err    error
}

func (f *fakeStager) Stage(ctx context.Context, fileName string, size int64, r io.Reader) (staging.StagedFile, error) {
	if f.err != nil {
		return staging.StagedFile{}, f.err
	}
	io.Copy(io.Discard, r)
	return f.staged, nil
}

type fakeRenderer struct {
	png []byte
	err error
}

func (f *fakeRenderer) FirstPagePNG(ctx context.Context, path string) ([]byte, error) {
	return f.png, f.err
}

type fakeLLM struct {
	extraction llm.Extraction
	err        error
	gotImage   llm.Image
}

func (f *fakeLLM) ExtractDocument(ctx context.Context, img llm.Image) (llm.Extraction, error) {
	f.gotImage = img
	return f.extraction, f.err
}

func stageImageFixture(t *testing.T, name string, contents []byte) staging.StagedFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return staging.StagedFile{ID: "doc-1", Name: name, Path: path, SizeBytes: int64(len(contents))}
}

func TestProcessImagePersistsOneRow(t *testing.T) {
	repo := NewMemoryRepo()
	model := &fakeLLM{extraction: llm.Extraction{
		DocType:       "lab_report",
		Date:          "2024-03-15",
		LLMSummary:    "CBC panel, all values within range",
		ExtractedData: json.RawMessage(`{"patient_name":"Jane Doe"}`),
	}}
	svc := &Service{
		Stager:    &fakeStager{staged: stageImageFixture(t, "doc-1.png", []byte("pngbytes"))},
		Converter: &fakeRenderer{},
		LLM:       model,
		Repo:      repo,
	}

	doc, err := svc.Process(context.Background(), "report.png", 8, strings.NewReader("pngbytes"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if doc.ID != "doc-1" || doc.Filename != "doc-1.png" {
		t.Errorf("doc identity = %q/%q", doc.ID, doc.Filename)
	}
	if doc.DocType != "lab_report" {
		t.Errorf("doc type = %q", doc.DocType)
	}
	if doc.DocumentDate == nil || doc.DocumentDate.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("document date = %v", doc.DocumentDate)
	}
	if model.gotImage.MIMEType != "image/png" {
		t.Errorf("mime = %q", model.gotImage.MIMEType)
	}
	if string(model.gotImage.Data) != "pngbytes" {
		t.Errorf("model saw %q, want staged bytes", model.gotImage.Data)
	}

	docs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("rows = %d, want 1", len(docs))
	}
}

func TestProcessPDFUsesRenderer(t *testing.T) {
	renderer := &fakeRenderer{png: []byte("rendered-page")}
	model := &fakeLLM{extraction: llm.Extraction{DocType: "prescription"}}
	svc := &Service{
		Stager:    &fakeStager{staged: stageImageFixture(t, "doc-1.pdf", []byte("%PDF"))},
		Converter: renderer,
		LLM:       model,
		Repo:      NewMemoryRepo(),
	}

	if _, err := svc.Process(context.Background(), "rx.pdf", 4, strings.NewReader("%PDF")); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if string(model.gotImage.Data) != "rendered-page" {
		t.Errorf("model saw %q, want rendered page bytes", model.gotImage.Data)
	}
	if model.gotImage.MIMEType != "image/png" {
		t.Errorf("mime = %q", model.gotImage.MIMEType)
	}
}

func TestProcessJPEGMime(t *testing.T) {
	model := &fakeLLM{extraction: llm.Extraction{}}
	svc := &Service{
		Stager:    &fakeStager{staged: stageImageFixture(t, "doc-1.jpg", []byte("jpegbytes"))},
		Converter: &fakeRenderer{},
		LLM:       model,
		Repo:      NewMemoryRepo(),
	}

	if _, err := svc.Process(context.Background(), "scan.jpg", 9, strings.NewReader("jpegbytes")); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if model.gotImage.MIMEType != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", model.gotImage.MIMEType)
	}
}

func TestProcessStagingErrorPassesThrough(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{
		Stager: &fakeStager{err: staging.ErrFileTooLarge},
		Repo:   repo,
	}

	_, err := svc.Process(context.Background(), "huge.png", 1<<30, strings.NewReader("x"))
	if !errors.Is(err, staging.ErrFileTooLarge) {
		t.Fatalf("err = %v, want ErrFileTooLarge", err)
	}
	assertNoRows(t, repo)
}

func TestProcessConversionFailureWritesNoRow(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{
		Stager:    &fakeStager{staged: stageImageFixture(t, "doc-1.pdf", []byte("%PDF"))},
		Converter: &fakeRenderer{err: errors.New("pdftoppm: exit status 1")},
		LLM:       &fakeLLM{},
		Repo:      repo,
	}

	_, err := svc.Process(context.Background(), "bad.pdf", 4, strings.NewReader("%PDF"))
	if !errors.Is(err, ErrConversion) {
		t.Fatalf("err = %v, want ErrConversion", err)
	}
	assertNoRows(t, repo)
}

func TestProcessExtractionFailureWritesNoRow(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{
		Stager:    &fakeStager{staged: stageImageFixture(t, "doc-1.png", []byte("png"))},
		Converter: &fakeRenderer{},
		LLM:       &fakeLLM{err: llm.ErrNoJSON},
		Repo:      repo,
	}

	_, err := svc.Process(context.Background(), "scan.png", 3, strings.NewReader("png"))
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("err = %v, want ErrExtraction", err)
	}
	assertNoRows(t, repo)
}

func TestProcessAppliesDefaults(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{
		Stager:    &fakeStager{staged: stageImageFixture(t, "doc-1.png", []byte("png"))},
		Converter: &fakeRenderer{},
		LLM:       &fakeLLM{extraction: llm.Extraction{}},
		Repo:      repo,
	}

	doc, err := svc.Process(context.Background(), "scan.png", 3, strings.NewReader("png"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if doc.DocType != DocTypeUnknown {
		t.Errorf("doc type = %q, want %q", doc.DocType, DocTypeUnknown)
	}
	if string(doc.ExtractedData) != "{}" {
		t.Errorf("extracted data = %q, want {}", doc.ExtractedData)
	}
	if doc.DocumentDate != nil {
		t.Errorf("document date = %v, want nil", doc.DocumentDate)
	}
	if doc.UploadedAt.IsZero() {
		t.Error("uploaded at is zero")
	}
}

func TestProcessUnparsableDateBecomesNull(t *testing.T) {
	svc := &Service{
		Stager:    &fakeStager{staged: stageImageFixture(t, "doc-1.png", []byte("png"))},
		Converter: &fakeRenderer{},
		LLM: &fakeLLM{extraction: llm.Extraction{
			DocType: "discharge_summary",
			Date:    "March 15th, 2024",
		}},
		Repo: NewMemoryRepo(),
	}

	doc, err := svc.Process(context.Background(), "scan.png", 3, strings.NewReader("png"))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if doc.DocumentDate != nil {
		t.Errorf("document date = %v, want nil for unparsable input", doc.DocumentDate)
	}
	if doc.DocType != "discharge_summary" {
		t.Errorf("doc type = %q; date fallback must not disturb other fields", doc.DocType)
	}
}

func assertNoRows(t *testing.T, repo *MemoryRepo) {
	t.Helper()
	docs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("rows = %d, want 0", len(docs))
	}
}
