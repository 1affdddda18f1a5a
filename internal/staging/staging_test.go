package staging

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	return New(t.TempDir(), maxBytes, []string{"png", "jpg", "jpeg", "pdf"})
}

func TestStageWritesFileUnderFreshID(t *testing.T) {
	store := newTestStore(t, 3<<20)

	staged, err := store.Stage(context.Background(), "scan.png", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if staged.ID == "" {
		t.Fatal("expected non-empty id")
	}
	if staged.Name != staged.ID+".png" {
		t.Fatalf("expected stored name derived from id, got %s", staged.Name)
	}
	if staged.SizeBytes != 4 {
		t.Fatalf("expected size 4, got %d", staged.SizeBytes)
	}

	data, err := os.ReadFile(staged.Path)
	if err != nil {
		t.Fatalf("read staged file: %v", err)
	}
	if string(data) != "data" {
		t.Fatalf("unexpected staged content: %q", data)
	}
}

func TestStageRejectsDisallowedExtension(t *testing.T) {
	store := newTestStore(t, 3<<20)

	for _, name := range []string{"notes.txt", "archive.zip", "scan", "scan.PNG.exe"} {
		_, err := store.Stage(context.Background(), name, 4, strings.NewReader("data"))
		if err != ErrDisallowedExtension {
			t.Fatalf("%s: expected ErrDisallowedExtension, got %v", name, err)
		}
	}
}

func TestStageAcceptsUppercaseExtension(t *testing.T) {
	store := newTestStore(t, 3<<20)

	staged, err := store.Stage(context.Background(), "SCAN.PDF", 4, strings.NewReader("data"))
	if err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if !strings.HasSuffix(staged.Name, ".pdf") {
		t.Fatalf("expected lowercased extension, got %s", staged.Name)
	}
}

func TestStageRejectsOversizeDeclaration(t *testing.T) {
	store := newTestStore(t, 10)

	_, err := store.Stage(context.Background(), "scan.jpg", 11, strings.NewReader("irrelevant"))
	if err != ErrFileTooLarge {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestStageRejectsOversizeStream(t *testing.T) {
	dir := t.TempDir()
	store := New(dir, 10, []string{"png"})

	// Declared size fits, actual stream does not.
	_, err := store.Stage(context.Background(), "scan.png", 10, strings.NewReader(strings.Repeat("x", 24)))
	if err != ErrFileTooLarge {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestStageRejectsTraversalName(t *testing.T) {
	store := newTestStore(t, 3<<20)

	_, err := store.Stage(context.Background(), "../../etc/passwd.png", 4, strings.NewReader("data"))
	if err != ErrDisallowedExtension {
		t.Fatalf("expected ErrDisallowedExtension, got %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(t.TempDir()))
	if err == nil {
		for _, e := range entries {
			if e.Name() == "passwd.png" {
				t.Fatal("traversal name escaped the staging dir")
			}
		}
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(ErrDisallowedExtension) || !IsValidationError(ErrFileTooLarge) {
		t.Fatal("expected staging sentinels to classify as validation errors")
	}
	if IsValidationError(context.Canceled) {
		t.Fatal("unrelated error classified as validation")
	}
}
