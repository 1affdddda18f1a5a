package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"medvault-backend/internal/shared/util"
)

// Validation failures. Both leave no referenced file behind.
var (
	ErrDisallowedExtension = errors.New("file type is not allowed")
	ErrFileTooLarge        = errors.New("file exceeds the maximum upload size")
)

// StagedFile describes an upload written to durable storage.
type StagedFile struct {
	ID        string
	Name      string
	Path      string
	SizeBytes int64
}

// Stager accepts an upload stream and persists it for further processing.
type Stager interface {
	Stage(ctx context.Context, fileName string, size int64, r io.Reader) (StagedFile, error)
}

// Store stages uploads on the local filesystem under a base directory.
type Store struct {
	baseDir    string
	maxBytes   int64
	extensions map[string]struct{}
}

// New creates a staging store rooted at baseDir. Uploads larger than maxBytes
// or with an extension outside allowedExtensions are rejected.
func New(baseDir string, maxBytes int64, allowedExtensions []string) *Store {
	exts := make(map[string]struct{}, len(allowedExtensions))
	for _, e := range allowedExtensions {
		e = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(e, ".")))
		if e != "" {
			exts[e] = struct{}{}
		}
	}
	return &Store{baseDir: baseDir, maxBytes: maxBytes, extensions: exts}
}

// Stage validates the declared name and size, then writes the stream to disk
// under a fresh identifier-derived name. The returned ID doubles as the
// document ID once the pipeline completes.
func (s *Store) Stage(ctx context.Context, fileName string, size int64, r io.Reader) (StagedFile, error) {
	if err := ctx.Err(); err != nil {
		return StagedFile{}, err
	}

	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return StagedFile{}, ErrDisallowedExtension
	}
	ext := Extension(sanitized)
	if _, ok := s.extensions[ext]; !ok {
		return StagedFile{}, ErrDisallowedExtension
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return StagedFile{}, ErrFileTooLarge
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return StagedFile{}, fmt.Errorf("mkdir: %w", err)
	}

	id := uuid.NewString()
	storedName := id + "." + ext
	fullPath := filepath.Join(s.baseDir, storedName)

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return StagedFile{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return StagedFile{}, fmt.Errorf("write body: %w", err)
	}
	if s.maxBytes > 0 && written > s.maxBytes {
		// The declared size lied; the partial file stays inert and unreferenced.
		return StagedFile{}, ErrFileTooLarge
	}

	return StagedFile{
		ID:        id,
		Name:      storedName,
		Path:      fullPath,
		SizeBytes: written,
	}, nil
}

// Extension returns the lowercased extension of name without the dot.
func Extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// IsValidationError reports whether err is a user-correctable upload rejection.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrDisallowedExtension) || errors.Is(err, ErrFileTooLarge)
}

var _ Stager = (*Store)(nil)
