// Package convert renders the first page of a staged PDF to a raster image.
// It shells out to poppler's pdftoppm, the same renderer the rest of the
// pipeline's tooling relies on, and keeps all scratch files in a per-call
// temp directory that is removed on every exit path.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ledongthuc/pdf"
)

// ErrNoPages is returned when a PDF yields no renderable page.
var ErrNoPages = errors.New("pdf conversion produced no pages")

// PageRenderer turns a staged PDF into image bytes for model consumption.
type PageRenderer interface {
	FirstPagePNG(ctx context.Context, path string) ([]byte, error)
}

// Converter renders PDF pages with pdftoppm.
type Converter struct {
	runner   Runner
	pdftoppm string
	dpi      int
}

// NewConverter builds a Converter using the pdftoppm binary at pdftoppmPath.
func NewConverter(pdftoppmPath string, dpi int) *Converter {
	if dpi <= 0 {
		dpi = 200
	}
	return &Converter{runner: execRunner{}, pdftoppm: pdftoppmPath, dpi: dpi}
}

// NewConverterWithRunner is like NewConverter with an injectable Runner.
func NewConverterWithRunner(r Runner, pdftoppmPath string, dpi int) *Converter {
	if dpi <= 0 {
		dpi = 200
	}
	return &Converter{runner: r, pdftoppm: pdftoppmPath, dpi: dpi}
}

// FirstPagePNG renders only the first page of the PDF at path and returns its
// PNG bytes. A PDF with zero renderable pages fails with ErrNoPages.
func (c *Converter) FirstPagePNG(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if empty, err := hasNoPages(path); err == nil && empty {
		return nil, ErrNoPages
	}

	tmpDir, err := os.MkdirTemp("", "medvault-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -f 1 -l 1 -png <in.pdf> <tmp/page>
	_, errb, err := c.runner.Run(ctx, c.pdftoppm,
		"-r", strconv.Itoa(c.dpi),
		"-f", "1", "-l", "1",
		"-png", path, prefix)
	if err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, ErrNoPages
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, fmt.Errorf("read rendered page: %w", err)
	}
	return data, nil
}

// hasNoPages is a best-effort fast guard: when the PDF parses cleanly and
// reports zero pages there is no point invoking the renderer. Parse errors
// are ignored so pdftoppm stays the authority on renderability.
func hasNoPages(path string) (bool, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return r.NumPage() == 0, nil
}

var _ PageRenderer = (*Converter)(nil)
