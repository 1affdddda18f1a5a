package documents

import "errors"

var (
	// ErrConversion tags failures while rendering a PDF to an image.
	ErrConversion = errors.New("pdf conversion failed")
	// ErrExtraction tags provider/network failures and unparsable model output.
	ErrExtraction = errors.New("llm extraction failed")
)
