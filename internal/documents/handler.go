package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medvault-backend/internal/shared/server/respond"
	"medvault-backend/internal/staging"
)

// Handler exposes the documents HTTP surface.
type Handler struct {
	Service *Service
	// MaxUploadBytes caps the multipart body before staging sees it.
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Service: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes mounts the documents endpoints on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.Upload)
	rg.GET("/documents", h.List)
}

// Upload accepts a multipart form with a "file" part, runs the ingestion
// pipeline, and acknowledges with a fixed success message.
func (h *Handler) Upload(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		// Slightly above the document ceiling to leave room for multipart framing.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes+64<<10)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "a file part named 'file' is required", nil)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}
	defer src.Close()

	doc, err := h.Service.Process(c.Request.Context(), fileHeader.Filename, fileHeader.Size, src)
	if err != nil {
		h.writeProcessError(c, err)
		return
	}

	c.Set("documentId", doc.ID)
	c.Set("docType", doc.DocType)
	respond.JSON(c, http.StatusCreated, gin.H{"message": "Document uploaded successfully"})
}

// List returns every stored document, ordered by document date descending
// with undated documents last.
func (h *Handler) List(c *gin.Context) {
	docs, err := h.Service.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	respond.OK(c, toResponseList(docs))
}

func (h *Handler) writeProcessError(c *gin.Context, err error) {
	switch {
	case staging.IsValidationError(err):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrConversion):
		respond.Error(c, http.StatusInternalServerError, "conversion_error", "failed to convert PDF to image", nil)
	case errors.Is(err, ErrExtraction):
		respond.Error(c, http.StatusBadGateway, "extraction_error", "document analysis failed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process document", nil)
	}
}
