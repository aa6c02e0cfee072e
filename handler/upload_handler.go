package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rohitk2319/ocr-patient-intake/dto"
	"github.com/rohitk2319/ocr-patient-intake/service"
)

type UploadHandler struct {
	extractionService *service.ExtractionService
	maxFileSize       int64
}

func NewUploadHandler(extractionService *service.ExtractionService, maxFileSize int64) *UploadHandler {
	return &UploadHandler{
		extractionService: extractionService,
		maxFileSize:       maxFileSize,
	}
}

// UploadPDF handles POST /api/upload: it reads the uploaded intake form
// and responds with the extracted patient fields.
func (h *UploadHandler) UploadPDF(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file is required"})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "failed to open uploaded file", Details: err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "failed to read uploaded file", Details: err.Error()})
		return
	}

	log.Printf("Processing upload %s (%d bytes)", fileHeader.Filename, len(data))

	info, err := h.extractionService.Extract(c.Request.Context(), data, fileHeader.Filename)
	if err != nil {
		h.sendExtractionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UploadResponse{Extracted: *info})
}

// sendExtractionError maps the extraction error taxonomy onto HTTP
// status codes.
func (h *UploadHandler) sendExtractionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFile):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrUnsupportedFormat):
		c.JSON(http.StatusUnsupportedMediaType, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNoExtractableText), errors.Is(err, service.ErrNoPatientFields):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	default:
		log.Printf("Error: upload processing failed - %v", err)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to process PDF", Details: err.Error()})
	}
}
