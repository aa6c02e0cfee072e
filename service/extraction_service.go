package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/rohitk2319/ocr-patient-intake/config"
	"github.com/rohitk2319/ocr-patient-intake/dto"
	"github.com/rohitk2319/ocr-patient-intake/utils"
)

// OCRClient recognizes text in a single page image.
type OCRClient interface {
	ExtractTextFromImage(imagePath string) (string, error)
}

// ExtractionService drives the text acquisition pipeline and the field
// extractor for one uploaded document at a time. It holds no per-call
// state, so concurrent extractions need no coordination.
type ExtractionService struct {
	ocrClient    OCRClient
	pdfProcessor PDFProcessor

	minTextLen int
	renderDPI  int
	ocrTimeout time.Duration
}

func NewExtractionService(ocrClient OCRClient, pdfProcessor PDFProcessor, cfg *config.Config) *ExtractionService {
	return &ExtractionService{
		ocrClient:    ocrClient,
		pdfProcessor: pdfProcessor,
		minTextLen:   cfg.MinTextLength,
		renderDPI:    cfg.RenderDPI,
		ocrTimeout:   cfg.OCRTimeout,
	}
}

// Extract recovers patient fields from an uploaded PDF. It returns one
// of the sentinel errors from errors.go; unexpected faults come back
// wrapped in ErrProcessing instead of propagating or panicking.
func (s *ExtractionService) Extract(ctx context.Context, data []byte, filename string) (result *dto.PatientInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("extraction panic for %s: %v", filename, r)
			result, err = nil, fmt.Errorf("%w: %v", ErrProcessing, r)
		}
	}()

	if len(data) == 0 {
		return nil, ErrMissingFile
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, ErrUnsupportedFormat
	}

	text := s.acquireText(ctx, data, filename)
	if len(strings.TrimSpace(text)) < s.minTextLen {
		return nil, ErrNoExtractableText
	}

	info := utils.ExtractPatientInfo(text)
	if info.Empty() {
		return nil, ErrNoPatientFields
	}

	return &info, nil
}

// acquireText tries the embedded text layer first and falls back to
// rasterize-and-OCR only when the yield is below the minimum signal
// threshold. Failures inside either strategy produce no text rather
// than an error; the caller interprets emptiness.
func (s *ExtractionService) acquireText(ctx context.Context, data []byte, filename string) string {
	text, err := s.pdfProcessor.ExtractText(data)
	if err != nil {
		log.Printf("PDF text extraction failed for %s: %v", filename, err)
		text = ""
	}

	if len(strings.TrimSpace(text)) >= s.minTextLen {
		return text
	}

	log.Printf("PDF %s seems to be scanned or has minimal text, attempting page-image OCR", filename)

	// OCR is the dominant latency source, so the whole fallback pass is
	// bounded by one timeout.
	ctx, cancel := context.WithTimeout(ctx, s.ocrTimeout)
	defer cancel()

	pages, cleanup, err := s.pdfProcessor.RenderPageImages(ctx, data, s.renderDPI)
	if err != nil {
		log.Printf("failed to render pages for %s: %v", filename, err)
		return text
	}
	defer cleanup()

	var combined strings.Builder
	for _, page := range pages {
		if ctx.Err() != nil {
			log.Printf("OCR timed out for %s after %d pages", filename, strings.Count(combined.String(), "\n"))
			break
		}

		pageText, ocrErr := s.ocrClient.ExtractTextFromImage(page)
		if ocrErr != nil {
			log.Printf("OCR failed for a page in %s: %v", filename, ocrErr)
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}

		combined.WriteString(pageText)
		combined.WriteString("\n")
	}

	if combined.Len() > 0 {
		return combined.String()
	}
	return text
}
