package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohitk2319/ocr-patient-intake/config"
)

type stubProcessor struct {
	text      string
	textErr   error
	pages     []string
	renderErr error

	renderCalled bool
}

func (s *stubProcessor) ExtractText(pdfData []byte) (string, error) {
	return s.text, s.textErr
}

func (s *stubProcessor) RenderPageImages(ctx context.Context, pdfData []byte, dpi int) ([]string, func(), error) {
	s.renderCalled = true
	if s.renderErr != nil {
		return nil, nil, s.renderErr
	}
	return s.pages, func() {}, nil
}

type stubOCR struct {
	pageText map[string]string
	err      error
	calls    int
}

func (s *stubOCR) ExtractTextFromImage(imagePath string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.pageText[imagePath], nil
}

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:    config.DefaultPort,
		OCRLanguage:   config.DefaultOCRLanguage,
		RenderDPI:     config.DefaultRenderDPI,
		MinTextLength: config.DefaultMinTextLength,
		MaxFileSize:   config.DefaultMaxFileSize,
		OCRTimeout:    config.DefaultOCRTimeout,
		DBPath:        config.DefaultDBPath,
	}
}

func TestExtractMissingFile(t *testing.T) {
	svc := NewExtractionService(&stubOCR{}, &stubProcessor{}, testConfig())

	_, err := svc.Extract(context.Background(), nil, "intake.pdf")

	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestExtractUnsupportedFormat(t *testing.T) {
	svc := NewExtractionService(&stubOCR{}, &stubProcessor{}, testConfig())

	_, err := svc.Extract(context.Background(), []byte("%PDF"), "intake.docx")

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractFromTextLayer(t *testing.T) {
	proc := &stubProcessor{text: "Patient Name: John Doe\nDOB: 01/15/1990\n"}
	ocr := &stubOCR{}
	svc := NewExtractionService(ocr, proc, testConfig())

	info, err := svc.Extract(context.Background(), []byte("%PDF"), "Intake.PDF")

	require.NoError(t, err)
	require.NotNil(t, info.FirstName)
	require.NotNil(t, info.LastName)
	require.NotNil(t, info.DOB)
	assert.Equal(t, "John", *info.FirstName)
	assert.Equal(t, "Doe", *info.LastName)
	assert.Equal(t, "1990-01-15", *info.DOB)
	assert.False(t, proc.renderCalled, "text layer was sufficient, no rasterization expected")
	assert.Zero(t, ocr.calls)
}

func TestExtractShortTextLayerFallsBackToOCR(t *testing.T) {
	proc := &stubProcessor{
		text:  "scan\n", // below the 10-char threshold
		pages: []string{"page-1.png", "page-2.png"},
	}
	ocr := &stubOCR{pageText: map[string]string{
		"page-1.png": "First Name: Alice\nLast Name: Smith",
		"page-2.png": "DOB: 03/20/1992",
	}}
	svc := NewExtractionService(ocr, proc, testConfig())

	info, err := svc.Extract(context.Background(), []byte("%PDF"), "scan.pdf")

	require.NoError(t, err)
	assert.True(t, proc.renderCalled)
	assert.Equal(t, 2, ocr.calls)
	require.NotNil(t, info.FirstName)
	require.NotNil(t, info.DOB)
	assert.Equal(t, "Alice", *info.FirstName)
	assert.Equal(t, "1992-03-20", *info.DOB)
}

func TestExtractTextLayerErrorIsSwallowed(t *testing.T) {
	proc := &stubProcessor{
		textErr: errors.New("malformed xref table"),
		pages:   []string{"page-1.png"},
	}
	ocr := &stubOCR{pageText: map[string]string{
		"page-1.png": "Name: Doe, John\nDate of Birth: 12/31/1985",
	}}
	svc := NewExtractionService(ocr, proc, testConfig())

	info, err := svc.Extract(context.Background(), []byte("%PDF"), "broken.pdf")

	require.NoError(t, err)
	require.NotNil(t, info.FirstName)
	assert.Equal(t, "John", *info.FirstName)
	assert.Equal(t, "Doe", *info.LastName)
}

func TestExtractNoExtractableText(t *testing.T) {
	proc := &stubProcessor{renderErr: errors.New("no page images produced")}
	svc := NewExtractionService(&stubOCR{}, proc, testConfig())

	_, err := svc.Extract(context.Background(), []byte("%PDF"), "blank.pdf")

	assert.ErrorIs(t, err, ErrNoExtractableText)
}

func TestExtractOCRYieldsNothing(t *testing.T) {
	proc := &stubProcessor{pages: []string{"page-1.png"}}
	ocr := &stubOCR{err: errors.New("tesseract not initialized")}
	svc := NewExtractionService(ocr, proc, testConfig())

	_, err := svc.Extract(context.Background(), []byte("%PDF"), "scan.pdf")

	assert.ErrorIs(t, err, ErrNoExtractableText)
}

func TestExtractNoPatientFields(t *testing.T) {
	proc := &stubProcessor{text: "This intake form mentions nothing useful at all.\n"}
	svc := NewExtractionService(&stubOCR{}, proc, testConfig())

	_, err := svc.Extract(context.Background(), []byte("%PDF"), "intake.pdf")

	assert.ErrorIs(t, err, ErrNoPatientFields)
}
