package service

import "errors"

// Extraction outcomes surfaced to the upload boundary. Everything else
// that goes wrong inside the acquisition strategies is swallowed so the
// pipeline can step down to the next strategy.
var (
	ErrMissingFile       = errors.New("file is required")
	ErrUnsupportedFormat = errors.New("unsupported file type, please upload a PDF")
	ErrNoExtractableText = errors.New("no extractable text found in PDF")
	ErrNoPatientFields   = errors.New("could not extract patient info from PDF")
	ErrProcessing        = errors.New("failed to process PDF")
)
