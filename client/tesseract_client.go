package client

import (
	"fmt"
	"log"

	"github.com/otiai10/gosseract/v2"
)

// TesseractClient wraps gosseract for page-image OCR. Each call runs
// its own gosseract client, so a single TesseractClient is safe to
// share across concurrent extractions.
type TesseractClient struct {
	dataPath string
	language string
}

func NewTesseractClient(dataPath, language string) *TesseractClient {
	return &TesseractClient{
		dataPath: dataPath,
		language: language,
	}
}

// ExtractTextFromImage runs OCR over a single page image. The engine is
// set to treat the page as one uniform block of text, which works best
// for intake forms laid out as labelled lines.
func (tc *TesseractClient) ExtractTextFromImage(imagePath string) (string, error) {
	c := gosseract.NewClient()
	defer c.Close()

	if tc.dataPath != "" {
		c.SetTessdataPrefix(tc.dataPath)
	}

	if err := c.SetLanguage(tc.language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	return text, nil
}

// Close performs cleanup
func (tc *TesseractClient) Close() {
	log.Println("Tesseract client closed")
}
