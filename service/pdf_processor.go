package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFProcessor is the text acquisition side of the pipeline: the cheap
// text-layer read and the expensive page rasterization used when the
// document turns out to be a raster scan.
type PDFProcessor interface {
	ExtractText(pdfData []byte) (string, error)
	RenderPageImages(ctx context.Context, pdfData []byte, dpi int) ([]string, func(), error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// ExtractText reads the embedded text layer page by page. Pages without
// a text layer contribute nothing; the caller decides whether the total
// yield is worth keeping.
func (p *pdfProcessor) ExtractText(pdfData []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", err
	}

	var textBuilder bytes.Buffer
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, _ := page.GetTextByRow()
		var pageBuilder bytes.Buffer
		for _, row := range rows {
			for _, word := range row.Content {
				pageBuilder.WriteString(word.S)
			}
			pageBuilder.WriteString("\n")
		}
		if pageBuilder.Len() > 0 {
			textBuilder.Write(pageBuilder.Bytes())
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

// RenderPageImages rasterizes every page into a PNG at the given DPI and
// returns the file paths in page order, plus a cleanup func that removes
// them. Rendering goes through pdftoppm; if that is unavailable, the
// embedded page images are pulled out with pdfcpu instead, which covers
// scanned PDFs where each page is a single full-page image.
func (p *pdfProcessor) RenderPageImages(ctx context.Context, pdfData []byte, dpi int) ([]string, func(), error) {
	tempDir, err := os.MkdirTemp("", "intake-pages")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	tempFile, err := writeTempPDF(tempDir, pdfData)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	pages, renderErr := renderWithPdftoppm(ctx, tempFile, tempDir, dpi)
	if renderErr != nil || len(pages) == 0 {
		log.Printf("pdftoppm rendering unavailable (%v), extracting embedded page images", renderErr)
		pages, err = extractEmbeddedImages(tempFile, tempDir)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to rasterize PDF pages: %w", err)
		}
	}

	if len(pages) == 0 {
		cleanup()
		return nil, nil, fmt.Errorf("no page images produced")
	}

	return pages, cleanup, nil
}

func writeTempPDF(dir string, pdfData []byte) (string, error) {
	tempFile, err := os.CreateTemp(dir, "doc-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	if _, err := tempFile.Write(pdfData); err != nil {
		return "", fmt.Errorf("failed to write pdf data: %w", err)
	}
	return tempFile.Name(), nil
}

// renderWithPdftoppm shells out to poppler's pdftoppm, which writes
// page-1.png, page-2.png, ... under prefix.
func renderWithPdftoppm(ctx context.Context, pdfPath, dir string, dpi int) ([]string, error) {
	prefix := filepath.Join(dir, "page")

	cmd := exec.CommandContext(ctx, "pdftoppm", "-r", strconv.Itoa(dpi), "-png", pdfPath, prefix)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %v, stderr: %s", err, stderr.String())
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	return matches, nil
}

// extractEmbeddedImages pulls the images embedded in each page out with
// pdfcpu and re-encodes them as PNGs so the OCR engine sees a uniform
// input format.
func extractEmbeddedImages(pdfPath, dir string) ([]string, error) {
	imgDir := filepath.Join(dir, "embedded")
	if err := os.Mkdir(imgDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create image dir: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(pdfPath, imgDir, nil, conf); err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	entries, err := os.ReadDir(imgDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image dir: %w", err)
	}

	var pages []string
	for i, entry := range entries {
		if entry.IsDir() {
			continue
		}

		imgFile, err := os.Open(filepath.Join(imgDir, entry.Name()))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}

		pagePath := filepath.Join(dir, fmt.Sprintf("embedded-%04d.png", i))
		out, err := os.Create(pagePath)
		if err != nil {
			continue
		}
		if err := png.Encode(out, img); err != nil {
			out.Close()
			os.Remove(pagePath)
			continue
		}
		out.Close()
		pages = append(pages, pagePath)
	}

	return pages, nil
}
