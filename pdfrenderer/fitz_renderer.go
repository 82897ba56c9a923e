package pdfrenderer

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// FitzRenderer implements PDF rendering using go-fitz (requires CGo and MuPDF)
type FitzRenderer struct {
}

// NewFitzRenderer creates a new Fitz-based PDF renderer
func NewFitzRenderer() (*FitzRenderer, error) {
	return &FitzRenderer{}, nil
}

// RenderPage rasterizes a single page using go-fitz
func (r *FitzRenderer) RenderPage(path string, pageNumber int, dpi float64) (image.Image, error) {
	// Open PDF document using go-fitz
	doc, err := fitz.New(path)
	if err != nil {
		return nil, &RenderEngineError{Backend: "fitz", Err: fmt.Errorf("unable to open PDF document: %w", err)}
	}
	defer doc.Close()

	numPages := doc.NumPage()
	if pageNumber < 1 || pageNumber > numPages {
		return nil, &PageOutOfRangeError{Page: pageNumber, PageCount: numPages}
	}

	// go-fitz pages are 0-based
	img, err := doc.ImageDPI(pageNumber-1, dpi)
	if err != nil {
		return nil, &RenderEngineError{Backend: "fitz", Err: fmt.Errorf("unable to render page %d: %w", pageNumber, err)}
	}
	return img, nil
}

// PageCount returns the number of pages in the PDF at path
func (r *FitzRenderer) PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, &RenderEngineError{Backend: "fitz", Err: fmt.Errorf("unable to open PDF document: %w", err)}
	}
	defer doc.Close()

	return doc.NumPage(), nil
}

// Close cleans up resources (no-op for Fitz renderer as doc is closed per-render)
func (r *FitzRenderer) Close() error {
	return nil
}
