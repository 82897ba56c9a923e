package pdfrenderer

import (
	"fmt"
	"image"
	"log/slog"
)

// Logger is injected by the main package
var Logger *slog.Logger

// Renderer defines the interface for rasterizing single PDF pages
type Renderer interface {
	// RenderPage rasterizes one page (1-based) of the PDF at path to an
	// image at the given DPI. No cropping or scaling beyond what the
	// DPI implies.
	RenderPage(path string, pageNumber int, dpi float64) (image.Image, error)

	// PageCount returns the number of pages in the PDF at path
	PageCount(path string) (int, error)

	// Close cleans up any resources used by the renderer
	Close() error
}

// NewRenderer creates a renderer for the named backend. "pdfium" is the
// default (pure Go, no CGo); "fitz" requires CGo and MuPDF.
func NewRenderer(backend string) (Renderer, error) {
	switch backend {
	case "", "pdfium":
		return NewPDFiumRenderer()
	case "fitz":
		return NewFitzRenderer()
	default:
		return nil, fmt.Errorf("unknown PDF renderer backend %q (want pdfium or fitz)", backend)
	}
}
