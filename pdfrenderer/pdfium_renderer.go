package pdfrenderer

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
)

// PDFiumRenderer implements PDF rendering using go-pdfium with WebAssembly (pure Go, no CGo)
type PDFiumRenderer struct {
	pool     pdfium.Pool
	instance pdfium.Pdfium
}

// NewPDFiumRenderer creates a new PDFium-based PDF renderer using WebAssembly
func NewPDFiumRenderer() (*PDFiumRenderer, error) {
	// The server handles one request at a time, so a single worker
	// is all the pool ever needs
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, &RenderEngineError{Backend: "pdfium", Err: fmt.Errorf("failed to initialize PDFium WebAssembly: %w", err)}
	}

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		pool.Close()
		return nil, &RenderEngineError{Backend: "pdfium", Err: fmt.Errorf("failed to get PDFium instance: %w", err)}
	}

	return &PDFiumRenderer{
		pool:     pool,
		instance: instance,
	}, nil
}

// RenderPage rasterizes a single page using go-pdfium WebAssembly
func (r *PDFiumRenderer) RenderPage(path string, pageNumber int, dpi float64) (image.Image, error) {
	pdfBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, &RenderEngineError{Backend: "pdfium", Err: fmt.Errorf("unable to read PDF file: %w", err)}
	}

	doc, err := r.instance.OpenDocument(&requests.OpenDocument{
		File: &pdfBytes,
	})
	if err != nil {
		return nil, &RenderEngineError{Backend: "pdfium", Err: fmt.Errorf("unable to open PDF document: %w", err)}
	}
	defer r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCountResp, err := r.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, &RenderEngineError{Backend: "pdfium", Err: fmt.Errorf("unable to get page count: %w", err)}
	}

	if pageNumber < 1 || pageNumber > pageCountResp.PageCount {
		return nil, &PageOutOfRangeError{Page: pageNumber, PageCount: pageCountResp.PageCount}
	}

	pageRender, err := r.instance.RenderPageInDPI(&requests.RenderPageInDPI{
		DPI: int(dpi),
		Page: requests.Page{
			ByIndex: &requests.PageByIndex{
				Document: doc.Document,
				Index:    pageNumber - 1,
			},
		},
	})
	if err != nil {
		return nil, &RenderEngineError{Backend: "pdfium", Err: fmt.Errorf("unable to render page %d: %w", pageNumber, err)}
	}

	img := pageRender.Result.Image

	// Clean up WebAssembly resources for this page
	pageRender.Cleanup()

	return img, nil
}

// PageCount returns the number of pages in the PDF at path
func (r *PDFiumRenderer) PageCount(path string) (int, error) {
	pdfBytes, err := os.ReadFile(path)
	if err != nil {
		return 0, &RenderEngineError{Backend: "pdfium", Err: fmt.Errorf("unable to read PDF file: %w", err)}
	}

	doc, err := r.instance.OpenDocument(&requests.OpenDocument{
		File: &pdfBytes,
	})
	if err != nil {
		return 0, &RenderEngineError{Backend: "pdfium", Err: fmt.Errorf("unable to open PDF document: %w", err)}
	}
	defer r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCountResp, err := r.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return 0, &RenderEngineError{Backend: "pdfium", Err: fmt.Errorf("unable to get page count: %w", err)}
	}

	return pageCountResp.PageCount, nil
}

// Close cleans up resources used by the PDFium renderer
func (r *PDFiumRenderer) Close() error {
	if r.pool != nil {
		r.pool.Close()
		r.pool = nil
	}
	r.instance = nil
	return nil
}
