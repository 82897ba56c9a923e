package pdfrenderer

import "fmt"

// PageOutOfRangeError reports a page number outside the document.
// PageCount is zero when the request was rejected before the document
// was opened (page numbers below 1).
type PageOutOfRangeError struct {
	Page      int
	PageCount int
}

func (e *PageOutOfRangeError) Error() string {
	if e.PageCount > 0 {
		return fmt.Sprintf("page %d out of range: document has %d pages", e.Page, e.PageCount)
	}
	return fmt.Sprintf("page %d out of range: page numbers are 1-based", e.Page)
}

// ErrorCode identifies the failure kind on the wire
func (e *PageOutOfRangeError) ErrorCode() string { return "page_out_of_range" }

// RenderEngineError reports a failure inside the rendering engine:
// an unopenable or corrupt document, a page that failed to rasterize,
// or a missing native dependency. Backend may be empty when the
// failure happened outside a specific engine (e.g. a timeout).
type RenderEngineError struct {
	Backend string
	Err     error
}

func (e *RenderEngineError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("PDF render engine failed: %v", e.Err)
	}
	return fmt.Sprintf("PDF render engine %q failed: %v", e.Backend, e.Err)
}

func (e *RenderEngineError) ErrorCode() string { return "render_engine_error" }

func (e *RenderEngineError) Unwrap() error { return e.Err }
