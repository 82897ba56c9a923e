package pdfrenderer

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPageOutOfRangeError_MessageIncludesPageAndCount(t *testing.T) {
	err := &PageOutOfRangeError{Page: 12, PageCount: 9}
	msg := err.Error()
	if !strings.Contains(msg, "12") || !strings.Contains(msg, "9") {
		t.Errorf("Expected message with page and page count, got %q", msg)
	}
}

func TestPageOutOfRangeError_PageBelowOne(t *testing.T) {
	err := &PageOutOfRangeError{Page: 0}
	if !strings.Contains(err.Error(), "1-based") {
		t.Errorf("Expected 1-based hint when count unknown, got %q", err.Error())
	}
}

func TestRenderEngineError_WrapsCause(t *testing.T) {
	cause := errors.New("mupdf shared library not found")
	err := &RenderEngineError{Backend: "fitz", Err: fmt.Errorf("unable to open PDF document: %w", cause)}

	if !errors.Is(err, cause) {
		t.Error("RenderEngineError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "fitz") {
		t.Errorf("Expected backend name in message, got %q", err.Error())
	}

	var target *RenderEngineError
	if !errors.As(err, &target) {
		t.Error("errors.As should match *RenderEngineError")
	}
}

func TestErrorCodes(t *testing.T) {
	if code := (&PageOutOfRangeError{}).ErrorCode(); code != "page_out_of_range" {
		t.Errorf("Unexpected code %q", code)
	}
	if code := (&RenderEngineError{}).ErrorCode(); code != "render_engine_error" {
		t.Errorf("Unexpected code %q", code)
	}
}

func TestNewRenderer_UnknownBackend(t *testing.T) {
	if _, err := NewRenderer("ghostscript"); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
