package spread

import "fmt"

// FileNotFoundError reports a pdf_path that does not resolve to an
// existing file. Path is the caller's original value, pre-expansion.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("PDF file not found: %s", e.Path)
}

func (e *FileNotFoundError) ErrorCode() string { return "file_not_found" }

// InvalidBorderWidthError reports a border width outside [0, Max].
// Max is zero when the width was rejected for being negative.
type InvalidBorderWidthError struct {
	BorderWidth int
	Max         int
}

func (e *InvalidBorderWidthError) Error() string {
	if e.BorderWidth < 0 {
		return fmt.Sprintf("border width must be non-negative, got %d", e.BorderWidth)
	}
	return fmt.Sprintf("border width %d exceeds maximum %d", e.BorderWidth, e.Max)
}

func (e *InvalidBorderWidthError) ErrorCode() string { return "invalid_border_width" }
