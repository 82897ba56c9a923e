package spread

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/drummonds/gospread/config"
	"github.com/drummonds/gospread/pdfrenderer"
)

// Logger is injected by the main package
var Logger *slog.Logger

// Service resolves spread requests. Everything it touches is
// request-scoped; the only shared state is the read-only config and
// the renderer.
type Service struct {
	serverConfig config.ServerConfig
	renderer     pdfrenderer.Renderer
}

// NewService creates a spread service using the given renderer
func NewService(serverConfig config.ServerConfig, renderer pdfrenderer.Renderer) *Service {
	return &Service{
		serverConfig: serverConfig,
		renderer:     renderer,
	}
}

// GetSpread rasterizes two pages of the PDF at pdfPath and returns the
// composed spread as PNG bytes. Page numbers are 1-based; requesting
// the same page twice is allowed and produces a spread of the page
// with itself.
func (s *Service) GetSpread(ctx context.Context, pdfPath string, leftPage, rightPage, borderWidth int) ([]byte, error) {
	resolved, err := resolvePath(pdfPath)
	if err != nil {
		return nil, err
	}

	// Reject missing files before the render engine ever runs
	info, err := os.Stat(resolved)
	if err != nil || info.IsDir() {
		return nil, &FileNotFoundError{Path: pdfPath}
	}

	if leftPage < 1 {
		return nil, &pdfrenderer.PageOutOfRangeError{Page: leftPage}
	}
	if rightPage < 1 {
		return nil, &pdfrenderer.PageOutOfRangeError{Page: rightPage}
	}
	if borderWidth < 0 || borderWidth > s.serverConfig.MaxBorderWidth {
		return nil, &InvalidBorderWidthError{BorderWidth: borderWidth, Max: s.serverConfig.MaxBorderWidth}
	}

	Logger.Debug("Rendering spread pages",
		"path", resolved, "leftPage", leftPage, "rightPage", rightPage,
		"dpi", s.serverConfig.RenderDPI)

	leftImage, err := s.renderPage(ctx, resolved, leftPage)
	if err != nil {
		return nil, err
	}
	rightImage, err := s.renderPage(ctx, resolved, rightPage)
	if err != nil {
		return nil, err
	}

	spreadImage, err := Compose(leftImage, rightImage, borderWidth)
	if err != nil {
		return nil, err
	}

	encoded, err := EncodePNG(spreadImage)
	if err != nil {
		return nil, err
	}

	bounds := spreadImage.Bounds()
	Logger.Info("Composed spread",
		"width", bounds.Dx(), "height", bounds.Dy(),
		"borderWidth", borderWidth, "encodedBytes", len(encoded))
	return encoded, nil
}

// renderPage wraps one rasterization in the configured timeout so a
// malformed PDF cannot stall the request loop indefinitely. The engine
// call itself cannot be interrupted; on timeout its goroutine is left
// to finish and its result is discarded.
func (s *Service) renderPage(ctx context.Context, path string, pageNumber int) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, s.serverConfig.RenderTimeout)
	defer cancel()

	type renderResult struct {
		img image.Image
		err error
	}
	resultCh := make(chan renderResult, 1)
	go func() {
		img, err := s.renderer.RenderPage(path, pageNumber, float64(s.serverConfig.RenderDPI))
		resultCh <- renderResult{img: img, err: err}
	}()

	select {
	case result := <-resultCh:
		return result.img, result.err
	case <-ctx.Done():
		Logger.Error("Page render timed out",
			"path", path, "page", pageNumber, "timeout", s.serverConfig.RenderTimeout)
		return nil, &pdfrenderer.RenderEngineError{
			Err: fmt.Errorf("rendering page %d did not finish within %s: %w",
				pageNumber, s.serverConfig.RenderTimeout, ctx.Err()),
		}
	}
}

// resolvePath expands a leading ~ and resolves to an absolute path
func resolvePath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to expand ~ in path %q: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(filepath.ToSlash(path))
	if err != nil {
		return "", fmt.Errorf("unable to resolve path %q: %w", path, err)
	}
	return abs, nil
}
