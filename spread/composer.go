// Package spread composes two rasterized PDF pages into a single
// side-by-side image, the way facing pages look in an open book. The
// gap between the pages is filled with a solid black gutter border.
package spread

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// gutterColor fills the border and any letterbox padding. Full-opacity
// black keeps the visual frame uniform around pages of unequal height.
var gutterColor = color.NRGBA{A: 255}

// Compose places left and right side by side separated by a gutter of
// borderWidth pixels. Pages keep their native raster widths; a page
// shorter than the other is vertically centered on the canvas, with
// the leftover row on an odd difference going to the bottom. The
// result is borderWidth + both page widths wide and as tall as the
// taller page.
func Compose(left, right image.Image, borderWidth int) (*image.NRGBA, error) {
	if borderWidth < 0 {
		return nil, &InvalidBorderWidthError{BorderWidth: borderWidth}
	}

	leftBounds := left.Bounds()
	rightBounds := right.Bounds()

	targetHeight := leftBounds.Dy()
	if rightBounds.Dy() > targetHeight {
		targetHeight = rightBounds.Dy()
	}
	totalWidth := leftBounds.Dx() + borderWidth + rightBounds.Dx()

	canvas := imaging.New(totalWidth, targetHeight, gutterColor)
	canvas = imaging.Paste(canvas, left, image.Pt(0, (targetHeight-leftBounds.Dy())/2))
	canvas = imaging.Paste(canvas, right, image.Pt(leftBounds.Dx()+borderWidth, (targetHeight-rightBounds.Dy())/2))

	return canvas, nil
}

// EncodePNG serializes the composed spread losslessly. Sharp text
// edges matter for layout review, so no lossy format is offered.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("unable to encode PNG image: %w", err)
	}
	return buf.Bytes(), nil
}
