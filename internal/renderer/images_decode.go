package renderer

import (
	"fmt"
	"image"

	"github.com/unidoc/unipdf/v3/core"
	"github.com/unidoc/unipdf/v3/model"
)

// DecodeImage turns an image XObject stream back into a Go image, the
// reverse of AddImage, used by the image move/resize operations to pull an
// existing placement's pixels back out before re-placing them.
func DecodeImage(stream *core.PdfObjectStream) (image.Image, error) {
	ximg, err := model.NewXObjectImageFromStream(stream)
	if err != nil {
		return nil, fmt.Errorf("renderer: decode image: %w", err)
	}
	pdfImg, err := ximg.ToImage()
	if err != nil {
		return nil, fmt.Errorf("renderer: decode image: %w", err)
	}
	goImg, err := pdfImg.ToGoImage()
	if err != nil {
		return nil, fmt.Errorf("renderer: decode image: %w", err)
	}
	return goImg, nil
}
