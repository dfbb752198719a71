// Package imageops implements the image placement operations spec.md §5
// supplements beyond the core text-editing surface: listing, adding,
// deleting, moving, and resizing image XObjects on a page.
package imageops

import (
	"errors"
	"fmt"
	"image"

	"github.com/Ayush-Nema/EditPDF/internal/renderer"
)

// ErrImageNotFound is returned when image_index has no corresponding
// placement on the page.
var ErrImageNotFound = errors.New("imageops: image not found")

const (
	// defaultImageWidth is the fallback width, in page units, used when Add
	// is not given explicit dimensions.
	defaultImageWidth = 200
	// imagePadding keeps an auto-sized image from touching the page edge.
	imagePadding = 10
	// pageMargin keeps a clamped placement's right/bottom edge off the page
	// boundary.
	pageMargin = 5
	// minImageSize is the smallest width/height Resize will honor.
	minImageSize = 10
)

// Placement describes one image XObject placed on a page, in page-space
// coordinates (lower-left origin).
type Placement struct {
	Index int
	X, Y  float64
	W, H  float64
}

// List returns every non-placeholder image placement on pageNum, in
// content-stream order.
func List(doc *renderer.Document, pageNum int) ([]Placement, error) {
	infos, err := doc.Images(pageNum)
	if err != nil {
		return nil, err
	}
	out := make([]Placement, len(infos))
	for i, info := range infos {
		out[i] = Placement{Index: info.Index, X: info.X, Y: info.Y, W: info.W, H: info.H}
	}
	return out, nil
}

// Add places img at (x, y) on pageNum. If width or height is <= 0 it is
// derived from img's own pixel size, scaled (up or down) so the width is
// defaultImageWidth or the remaining page width, whichever is smaller.
func Add(doc *renderer.Document, pageNum int, img image.Image, x, y, width, height float64) error {
	pageRect, err := doc.PageRect(pageNum)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		bounds := img.Bounds()
		imgW, imgH := float64(bounds.Dx()), float64(bounds.Dy())
		scale := defaultImageWidth / imgW
		if avail := (pageRect.Urx - x - imagePadding) / imgW; avail < scale {
			scale = avail
		}
		if width <= 0 {
			width = imgW * scale
		}
		if height <= 0 {
			height = imgH * scale
		}
	}
	if x+width > pageRect.Urx-pageMargin {
		width = pageRect.Urx - pageMargin - x
	}
	if y+height > pageRect.Ury-pageMargin {
		height = pageRect.Ury - pageMargin - y
	}
	return doc.AddImage(pageNum, img, x, y, width, height)
}

// Delete removes the imageIndex'th image placement on pageNum and performs
// the non-incremental garbage-collecting save the dropped object stream
// requires.
func Delete(doc *renderer.Document, pageNum, imageIndex int) ([]byte, error) {
	info, err := findByIndex(doc, pageNum, imageIndex)
	if err != nil {
		return nil, err
	}
	if err := doc.DeleteImage(pageNum, info.Name); err != nil {
		return nil, err
	}
	return doc.SaveFull()
}

// Move repositions the imageIndex'th image to (newX, newY), keeping its
// original dimensions, clamped to the page bounds.
func Move(doc *renderer.Document, pageNum, imageIndex int, newX, newY float64) ([]byte, error) {
	return replace(doc, pageNum, imageIndex, newX, newY, -1, -1)
}

// Resize repositions and resizes the imageIndex'th image, enforcing
// minImageSize and clamping to the page bounds.
func Resize(doc *renderer.Document, pageNum, imageIndex int, newX, newY, newW, newH float64) ([]byte, error) {
	if newW < minImageSize {
		newW = minImageSize
	}
	if newH < minImageSize {
		newH = minImageSize
	}
	return replace(doc, pageNum, imageIndex, newX, newY, newW, newH)
}

// replace is the shared delete-then-reinsert mechanics behind Move and
// Resize: both operations must blank the old placement (preserving
// surrounding text) and draw the extracted pixels back in at a new
// rectangle, then do a full GC save since delete leaves a dangling stream
// object behind.
func replace(doc *renderer.Document, pageNum, imageIndex int, newX, newY, newW, newH float64) ([]byte, error) {
	info, err := findByIndex(doc, pageNum, imageIndex)
	if err != nil {
		return nil, err
	}
	if newW < 0 {
		newW = info.W
	}
	if newH < 0 {
		newH = info.H
	}
	pageRect, err := doc.PageRect(pageNum)
	if err != nil {
		return nil, err
	}
	newX = clamp(newX, 0, pageRect.Urx-newW)
	newY = clamp(newY, 0, pageRect.Ury-newH)

	img, err := renderer.DecodeImage(info.Stream)
	if err != nil {
		return nil, err
	}
	if err := doc.DeleteImage(pageNum, info.Name); err != nil {
		return nil, err
	}
	if err := doc.AddImage(pageNum, img, newX, newY, newW, newH); err != nil {
		return nil, err
	}
	return doc.SaveFull()
}

func findByIndex(doc *renderer.Document, pageNum, imageIndex int) (renderer.ImageInfo, error) {
	infos, err := doc.Images(pageNum)
	if err != nil {
		return renderer.ImageInfo{}, err
	}
	for _, info := range infos {
		if info.Index == imageIndex {
			return info, nil
		}
	}
	return renderer.ImageInfo{}, fmt.Errorf("%w: index %d", ErrImageNotFound, imageIndex)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
