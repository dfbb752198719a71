// Package renderer is the Renderer collaborator from spec.md §6: the thin
// boundary between THE CORE and the real PDF object model, xref table, and
// content-stream/font machinery. Every operation here is a direct call into
// github.com/unidoc/unipdf/v3 (reader/appender/writer/contentstream); no
// parsing or codec logic belongs in this package.
package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/unidoc/unipdf/v3/contentstream"
	"github.com/unidoc/unipdf/v3/core"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/unidoc/unipdf/v3/model/optimize"

	"github.com/Ayush-Nema/EditPDF/internal/common"
)

// ErrPageOutOfRange is returned when a 1-based page number falls outside
// [1, NumPages].
var ErrPageOutOfRange = errors.New("page number out of range")

// FontInfo describes one font referenced by a page's /Resources /Font
// dictionary, as needed by the font/encoding/CMap resolver (spec.md §4.3).
type FontInfo struct {
	Tag      string
	BaseFont string
	Subtype  string
	Dict     *core.PdfObjectDictionary
}

// ImageInfo describes one image XObject placed directly on a page, as used
// by the image collaborator (spec.md §5 supplemented image operations).
type ImageInfo struct {
	Index  int
	Name   string
	X, Y   float64
	W, H   float64
	Stream *core.PdfObjectStream
}

// Document wraps an open PDF and the reader/writer state needed to mutate
// and re-serialize it.
type Document struct {
	reader *model.PdfReader
	raw    []byte
}

// Open parses content as a PDF document.
func Open(content []byte) (*Document, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("renderer: open: %w", err)
	}
	return &Document{reader: reader, raw: content}, nil
}

// NumPages returns the document's page count.
func (d *Document) NumPages() (int, error) {
	return d.reader.GetNumPages()
}

func (d *Document) page(pageNum int) (*model.PdfPage, error) {
	n, err := d.reader.GetNumPages()
	if err != nil {
		return nil, err
	}
	if pageNum < 1 || pageNum > n {
		return nil, ErrPageOutOfRange
	}
	return d.reader.GetPage(pageNum)
}

// PageRect returns pageNum's media box (spec.md §3 "Page coordinates").
func (d *Document) PageRect(pageNum int) (*model.PdfRectangle, error) {
	page, err := d.page(pageNum)
	if err != nil {
		return nil, err
	}
	return page.GetMediaBox()
}

// ContentStreams returns the decoded content-stream operators of pageNum,
// concatenated in declaration order (spec.md §3 "Content-stream token").
func (d *Document) ContentStreams(pageNum int) (string, error) {
	page, err := d.page(pageNum)
	if err != nil {
		return "", err
	}
	return page.GetAllContentStreams()
}

// SetContentStream replaces pageNum's content with a single stream,
// flate-encoded the way unipdf encodes freshly written streams.
func (d *Document) SetContentStream(pageNum int, content string) error {
	page, err := d.page(pageNum)
	if err != nil {
		return err
	}
	return page.SetContentStreams([]string{content}, core.NewFlateEncoder())
}

// Fonts returns every font named in pageNum's resource dictionary, the set
// the font/encoding/CMap resolver runs over.
func (d *Document) Fonts(pageNum int) ([]FontInfo, error) {
	page, err := d.page(pageNum)
	if err != nil {
		return nil, err
	}
	if page.Resources == nil {
		return nil, nil
	}
	fontsDict, ok := core.GetDict(page.Resources.Font)
	if !ok {
		return nil, nil
	}
	var out []FontInfo
	for _, tag := range fontsDict.Keys() {
		obj, ok := page.Resources.GetFontByName(tag)
		if !ok {
			continue
		}
		dict, ok := core.GetDict(obj)
		if !ok {
			continue
		}
		fi := FontInfo{Tag: string(tag), Dict: dict}
		if bf, ok := core.GetName(dict.Get("BaseFont")); ok {
			fi.BaseFont = bf.String()
		}
		if st, ok := core.GetName(dict.Get("Subtype")); ok {
			fi.Subtype = st.String()
		}
		out = append(out, fi)
	}
	return out, nil
}

// IndirectObject resolves an xref object number to its object, for
// resolving CMap/FontFile streams the resource dictionary only names by
// reference (spec.md §4.3/§4.4).
func (d *Document) IndirectObject(number int) (core.PdfObject, error) {
	return d.reader.GetIndirectObjectByNumber(number)
}

// DecodeStream applies a stream's declared filters and returns its raw
// bytes, used for both content streams and /ToUnicode CMap streams.
func DecodeStream(stream *core.PdfObjectStream) ([]byte, error) {
	return core.DecodeStream(stream)
}

// Images lists the image XObjects placed directly on pageNum, in content
// order. Single-pixel fully-transparent images are the placeholder
// convention an earlier delete leaves behind (spec.md §5 image Non-goal
// carve-out) and are skipped, matching the original tool's treatment of
// deleted-image slots.
func (d *Document) Images(pageNum int) ([]ImageInfo, error) {
	page, err := d.page(pageNum)
	if err != nil {
		return nil, err
	}
	ops, err := parseOperations(page)
	if err != nil {
		return nil, err
	}
	var out []ImageInfo
	placer := newImagePlacementTracker(page.Resources)
	for _, op := range ops {
		placer.Observe(op)
	}
	for i, p := range placer.placements {
		stream, xtype := page.Resources.GetXObjectByName(core.PdfObjectName(p.Name))
		if xtype != model.XObjectTypeImage || stream == nil {
			continue
		}
		if isPlaceholder(stream) {
			continue
		}
		out = append(out, ImageInfo{Index: i, Name: p.Name, X: p.X, Y: p.Y, W: p.W, H: p.H, Stream: stream})
	}
	return out, nil
}

func isPlaceholder(stream *core.PdfObjectStream) bool {
	w, _ := core.GetIntVal(stream.Get("Width"))
	h, _ := core.GetIntVal(stream.Get("Height"))
	return w <= 1 && h <= 1
}

// AddImage draws img at the given page-space rectangle and appends an
// Image XObject + "cm Do" pair to pageNum's content stream.
func (d *Document) AddImage(pageNum int, img image.Image, x, y, w, h float64) error {
	page, err := d.page(pageNum)
	if err != nil {
		return err
	}
	handler := model.DefaultImageHandler{}
	pdfImg, err := handler.NewImageFromGoImage(img)
	if err != nil {
		return fmt.Errorf("renderer: add image: %w", err)
	}
	ximg, err := model.NewXObjectImageFromImage(pdfImg, nil, core.NewFlateEncoder())
	if err != nil {
		return fmt.Errorf("renderer: add image: %w", err)
	}
	name := page.Resources.GenerateXObjectName()
	if err := page.Resources.SetXObjectImageByName(name, ximg); err != nil {
		return err
	}
	snippet := fmt.Sprintf("q %f 0 0 %f %f %f cm /%s Do Q\n", w, h, x, y, string(name))
	return page.AppendContentStream(snippet)
}

// DeleteImage replaces the image named by imageName's stream with a 1x1
// transparent placeholder, the same convention image_service.py uses so
// the content-stream "Do" operator and geometry stay untouched while the
// pixel data disappears.
func (d *Document) DeleteImage(pageNum int, imageName string) error {
	page, err := d.page(pageNum)
	if err != nil {
		return err
	}
	stream, xtype := page.Resources.GetXObjectByName(core.PdfObjectName(imageName))
	if xtype != model.XObjectTypeImage || stream == nil {
		return fmt.Errorf("renderer: image %q not found", imageName)
	}
	blank, err := core.MakeStream([]byte{0x00}, core.NewFlateEncoder())
	if err != nil {
		return err
	}
	blank.Set("Type", core.MakeName("XObject"))
	blank.Set("Subtype", core.MakeName("Image"))
	blank.Set("Width", core.MakeInteger(1))
	blank.Set("Height", core.MakeInteger(1))
	blank.Set("BitsPerComponent", core.MakeInteger(8))
	blank.Set("ColorSpace", core.MakeName("DeviceGray"))
	blank.Set("Decode", core.MakeArray(core.MakeFloat(1), core.MakeFloat(1)))
	*stream = *blank
	return nil
}

// parseOperations decodes and parses pageNum's content streams into
// operator form, the shared first step for image placement tracking and
// redaction application.
func parseOperations(page *model.PdfPage) ([]*contentstream.ContentStreamOperation, error) {
	content, err := page.GetAllContentStreams()
	if err != nil {
		return nil, err
	}
	parser := contentstream.NewContentStreamParser(content)
	ops, err := parser.Parse()
	if err != nil {
		return nil, err
	}
	return []*contentstream.ContentStreamOperation(*ops), nil
}

// SaveIncremental appends this document's modifications as a new
// incremental revision, the fast-path save spec.md §5 expects after a
// single content-stream surgery or text insertion.
func (d *Document) SaveIncremental() ([]byte, error) {
	appender, err := model.NewPdfAppender(d.reader)
	if err != nil {
		return nil, fmt.Errorf("renderer: save incremental: %w", err)
	}
	n, err := d.reader.GetNumPages()
	if err != nil {
		return nil, err
	}
	for i := 1; i <= n; i++ {
		page, err := d.reader.GetPage(i)
		if err != nil {
			return nil, err
		}
		appender.UpdatePage(page)
	}
	var buf bytes.Buffer
	if err := appender.Write(&buf); err != nil {
		return nil, fmt.Errorf("renderer: save incremental: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveFull rewrites the document from scratch with the garbage-collecting
// optimizer chain enabled, matching the original's
// doc.tobytes(garbage=3, deflate=True) used after redaction and image
// deletion/move/resize so dropped objects do not linger in the file.
func (d *Document) SaveFull() ([]byte, error) {
	writer := model.NewPdfWriter()
	writer.SetOptimizer(optimize.New(optimize.Options{
		CombineDuplicateStreams:         true,
		CombineDuplicateDirectObjects:   true,
		CombineIdenticalIndirectObjects: true,
		CompressStreams:                 true,
	}))
	for _, page := range d.reader.PageList {
		if err := writer.AddPage(page); err != nil {
			return nil, fmt.Errorf("renderer: save full: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := writer.Write(&buf); err != nil {
		return nil, fmt.Errorf("renderer: save full: %w", err)
	}
	common.Log.Debug("renderer: full save produced %d bytes", buf.Len())
	return buf.Bytes(), nil
}

// Reader exposes the underlying unipdf reader.
func (d *Document) Reader() *model.PdfReader { return d.reader }

// Page exposes the underlying unipdf page, for collaborators (span) that
// need the extractor package directly.
func (d *Document) Page(pageNum int) (*model.PdfPage, error) { return d.page(pageNum) }
