package renderer

import (
	"fmt"

	"github.com/unidoc/unipdf/v3/contentstream"
	"github.com/unidoc/unipdf/v3/core"
	"github.com/unidoc/unipdf/v3/model"
)

// Rect is a page-space rectangle, lower-left origin, matching
// model.PdfRectangle's convention.
type Rect struct {
	Llx, Lly, Urx, Ury float64
}

func (r Rect) contains(x, y float64) bool {
	return x >= r.Llx && x <= r.Urx && y >= r.Lly && y <= r.Ury
}

// AddRedactAnnotation records a redaction annotation over area, the data
// model unipdf already provides (spec.md §4.7 step 3's "issue a redaction
// annotation"). Applying it is a separate step: ApplyRedactions.
func (d *Document) AddRedactAnnotation(pageNum int, area Rect) error {
	page, err := d.page(pageNum)
	if err != nil {
		return err
	}
	annot := model.NewPdfAnnotationRedact()
	annot.Rect = core.MakeArray(
		core.MakeFloat(area.Llx), core.MakeFloat(area.Lly),
		core.MakeFloat(area.Urx), core.MakeFloat(area.Ury),
	)
	page.AddAnnotation(annot.PdfAnnotation)
	return nil
}

// ApplyRedactions strips every text-showing operator whose glyph origin
// falls within area from pageNum's content stream, then removes any
// redaction annotations that have now been applied. This is the mechanical
// half of spec.md §4.7's redact-and-reinsert fallback; THE CORE decides
// *when* to call it and what to reinsert afterward.
func (d *Document) ApplyRedactions(pageNum int, area Rect) error {
	page, err := d.page(pageNum)
	if err != nil {
		return err
	}
	ops, err := parseOperations(page)
	if err != nil {
		return err
	}
	kept := redactOperations(ops, area)
	out := contentstream.ContentStreamOperations(kept)
	if err := page.SetContentStreams([]string{string(out.Bytes())}, core.NewFlateEncoder()); err != nil {
		return fmt.Errorf("renderer: apply redactions: %w", err)
	}
	if annots, err := page.GetAnnotations(); err == nil {
		remaining := annots[:0]
		for _, a := range annots {
			if _, ok := a.GetContext().(*model.PdfAnnotationRedact); !ok {
				remaining = append(remaining, a)
			}
		}
		page.SetAnnotations(remaining)
	}
	return nil
}

// textState is the subset of graphics/text state the redaction pass needs
// to compute each shown glyph run's origin in page space.
type textState struct {
	ctm  [6]float64
	tm   [6]float64
	tlm  [6]float64
	tfs  float64
}

func redactOperations(ops []*contentstream.ContentStreamOperation, area Rect) []*contentstream.ContentStreamOperation {
	var gsStack [][6]float64
	ctm := identityMatrix()
	ts := textState{ctm: ctm, tm: identityMatrix(), tlm: identityMatrix(), tfs: 1}

	out := make([]*contentstream.ContentStreamOperation, 0, len(ops))
	for _, op := range ops {
		switch op.Operand {
		case "q":
			gsStack = append(gsStack, ctm)
		case "Q":
			if len(gsStack) > 0 {
				ctm = gsStack[len(gsStack)-1]
				gsStack = gsStack[:len(gsStack)-1]
			}
		case "cm":
			if m, ok := numberParams(op.Params, 6); ok {
				ctm = matMul([6]float64{m[0], m[1], m[2], m[3], m[4], m[5]}, ctm)
			}
		case "BT":
			ts.tm = identityMatrix()
			ts.tlm = identityMatrix()
		case "ET":
		case "Tf":
			if len(op.Params) == 2 {
				if f, err := core.GetNumberAsFloat(op.Params[1]); err == nil {
					ts.tfs = f
				}
			}
		case "Tm":
			if m, ok := numberParams(op.Params, 6); ok {
				ts.tm = [6]float64{m[0], m[1], m[2], m[3], m[4], m[5]}
				ts.tlm = ts.tm
			}
		case "Td", "TD":
			if m, ok := numberParams(op.Params, 2); ok {
				ts.tlm = matMul([6]float64{1, 0, 0, 1, m[0], m[1]}, ts.tlm)
				ts.tm = ts.tlm
			}
		case "T*":
			ts.tlm = matMul([6]float64{1, 0, 0, 1, 0, 0}, ts.tlm)
			ts.tm = ts.tlm
		case "Tj", "'", "\"":
			x, y := applyPoint(matMul(ts.tm, ctm), 0, 0)
			if area.contains(x, y) {
				continue
			}
		case "TJ":
			x, y := applyPoint(matMul(ts.tm, ctm), 0, 0)
			if area.contains(x, y) {
				continue
			}
		}
		out = append(out, op)
	}
	return out
}
