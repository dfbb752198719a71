package renderer

import (
	"math"

	"github.com/unidoc/unipdf/v3/contentstream"
	"github.com/unidoc/unipdf/v3/core"
	"github.com/unidoc/unipdf/v3/model"
)

// placement is the page-space rectangle a "cm ... /Name Do" sequence draws
// an image XObject into, assuming the unit-square image-space convention
// every PDF image XObject uses.
type placement struct {
	Name    string
	X, Y    float64
	W, H    float64
}

// imagePlacementTracker replays cm/Do operators with a running CTM, the
// same bookkeeping a redaction pass needs for text, reused here to recover
// where each placed image actually sits for list/move/resize.
type imagePlacementTracker struct {
	resources  *model.PdfPageResources
	ctm        [6]float64
	stack      [][6]float64
	placements []placement
}

func newImagePlacementTracker(resources *model.PdfPageResources) *imagePlacementTracker {
	return &imagePlacementTracker{resources: resources, ctm: identityMatrix()}
}

func identityMatrix() [6]float64 { return [6]float64{1, 0, 0, 1, 0, 0} }

func matMul(a, b [6]float64) [6]float64 {
	return [6]float64{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}

// Observe feeds one parsed content-stream operation through the tracker.
func (t *imagePlacementTracker) Observe(op *contentstream.ContentStreamOperation) {
	switch op.Operand {
	case "q":
		t.stack = append(t.stack, t.ctm)
	case "Q":
		if len(t.stack) > 0 {
			t.ctm = t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
		}
	case "cm":
		if m, ok := numberParams(op.Params, 6); ok {
			t.ctm = matMul([6]float64{m[0], m[1], m[2], m[3], m[4], m[5]}, t.ctm)
		}
	case "Do":
		if len(op.Params) != 1 {
			return
		}
		name, ok := core.GetNameVal(op.Params[0])
		if !ok || t.resources == nil {
			return
		}
		if _, xtype := t.resources.GetXObjectByName(core.PdfObjectName(name)); xtype != model.XObjectTypeImage {
			return
		}
		x0, y0 := t.ctm[4], t.ctm[5]
		x1, y1 := applyPoint(t.ctm, 1, 0)
		x2, y2 := applyPoint(t.ctm, 0, 1)
		w := dist(x0, y0, x1, y1)
		h := dist(x0, y0, x2, y2)
		t.placements = append(t.placements, placement{Name: name, X: x0, Y: y0, W: w, H: h})
	}
}

func applyPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func dist(x0, y0, x1, y1 float64) float64 {
	dx, dy := x1-x0, y1-y0
	return math.Sqrt(dx*dx + dy*dy)
}

func numberParams(params []core.PdfObject, n int) ([]float64, bool) {
	if len(params) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, p := range params {
		f, err := core.GetNumberAsFloat(p)
		if err != nil {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}
