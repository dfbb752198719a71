// Package span reconstructs logical text spans from a page's extracted
// marks: grouping glyph-level marks into lines, detecting bullets,
// splitting into logical items, and merging fragments the underlying
// extractor leaves split across the same visual row (spec.md §4.1).
//
// unipdf's extractor exposes a flat, reading-order []TextMark with no
// block/line tree the way the system this was adapted from provides,
// so step 1-2 of the algorithm (walk blocks, build raw_lines) is
// replaced here with an equivalent same-row grouping pass directly over
// marks; the rest of the pipeline (bullet detection, block split,
// cross-item merge, dense indexing) runs unchanged.
package span

import (
	"regexp"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"

	"github.com/Ayush-Nema/EditPDF/internal/base14"
	"github.com/Ayush-Nema/EditPDF/internal/renderer"
)

// ErrPageOutOfRange mirrors renderer.ErrPageOutOfRange for callers that
// only import this package.
var ErrPageOutOfRange = renderer.ErrPageOutOfRange

// LogicalSpan is one editable text item on a page (spec.md §3).
type LogicalSpan struct {
	Index          int
	Text           string
	BBox           model.PdfRectangle
	Font           string
	NormalizedFont base14.Family
	FontSize       float64
	Color          [3]float64 // r, g, b in 0..1
}

// symbolFontHints are substrings of a (lowercased, space-stripped) font
// name that mark every glyph drawn in it as a bullet, independent of what
// character it actually is.
var symbolFontHints = []string{"symbol", "zapf", "dingbat", "wingding", "webding", "bullet"}

// bulletRE matches leading bullet markers: Unicode bullet glyphs, Private
// Use Area codepoints PDF symbol fonts commonly use, a dash/asterisk
// followed by a space, or a numbered/lettered list marker.
var bulletRE = regexp.MustCompile(
	`^\s*(?:[\x{2022}\x{2023}\x{25E6}\x{2043}\x{2219}\x{00B7}\x{25AA}\x{25B8}\x{25BA}\x{25CB}\x{25CF}]` +
		`|[\x{E000}-\x{F8FF}]` +
		`|[\x{2013}\x{2014}\-\*]\s` +
		`|\d+[.\)]\s` +
		`|[a-zA-Z][.\)]\s)`)

type line struct {
	text      string
	bbox      model.PdfRectangle
	isBullet  bool
	firstMark *extractor.TextMark
}

// Extract returns every logical span on pageNum, in reading order.
func Extract(doc *renderer.Document, pageNum int) ([]LogicalSpan, error) {
	page, err := doc.Page(pageNum)
	if err != nil {
		return nil, err
	}
	ex, err := extractor.New(page)
	if err != nil {
		return nil, err
	}
	pageText, _, _, err := ex.ExtractPageText()
	if err != nil {
		return nil, err
	}
	marks := pageText.Marks().Elements()

	lines := groupLines(marks)
	groups := splitGroups(lines)
	items := mergeCrossGroup(groups)

	spans := make([]LogicalSpan, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.text) == "" {
			continue
		}
		spans = append(spans, LogicalSpan{
			Index:          len(spans),
			Text:           it.text,
			BBox:           it.bbox,
			Font:           fontName(it.firstMark),
			NormalizedFont: base14.Normalize(fontName(it.firstMark)),
			FontSize:       fontSize(it.firstMark),
			Color:          colorOf(it.firstMark),
		})
	}
	return spans, nil
}

// Find returns the span at index, or false if it does not exist.
func Find(doc *renderer.Document, pageNum, index int) (LogicalSpan, bool, error) {
	spans, err := Extract(doc, pageNum)
	if err != nil {
		return LogicalSpan{}, false, err
	}
	if index < 0 || index >= len(spans) {
		return LogicalSpan{}, false, nil
	}
	return spans[index], true, nil
}

func fontName(m *extractor.TextMark) string {
	if m == nil || m.Font == nil {
		return ""
	}
	return m.Font.BaseFont()
}

func fontSize(m *extractor.TextMark) float64 {
	if m == nil {
		return 12
	}
	return m.FontSize
}

func colorOf(m *extractor.TextMark) [3]float64 {
	if m == nil || m.FillColor == nil {
		return [3]float64{0, 0, 0}
	}
	r, g, b, _ := m.FillColor.RGBA()
	return [3]float64{float64(r) / 65535, float64(g) / 65535, float64(b) / 65535}
}

func isSymbolFont(name string) bool {
	lower := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	for _, hint := range symbolFontHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func isBulletLine(text string, first *extractor.TextMark) bool {
	if first != nil && isSymbolFont(fontName(first)) {
		return true
	}
	return bulletRE.MatchString(text)
}

// groupLines reconstructs line-level runs from glyph-level marks: marks
// are already in approximate reading order, so consecutive marks whose
// bboxes vertically overlap by more than half the smaller height belong
// to the same line.
func groupLines(marks []extractor.TextMark) []line {
	var lines []line
	for i := range marks {
		m := &marks[i]
		if m.Meta || strings.TrimSpace(m.Text) == "" {
			continue
		}
		if len(lines) > 0 && sameRow(lines[len(lines)-1].bbox, m.BBox) {
			last := &lines[len(lines)-1]
			sep := ""
			if !strings.HasSuffix(last.text, " ") && !strings.HasPrefix(m.Text, " ") && needsSeparator(last.bbox, m.BBox, last.firstMark) {
				sep = " "
			}
			last.text += sep + m.Text
			last.bbox = union(last.bbox, m.BBox)
			continue
		}
		lines = append(lines, line{text: m.Text, bbox: m.BBox, firstMark: m})
	}
	for i := range lines {
		lines[i].isBullet = isBulletLine(lines[i].text, lines[i].firstMark)
	}
	return lines
}

// needsSeparator inserts a space between consecutive marks on the same
// line only when they are not already glued together (a non-trivial
// horizontal gap, e.g. a word boundary the tokenizer emitted as a
// separate show-text operation).
func needsSeparator(prev, cur model.PdfRectangle, prevMark *extractor.TextMark) bool {
	gap := cur.Llx - prev.Urx
	size := fontSize(prevMark)
	return gap > 0.15*size
}

func sameRow(a, b model.PdfRectangle) bool {
	aH := a.Ury - a.Lly
	bH := b.Ury - b.Lly
	minH := aH
	if bH < minH {
		minH = bH
	}
	overlap := min(a.Ury, b.Ury) - max(a.Lly, b.Lly)
	return minH > 0 && overlap > 0.5*minH
}

func union(a, b model.PdfRectangle) model.PdfRectangle {
	return model.PdfRectangle{
		Llx: min(a.Llx, b.Llx),
		Lly: min(a.Lly, b.Lly),
		Urx: max(a.Urx, b.Urx),
		Ury: max(a.Ury, b.Ury),
	}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

type item struct {
	text      string
	bbox      model.PdfRectangle
	firstMark *extractor.TextMark
}

// splitGroups implements step 5: bullet lists split at each bullet line;
// otherwise lines split on vertical gaps larger than the preceding line's
// own height.
func splitGroups(lines []line) []item {
	if len(lines) == 0 {
		return nil
	}
	hasBullets := false
	for _, l := range lines {
		if l.isBullet {
			hasBullets = true
			break
		}
	}

	var items []item
	if !hasBullets {
		current := []line{lines[0]}
		flush := func() {
			texts := make([]string, len(current))
			bbox := current[0].bbox
			for i, l := range current {
				texts[i] = l.text
				bbox = union(bbox, l.bbox)
			}
			items = append(items, item{text: strings.Join(texts, "\n"), bbox: bbox, firstMark: current[0].firstMark})
		}
		for i := 1; i < len(lines); i++ {
			prevBBox := lines[i-1].bbox
			curBBox := lines[i].bbox
			lineHeight := prevBBox.Ury - prevBBox.Lly
			gap := prevBBox.Lly - curBBox.Ury
			if gap > lineHeight {
				flush()
				current = nil
			}
			current = append(current, lines[i])
		}
		flush()
		return items
	}

	var current []line
	for _, l := range lines {
		if l.isBullet && len(current) > 0 {
			items = append(items, flushLines(current))
			current = nil
		}
		current = append(current, l)
	}
	if len(current) > 0 {
		items = append(items, flushLines(current))
	}
	return items
}

func flushLines(lines []line) item {
	texts := make([]string, len(lines))
	bbox := lines[0].bbox
	for i, l := range lines {
		texts[i] = l.text
		bbox = union(bbox, l.bbox)
	}
	return item{text: strings.Join(texts, "\n"), bbox: bbox, firstMark: lines[0].firstMark}
}

// mergeCrossGroup implements step 6: sort by (y0, x0) then merge items
// that vertically overlap by more than half the smaller height and sit a
// non-negative, small-enough horizontal gap apart.
func mergeCrossGroup(items []item) []item {
	if len(items) == 0 {
		return nil
	}
	sorted := make([]item, len(items))
	copy(sorted, items)
	// Stable insertion sort by (Lly ascending in PDF's bottom-up space
	// reads top-to-bottom as Ury descending, then Llx ascending); sort by
	// descending Ury then ascending Llx to get reading order.
	for i := 1; i < len(sorted); i++ {
		j := i
		for j > 0 && lessReadingOrder(sorted[j], sorted[j-1]) {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
			j--
		}
	}

	merged := []item{sorted[0]}
	for _, it := range sorted[1:] {
		prev := &merged[len(merged)-1]
		if sameRow(prev.bbox, it.bbox) {
			hGap := it.bbox.Llx - prev.bbox.Urx
			maxSize := max(fontSize(prev.firstMark), fontSize(it.firstMark))
			if hGap >= 0 && hGap < maxSize {
				sep := ""
				if !strings.HasSuffix(prev.text, " ") && !strings.HasPrefix(it.text, " ") {
					sep = " "
				}
				prev.text += sep + it.text
				prev.bbox = union(prev.bbox, it.bbox)
				continue
			}
		}
		merged = append(merged, it)
	}
	return merged
}

func lessReadingOrder(a, b item) bool {
	if a.bbox.Ury != b.bbox.Ury {
		return a.bbox.Ury > b.bbox.Ury
	}
	return a.bbox.Llx < b.bbox.Llx
}
