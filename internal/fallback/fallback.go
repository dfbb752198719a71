// Package fallback implements the redact-and-reinsert path spec.md §4.7
// falls through to when a direct content-stream edit (internal/replace)
// isn't possible: redact the span's bbox, then try to redraw the
// replacement text in the span's own embedded font before giving up and
// substituting a Base14 font (spec.md §4.8).
package fallback

import (
	"fmt"
	"unicode"

	"github.com/unidoc/unipdf/v3/model"

	"github.com/Ayush-Nema/EditPDF/internal/base14"
	"github.com/Ayush-Nema/EditPDF/internal/renderer"
	"github.com/Ayush-Nema/EditPDF/internal/span"
)

const (
	// lineHeightFactor matches text_service.py's LINE_HEIGHT_FACTOR: a
	// multi-line box needs size*lineHeightFactor of height per line.
	lineHeightFactor = 1.3
	// textWidthPadding is extra room (in page units) added when a box is
	// widened to fit text that doesn't fit its original bbox.
	textWidthPadding = 2
	// pageMargin keeps a widened box from running past the page edge.
	pageMargin = 5
	// coverageThreshold is the minimum fraction of newText's unique
	// printable, non-space runes an extracted font must cover before it is
	// trusted over a Base14 substitute.
	coverageThreshold = 0.5
	// defaultAscenderFraction is used when a font's descriptor carries no
	// usable /Ascent value (most Base14 fonts resolve one; a defensively
	// broken embedded font might not).
	defaultAscenderFraction = 0.8
)

// Apply redacts target's bbox on pageNum and, if newText is non-empty,
// redraws it at size/color — first attempting the span's original embedded
// font, then a Base14 substitute. This mirrors edit_span's attempt 2/3
// ordering: redact always happens; reinsertion is best-effort.
func Apply(doc *renderer.Document, pageNum int, target span.LogicalSpan, newText string, size float64, color [3]float64) error {
	area := renderer.Rect{Llx: target.BBox.Llx, Lly: target.BBox.Lly, Urx: target.BBox.Urx, Ury: target.BBox.Ury}

	if err := doc.AddRedactAnnotation(pageNum, area); err != nil {
		return fmt.Errorf("fallback: redact: %w", err)
	}
	if err := doc.ApplyRedactions(pageNum, area); err != nil {
		return fmt.Errorf("fallback: redact: %w", err)
	}
	if newText == "" {
		return nil
	}

	if font := extractPageFont(doc, pageNum, target.Font); font != nil && fontCoversText(font, newText) {
		if err := insert(doc, pageNum, area, newText, font, size, color, true); err == nil {
			return nil
		}
	}

	font, err := base14.NewFont(target.NormalizedFont)
	if err != nil {
		return fmt.Errorf("fallback: base14 substitute: %w", err)
	}
	return insert(doc, pageNum, area, newText, font, size, color, false)
}

// extractPageFont finds the font on pageNum whose /BaseFont matches
// fontName (ignoring a subset "ABCDEF+" prefix) and builds a *model.PdfFont
// from its resource dictionary, the closest unipdf equivalent to
// extracting and re-wrapping the embedded font program.
func extractPageFont(doc *renderer.Document, pageNum int, fontName string) *model.PdfFont {
	fonts, err := doc.Fonts(pageNum)
	if err != nil {
		return nil
	}
	target := stripSubsetPrefix(fontName)
	for _, info := range fonts {
		if stripSubsetPrefix(info.BaseFont) != target {
			continue
		}
		font, err := model.NewPdfFontFromPdfObject(info.Dict)
		if err != nil {
			continue
		}
		return font
	}
	return nil
}

func stripSubsetPrefix(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '+' {
			return name[i+1:]
		}
	}
	return name
}

// fontCoversText reports whether font has a glyph for more than
// coverageThreshold of text's unique printable, non-space runes. A subset
// font missing a handful of glyphs is still usable; a font missing most of
// them (a symbol/icon font, say) is not.
func fontCoversText(font *model.PdfFont, text string) bool {
	unique := map[rune]bool{}
	for _, r := range text {
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			unique[r] = true
		}
	}
	if len(unique) == 0 {
		return true
	}
	present := 0
	for r := range unique {
		if _, ok := font.GetRuneMetrics(r); ok {
			present++
		}
	}
	return float64(present)/float64(len(unique)) > coverageThreshold
}

// insert registers font on pageNum and draws text inside (or, if needed,
// beyond) area, growing the box the way _insert_with_extracted_font and
// _insert_with_base14 do: taller for extra lines, wider for long single
// lines, clamped to the page. When extracted is true and text has no
// embedded newline it is drawn with direct, unwrapped glyph placement
// (spec.md §4.7 step 4 "place it at the baseline ... using direct glyph
// placement (no wrapping)"); otherwise it goes through the word-wrapping
// textbox path with one overflow-driven height retry.
func insert(doc *renderer.Document, pageNum int, area renderer.Rect, text string, font *model.PdfFont, size float64, color [3]float64, extracted bool) error {
	pageRect, err := doc.PageRect(pageNum)
	if err != nil {
		return err
	}

	lines := splitLines(text)
	needed := size * lineHeightFactor * float64(len(lines))
	if box := area.Ury - area.Lly; box < needed {
		area.Lly = area.Ury - needed
		if area.Lly < pageMargin {
			area.Lly = pageMargin
		}
	}

	tag, err := doc.RegisterFont(pageNum, font)
	if err != nil {
		return err
	}

	if extracted && len(lines) == 1 {
		width := textWidth(font, lines[0], size)
		if width > area.Urx-area.Llx {
			area.Urx = area.Llx + width + textWidthPadding
			if limit := pageRect.Urx - pageMargin; area.Urx > limit {
				area.Urx = limit
			}
		}
		baselineY := area.Ury - fontAscenderFraction(font)*size
		return doc.InsertText(pageNum, tag, font, area.Llx, baselineY, text, size, color, lineHeightFactor)
	}

	maxWidth := 0.0
	for _, line := range lines {
		if w := textWidth(font, line, size); w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth > area.Urx-area.Llx {
		area.Urx = area.Llx + maxWidth + textWidthPadding
		if limit := pageRect.Urx - pageMargin; area.Urx > limit {
			area.Urx = limit
		}
	}

	outcome, err := doc.InsertTextBox(pageNum, tag, font, area, text, size, color, lineHeightFactor)
	if err != nil {
		return err
	}
	if !outcome.Fit {
		// spec.md §4.7 step 4: "if a first attempt reports k lines
		// overflowed, retry with height H_line x (k+1)".
		area.Lly = area.Ury - lineHeightFactor*size*float64(outcome.LinesOverflowed+1)
		if area.Lly < pageMargin {
			area.Lly = pageMargin
		}
		if _, err := doc.InsertTextBox(pageNum, tag, font, area, text, size, color, lineHeightFactor); err != nil {
			return err
		}
	}
	return nil
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, text[start:i])
			start = i + 1
		}
	}
	lines = append(lines, text[start:])
	return lines
}

// textWidth sums font's glyph widths (1000-unit em space, per
// model.CharMetrics.Wx) across line's runes, scaled to size.
func textWidth(font *model.PdfFont, line string, size float64) float64 {
	total := 0.0
	for _, r := range line {
		if m, ok := font.GetRuneMetrics(r); ok {
			total += m.Wx
		}
	}
	return total / 1000 * size
}

// fontAscenderFraction returns font's ascent as a fraction of its em size,
// so InsertText can place a baseline below the bbox's top edge (page
// coordinates are bottom-up: the top edge is Ury).
func fontAscenderFraction(font *model.PdfFont) float64 {
	desc := font.FontDescriptor()
	if desc == nil {
		return defaultAscenderFraction
	}
	ascent, err := desc.GetAscent()
	if err != nil || ascent == 0 {
		return defaultAscenderFraction
	}
	return ascent / 1000
}
