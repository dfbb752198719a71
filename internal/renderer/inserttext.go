package renderer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/unidoc/unipdf/v3/core"
	"github.com/unidoc/unipdf/v3/model"
)

// RegisterFont adds font to pageNum's resource dictionary under a fresh
// tag and returns that tag.
func (d *Document) RegisterFont(pageNum int, font *model.PdfFont) (string, error) {
	page, err := d.page(pageNum)
	if err != nil {
		return "", err
	}
	tag := generateFontTag(page)
	if err := page.AddFont(core.PdfObjectName(tag), font.ToPdfObject()); err != nil {
		return "", err
	}
	return tag, nil
}

func generateFontTag(page *model.PdfPage) string {
	for i := 1; ; i++ {
		tag := fmt.Sprintf("EP%d", i)
		if !page.HasFontByName(core.PdfObjectName(tag)) {
			return tag
		}
	}
}

// InsertText draws text (one BT/ET block, one Tm/Tj per line) using fontTag/size/
// color, the mechanical half of the redact-and-reinsert fallback's
// reinsertion step (spec.md §4.7). baselineX/baselineY place the first
// line's baseline; the caller (internal/fallback) is responsible for
// deriving that baseline from the span's bbox and the font's ascender, and
// for growing the box before calling in when the text would overflow it.
// Lines after the first step down by size*lineHeightFactor.
func (d *Document) InsertText(pageNum int, fontTag string, font *model.PdfFont, baselineX, baselineY float64, text string, size float64, color [3]float64, lineHeightFactor float64) error {
	page, err := d.page(pageNum)
	if err != nil {
		return err
	}
	lines := strings.Split(text, "\n")
	var sb strings.Builder
	sb.WriteString("BT\n")
	fmt.Fprintf(&sb, "/%s %f Tf\n", fontTag, size)
	fmt.Fprintf(&sb, "%f %f %f rg\n", color[0], color[1], color[2])
	for i, line := range lines {
		encoded, _ := font.StringToCharcodeBytes(line)
		y := baselineY - float64(i)*size*lineHeightFactor
		fmt.Fprintf(&sb, "1 0 0 1 %f %f Tm\n", baselineX, y)
		sb.WriteString("(")
		sb.Write(escapeLiteralBytes(encoded))
		sb.WriteString(") Tj\n")
	}
	sb.WriteString("ET\n")
	return page.AppendContentStream(sb.String())
}

// InsertOutcome reports whether InsertTextBox's wrapped text fit inside the
// rectangle it was asked to draw into, an explicit result in place of
// PyMuPDF's insert_textbox convention of returning a
// negative line count on overflow (spec.md §9 "Implicit control flow in
// redaction").
type InsertOutcome struct {
	Fit             bool
	LinesOverflowed int
}

// InsertTextBox word-wraps text to rect's width and draws as many wrapped
// lines as fit rect's height, top-down starting at rect.Ury. When more
// lines are produced than fit, it draws only the lines that fit and
// reports how many were dropped so the caller (internal/fallback) can grow
// the box and retry, per spec.md §4.7 step 4.
func (d *Document) InsertTextBox(pageNum int, fontTag string, font *model.PdfFont, rect Rect, text string, size float64, color [3]float64, lineHeightFactor float64) (InsertOutcome, error) {
	page, err := d.page(pageNum)
	if err != nil {
		return InsertOutcome{}, err
	}

	width := rect.Urx - rect.Llx
	var wrapped []string
	for _, paragraph := range strings.Split(text, "\n") {
		wrapped = append(wrapped, wrapToWidth(font, paragraph, size, width)...)
	}

	lineHeight := size * lineHeightFactor
	linesFit := int((rect.Ury - rect.Lly) / lineHeight)
	if linesFit < 1 {
		linesFit = 1
	}

	outcome := InsertOutcome{Fit: true}
	drawLines := wrapped
	if len(wrapped) > linesFit {
		outcome.Fit = false
		outcome.LinesOverflowed = len(wrapped) - linesFit
		drawLines = wrapped[:linesFit]
	}

	var sb strings.Builder
	sb.WriteString("BT\n")
	fmt.Fprintf(&sb, "/%s %f Tf\n", fontTag, size)
	fmt.Fprintf(&sb, "%f %f %f rg\n", color[0], color[1], color[2])
	baselineY := rect.Ury - size
	for i, line := range drawLines {
		encoded, _ := font.StringToCharcodeBytes(line)
		y := baselineY - float64(i)*lineHeight
		fmt.Fprintf(&sb, "1 0 0 1 %f %f Tm\n", rect.Llx, y)
		sb.WriteString("(")
		sb.Write(escapeLiteralBytes(encoded))
		sb.WriteString(") Tj\n")
	}
	sb.WriteString("ET\n")
	if err := page.AppendContentStream(sb.String()); err != nil {
		return InsertOutcome{}, err
	}
	return outcome, nil
}

// wrapToWidth greedily fills lines up to width (page units), breaking on
// the last space before the limit and falling back to a character break
// when a single word exceeds width on its own. Grounded on
// creator/text_chunk.go's TextChunk.Wrap, narrowed to plain strings since
// this path has no rich-text styling to carry.
func wrapToWidth(font *model.PdfFont, text string, size, width float64) []string {
	if width <= 0 {
		return []string{text}
	}
	var lines []string
	var line []rune
	var lineWidth float64
	for _, r := range text {
		metrics, found := font.GetRuneMetrics(r)
		w := size * 0.5
		if found {
			w = size * metrics.Wx / 1000
		}
		if lineWidth+w > width && len(line) > 0 {
			idx := -1
			for i := len(line) - 1; i >= 0; i-- {
				if unicode.IsSpace(line[i]) {
					idx = i
					break
				}
			}
			if idx > 0 {
				lines = append(lines, strings.TrimRightFunc(string(line[:idx]), unicode.IsSpace))
				rest := append([]rune{}, line[idx+1:]...)
				line = append(rest, r)
			} else {
				lines = append(lines, string(line))
				line = []rune{r}
			}
			lineWidth = lineWidthOf(font, line, size)
			continue
		}
		line = append(line, r)
		lineWidth += w
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func lineWidthOf(font *model.PdfFont, line []rune, size float64) float64 {
	total := 0.0
	for _, r := range line {
		if m, ok := font.GetRuneMetrics(r); ok {
			total += size * m.Wx / 1000
		} else {
			total += size * 0.5
		}
	}
	return total
}

func escapeLiteralBytes(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for _, b := range raw {
		switch b {
		case '\\', '(', ')':
			out = append(out, '\\', b)
		default:
			out = append(out, b)
		}
	}
	return out
}
