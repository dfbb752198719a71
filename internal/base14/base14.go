// Package base14 maps an embedded PDF font's name to the closest of the 14
// standard PDF fonts every viewer renders without an embedded font
// program, the substitute the redact-and-reinsert fallback draws with
// when an extracted embedded font doesn't cover the replacement text
// (spec.md §4.8).
package base14

import (
	"strings"

	"github.com/unidoc/unipdf/v3/model"
)

// fontMap matches config.py's FONT_MAP: a substring of the normalized font
// name to a base family. Entries are checked in list order and the first
// match wins, preserving the dict-iteration order the original relies on.
// The longer patterns ("helvetica", "timesnewroman", "couriernew") follow
// a shorter pattern of the same family, so they never change the result,
// and "times-roman" never matches because normalization removes dashes.
var fontMap = []struct {
	pattern string
	family  string
}{
	{"helv", "helv"},
	{"helvetica", "helv"},
	{"arial", "helv"},
	{"tisa", "helv"},
	{"times", "tiro"},
	{"timesnewroman", "tiro"},
	{"times-roman", "tiro"},
	{"courier", "cour"},
	{"couriernew", "cour"},
	{"symbol", "symb"},
	{"zapfdingbats", "zadb"},
}

// Family is a resolved Base14 family plus bold/italic style, in the
// lowercase 4-character naming convention ("helv", "hebo", "heit", "hebi").
type Family string

// Normalize maps fontName to the closest Base14 family+style code.
func Normalize(fontName string) Family {
	key := strings.ToLower(strings.NewReplacer(" ", "", "-", "").Replace(fontName))
	if i := strings.Index(key, "+"); i >= 0 {
		key = key[i+1:]
	}
	lower := strings.ToLower(fontName)
	bold := strings.Contains(key, "bold")
	italic := strings.Contains(key, "italic") || strings.Contains(key, "oblique")

	for _, m := range fontMap {
		if strings.Contains(key, m.pattern) {
			return Family(styled(m.family, bold, italic))
		}
	}

	if strings.Contains(lower, "bold") {
		return "hebo"
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		return "heit"
	}
	return "helv"
}

// styleVariants maps each styleable base family to its bold/italic/bold-
// italic variant codes, using the short PDF-base-14 font names PyMuPDF
// exposes ("tibo" for Times-Bold, "coit" for Courier-Oblique, and so on).
// symb and zadb have no variants: Symbol and ZapfDingbats are always drawn
// plain regardless of the source font's weight.
var styleVariants = map[string][4]string{
	"helv": {"helv", "hebo", "heit", "hebi"},
	"tiro": {"tiro", "tibo", "tiit", "tibi"},
	"cour": {"cour", "cobo", "coit", "cobi"},
}

func styled(family string, bold, italic bool) string {
	variants, ok := styleVariants[family]
	if !ok {
		return family
	}
	switch {
	case bold && italic:
		return variants[3]
	case bold:
		return variants[1]
	case italic:
		return variants[2]
	default:
		return variants[0]
	}
}

// stdFontNames maps every Family this package produces to the unipdf
// Standard14 font name that renders it.
var stdFontNames = map[Family]model.StdFontName{
	"helv": model.HelveticaName,
	"hebo": model.HelveticaBoldName,
	"heit": model.HelveticaObliqueName,
	"hebi": model.HelveticaBoldObliqueName,
	"tiro": model.TimesRomanName,
	"tibo": model.TimesBoldName,
	"tiit": model.TimesItalicName,
	"tibi": model.TimesBoldItalicName,
	"cour": model.CourierName,
	"cobo": model.CourierBoldName,
	"coit": model.CourierObliqueName,
	"cobi": model.CourierBoldObliqueName,
	"symb": model.SymbolName,
	"zadb": model.ZapfDingbatsName,
}

// NewFont builds a *model.PdfFont for family, ready to register in a page's
// resource dictionary.
func NewFont(family Family) (*model.PdfFont, error) {
	name, ok := stdFontNames[family]
	if !ok {
		name = model.HelveticaName
	}
	return model.NewStandard14Font(name)
}
