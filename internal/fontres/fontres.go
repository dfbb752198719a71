// Package fontres resolves, for each font tag used in a content stream,
// whether byte-level string editing can proceed directly against the
// font's encoding, must go through a parsed /ToUnicode CMap, or has to be
// skipped entirely (spec.md §4.3).
package fontres

import (
	"strings"

	"github.com/unidoc/unipdf/v3/core"

	"github.com/Ayush-Nema/EditPDF/internal/pdfcmap"
	"github.com/Ayush-Nema/EditPDF/internal/renderer"
)

// Mode is the verdict for how a font tag's strings should be decoded and
// re-encoded.
type Mode int

const (
	// ModeDirect decodes/encodes through the font's simple encoding
	// (WinAnsi/MacRoman/Latin-1) without consulting a CMap.
	ModeDirect Mode = iota
	// ModeCMap decodes/encodes through a parsed /ToUnicode CMap.
	ModeCMap
	// ModeSkip means this font tag is unsafe for byte-level editing and
	// any block using it must fall through to the redact-and-reinsert
	// path (spec.md §4.7).
	ModeSkip
)

// Resolution is the resolved strategy and supporting data for one font tag.
type Resolution struct {
	Tag          string
	Mode         Mode
	Encoding     string // encoding name from the font dictionary for direct mode ("" if none); "" for CMap or skip
	CMap         *pdfcmap.CMap
	IsCID        bool
	IsSubset     bool
	HasDifferences bool
}

// Resolver caches per-tag resolutions for a single page so a replacement
// driver pass over many tokens only loads each font's CMap once.
type Resolver struct {
	doc     *renderer.Document
	pageNum int
	fonts   map[string]renderer.FontInfo
	cache   map[string]*Resolution
}

// New builds a Resolver for pageNum, indexing its fonts by tag.
func New(doc *renderer.Document, pageNum int) (*Resolver, error) {
	fonts, err := doc.Fonts(pageNum)
	if err != nil {
		return nil, err
	}
	byTag := make(map[string]renderer.FontInfo, len(fonts))
	for _, f := range fonts {
		byTag[f.Tag] = f
	}
	return &Resolver{doc: doc, pageNum: pageNum, fonts: byTag, cache: map[string]*Resolution{}}, nil
}

// NewForTest builds a Resolver directly from a tag->FontInfo map, without a
// renderer.Document, for tests that need to exercise the resolution table
// of spec.md §4.3 over hand-built font dictionaries.
func NewForTest(fonts map[string]renderer.FontInfo) *Resolver {
	return &Resolver{fonts: fonts, cache: map[string]*Resolution{}}
}

// Resolve returns tag's cached Resolution, computing it on first use.
func (r *Resolver) Resolve(tag string) *Resolution {
	if cached, ok := r.cache[tag]; ok {
		return cached
	}
	res := r.resolve(tag)
	r.cache[tag] = res
	return res
}

func (r *Resolver) resolve(tag string) *Resolution {
	info, ok := r.fonts[tag]
	if !ok {
		return &Resolution{Tag: tag, Mode: ModeSkip}
	}

	res := &Resolution{
		Tag:            tag,
		IsCID:          isCIDFont(info),
		IsSubset:       isSubsetFont(info),
		HasDifferences: hasDifferences(info),
	}

	if res.IsCID || res.IsSubset || res.HasDifferences {
		if cm := loadToUnicode(r.doc, info); cm != nil {
			res.Mode = ModeCMap
			res.CMap = cm
			return res
		}
		res.Mode = ModeSkip
		return res
	}

	res.Encoding = encodingName(info)
	res.Mode = ModeDirect
	return res
}

// isSubsetFont reports whether basefont carries the "ABCDEF+" subset tag
// prefix unipdf's embedder writes for subsetted fonts.
func isSubsetFont(info renderer.FontInfo) bool {
	return strings.Contains(info.BaseFont, "+")
}

func isCIDFont(info renderer.FontInfo) bool {
	if info.Subtype == "Type0" {
		return true
	}
	if info.Dict == nil {
		return false
	}
	desc, ok := core.GetArray(info.Dict.Get("DescendantFonts"))
	return ok && desc.Len() > 0
}

func hasDifferences(info renderer.FontInfo) bool {
	if info.Dict == nil {
		return false
	}
	enc := info.Dict.Get("Encoding")
	dict, ok := core.GetDict(enc)
	if !ok {
		return false
	}
	_, has := core.GetArray(dict.Get("Differences"))
	return has
}

// encodingName returns a simple font's encoding name as written in its
// dictionary (e.g. "WinAnsiEncoding", "MacRomanEncoding"), checking a
// direct /Encoding name first and then a /BaseEncoding inside an encoding
// dictionary. Any other name is returned unchanged; "" means neither is
// present.
func encodingName(info renderer.FontInfo) string {
	if info.Dict == nil {
		return ""
	}
	enc := info.Dict.Get("Encoding")
	if name, ok := core.GetName(enc); ok {
		return name.String()
	}
	if dict, ok := core.GetDict(enc); ok {
		if name, ok := core.GetName(dict.Get("BaseEncoding")); ok {
			return name.String()
		}
	}
	return ""
}

// loadToUnicode resolves and parses info's /ToUnicode stream, if any.
func loadToUnicode(doc *renderer.Document, info renderer.FontInfo) *pdfcmap.CMap {
	if info.Dict == nil {
		return nil
	}
	ref, ok := info.Dict.Get("ToUnicode").(*core.PdfObjectReference)
	var obj core.PdfObject
	if ok {
		resolved, err := doc.IndirectObject(int(ref.ObjectNumber))
		if err != nil {
			return nil
		}
		obj = resolved
	} else {
		obj = info.Dict.Get("ToUnicode")
	}
	stream, ok := core.GetStream(obj)
	if !ok {
		return nil
	}
	decoded, err := renderer.DecodeStream(stream)
	if err != nil || len(decoded) == 0 {
		return nil
	}
	return pdfcmap.Parse(decoded)
}
