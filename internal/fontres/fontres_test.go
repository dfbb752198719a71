package fontres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidoc/unipdf/v3/core"

	"github.com/Ayush-Nema/EditPDF/internal/renderer"
)

func simpleWinAnsiFont(tag, baseFont string) renderer.FontInfo {
	dict := core.MakeDict()
	dict.Set("Type", core.MakeName("Font"))
	dict.Set("Subtype", core.MakeName("Type1"))
	dict.Set("BaseFont", core.MakeName(baseFont))
	dict.Set("Encoding", core.MakeName("WinAnsiEncoding"))
	return renderer.FontInfo{Tag: tag, BaseFont: baseFont, Subtype: "Type1", Dict: dict}
}

func TestResolvePlainSimpleFontIsDirect(t *testing.T) {
	info := simpleWinAnsiFont("F1", "Helvetica")
	r := &Resolver{fonts: map[string]renderer.FontInfo{"F1": info}, cache: map[string]*Resolution{}}

	res := r.Resolve("F1")
	require.NotNil(t, res)
	assert.Equal(t, ModeDirect, res.Mode)
	assert.Equal(t, "WinAnsiEncoding", res.Encoding)
	assert.False(t, res.IsCID)
	assert.False(t, res.IsSubset)
}

func TestResolveUnknownTagIsSkip(t *testing.T) {
	r := &Resolver{fonts: map[string]renderer.FontInfo{}, cache: map[string]*Resolution{}}
	res := r.Resolve("F9")
	assert.Equal(t, ModeSkip, res.Mode)
}

func TestResolveSubsetFontDetected(t *testing.T) {
	info := simpleWinAnsiFont("F1", "ABCDEF+Arial")
	r := &Resolver{fonts: map[string]renderer.FontInfo{"F1": info}, cache: map[string]*Resolution{}}
	res := r.Resolve("F1")
	assert.True(t, res.IsSubset)
}

func TestResolveSubsetFontWithoutCMapIsSkip(t *testing.T) {
	info := simpleWinAnsiFont("F1", "ABCDEF+Arial")
	r := &Resolver{fonts: map[string]renderer.FontInfo{"F1": info}, cache: map[string]*Resolution{}}
	res := r.Resolve("F1")
	assert.True(t, res.IsSubset)
	assert.Equal(t, ModeSkip, res.Mode)
}

func TestResolvePlainSimpleFontWithToUnicodeIsStillDirect(t *testing.T) {
	cmapBytes := []byte("1 beginbfchar\n<01> <0048>\nendbfchar\n")
	toUnicode, err := core.MakeStream(cmapBytes, nil)
	require.NoError(t, err)

	info := simpleWinAnsiFont("F1", "Helvetica")
	info.Dict.Set("ToUnicode", toUnicode)
	r := &Resolver{fonts: map[string]renderer.FontInfo{"F1": info}, cache: map[string]*Resolution{}}

	res := r.Resolve("F1")
	assert.Equal(t, ModeDirect, res.Mode)
	assert.Equal(t, "WinAnsiEncoding", res.Encoding)
	assert.Nil(t, res.CMap)
}

func TestResolveCIDFontWithoutCMapIsSkip(t *testing.T) {
	dict := core.MakeDict()
	dict.Set("Type", core.MakeName("Font"))
	dict.Set("Subtype", core.MakeName("Type0"))
	dict.Set("BaseFont", core.MakeName("ABCDEF+Arial"))
	info := renderer.FontInfo{Tag: "F1", BaseFont: "ABCDEF+Arial", Subtype: "Type0", Dict: dict}
	r := &Resolver{fonts: map[string]renderer.FontInfo{"F1": info}, cache: map[string]*Resolution{}}

	res := r.Resolve("F1")
	assert.True(t, res.IsCID)
	assert.Equal(t, ModeSkip, res.Mode)
}

func TestResolveFontWithEmbeddedToUnicodeStreamIsCMap(t *testing.T) {
	cmapBytes := []byte("1 beginbfchar\n<01> <0048>\n<02> <0069>\nendbfchar\n")
	toUnicode, err := core.MakeStream(cmapBytes, nil)
	require.NoError(t, err)

	dict := core.MakeDict()
	dict.Set("Type", core.MakeName("Font"))
	dict.Set("Subtype", core.MakeName("Type0"))
	dict.Set("BaseFont", core.MakeName("ABCDEF+Arial"))
	dict.Set("ToUnicode", toUnicode)
	info := renderer.FontInfo{Tag: "F1", BaseFont: "ABCDEF+Arial", Subtype: "Type0", Dict: dict}
	r := &Resolver{fonts: map[string]renderer.FontInfo{"F1": info}, cache: map[string]*Resolution{}}

	res := r.Resolve("F1")
	require.Equal(t, ModeCMap, res.Mode)
	require.NotNil(t, res.CMap)
	assert.Equal(t, "H", res.CMap.Forward[1])
	assert.Equal(t, "i", res.CMap.Forward[2])
}

func TestResolveCachesResultPerTag(t *testing.T) {
	info := simpleWinAnsiFont("F1", "Helvetica")
	r := &Resolver{fonts: map[string]renderer.FontInfo{"F1": info}, cache: map[string]*Resolution{}}
	first := r.Resolve("F1")
	second := r.Resolve("F1")
	assert.Same(t, first, second)
}

func TestHasDifferencesDetected(t *testing.T) {
	encDict := core.MakeDict()
	encDict.Set("Differences", core.MakeArray(core.MakeInteger(32), core.MakeName("space")))
	dict := core.MakeDict()
	dict.Set("Encoding", encDict)
	info := renderer.FontInfo{Tag: "F1", Dict: dict}
	assert.True(t, hasDifferences(info))
}

func TestEncodingNameFromBaseEncodingInDict(t *testing.T) {
	encDict := core.MakeDict()
	encDict.Set("BaseEncoding", core.MakeName("MacRomanEncoding"))
	dict := core.MakeDict()
	dict.Set("Encoding", encDict)
	info := renderer.FontInfo{Tag: "F1", Dict: dict}
	assert.Equal(t, "MacRomanEncoding", encodingName(info))
}
