package base14

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePlainHelvetica(t *testing.T) {
	assert.Equal(t, Family("helv"), Normalize("Helvetica"))
}

func TestNormalizeArialMapsToHelv(t *testing.T) {
	assert.Equal(t, Family("helv"), Normalize("Arial"))
}

func TestNormalizeBoldVariant(t *testing.T) {
	assert.Equal(t, Family("hebo"), Normalize("Arial-Bold"))
}

func TestNormalizeItalicVariant(t *testing.T) {
	assert.Equal(t, Family("heit"), Normalize("Arial-Italic"))
}

func TestNormalizeBoldItalicVariant(t *testing.T) {
	assert.Equal(t, Family("hebi"), Normalize("Arial-BoldItalic"))
}

func TestNormalizeTimes(t *testing.T) {
	assert.Equal(t, Family("tibo"), Normalize("TimesNewRoman-Bold"))
}

func TestNormalizeCourier(t *testing.T) {
	assert.Equal(t, Family("cour"), Normalize("CourierNewPSMT"))
}

func TestNormalizeSubsetPrefixStripped(t *testing.T) {
	assert.Equal(t, Family("helv"), Normalize("ABCDEF+Arial"))
}

func TestNormalizeSymbolHasNoStyleVariant(t *testing.T) {
	assert.Equal(t, Family("symb"), Normalize("Symbol-Bold"))
}

func TestNormalizeUnknownFontFallsBackToHelveticaOrStyledGuess(t *testing.T) {
	assert.Equal(t, Family("helv"), Normalize("SomeCustomFont"))
	assert.Equal(t, Family("hebo"), Normalize("SomeCustomFont-Bold"))
	assert.Equal(t, Family("heit"), Normalize("SomeCustomFont-Italic"))
}

func TestNewFontBuildsEveryResolvedFamily(t *testing.T) {
	for _, fam := range []Family{"helv", "hebo", "heit", "hebi", "tiro", "tibo", "tiit", "tibi", "cour", "cobo", "coit", "cobi", "symb", "zadb"} {
		font, err := NewFont(fam)
		require.NoError(t, err, "family %s", fam)
		assert.NotNil(t, font)
	}
}

func TestNewFontUnknownFamilyFallsBackToHelvetica(t *testing.T) {
	font, err := NewFont(Family("bogus"))
	require.NoError(t, err)
	assert.NotNil(t, font)
}
