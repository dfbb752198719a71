package imageops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampWithinRange(t *testing.T) {
	assert.Equal(t, 5.0, clamp(5, 0, 10))
}

func TestClampBelowLowerBound(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-5, 0, 10))
}

func TestClampAboveUpperBound(t *testing.T) {
	assert.Equal(t, 10.0, clamp(15, 0, 10))
}

func TestClampInvertedBoundsPinsToLow(t *testing.T) {
	// hi < lo happens when an image is wider than the page itself; clamp
	// degenerates to the lower bound rather than producing a negative span.
	assert.Equal(t, 3.0, clamp(100, 3, -2))
}
