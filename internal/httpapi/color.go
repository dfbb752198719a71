package httpapi

import (
	"fmt"
)

// parseColor decodes a "#rrggbb" string into 0..1 RGB floats (spec.md §3
// "color (hex #rrggbb)").
func parseColor(hexStr string) ([3]float64, error) {
	var out [3]float64
	if len(hexStr) != 7 || hexStr[0] != '#' {
		return out, fmt.Errorf("httpapi: invalid color %q", hexStr)
	}
	var r, g, b int
	if _, err := fmt.Sscanf(hexStr[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return out, fmt.Errorf("httpapi: invalid color %q: %w", hexStr, err)
	}
	return [3]float64{float64(r) / 255, float64(g) / 255, float64(b) / 255}, nil
}

// parseColorPtr decodes an optional "#rrggbb" pointer, returning nil when
// hexStr is nil.
func parseColorPtr(hexStr *string) (*[3]float64, error) {
	if hexStr == nil {
		return nil, nil
	}
	c, err := parseColor(*hexStr)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// hexColor formats an RGB triple (0..1) back into "#rrggbb".
func hexColor(c [3]float64) string {
	return fmt.Sprintf("#%02x%02x%02x", clamp255(c[0]), clamp255(c[1]), clamp255(c[2]))
}

func clamp255(v float64) int {
	i := int(v*255 + 0.5)
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return i
}
