package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" into a Color.
func ParseColor(hex string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(raw) == 3 {
		raw = string([]byte{raw[0], raw[0], raw[1], raw[1], raw[2], raw[2]})
	}
	if len(raw) == 6 {
		raw += "ff"
	}
	if len(raw) != 8 {
		return Color{}, fmt.Errorf("invalid hex color %q: must be 3, 6 or 8 hex digits", hex)
	}
	var parts [4]uint8
	for i := range parts {
		v, err := strconv.ParseUint(raw[i*2:i*2+2], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		parts[i] = uint8(v)
	}
	return Color{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}, nil
}
