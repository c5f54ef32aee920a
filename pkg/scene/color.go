package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taigrr/softrast/pkg/render"
)

// ParseColor parses an "R,G,B" triple of 0-255 integers.
func ParseColor(s string) (render.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return render.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return render.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		rgb[i] = uint8(v)
	}
	return render.RGB(rgb[0], rgb[1], rgb[2]), nil
}
