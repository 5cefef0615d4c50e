package webmap

import (
	"fmt"
	"strings"
)

// scaleAnchors is the diverging ramp for the rate markers, blue for low
// values through yellow to red for high.
var scaleAnchors = []string{
	"#4575b4", "#91bfdb", "#e0f3f8", "#ffffbf", "#fee090", "#fc8d59", "#d73027",
}

// scaleColor maps a value in [lo, hi] onto the diverging ramp, interpolating
// linearly between neighboring anchors.
func scaleColor(v, lo, hi float64) string {
	t := 0.0
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	pos := t * float64(len(scaleAnchors)-1)
	i := int(pos)
	if i >= len(scaleAnchors)-1 {
		return scaleAnchors[len(scaleAnchors)-1]
	}
	frac := pos - float64(i)

	a, b := hexRGB(scaleAnchors[i]), hexRGB(scaleAnchors[i+1])
	lerp := func(x, y int) int { return x + int(frac*float64(y-x)) }
	return fmt.Sprintf("#%02x%02x%02x", lerp(a[0], b[0]), lerp(a[1], b[1]), lerp(a[2], b[2]))
}

// gradientCSS renders the legend bar background.
func gradientCSS() string {
	return "linear-gradient(to right, " + strings.Join(scaleAnchors, ", ") + ")"
}

func hexRGB(s string) [3]int {
	var out [3]int
	fmt.Sscanf(s, "#%02x%02x%02x", &out[0], &out[1], &out[2])
	return out
}
