package render

import (
	"image/color"

	"github.com/rotisserie/eris"
)

// redsRamp holds the 9-class sequential Reds anchors; univariate fills
// interpolate linearly between neighboring anchors.
var redsRamp = []string{
	"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a",
	"#ef3b2c", "#cb181d", "#a50f15", "#67000d",
}

// bivariatePalette is the 3x3 joint-class palette, indexed by
// class2*3 + class1. Row order runs low to high on the second variable.
var bivariatePalette = []string{
	"#e8e8e8", "#ace4e4", "#5ac8c8",
	"#dfb0d6", "#a5add3", "#5698b9",
	"#be64ac", "#8c62aa", "#3b4994",
}

// missingFill marks districts without data for the colored variable.
var missingFill = color.RGBA{R: 0xd9, G: 0xd9, B: 0xd9, A: 0xff}

func parseHex(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, eris.Errorf("render: bad hex color %q", s)
	}
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(s[1+2*i])
		lo, ok2 := hexDigit(s[2+2*i])
		if !ok1 || !ok2 {
			return color.RGBA{}, eris.Errorf("render: bad hex color %q", s)
		}
		rgb[i] = hi<<4 | lo
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func mustHex(s string) color.RGBA {
	c, err := parseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// rampColor interpolates the Reds ramp at t in [0, 1].
func rampColor(t float64) color.RGBA {
	if t <= 0 {
		return mustHex(redsRamp[0])
	}
	if t >= 1 {
		return mustHex(redsRamp[len(redsRamp)-1])
	}
	pos := t * float64(len(redsRamp)-1)
	lo := int(pos)
	frac := pos - float64(lo)
	a := mustHex(redsRamp[lo])
	b := mustHex(redsRamp[lo+1])
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + frac*(float64(y)-float64(x)))
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 0xff}
}

// bivariateColor returns the fill for a joint class in [0, 9).
func bivariateColor(joint int) (color.RGBA, error) {
	if joint < 0 || joint >= len(bivariatePalette) {
		return color.RGBA{}, eris.Errorf("render: joint class %d out of range", joint)
	}
	return parseHex(bivariatePalette[joint])
}
