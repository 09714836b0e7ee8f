package colorspace

import (
	"fmt"
	"math"
)

// RGB is a display color with 8-bit channels
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the color as a #rrggbb string
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// OklchToSrgb converts a perceptual OKLCH color to an 8-bit sRGB triplet.
// l is lightness in [0,1], c is chroma (typically [0,0.4]), h is hue in
// degrees. Out-of-range inputs are not rejected; the result is clamped
// per channel after gamma encoding.
func OklchToSrgb(l, c, h float64) RGB {
	hr := h * math.Pi / 180
	a := c * math.Cos(hr)
	b := c * math.Sin(hr)

	// OKLab -> non-linear cone responses
	lp := l + 0.3963377774*a + 0.2158037573*b
	mp := l - 0.1055613458*a - 0.0638541728*b
	sp := l - 0.0894841775*a - 1.2914855480*b

	lc := lp * lp * lp
	mc := mp * mp * mp
	sc := sp * sp * sp

	// LMS -> linear RGB
	rl := 4.0767416621*lc - 3.3077115913*mc + 0.2309699292*sc
	gl := -1.2684380046*lc + 2.6097574011*mc - 0.3413193965*sc
	bl := -0.0041960863*lc - 0.7034186147*mc + 1.7076147010*sc

	return RGB{
		R: encodeChannel(rl),
		G: encodeChannel(gl),
		B: encodeChannel(bl),
	}
}

// encodeChannel gamma-encodes a linear value, scales to 8 bits, rounds,
// and clamps. Clamping happens after rounding.
func encodeChannel(x float64) uint8 {
	v := math.Round(255 * linearToSrgb(x))
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// linearToSrgb applies the piecewise sRGB transfer function, preserving sign
func linearToSrgb(x float64) float64 {
	if math.Abs(x) > 0.0031308 {
		s := 1.0
		if x < 0 {
			s = -1.0
		}
		return s * (1.055*math.Pow(math.Abs(x), 1/2.4) - 0.055)
	}
	return 12.92 * x
}
