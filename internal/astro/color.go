package astro

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a normalized color with each channel in [0, 1].
type RGB struct {
	R, G, B float64
}

// Hex returns the color as a #rrggbb string.
func (c RGB) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// White is returned for stars without a usable color index.
var White = RGB{R: 1, G: 1, B: 1}

// colorStop anchors a B-V color index to a perceived star color.
type colorStop struct {
	bv  float64
	col colorful.Color
}

func rgb8(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// starColors follows the blackbody colors of main-sequence stars,
// from hot O/B (blue) through G (yellow-white) to M (orange-red).
var starColors = []colorStop{
	{-0.40, rgb8(155, 176, 255)},
	{-0.20, rgb8(170, 191, 255)},
	{0.00, rgb8(202, 215, 255)},
	{0.30, rgb8(237, 238, 255)},
	{0.65, rgb8(255, 244, 234)},
	{1.00, rgb8(255, 210, 161)},
	{1.40, rgb8(255, 187, 123)},
	{2.00, rgb8(255, 160, 78)},
}

// ColorIndexToRGB maps a B-V color index to a star color. Indices outside
// the table are clamped to its ends; the curve is continuous, blending
// neighbouring stops in CIE L*a*b* space. NaN yields White.
func ColorIndexToRGB(bv float64) RGB {
	if math.IsNaN(bv) {
		return White
	}

	first, last := starColors[0], starColors[len(starColors)-1]
	var c colorful.Color
	switch {
	case bv <= first.bv:
		c = first.col
	case bv >= last.bv:
		c = last.col
	default:
		for i := 1; i < len(starColors); i++ {
			hi := starColors[i]
			if bv > hi.bv {
				continue
			}
			lo := starColors[i-1]
			t := (bv - lo.bv) / (hi.bv - lo.bv)
			c = lo.col.BlendLab(hi.col, t)
			break
		}
	}

	c = c.Clamped()
	return RGB{R: c.R, G: c.G, B: c.B}
}

// ColorTemperature estimates the effective temperature (K) of a star from
// its B-V index using the Ballesteros blackbody approximation.
func ColorTemperature(bv float64) float64 {
	if math.IsNaN(bv) {
		return math.NaN()
	}
	bv = clamp(bv, starColors[0].bv, starColors[len(starColors)-1].bv)
	return 4600 * (1/(0.92*bv+1.7) + 1/(0.92*bv+0.62))
}
