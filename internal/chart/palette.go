package chart

import (
	"image/color"
	"math"
)

var magmaStops = []color.RGBA{
	{0x00, 0x00, 0x04, 0xff},
	{0x1c, 0x10, 0x44, 0xff},
	{0x4f, 0x12, 0x7b, 0xff},
	{0x81, 0x25, 0x81, 0xff},
	{0xb5, 0x36, 0x7a, 0xff},
	{0xe5, 0x50, 0x64, 0xff},
	{0xfb, 0x87, 0x61, 0xff},
	{0xfe, 0xc2, 0x87, 0xff},
	{0xfc, 0xfd, 0xbf, 0xff},
}

// Magma maps t in [0,1] onto the magma colour scale.
func Magma(t float64) color.RGBA {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(magmaStops)-1)
	i := int(math.Floor(pos))
	if i >= len(magmaStops)-1 {
		return magmaStops[len(magmaStops)-1]
	}
	f := pos - float64(i)
	a, b := magmaStops[i], magmaStops[i+1]
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f)) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// Palette samples n distinct colours from the readable band of the scale,
// skipping the near-black and near-white ends.
func Palette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		t := 0.5
		if n > 1 {
			t = 0.15 + 0.75*float64(i)/float64(n-1)
		}
		out[i] = Magma(t)
	}
	return out
}

// contrast picks black or white text for a fill colour.
func contrast(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 0xffff
	if lum > 0.55 {
		return color.Black
	}
	return color.White
}

func withAlpha(c color.Color, a uint8) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = a
	return n
}
