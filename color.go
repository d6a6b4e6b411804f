package glshade

import (
	"image/color"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms1"
)

// ColorRGBa is a linear color with straight (non-premultiplied) alpha.
// It is the host side representation of a vec4 color uniform.
type ColorRGBa struct {
	R, G, B, A float32
}

var (
	White       = ColorRGBa{R: 1, G: 1, B: 1, A: 1}
	Black       = ColorRGBa{A: 1}
	Transparent = ColorRGBa{}
)

// RGB returns an opaque color.
func RGB(r, g, b float32) ColorRGBa {
	return ColorRGBa{R: r, G: g, B: b, A: 1}
}

// FromColor converts a [color.Color] to a ColorRGBa, undoing the alpha
// premultiplication of the standard library color model.
func FromColor(c color.Color) ColorRGBa {
	switch v := c.(type) {
	case ColorRGBa:
		return v
	case *ColorRGBa:
		return *v
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return ColorRGBa{}
	}
	fa := float32(a)
	return ColorRGBa{
		R: float32(r) / fa,
		G: float32(g) / fa,
		B: float32(b) / fa,
		A: fa / math.MaxUint16,
	}
}

// RGBA implements [color.Color]. Components are clamped to [0, 1].
func (c ColorRGBa) RGBA() (r, g, b, a uint32) {
	p := c.Clamped().Premultiplied()
	return uint32(p.R * math.MaxUint16), uint32(p.G * math.MaxUint16),
		uint32(p.B * math.MaxUint16), uint32(p.A * math.MaxUint16)
}

// Array returns the components in r,g,b,a order as expected by a vec4 uniform.
func (c ColorRGBa) Array() [4]float32 { return [4]float32{c.R, c.G, c.B, c.A} }

// Premultiplied returns the color with rgb multiplied by alpha.
func (c ColorRGBa) Premultiplied() ColorRGBa {
	return ColorRGBa{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Clamped returns the color with all components clamped to [0, 1].
func (c ColorRGBa) Clamped() ColorRGBa {
	return ColorRGBa{
		R: ms1.Clamp(c.R, 0, 1),
		G: ms1.Clamp(c.G, 0, 1),
		B: ms1.Clamp(c.B, 0, 1),
		A: ms1.Clamp(c.A, 0, 1),
	}
}

// Opacify returns the color with alpha multiplied by f.
func (c ColorRGBa) Opacify(f float32) ColorRGBa {
	c.A *= f
	return c
}

// Shade returns the color with rgb multiplied by f.
func (c ColorRGBa) Shade(f float32) ColorRGBa {
	return ColorRGBa{R: c.R * f, G: c.G * f, B: c.B * f, A: c.A}
}

// Mix linearly interpolates between c and other, like GLSL's mix.
func (c ColorRGBa) Mix(other ColorRGBa, t float32) ColorRGBa {
	return ColorRGBa{
		R: ms1.Interp(c.R, other.R, t),
		G: ms1.Interp(c.G, other.G, t),
		B: ms1.Interp(c.B, other.B, t),
		A: ms1.Interp(c.A, other.A, t),
	}
}

// MixHSV interpolates between c and other along the shortest hue path.
// Alpha is interpolated linearly.
func (c ColorRGBa) MixHSV(other ColorRGBa, t float32) ColorRGBa {
	h0, s0, v0 := c.HSV()
	h1, s1, v1 := other.HSV()
	switch {
	case h1-h0 > 0.5:
		h0 += 1.0
	case h1-h0 < -0.5:
		h1 += 1.0
	}
	h := ms1.Interp(h0, h1, t)
	if h > 1 {
		h -= 1
	}
	mixed := FromHSV(h, ms1.Interp(s0, s1, t), ms1.Interp(v0, v1, t))
	mixed.A = ms1.Interp(c.A, other.A, t)
	return mixed
}

// HSV returns hue, saturation and value of the color on the range [0, 1].
func (c ColorRGBa) HSV() (h, s, v float32) {
	r, g, b := c.R, c.G, c.B
	var (
		xmax = max(r, g, b)
		xmin = min(r, g, b)
		d    = xmax - xmin
	)
	v = xmax
	switch {
	case d == 0:
		h = 0
	case v == r:
		h = (g - b) / (d * 6)
	case v == g:
		h = 1.0/3 + (b-r)/(d*6)
	case v == b:
		h = 2.0/3 + (r-g)/(d*6)
	}
	if h < 0 {
		h += 1
	}
	if xmax > 0 {
		s = d / xmax
	}
	return h, s, v
}

// FromHSV returns an opaque color from hue, saturation and value on the range [0, 1].
func FromHSV(h, s, v float32) ColorRGBa {
	var (
		c       = s * v
		x       = c * (1 - math.Abs(math.Mod(h*6, 2)-1))
		m       = v - c
		r, g, b float32
	)
	switch {
	case h >= 0 && h <= 1.0/6:
		r, g, b = c, x, 0
	case h > 1.0/6 && h <= 2.0/6:
		r, g, b = x, c, 0
	case h > 2.0/6 && h <= 3.0/6:
		r, g, b = 0, c, x
	case h > 3.0/6 && h <= 4.0/6:
		r, g, b = 0, x, c
	case h > 4.0/6 && h <= 5.0/6:
		r, g, b = x, 0, c
	case h > 5.0/6 && h <= 1.0:
		r, g, b = c, 0, x
	}
	return ColorRGBa{R: r + m, G: g + m, B: b + m, A: 1}
}
