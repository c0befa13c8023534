package rastershade

import (
	"fmt"
	"image/color"
	"math"
)

// Color is an 8-bit per channel, non-premultiplied color.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Transparent = Color{}
	Black       = Color{A: 255}
	White       = Color{R: 255, G: 255, B: 255, A: 255}
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color from red, green, blue and alpha components.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ARGB creates a color from alpha, red, green and blue components.
func ARGB(a, r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Hex creates a color from a hex string, returning opaque black for
// malformed input. Supports "RGB", "RGBA", "RRGGBB" and "RRGGBBAA" with an
// optional leading '#'.
func Hex(hex string) Color {
	c, err := ParseHex(hex)
	if err != nil {
		return Black
	}
	return c
}

// ParseHex is like Hex but reports malformed input.
func ParseHex(hex string) (Color, error) {
	s := hex
	if s != "" && s[0] == '#' {
		s = s[1:]
	}

	var r, g, b uint32
	a := uint32(255)
	ok := true

	switch len(s) {
	case 3:
		ok = parseHex(s[0:1], &r) && parseHex(s[1:2], &g) && parseHex(s[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		ok = parseHex(s[0:1], &r) && parseHex(s[1:2], &g) && parseHex(s[2:3], &b) && parseHex(s[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		ok = parseHex(s[0:2], &r) && parseHex(s[2:4], &g) && parseHex(s[4:6], &b)
	case 8:
		ok = parseHex(s[0:2], &r) && parseHex(s[2:4], &g) && parseHex(s[4:6], &b) && parseHex(s[6:8], &a)
	default:
		ok = false
	}
	if !ok {
		return Black, fmt.Errorf("rastershade: malformed hex color %q", hex)
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, nil
}

func parseHex(s string, val *uint32) bool {
	*val = 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		*val *= 16
		switch {
		case '0' <= c && c <= '9':
			*val += uint32(c - '0')
		case 'a' <= c && c <= 'f':
			*val += uint32(c - 'a' + 10)
		case 'A' <= c && c <= 'F':
			*val += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}

// String formats the color as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// NRGBA converts the color to the standard library representation.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// FromColor converts any color.Color to a non-premultiplied Color.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}

// Lerp interpolates every channel, alpha included, from c towards high.
// Each channel is clamp(c + (high-c)*p, 0, 255) rounded half to even.
func (c Color) Lerp(high Color, p float64) Color {
	return Color{
		R: lerpChannel(c.R, high.R, p),
		G: lerpChannel(c.G, high.G, p),
		B: lerpChannel(c.B, high.B, p),
		A: lerpChannel(c.A, high.A, p),
	}
}

// Scale multiplies the red, green and blue channels by intensity, clamping
// each to [0, 255]. Alpha is kept.
func (c Color) Scale(intensity float64) Color {
	return Color{
		R: clampByte(float64(c.R) * intensity),
		G: clampByte(float64(c.G) * intensity),
		B: clampByte(float64(c.B) * intensity),
		A: c.A,
	}
}

// PutBGRA writes the color into dst[0:4] in B, G, R, A order.
func (c Color) PutBGRA(dst []byte) {
	_ = dst[3]
	dst[0] = c.B
	dst[1] = c.G
	dst[2] = c.R
	dst[3] = c.A
}

// ColorFromBGRA reads a color from src[0:4] stored in B, G, R, A order.
func ColorFromBGRA(src []byte) Color {
	_ = src[3]
	return Color{B: src[0], G: src[1], R: src[2], A: src[3]}
}

func lerpChannel(lo, hi uint8, p float64) uint8 {
	return clampByte(float64(lo) + (float64(hi)-float64(lo))*p)
}

// clampByte rounds half to even and restricts the result to [0, 255].
// NaN maps to 0.
func clampByte(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
