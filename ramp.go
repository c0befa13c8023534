package rastershade

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Ramp splits [min, max] into steps closed ranges of equal width, each
// with a flat color sampled from stops. Colors between stops are blended in
// HCL space, which keeps perceived lightness even across the ramp; alpha
// is blended linearly. The first band gets the first stop and the last
// band the last stop.
//
// Adjacent bands share their boundary value, which resolves to the upper
// band.
func Ramp(min, max float64, steps int, stops ...Color) ([]Range, error) {
	switch {
	case steps < 1:
		return nil, fmt.Errorf("%w: ramp needs at least one step, got %d", ErrInvalidRange, steps)
	case len(stops) == 0:
		return nil, fmt.Errorf("%w: ramp needs at least one color", ErrInvalidRange)
	case math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) || !(min < max):
		return nil, fmt.Errorf("%w: ramp bounds [%v, %v]", ErrInvalidRange, min, max)
	}

	width := (max - min) / float64(steps)
	ranges := make([]Range, steps)
	for i := range ranges {
		lo := min + float64(i)*width
		hi := min + float64(i+1)*width
		if i == steps-1 {
			hi = max
		}
		t := 0.0
		if steps > 1 {
			t = float64(i) / float64(steps-1)
		}
		ranges[i] = NewRange(lo, hi, Flat{Color: sampleStops(stops, t)})
	}
	return ranges, nil
}

// sampleStops returns the color at t in [0, 1] along evenly spaced stops.
func sampleStops(stops []Color, t float64) Color {
	if len(stops) == 1 || t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	pos := t * float64(len(stops)-1)
	j := int(pos)
	f := pos - float64(j)
	a, b := stops[j], stops[j+1]

	c := toColorful(a).BlendHcl(toColorful(b), f).Clamped()
	return Color{
		R: clampByte(c.R * 255),
		G: clampByte(c.G * 255),
		B: clampByte(c.B * 255),
		A: lerpChannel(a.A, b.A, f),
	}
}

func toColorful(c Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
