package rastershade

import (
	"fmt"
	"math"
	"strings"
)

// GradientModel selects how a value's position inside a range is turned
// into the interpolation fraction between the low and high colors.
type GradientModel int

const (
	// Linear interpolates proportionally to the value.
	Linear GradientModel = iota
	// Exponential interpolates by the squared fraction.
	Exponential
	// Logarithmic interpolates by the log of the offset over the log of the width.
	Logarithmic
)

// String returns the lower-case model name.
func (m GradientModel) String() string {
	switch m {
	case Linear:
		return "linear"
	case Exponential:
		return "exponential"
	case Logarithmic:
		return "logarithmic"
	}
	return fmt.Sprintf("GradientModel(%d)", int(m))
}

// ParseGradientModel parses a model name case-insensitively.
func ParseGradientModel(s string) (GradientModel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "":
		return Linear, nil
	case "exponential":
		return Exponential, nil
	case "logarithmic":
		return Logarithmic, nil
	}
	return Linear, fmt.Errorf("%w: unknown gradient model %q", ErrInvalidRange, s)
}

// Fill is the color rule of a range: either Flat or Gradient.
type Fill interface {
	isFill()
}

// Flat paints every value of a range with one color.
type Flat struct {
	Color Color
}

// Gradient blends from Low at the range minimum to High at its maximum.
type Gradient struct {
	Low, High Color
	Model     GradientModel
}

func (Flat) isFill()     {}
func (Gradient) isFill() {}

// Bound is an optional range limit. The zero Bound is unbounded.
type Bound struct {
	Value float64
	Set   bool
}

// Unbounded is the missing limit.
var Unbounded = Bound{}

// At returns a bound set to v.
func At(v float64) Bound {
	return Bound{Value: v, Set: true}
}

// Range is one classification break.
type Range struct {
	Min, Max     Bound
	MinInclusive bool
	MaxInclusive bool
	Fill         Fill
}

// NewRange returns the closed range [min, max].
func NewRange(min, max float64, fill Fill) Range {
	return Range{
		Min:          At(min),
		Max:          At(max),
		MinInclusive: true,
		MaxInclusive: true,
		Fill:         fill,
	}
}

// Contains reports whether v lies inside the range. A range without bounds
// contains everything. NaN is outside any bounded range.
func (r Range) Contains(v float64) bool {
	if r.Min.Set {
		if r.MinInclusive {
			if !(v >= r.Min.Value) {
				return false
			}
		} else if !(v > r.Min.Value) {
			return false
		}
	}
	if r.Max.Set {
		if r.MaxInclusive {
			if !(v <= r.Max.Value) {
				return false
			}
		} else if !(v < r.Max.Value) {
			return false
		}
	}
	return true
}

// Color resolves v against the range's fill. It does not check containment.
func (r Range) Color(v float64) Color {
	switch f := r.Fill.(type) {
	case Flat:
		return f.Color
	case Gradient:
		p, ok := r.fraction(v, f.Model)
		if !ok {
			return f.Low
		}
		return f.Low.Lerp(f.High, p)
	}
	return Transparent
}

// fraction computes the interpolation fraction of v. It reports false when
// the model cannot interpolate and the low color applies.
func (r Range) fraction(v float64, model GradientModel) (float64, bool) {
	if !r.Min.Set || !r.Max.Set {
		return 0, false
	}
	lo := r.Min.Value
	width := r.Max.Value - lo

	switch model {
	case Linear:
		if width == 0 {
			return 0, false
		}
		return (v - lo) / width, true
	case Exponential:
		ht := math.Max(v, 1)
		if width > 1 {
			return (ht - lo) * (ht - lo) / (width * width), true
		}
	case Logarithmic:
		ht := math.Max(v, 1)
		if width > 1 && ht-lo > 1 {
			return math.Log(ht-lo) / math.Log(width), true
		}
	}
	return 0, false
}

func (r Range) validate() error {
	switch f := r.Fill.(type) {
	case Flat:
	case Gradient:
		if f.Model < Linear || f.Model > Logarithmic {
			return fmt.Errorf("%w: %v", ErrInvalidRange, f.Model)
		}
	case nil:
		return fmt.Errorf("%w: missing fill", ErrInvalidRange)
	default:
		return fmt.Errorf("%w: unknown fill %T", ErrInvalidRange, f)
	}
	if r.Min.Set && r.Max.Set && r.Min.Value > r.Max.Value {
		return fmt.Errorf("%w: minimum %v above maximum %v", ErrInvalidRange, r.Min.Value, r.Max.Value)
	}
	return nil
}

// Classifier resolves raster values to colors. Ranges are evaluated so that
// the last declared range containing a value wins, the way a stack of
// classes drawn in order would overwrite each other.
//
// A Classifier is immutable and safe for concurrent use.
type Classifier struct {
	// reversed holds the ranges in reverse declaration order.
	reversed []Range
}

// NewClassifier validates ranges and prepares them for lookup.
func NewClassifier(ranges []Range) (*Classifier, error) {
	if len(ranges) == 0 {
		return nil, ErrNoRanges
	}
	reversed := make([]Range, len(ranges))
	for i, r := range ranges {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("range %d: %w", i, err)
		}
		reversed[len(ranges)-1-i] = r
	}
	return &Classifier{reversed: reversed}, nil
}

// Resolve returns the color of v, or Transparent when no range contains it.
func (c *Classifier) Resolve(v float64) Color {
	col, _ := c.Lookup(v)
	return col
}

// Lookup is like Resolve but also reports whether a range matched.
func (c *Classifier) Lookup(v float64) (Color, bool) {
	for i := range c.reversed {
		if c.reversed[i].Contains(v) {
			return c.reversed[i].Color(v), true
		}
	}
	return Transparent, false
}

// Ranges returns a copy of the ranges in declaration order.
func (c *Classifier) Ranges() []Range {
	out := make([]Range, len(c.reversed))
	for i, r := range c.reversed {
		out[len(c.reversed)-1-i] = r
	}
	return out
}

// Len returns the number of ranges.
func (c *Classifier) Len() int {
	return len(c.reversed)
}
