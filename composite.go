package rastershade

// Symbolizer is the complete drawing configuration of one raster layer:
// the classification, no-data color, opacity, relief and smoothing.
//
// A Symbolizer is read-only while a render is running and may be shared by
// concurrent renders of the same raster.
type Symbolizer struct {
	Classifier  *Classifier
	NoDataColor Color
	// Opacity in [0, 1] sets the alpha of classified pixels when relief
	// shading is off.
	Opacity float64
	Relief  Relief
	// Shades caches hillshade grids for this layer's raster. If nil, the
	// grid is recomputed on every render with relief enabled.
	Shades *ShadeCache

	Smooth        bool
	SmoothOptions SmoothOptions
}

// NewSymbolizer returns a fully opaque symbolizer for ranges with a
// transparent no-data color, default (disabled) relief, a shade cache and
// smoothing off.
func NewSymbolizer(ranges []Range) (*Symbolizer, error) {
	c, err := NewClassifier(ranges)
	if err != nil {
		return nil, err
	}
	return &Symbolizer{
		Classifier:    c,
		NoDataColor:   Transparent,
		Opacity:       1,
		Relief:        DefaultRelief(),
		Shades:        NewShadeCache(0),
		SmoothOptions: DefaultSmoothOptions(),
	}, nil
}

// OpacityAlpha converts an opacity in [0, 1] to an alpha byte:
// clamp(opacity*255, 0, 255) rounded half to even, so 0.5 gives 128.
func OpacityAlpha(opacity float64) uint8 {
	return clampByte(opacity * 255)
}

// CompositeRow writes one row of BGRA pixels into dst.
//
// vals and nodata hold the row's cell values and no-data flags; shade holds
// the row's hillshade intensities, or nil. For every column:
//
//   - a no-data cell gets NoDataColor, regardless of ranges or relief;
//   - with relief, an unshaded cell (-1 or NaN) gets NoDataColor, whether
//     or not a range contains its value;
//   - a value no range contains stays fully transparent;
//   - without relief, the classified color gets the opacity alpha;
//   - with relief, the classified RGB is multiplied by the intensity and the
//     classified alpha is kept.
//
// The alpha difference between the two paths is long-standing behavior
// that renders depend on.
func (s *Symbolizer) CompositeRow(dst []byte, vals []float64, nodata []bool, shade []float32) {
	shaded := s.Relief.Used && shade != nil
	alpha := OpacityAlpha(s.Opacity)

	for col, v := range vals {
		px := dst[col*4 : col*4+4]
		if nodata[col] {
			s.NoDataColor.PutBGRA(px)
			continue
		}

		if shaded && !IsShaded(shade[col]) {
			s.NoDataColor.PutBGRA(px)
			continue
		}

		c, ok := s.Classifier.Lookup(v)
		if !ok {
			Transparent.PutBGRA(px)
			continue
		}

		if shaded {
			c = c.Scale(float64(shade[col]))
		} else {
			c.A = alpha
		}
		c.PutBGRA(px)
	}
}
