package rastershade

import "errors"

// Configuration errors. They are returned before any pixel is written.
var (
	// ErrNoRanges is returned when a classification has no ranges.
	ErrNoRanges = errors.New("rastershade: classification has no ranges")

	// ErrInvalidRange is returned for a range with a missing fill, an
	// unknown gradient model or a minimum above its maximum.
	ErrInvalidRange = errors.New("rastershade: invalid classification range")

	// ErrNilSymbolizer is returned when Render is called without a symbolizer.
	ErrNilSymbolizer = errors.New("rastershade: nil symbolizer")

	// ErrInvalidGrid is returned by NewGrid for non-positive dimensions or
	// a data slice of the wrong length.
	ErrInvalidGrid = errors.New("rastershade: invalid grid")

	// ErrUnsupportedSource is returned for a Source that is neither a Grid
	// nor a DynamicSource.
	ErrUnsupportedSource = errors.New("rastershade: unsupported raster source")

	// ErrInvalidBuffer is returned for a pixel buffer whose stride or length
	// cannot hold its declared dimensions.
	ErrInvalidBuffer = errors.New("rastershade: invalid pixel buffer")

	// ErrDimensionMismatch is returned when the pixel buffer and the raster
	// do not have the same width and height.
	ErrDimensionMismatch = errors.New("rastershade: buffer and raster dimensions differ")

	// ErrDegenerateAffine is returned when relief is requested for a raster
	// whose transform has no finite, non-zero determinant.
	ErrDegenerateAffine = errors.New("rastershade: degenerate affine transform")
)

// ErrUnsupportedValue is reported for a dynamic cell value that cannot be
// converted to a number. It aborts compositing at the row where it occurs.
var ErrUnsupportedValue = errors.New("rastershade: unsupported cell value")
