package rastershade

import (
	"fmt"
	"math"
)

// Affine maps raster cell coordinates to geographic coordinates.
// The six coefficients follow the GDAL geotransform layout:
//
//	x = c0 + c1*col + c2*row
//	y = c3 + c4*col + c5*row
type Affine [6]float64

// IdentityAffine maps (col, row) to (x, y) = (col, row).
var IdentityAffine = Affine{0, 1, 0, 0, 0, 1}

// NorthUp returns the transform of an unrotated raster whose top-left
// corner is at (originX, originY) with square or rectangular cells.
// Rows grow southwards, so the row coefficient is -cellHeight.
func NorthUp(originX, originY, cellWidth, cellHeight float64) Affine {
	return Affine{originX, cellWidth, 0, originY, 0, -cellHeight}
}

// Apply transforms a cell coordinate to a geographic coordinate.
func (a Affine) Apply(col, row float64) (x, y float64) {
	x = a[0] + a[1]*col + a[2]*row
	y = a[3] + a[4]*col + a[5]*row
	return x, y
}

// IsDegenerate reports whether the transform collapses the grid onto a line
// or a point, in which case no surface normal can be estimated. A
// transform with a non-finite determinant is degenerate too.
func (a Affine) IsDegenerate() bool {
	det := a[1]*a[5] - a[2]*a[4]
	return det == 0 || math.IsNaN(det) || math.IsInf(det, 0)
}

// checkRelief rejects a transform the hillshade cannot use.
func checkRelief(aff Affine) error {
	if aff.IsDegenerate() {
		return fmt.Errorf("%w: %v", ErrDegenerateAffine, [6]float64(aff))
	}
	return nil
}
