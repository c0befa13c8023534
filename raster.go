package rastershade

import (
	"fmt"
	"math"
	"reflect"
)

// Number is the set of cell representations served by the typed fast path.
type Number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~float32 | ~float64
}

// Kind identifies the numeric representation of raster cells.
type Kind int

const (
	// KindDynamic marks a source read through DynamicSource.Value.
	KindDynamic Kind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindFloat32
	KindFloat64
)

var kindNames = [...]string{
	KindDynamic: "dynamic",
	KindInt8:    "int8",
	KindUint8:   "uint8",
	KindInt16:   "int16",
	KindUint16:  "uint16",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindFloat32: "float32",
	KindFloat64: "float64",
}

// String returns the Go name of the representation.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Source is a read-only raster cell grid owned by the caller.
// It must not change while a render or hillshade computation is running.
type Source interface {
	Rows() int
	Cols() int
	// NoData is the sentinel marking cells without a valid measurement.
	NoData() float64
	// Affine maps (col, row) to geographic (x, y).
	Affine() Affine
}

// DynamicSource is the slow path for cell representations Grid does not
// cover. Value returns a boxed number: any Go integer or float kind, or a
// value with a Float64() (float64, error) method.
type DynamicSource interface {
	Source
	Value(row, col int) any
}

// Grid is a row-major raster of a single numeric kind.
type Grid[T Number] struct {
	rows, cols int
	data       []T
	noData     float64
	affine     Affine
}

// NewGrid wraps data as a rows×cols raster. The slice is not copied.
func NewGrid[T Number](rows, cols int, data []T, noData float64, affine Affine) (*Grid[T], error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidGrid, rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d cells", ErrInvalidGrid, len(data), rows, cols)
	}
	return &Grid[T]{rows: rows, cols: cols, data: data, noData: noData, affine: affine}, nil
}

// Rows returns the number of rows.
func (g *Grid[T]) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid[T]) Cols() int { return g.cols }

// NoData returns the no-data sentinel.
func (g *Grid[T]) NoData() float64 { return g.noData }

// Affine returns the cell-to-geographic transform.
func (g *Grid[T]) Affine() Affine { return g.affine }

// At returns the value of a cell.
func (g *Grid[T]) At(row, col int) T { return g.data[row*g.cols+col] }

// Row returns the cells of one row. The slice aliases the grid data.
func (g *Grid[T]) Row(row int) []T {
	i := row * g.cols
	return g.data[i : i+g.cols]
}

// Value returns the boxed value of a cell.
func (g *Grid[T]) Value(row, col int) any { return g.At(row, col) }

// typedSource is implemented by every Grid instantiation, including grids
// over named numeric types.
type typedSource interface {
	typedAccessor() *accessor
}

func (g *Grid[T]) typedAccessor() *accessor {
	return gridAccessor(g, kindOf[T]())
}

// kindOf returns the representation underlying T.
func kindOf[T Number]() Kind {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Int8:
		return KindInt8
	case reflect.Uint8:
		return KindUint8
	case reflect.Int16:
		return KindInt16
	case reflect.Uint16:
		return KindUint16
	case reflect.Int32:
		return KindInt32
	case reflect.Uint32:
		return KindUint32
	case reflect.Int64:
		return KindInt64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	}
	return KindDynamic
}

// rowReader fills vals and nodata for one raster row.
type rowReader func(row int, vals []float64, nodata []bool) error

// accessor is the kind-independent view of a Source used by the pixel loops.
type accessor struct {
	rows, cols int
	kind       Kind
	read       rowReader
}

// newAccessor dispatches a Source to the typed fast path or the dynamic
// slow path.
func newAccessor(src Source) (*accessor, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrUnsupportedSource)
	}
	switch g := src.(type) {
	case typedSource:
		return g.typedAccessor(), nil
	case DynamicSource:
		return dynamicAccessor(g), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedSource, src)
}

func gridAccessor[T Number](g *Grid[T], kind Kind) *accessor {
	nd, ok := noDataAs[T](g.noData)
	if !ok {
		Logger().Warn("rastershade: no-data value not representable in cell kind; no cell will match it",
			"nodata", g.noData, "kind", kind)
	}
	return &accessor{
		rows: g.rows,
		cols: g.cols,
		kind: kind,
		read: func(row int, vals []float64, nodata []bool) error {
			for col, v := range g.Row(row) {
				vals[col] = float64(v)
				nodata[col] = ok && v == nd
			}
			return nil
		},
	}
}

// noDataAs converts the no-data sentinel into the cell kind. It reports
// false when the value does not survive the round trip, e.g. -9999 for
// uint8 cells or NaN for integer cells.
func noDataAs[T Number](nd float64) (T, bool) {
	var zero T
	switch kindOf[T]() {
	case KindFloat32, KindFloat64:
		return T(nd), true
	}
	if math.IsNaN(nd) || math.IsInf(nd, 0) || nd != math.Trunc(nd) {
		return zero, false
	}
	if !fitsInteger[T](nd) {
		return zero, false
	}
	v := T(nd)
	return v, float64(v) == nd
}

// fitsInteger reports whether nd lies inside the range of the integer
// kind underlying T. Converting an out-of-range float to an integer is
// implementation-defined in Go, so the range is checked first.
func fitsInteger[T Number](nd float64) bool {
	var lo, hi float64
	switch kindOf[T]() {
	case KindInt8:
		lo, hi = math.MinInt8, math.MaxInt8
	case KindUint8:
		lo, hi = 0, math.MaxUint8
	case KindInt16:
		lo, hi = math.MinInt16, math.MaxInt16
	case KindUint16:
		lo, hi = 0, math.MaxUint16
	case KindInt32:
		lo, hi = math.MinInt32, math.MaxInt32
	case KindUint32:
		lo, hi = 0, math.MaxUint32
	case KindInt64:
		// float64(MaxInt64) rounds up to 2^63, which is out of range.
		return nd >= math.MinInt64 && nd < math.MaxInt64
	default:
		return false
	}
	return nd >= lo && nd <= hi
}

func dynamicAccessor(src DynamicSource) *accessor {
	nd := src.NoData()
	nd32 := float32(nd)
	return &accessor{
		rows: src.Rows(),
		cols: src.Cols(),
		kind: KindDynamic,
		read: func(row int, vals []float64, nodata []bool) error {
			for col := range vals {
				raw := src.Value(row, col)
				v, err := toFloat(raw)
				if err != nil {
					return fmt.Errorf("cell (%d, %d): %w", row, col, err)
				}
				vals[col] = v
				// float32 cells hold the sentinel rounded to float32.
				nodata[col] = v == nd || (isFloat32(raw) && float32(v) == nd32)
			}
			return nil
		},
	}
}

// isFloat32 reports whether a boxed value is stored as a float32.
func isFloat32(v any) bool {
	switch v.(type) {
	case float32:
		return true
	case float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, nil:
		return false
	}
	return reflect.ValueOf(v).Kind() == reflect.Float32
}

// toFloat unboxes a dynamic cell value.
func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case interface{ Float64() (float64, error) }:
		f, err := x.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnsupportedValue, err)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("%w: nil", ErrUnsupportedValue)
	}

	// Named numeric types, e.g. a Grid over type Meters float32.
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanFloat():
		return rv.Float(), nil
	case rv.CanInt():
		return float64(rv.Int()), nil
	case rv.CanUint():
		return float64(rv.Uint()), nil
	}
	return 0, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}
