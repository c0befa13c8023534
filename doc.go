// Package rastershade renders numeric rasters into packed BGRA pixel
// buffers.
//
// # Overview
//
// A raster is a grid of numeric cells with a no-data sentinel and an affine
// transform to map coordinates. Rendering it takes three steps:
//
//  1. Classification: every cell value is matched against value ranges,
//     each filled with a flat color or a gradient between two colors.
//  2. Relief: optionally, a hillshade grid is computed from the raster
//     treated as elevation, and each classified color is darkened or
//     brightened by the cell's illumination.
//  3. Smoothing: optionally, hard edges between color bands are softened
//     in the finished buffer.
//
// # Quick Start
//
//	import "github.com/gogpu/rastershade"
//
//	dem, _ := rastershade.NewGrid(rows, cols, heights, -9999,
//	    rastershade.NorthUp(originX, originY, 30, 30))
//
//	sym, _ := rastershade.NewSymbolizer([]rastershade.Range{
//	    rastershade.NewRange(0, 500, rastershade.Gradient{
//	        Low:  rastershade.Hex("#2e7d32"),
//	        High: rastershade.Hex("#c8b560"),
//	    }),
//	    rastershade.NewRange(500, 3000, rastershade.Flat{Color: rastershade.White}),
//	})
//	sym.Relief.Used = true
//	sym.Relief.LightDirection = rastershade.LightForAffine(315, 45, dem.Affine())
//
//	buf := rastershade.NewPixelBuffer(cols, rows)
//	res, err := rastershade.Render(ctx, dem, sym, buf)
//
// # Cell Types
//
// Grid is generic over the Go numeric types (Number). Typed grids are read
// through a fast path; any other Source implementing DynamicSource is read
// one boxed value at a time.
//
// # Failure Policy
//
// Configuration errors are returned before any pixel is written. A failure
// while a render is in progress is logged, stops the remaining rows and is
// reported through Result, leaving the rows already written in place.
//
// # Logging
//
// The package is silent by default. Use SetLogger to route its slog output
// to an application logger.
package rastershade
