package main

import (
	"math"

	"github.com/gogpu/rastershade"
)

const (
	demNoData   = -9999
	demCellSize = 30 // meters
)

type hill struct {
	x, y, height, spread float64 // x, y and spread as fractions of the raster
}

var hills = []hill{
	{0.30, 0.35, 1900, 0.18},
	{0.70, 0.30, 1300, 0.12},
	{0.55, 0.75, 900, 0.20},
	{0.15, 0.80, 500, 0.10},
}

// syntheticDEM returns a north-up elevation model made of Gaussian hills
// with a circular lake of no-data cells.
func syntheticDEM(rows, cols int) *rastershade.Grid[float32] {
	data := make([]float32, rows*cols)
	scale := float64(max(rows, cols))
	lakeX, lakeY, lakeR := 0.82*float64(cols), 0.78*float64(rows), 0.08*scale

	for r := range rows {
		for c := range cols {
			x, y := float64(c), float64(r)
			if math.Hypot(x-lakeX, y-lakeY) < lakeR {
				data[r*cols+c] = demNoData
				continue
			}
			z := 0.0
			for _, h := range hills {
				dx := (x - h.x*float64(cols)) / scale
				dy := (y - h.y*float64(rows)) / scale
				z += h.height * math.Exp(-(dx*dx+dy*dy)/(2*h.spread*h.spread))
			}
			data[r*cols+c] = float32(z)
		}
	}

	aff := rastershade.NorthUp(500000, 4200000+float64(rows)*demCellSize, demCellSize, demCellSize)
	g, err := rastershade.NewGrid(rows, cols, data, demNoData, aff)
	if err != nil {
		panic(err)
	}
	return g
}
