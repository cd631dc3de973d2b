package warp

import (
	"context"
	"math"

	"github.com/litescript/ls-orbits/kepler"
)

// Grid holds the source coordinates for every pixel of an output image,
// stored row-major. Pixels the mapper rejects hold NaN.
type Grid struct {
	Width, Height int
	X, Y          []float64
	Failed        int
}

// At returns the source coordinates of output pixel (col, row). ok is false
// for pixels the mapper rejected.
func (g Grid) At(col, row int) (x, y float64, ok bool) {
	i := row*g.Width + col
	x, y = g.X[i], g.Y[i]
	return x, y, !math.IsNaN(x)
}

// MapGrid evaluates m over a width×height image whose primary sits at pixel
// (cx, cy). Pixel coordinates passed to m are relative to the primary, and
// the returned grid holds absolute image coordinates. workers <= 0 uses
// GOMAXPROCS.
func MapGrid(ctx context.Context, m Mapper, width, height int, cx, cy float64, workers int) (Grid, error) {
	n := width * height
	g := Grid{
		Width:  width,
		Height: height,
		X:      make([]float64, n),
		Y:      make([]float64, n),
	}
	if n == 0 {
		return g, nil
	}

	failed := make([]bool, n)
	kepler.ParallelRange(ctx, n, workers, func(i int) {
		col, row := i%width, i/width
		x, y, err := m.Apply(float64(col)-cx, float64(row)-cy)
		if err != nil {
			g.X[i], g.Y[i] = math.NaN(), math.NaN()
			failed[i] = true
			return
		}
		g.X[i], g.Y[i] = x+cx, y+cy
	})
	if err := ctx.Err(); err != nil {
		return g, err
	}

	for _, f := range failed {
		if f {
			g.Failed++
		}
	}
	return g, nil
}
