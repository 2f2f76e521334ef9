package heightmap

import "math"

// GridPoint is the target for a single probe: no Z measured yet.
type GridPoint struct {
	X float64
	Y float64
}

// GridOptions selects how probe coordinates are laid over each axis.
type GridOptions struct {
	// Spacing is the distance between neighbour coordinates, used when UseSpacing is true.
	// Callers must pass a value > 0.
	Spacing float64
	// CountX / CountY are the number of coordinates per axis, used when UseSpacing is false.
	// Callers must pass values >= 2.
	CountX int
	CountY int
	// UseSpacing selects spacing mode over count mode.
	UseSpacing bool
}

// round3 rounds grid coordinates to 3 decimal places.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func axisCoordinatesCount(min, max float64, count int) []float64 {
	step := 0.0
	if count > 1 {
		step = (max - min) / float64(count-1)
	}
	coordinates := make([]float64, count)
	for i := range count {
		coordinates[i] = round3(min + float64(i)*step)
	}
	return coordinates
}

func axisCoordinatesSpacing(min, max, spacing float64) []float64 {
	steps := int(math.Ceil((max - min) / spacing))
	coordinates := make([]float64, 0, steps+1)
	for i := range steps + 1 {
		coordinates = append(coordinates, round3(math.Min(min+float64(i)*spacing, max)))
	}
	// The far edge must always be sampled.
	if coordinates[len(coordinates)-1] != round3(max) {
		coordinates = append(coordinates, round3(max))
	}
	return coordinates
}

// GenerateGrid produces the ordered probe targets covering bounds. Rows are emitted along
// increasing Y; within each row X alternates direction (ascending on even rows, descending on
// odd), so consecutive probes are always neighbours and travel between them is minimal.
func GenerateGrid(bounds Bounds, opts GridOptions) []GridPoint {
	var xs, ys []float64
	if opts.UseSpacing {
		xs = axisCoordinatesSpacing(bounds.MinX, bounds.MaxX, opts.Spacing)
		ys = axisCoordinatesSpacing(bounds.MinY, bounds.MaxY, opts.Spacing)
	} else {
		xs = axisCoordinatesCount(bounds.MinX, bounds.MaxX, opts.CountX)
		ys = axisCoordinatesCount(bounds.MinY, bounds.MaxY, opts.CountY)
	}

	points := make([]GridPoint, 0, len(xs)*len(ys))
	for row, y := range ys {
		if row%2 == 0 {
			for _, x := range xs {
				points = append(points, GridPoint{X: x, Y: y})
			}
		} else {
			for i := len(xs) - 1; i >= 0; i-- {
				points = append(points, GridPoint{X: xs[i], Y: y})
			}
		}
	}
	return points
}
